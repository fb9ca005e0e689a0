package lifecycle

import (
	"time"

	"github.com/google/uuid"

	"github.com/syndic-console/reclamation-service/internal/domain"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// Reclamations is the complaint status graph.
var Reclamations = NewMachine(domain.ReclamationStatusPending, map[domain.ReclamationStatus][]domain.ReclamationStatus{
	domain.ReclamationStatusPending:    {domain.ReclamationStatusInProgress, domain.ReclamationStatusResolved, domain.ReclamationStatusRejected},
	domain.ReclamationStatusInProgress: {domain.ReclamationStatusResolved, domain.ReclamationStatusRejected},
	domain.ReclamationStatusResolved:   {},
	domain.ReclamationStatusRejected:   {},
})

// IsClosed reports whether the reclamation is RESOLVED or REJECTED.
func IsClosed(r *domain.Reclamation) bool {
	return Reclamations.IsTerminal(r.Status)
}

// OpenReclamation stamps a new reclamation with the initial status and returns its first history entry.
func OpenReclamation(r *domain.Reclamation, actor domain.Actor, now time.Time) domain.HistoryEntry {
	r.Status = Reclamations.Initial()
	r.CreatedAt = now
	r.UpdatedAt = now
	return newEntry(domain.EntityReclamation, r.ID, nil, string(r.Status), "", actor, now)
}

// TransitionReclamation moves r to next, refreshing UpdatedAt, and returns the history entry to append.
// r is left unchanged when the transition is refused.
func TransitionReclamation(r *domain.Reclamation, next domain.ReclamationStatus, comment string, actor domain.Actor, now time.Time) (domain.HistoryEntry, error) {
	if !next.Valid() {
		return domain.HistoryEntry{}, apperrors.NewValidationError("unknown status", map[string]any{"status": next})
	}
	if err := Reclamations.Check(r.Status, next); err != nil {
		return domain.HistoryEntry{}, err
	}
	old := string(r.Status)
	r.Status = next
	r.UpdatedAt = laterOf(r.UpdatedAt, now)
	return newEntry(domain.EntityReclamation, r.ID, &old, string(next), comment, actor, r.UpdatedAt), nil
}

func newEntry(entity domain.EntityType, id string, old *string, next, comment string, actor domain.Actor, at time.Time) domain.HistoryEntry {
	return domain.HistoryEntry{
		ID:         uuid.NewString(),
		EntityType: entity,
		EntityID:   id,
		OldStatus:  old,
		NewStatus:  next,
		Comment:    comment,
		ChangedBy:  actor.ID,
		ChangedAt:  at,
	}
}

// laterOf keeps UpdatedAt monotonic when the clock steps backwards.
func laterOf(current, now time.Time) time.Time {
	if now.Before(current) {
		return current
	}
	return now
}
