package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/lifecycle"
	"github.com/syndic-console/reclamation-service/internal/query"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/stats"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// ReclamationService coordinates reclamation workflows.
type ReclamationService struct {
	reclamations repository.ReclamationRepository
	history      repository.HistoryRepository
	directory    repository.DirectoryRepository
	tx           repository.TransactionManager
	events       publisher
	rules        Rules
	now          Clock
}

// ReclamationDependencies bundles collaborators for the reclamation service.
type ReclamationDependencies struct {
	ReclamationRepo repository.ReclamationRepository
	HistoryRepo     repository.HistoryRepository
	DirectoryRepo   repository.DirectoryRepository
	TxManager       repository.TransactionManager
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
	Rules           Rules
	Clock           Clock
}

// ReclamationCreateInput describes a resident's complaint.
type ReclamationCreateInput struct {
	Title       string
	Content     string
	Priority    domain.Priority
	ApartmentID string
}

// ReclamationListResult is one page of reclamations plus the unpaginated match count.
type ReclamationListResult struct {
	Items []domain.Reclamation
	Total int
}

// NewReclamationService constructs the service.
func NewReclamationService(deps ReclamationDependencies) *ReclamationService {
	rules := deps.Rules
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	return &ReclamationService{
		reclamations: deps.ReclamationRepo,
		history:      deps.HistoryRepo,
		directory:    deps.DirectoryRepo,
		tx:           deps.TxManager,
		events:       publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		rules:        rules,
		now:          clockOrDefault(deps.Clock),
	}
}

// Create files a new reclamation in PENDING status.
func (s *ReclamationService) Create(ctx context.Context, actor domain.Actor, input ReclamationCreateInput) (*domain.Reclamation, error) {
	if err := requireResident(actor); err != nil {
		return nil, err
	}
	title, err := s.rules.title(input.Title)
	if err != nil {
		return nil, err
	}
	content, err := s.rules.content(input.Content)
	if err != nil {
		return nil, err
	}
	priority, err := priorityFor(actor, input.Priority)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.ApartmentID) == "" {
		return nil, apperrors.NewValidationError("apartment_id required", map[string]any{"field": "apartment_id"})
	}
	apartment, err := s.directory.GetApartment(ctx, input.ApartmentID)
	if err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewValidationError("unknown apartment", map[string]any{"field": "apartment_id", "value": input.ApartmentID})
		}
		return nil, err
	}

	rec := &domain.Reclamation{
		ID:              uuid.NewString(),
		Title:           title,
		Content:         content,
		Priority:        priority,
		SubmitterID:     actor.ID,
		SubmitterName:   actor.Name,
		ApartmentID:     apartment.ID,
		ApartmentNumber: apartment.Number,
		BuildingID:      apartment.BuildingID,
		BuildingName:    apartment.BuildingName,
	}
	entry := lifecycle.OpenReclamation(rec, actor, s.now())

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.reclamations.Create(txCtx, rec); err != nil {
			return err
		}
		return s.history.Append(txCtx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventReclamationCreated,
		EntityID: rec.ID,
		Actor:    events.ActorFrom(actor),
		Payload: events.ReclamationCreatedPayload{
			BuildingID:  rec.BuildingID,
			ApartmentID: rec.ApartmentID,
			Priority:    rec.Priority,
			Title:       rec.Title,
		},
	})
	return rec, nil
}

// Get fetches one reclamation. Residents may only read their own.
func (s *ReclamationService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.Reclamation, error) {
	rec, err := s.reclamations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canRead(actor, rec) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return rec, nil
}

// List returns reclamations matching filter. Residents are scoped to their own submissions.
func (s *ReclamationService) List(ctx context.Context, actor domain.Actor, filter query.Filter, opts repository.ListOptions) (ReclamationListResult, error) {
	if !actor.IsSyndic() {
		filter.SubmitterID = actor.ID
	}
	items, total, err := s.reclamations.List(ctx, filter, opts)
	if err != nil {
		return ReclamationListResult{}, err
	}
	return ReclamationListResult{Items: items, Total: total}, nil
}

// Update edits title, content or priority. Priority is frozen once the reclamation is closed.
func (s *ReclamationService) Update(ctx context.Context, actor domain.Actor, id string, patch domain.ReclamationPatch) (*domain.Reclamation, error) {
	if err := requireSyndic(actor); err != nil {
		return nil, err
	}
	if patch.Empty() {
		return nil, apperrors.NewValidationError("nothing to update", nil)
	}
	if patch.Title != nil {
		title, err := s.rules.title(*patch.Title)
		if err != nil {
			return nil, err
		}
		patch.Title = &title
	}
	if patch.Content != nil {
		content, err := s.rules.content(*patch.Content)
		if err != nil {
			return nil, err
		}
		patch.Content = &content
	}
	if patch.Priority != nil {
		priority, err := priorityFor(actor, *patch.Priority)
		if err != nil {
			return nil, err
		}
		patch.Priority = &priority
	}

	var rec *domain.Reclamation
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.reclamations.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if patch.ExpectedUpdatedAt != nil && !patch.ExpectedUpdatedAt.Equal(current.UpdatedAt) {
			return apperrors.NewConflict("reclamation was modified concurrently", map[string]any{
				"id": id, "updated_at": current.UpdatedAt,
			})
		}
		if lifecycle.IsClosed(current) && patch.TouchesProtected() {
			return apperrors.NewConflict("priority is read-only on closed reclamations", map[string]any{
				"id": id, "status": current.Status,
			})
		}
		if patch.Title != nil {
			current.Title = *patch.Title
		}
		if patch.Content != nil {
			current.Content = *patch.Content
		}
		if patch.Priority != nil {
			current.Priority = *patch.Priority
		}
		current.UpdatedAt = touch(current.UpdatedAt, s.now())
		if err := s.reclamations.Update(txCtx, current); err != nil {
			return err
		}
		rec = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventReclamationUpdated,
		EntityID: rec.ID,
		Actor:    events.ActorFrom(actor),
	})
	return rec, nil
}

// Delete removes a reclamation and its history. Irreversible.
func (s *ReclamationService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := requireSyndic(actor); err != nil {
		return err
	}
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.history.DeleteByEntity(txCtx, domain.EntityReclamation, id); err != nil {
			return err
		}
		return s.reclamations.Delete(txCtx, id)
	})
	if err != nil {
		return err
	}
	s.events.publish(ctx, events.Event{
		Type:     events.EventReclamationDeleted,
		EntityID: id,
		Actor:    events.ActorFrom(actor),
	})
	return nil
}

// Transition moves a reclamation to next through the lifecycle engine.
func (s *ReclamationService) Transition(ctx context.Context, actor domain.Actor, id string, next domain.ReclamationStatus, comment string) (*domain.Reclamation, error) {
	if err := requireSyndic(actor); err != nil {
		return nil, err
	}
	comment = strings.TrimSpace(comment)

	var (
		rec   *domain.Reclamation
		entry domain.HistoryEntry
	)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.reclamations.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		entry, err = lifecycle.TransitionReclamation(current, next, comment, actor, s.now())
		if err != nil {
			return err
		}
		if err := s.reclamations.Update(txCtx, current); err != nil {
			return err
		}
		if err := s.history.Append(txCtx, &entry); err != nil {
			return err
		}
		rec = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventReclamationStatusChanged,
		EntityID: rec.ID,
		Actor:    events.ActorFrom(actor),
		Payload: events.StatusChangedPayload{
			OldStatus: *entry.OldStatus,
			NewStatus: entry.NewStatus,
			Comment:   comment,
		},
	})
	return rec, nil
}

// Respond records a management response, optionally closing or advancing the reclamation in the
// same unit of work. An override equal to the current status records the response only.
func (s *ReclamationService) Respond(ctx context.Context, actor domain.Actor, id, text string, statusOverride *domain.ReclamationStatus) (*domain.Reclamation, error) {
	if err := requireSyndic(actor); err != nil {
		return nil, err
	}
	text, err := s.rules.response(text)
	if err != nil {
		return nil, err
	}

	var (
		rec   *domain.Reclamation
		entry *domain.HistoryEntry
	)
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.reclamations.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if lifecycle.IsClosed(current) {
			return apperrors.NewTerminal("reclamation", string(current.Status))
		}
		now := s.now()
		current.Response = &text
		current.UpdatedAt = touch(current.UpdatedAt, now)
		if statusOverride != nil && *statusOverride != current.Status {
			e, err := lifecycle.TransitionReclamation(current, *statusOverride, text, actor, now)
			if err != nil {
				return err
			}
			entry = &e
		}
		if err := s.reclamations.Update(txCtx, current); err != nil {
			return err
		}
		if entry != nil {
			if err := s.history.Append(txCtx, entry); err != nil {
				return err
			}
		}
		rec = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	payload := events.RespondedPayload{Preview: stringPreview(text, 120)}
	if entry != nil {
		payload.NewStatus = &entry.NewStatus
	}
	s.events.publish(ctx, events.Event{
		Type:     events.EventReclamationResponded,
		EntityID: rec.ID,
		Actor:    events.ActorFrom(actor),
		Payload:  payload,
	})
	return rec, nil
}

// History returns the status trail of a reclamation, oldest first.
func (s *ReclamationService) History(ctx context.Context, actor domain.Actor, id string) ([]domain.HistoryEntry, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}
	return s.history.ListByEntity(ctx, domain.EntityReclamation, id)
}

// Statistics aggregates every reclamation matching scope.
func (s *ReclamationService) Statistics(ctx context.Context, actor domain.Actor, scope query.Filter) (domain.ReclamationStatistics, error) {
	if err := requireSyndic(actor); err != nil {
		return domain.ReclamationStatistics{}, err
	}
	items, _, err := s.reclamations.List(ctx, scope, repository.ListOptions{})
	if err != nil {
		return domain.ReclamationStatistics{}, err
	}
	return stats.Aggregate(items), nil
}

func canRead(actor domain.Actor, rec *domain.Reclamation) bool {
	return actor.IsSyndic() || rec.SubmitterID == actor.ID
}
