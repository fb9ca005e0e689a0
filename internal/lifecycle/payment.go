package lifecycle

import (
	"time"

	"github.com/syndic-console/reclamation-service/internal/domain"
)

// Payments is the two-outcome confirmation graph.
var Payments = NewMachine(domain.PaymentStatusPending, map[domain.PaymentStatus][]domain.PaymentStatus{
	domain.PaymentStatusPending:   {domain.PaymentStatusConfirmed, domain.PaymentStatusRejected},
	domain.PaymentStatusConfirmed: {},
	domain.PaymentStatusRejected:  {},
})

// OpenPayment stamps a new payment as PENDING and returns its first history entry.
func OpenPayment(p *domain.Payment, actor domain.Actor, now time.Time) domain.HistoryEntry {
	p.Status = Payments.Initial()
	p.CreatedAt = now
	p.UpdatedAt = now
	return newEntry(domain.EntityPayment, p.ID, nil, string(p.Status), "", actor, now)
}

// TransitionPayment moves p to next and returns the history entry to append.
func TransitionPayment(p *domain.Payment, next domain.PaymentStatus, comment string, actor domain.Actor, now time.Time) (domain.HistoryEntry, error) {
	if err := Payments.Check(p.Status, next); err != nil {
		return domain.HistoryEntry{}, err
	}
	old := string(p.Status)
	p.Status = next
	p.UpdatedAt = laterOf(p.UpdatedAt, now)
	return newEntry(domain.EntityPayment, p.ID, &old, string(next), comment, actor, p.UpdatedAt), nil
}
