package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/idempotency"
	"github.com/syndic-console/reclamation-service/internal/lifecycle"
	"github.com/syndic-console/reclamation-service/internal/repository"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

const (
	scopePaymentConfirm = "payments.confirm"
	scopePaymentReject  = "payments.reject"
)

// PaymentService handles declared payments and their review.
type PaymentService struct {
	payments repository.PaymentRepository
	charges  repository.ChargeRepository
	history  repository.HistoryRepository
	tx       repository.TransactionManager
	guard    idempotency.Guard
	events   publisher
	now      Clock
}

// PaymentDependencies bundles collaborators for the payment service.
type PaymentDependencies struct {
	PaymentRepo repository.PaymentRepository
	ChargeRepo  repository.ChargeRepository
	HistoryRepo repository.HistoryRepository
	TxManager   repository.TransactionManager
	Guard       idempotency.Guard
	Dispatcher  events.Dispatcher
	Logger      *zap.Logger
	Clock       Clock
}

// PaymentCreateInput describes a resident's declared payment. A zero Amount means the full charge amount.
type PaymentCreateInput struct {
	ChargeID string
	Amount   decimal.Decimal
	Method   string
}

// NewPaymentService constructs the service.
func NewPaymentService(deps PaymentDependencies) *PaymentService {
	guard := deps.Guard
	if guard == nil {
		guard = idempotency.Noop()
	}
	return &PaymentService{
		payments: deps.PaymentRepo,
		charges:  deps.ChargeRepo,
		history:  deps.HistoryRepo,
		tx:       deps.TxManager,
		guard:    guard,
		events:   publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		now:      clockOrDefault(deps.Clock),
	}
}

// Create declares a PENDING payment against an UNPAID charge of the resident's apartment.
func (s *PaymentService) Create(ctx context.Context, actor domain.Actor, input PaymentCreateInput) (*domain.Payment, error) {
	if err := requireResident(actor); err != nil {
		return nil, err
	}
	method := strings.TrimSpace(input.Method)
	if method == "" {
		return nil, apperrors.NewValidationError("method required", map[string]any{"field": "method"})
	}
	if input.Amount.IsNegative() {
		return nil, apperrors.NewValidationError("amount must be positive", map[string]any{"field": "amount"})
	}

	payment := &domain.Payment{ID: uuid.NewString(), PayerID: actor.ID, Method: method}
	var entry domain.HistoryEntry
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		charge, err := s.charges.GetByID(txCtx, input.ChargeID)
		if err != nil {
			if apperrors.Is(err, apperrors.CodeNotFound) {
				return apperrors.NewValidationError("unknown charge", map[string]any{"field": "charge_id", "value": input.ChargeID})
			}
			return err
		}
		if actor.ApartmentID == nil || *actor.ApartmentID != charge.ApartmentID {
			return apperrors.NewForbidden("charge belongs to another apartment")
		}
		if charge.Status != domain.ChargeStatusUnpaid {
			return apperrors.NewValidationError("charge already paid", map[string]any{"charge_id": charge.ID})
		}
		amount := input.Amount
		if amount.IsZero() {
			amount = charge.Amount
		}
		if !amount.Equal(charge.Amount) {
			return apperrors.NewValidationError("amount must match the charge", map[string]any{
				"field": "amount", "expected": charge.Amount.StringFixed(2),
			})
		}
		payment.ChargeID = charge.ID
		payment.ApartmentID = charge.ApartmentID
		payment.Amount = amount
		entry = lifecycle.OpenPayment(payment, actor, s.now())
		if err := s.payments.Create(txCtx, payment); err != nil {
			return err
		}
		return s.history.Append(txCtx, &entry)
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventPaymentCreated,
		EntityID: payment.ID,
		Actor:    events.ActorFrom(actor),
		Payload:  events.PaymentPayload{ChargeID: payment.ChargeID, Amount: payment.Amount},
	})
	return payment, nil
}

// Confirm accepts a PENDING payment and marks its charge PAID in the same unit of work.
func (s *PaymentService) Confirm(ctx context.Context, actor domain.Actor, id, idempotencyKey string) (payment *domain.Payment, err error) {
	if err := requireSyndic(actor); err != nil {
		return nil, err
	}
	if err := s.guard.Acquire(ctx, scopePaymentConfirm, idempotencyKey); err != nil {
		return nil, err
	}
	defer releaseOnError(ctx, s.guard, s.events.logger, scopePaymentConfirm, idempotencyKey, &err)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.payments.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := lifecycle.Payments.Check(current.Status, domain.PaymentStatusConfirmed); err != nil {
			return err
		}
		charge, err := s.charges.GetByID(txCtx, current.ChargeID)
		if err != nil {
			return err
		}
		if charge.Status == domain.ChargeStatusPaid {
			return apperrors.NewConflict("charge already paid", map[string]any{"charge_id": charge.ID})
		}
		now := s.now()
		entry, err := lifecycle.TransitionPayment(current, domain.PaymentStatusConfirmed, "", actor, now)
		if err != nil {
			return err
		}
		charge.Status = domain.ChargeStatusPaid
		charge.UpdatedAt = touch(charge.UpdatedAt, now)
		if err := s.payments.Update(txCtx, current); err != nil {
			return err
		}
		if err := s.charges.Update(txCtx, charge); err != nil {
			return err
		}
		if err := s.history.Append(txCtx, &entry); err != nil {
			return err
		}
		payment = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventPaymentConfirmed,
		EntityID: payment.ID,
		Actor:    events.ActorFrom(actor),
		Payload:  events.PaymentPayload{ChargeID: payment.ChargeID, Amount: payment.Amount},
	})
	return payment, nil
}

// Reject refuses a PENDING payment. The charge stays UNPAID.
func (s *PaymentService) Reject(ctx context.Context, actor domain.Actor, id, reason, idempotencyKey string) (payment *domain.Payment, err error) {
	if err := requireSyndic(actor); err != nil {
		return nil, err
	}
	reason = strings.TrimSpace(reason)
	if err := s.guard.Acquire(ctx, scopePaymentReject, idempotencyKey); err != nil {
		return nil, err
	}
	defer releaseOnError(ctx, s.guard, s.events.logger, scopePaymentReject, idempotencyKey, &err)

	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.payments.GetByID(txCtx, id)
		if err != nil {
			return err
		}
		entry, err := lifecycle.TransitionPayment(current, domain.PaymentStatusRejected, reason, actor, s.now())
		if err != nil {
			return err
		}
		if reason != "" {
			current.RejectionReason = &reason
		}
		if err := s.payments.Update(txCtx, current); err != nil {
			return err
		}
		if err := s.history.Append(txCtx, &entry); err != nil {
			return err
		}
		payment = current
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventPaymentRejected,
		EntityID: payment.ID,
		Actor:    events.ActorFrom(actor),
		Payload:  events.PaymentPayload{ChargeID: payment.ChargeID, Amount: payment.Amount, Reason: reason},
	})
	return payment, nil
}

// List lists payments. Residents only see their own.
func (s *PaymentService) List(ctx context.Context, actor domain.Actor, filter repository.PaymentFilter) ([]domain.Payment, error) {
	if !actor.IsSyndic() {
		filter.PayerID = actor.ID
	}
	return s.payments.List(ctx, filter)
}

// History returns the audit trail of a payment.
func (s *PaymentService) History(ctx context.Context, actor domain.Actor, id string) ([]domain.HistoryEntry, error) {
	payment, err := s.payments.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsSyndic() && payment.PayerID != actor.ID {
		return nil, apperrors.NewForbidden("access denied")
	}
	return s.history.ListByEntity(ctx, domain.EntityPayment, id)
}
