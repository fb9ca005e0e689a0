package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/idempotency"
	"github.com/syndic-console/reclamation-service/internal/repository"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

const scopeBulkCharges = "charges.bulk"

// BillingService generates and lists monthly charges.
type BillingService struct {
	charges   repository.ChargeRepository
	directory repository.DirectoryRepository
	tx        repository.TransactionManager
	guard     idempotency.Guard
	events    publisher
	location  *time.Location
	now       Clock
}

// BillingDependencies bundles collaborators for the billing service.
type BillingDependencies struct {
	ChargeRepo    repository.ChargeRepository
	DirectoryRepo repository.DirectoryRepository
	TxManager     repository.TransactionManager
	Guard         idempotency.Guard
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
	// Location decides which calendar day "today" is. Defaults to UTC.
	Location *time.Location
	Clock    Clock
}

// BulkChargeInput describes one building-wide billing run.
type BulkChargeInput struct {
	BuildingID     string
	Description    string
	Amount         decimal.Decimal
	DueDate        time.Time
	IdempotencyKey string
}

// NewBillingService constructs the service.
func NewBillingService(deps BillingDependencies) *BillingService {
	guard := deps.Guard
	if guard == nil {
		guard = idempotency.Noop()
	}
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	return &BillingService{
		charges:   deps.ChargeRepo,
		directory: deps.DirectoryRepo,
		tx:        deps.TxManager,
		guard:     guard,
		events:    publisher{dispatcher: deps.Dispatcher, logger: deps.Logger},
		location:  loc,
		now:       clockOrDefault(deps.Clock),
	}
}

// BulkCreateCharges creates one UNPAID charge per apartment of the building, or none at all.
func (s *BillingService) BulkCreateCharges(ctx context.Context, actor domain.Actor, input BulkChargeInput) (_ []domain.Charge, err error) {
	if err := requireSyndic(actor); err != nil {
		return nil, err
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, apperrors.NewValidationError("description required", map[string]any{"field": "description"})
	}
	if err := chargeAmount(input.Amount); err != nil {
		return nil, err
	}
	amount := input.Amount.Round(moneyScale)
	if input.DueDate.IsZero() {
		return nil, apperrors.NewValidationError("due_date required", map[string]any{"field": "due_date"})
	}
	now := s.now()
	due := calendarDay(input.DueDate, s.location)
	if due.Before(calendarDay(now, s.location)) {
		return nil, apperrors.NewValidationError("due date must not be in the past", map[string]any{
			"field": "due_date", "value": due.Format(time.DateOnly),
		})
	}

	if _, err := s.directory.GetBuilding(ctx, input.BuildingID); err != nil {
		if apperrors.Is(err, apperrors.CodeNotFound) {
			return nil, apperrors.NewValidationError("unknown building", map[string]any{"field": "building_id", "value": input.BuildingID})
		}
		return nil, err
	}
	apartments, err := s.directory.ListApartmentsByBuilding(ctx, input.BuildingID)
	if err != nil {
		return nil, err
	}
	if len(apartments) == 0 {
		return nil, apperrors.NewValidationError("building has no apartments", map[string]any{"building_id": input.BuildingID})
	}

	if err := s.guard.Acquire(ctx, scopeBulkCharges, input.IdempotencyKey); err != nil {
		return nil, err
	}
	defer releaseOnError(ctx, s.guard, s.events.logger, scopeBulkCharges, input.IdempotencyKey, &err)

	batch := make([]domain.Charge, 0, len(apartments))
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		for _, apt := range apartments {
			charge := domain.Charge{
				ID:              uuid.NewString(),
				ApartmentID:     apt.ID,
				ApartmentNumber: apt.Number,
				BuildingID:      apt.BuildingID,
				Description:     description,
				Amount:          amount,
				DueDate:         due,
				Status:          domain.ChargeStatusUnpaid,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			if err := s.charges.Create(txCtx, &charge); err != nil {
				return err
			}
			batch = append(batch, charge)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.publish(ctx, events.Event{
		Type:     events.EventChargesGenerated,
		EntityID: input.BuildingID,
		Actor:    events.ActorFrom(actor),
		Payload: events.ChargesGeneratedPayload{
			BuildingID: input.BuildingID,
			Count:      len(batch),
			Amount:     amount,
			DueDate:    due.Format(time.DateOnly),
		},
	})
	return batch, nil
}

// ListCharges lists charges. Residents only see their own apartment's.
func (s *BillingService) ListCharges(ctx context.Context, actor domain.Actor, filter repository.ChargeFilter) ([]domain.Charge, error) {
	if !actor.IsSyndic() {
		if actor.ApartmentID == nil {
			return []domain.Charge{}, nil
		}
		filter.ApartmentID = *actor.ApartmentID
		filter.BuildingID = ""
	}
	return s.charges.List(ctx, filter)
}

// calendarDay truncates t to midnight of its date in loc.
func calendarDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
