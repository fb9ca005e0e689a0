package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/service"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

func marchCharges() service.BulkChargeInput {
	return service.BulkChargeInput{
		BuildingID:  "bld-1",
		Description: "March maintenance",
		Amount:      decimal.RequireFromString("350.00"),
		DueDate:     time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestBulkCreateChargesCreatesOnePerApartment(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)

	created, err := h.billing.BulkCreateCharges(ctx, syndic, marchCharges())
	require.NoError(t, err)
	require.Len(t, created, 3)
	for _, c := range created {
		assert.Equal(t, domain.ChargeStatusUnpaid, c.Status)
		assert.True(t, c.Amount.Equal(decimal.NewFromInt(350)))
		assert.Equal(t, "bld-1", c.BuildingID)
	}

	stored, err := h.billing.ListCharges(ctx, syndic, repository.ChargeFilter{BuildingID: "bld-1"})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	assert.Equal(t, []events.EventType{events.EventChargesGenerated}, h.events.types())
}

func TestBulkCreateChargesIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	writes := 0
	h.store.SetFault(func(op string) error {
		if op != "charges.create" {
			return nil
		}
		writes++
		if writes == 3 {
			return errors.New("write failed")
		}
		return nil
	})

	_, err := h.billing.BulkCreateCharges(ctx, syndic, marchCharges())
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavailable))

	stored, err := h.billing.ListCharges(ctx, syndic, repository.ChargeFilter{})
	require.NoError(t, err)
	assert.Empty(t, stored)
	assert.Empty(t, h.events.types())
}

func TestBulkCreateChargesValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)

	past := marchCharges()
	past.DueDate = time.Date(2024, time.March, 9, 0, 0, 0, 0, time.UTC)
	today := marchCharges()
	today.DueDate = time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC)
	noAmount := marchCharges()
	noAmount.Amount = decimal.Zero
	fractionalCents := marchCharges()
	fractionalCents.Amount = decimal.RequireFromString("350.005")
	tooLarge := marchCharges()
	tooLarge.Amount = decimal.RequireFromString("10000000000")
	noDescription := marchCharges()
	noDescription.Description = " "
	unknown := marchCharges()
	unknown.BuildingID = "bld-404"
	empty := marchCharges()
	empty.BuildingID = "bld-empty"

	for name, input := range map[string]service.BulkChargeInput{
		"past due date":     past,
		"zero amount":       noAmount,
		"fractional cents":  fractionalCents,
		"amount too large":  tooLarge,
		"blank description": noDescription,
		"unknown building":  unknown,
		"no apartments":     empty,
	} {
		t.Run(name, func(t *testing.T) {
			_, err := h.billing.BulkCreateCharges(ctx, syndic, input)
			assert.True(t, apperrors.Is(err, apperrors.CodeValidation), "got %v", err)
		})
	}

	charges, err := h.store.Charges().List(ctx, repository.ChargeFilter{})
	require.NoError(t, err)
	assert.Empty(t, charges)

	today.Amount = decimal.RequireFromString("350.000")
	created, err := h.billing.BulkCreateCharges(ctx, syndic, today)
	require.NoError(t, err)
	assert.Len(t, created, 3)
	assert.Equal(t, int32(-2), created[0].Amount.Exponent())

	_, err = h.billing.BulkCreateCharges(ctx, resident, marchCharges())
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestBulkCreateChargesUsesConfiguredDay(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	h := newHarness(nil)
	// 23:30 UTC on March 10 is already March 11 two hours east.
	h.clock.Advance(14*time.Hour + 30*time.Minute)
	billing := service.NewBillingService(service.BillingDependencies{
		ChargeRepo:    h.store.Charges(),
		DirectoryRepo: h.store.Directory(),
		TxManager:     h.store,
		Location:      loc,
		Clock:         h.clock.Now,
	})

	input := marchCharges()
	input.DueDate = time.Date(2024, time.March, 10, 0, 0, 0, 0, loc)
	_, err := billing.BulkCreateCharges(context.Background(), syndic, input)
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestBulkCreateChargesIdempotency(t *testing.T) {
	ctx := context.Background()
	guard := &guardMock{}
	h := newHarness(guard)

	input := marchCharges()
	input.IdempotencyKey = "run-1"
	guard.On("Acquire", mock.Anything, "charges.bulk", "run-1").Return(nil).Once()
	guard.On("Acquire", mock.Anything, "charges.bulk", "run-1").
		Return(apperrors.NewConflict("request already processed", nil)).Once()

	_, err := h.billing.BulkCreateCharges(ctx, syndic, input)
	require.NoError(t, err)
	_, err = h.billing.BulkCreateCharges(ctx, syndic, input)
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	stored, err := h.billing.ListCharges(ctx, syndic, repository.ChargeFilter{})
	require.NoError(t, err)
	assert.Len(t, stored, 3)
	guard.AssertExpectations(t)
	guard.AssertNotCalled(t, "Release", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkCreateChargesReleasesKeyOnFailure(t *testing.T) {
	ctx := context.Background()
	guard := &guardMock{}
	h := newHarness(guard)
	h.store.SetFault(func(op string) error {
		if op == "charges.create" {
			return errors.New("write failed")
		}
		return nil
	})

	input := marchCharges()
	input.IdempotencyKey = "run-2"
	guard.On("Acquire", mock.Anything, "charges.bulk", "run-2").Return(nil)
	guard.On("Release", mock.Anything, "charges.bulk", "run-2").Return(nil)

	_, err := h.billing.BulkCreateCharges(ctx, syndic, input)
	require.Error(t, err)
	guard.AssertExpectations(t)
}

func TestListChargesScopesResidents(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	_, err := h.billing.BulkCreateCharges(ctx, syndic, marchCharges())
	require.NoError(t, err)

	mine, err := h.billing.ListCharges(ctx, resident, repository.ChargeFilter{ApartmentID: aptB})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, aptA, mine[0].ApartmentID)

	none, err := h.billing.ListCharges(ctx, domain.Actor{ID: "guest", Role: domain.RoleResident}, repository.ChargeFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}
