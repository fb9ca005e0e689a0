package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/service"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

func chargeFor(t *testing.T, h *harness, apartmentID string) domain.Charge {
	t.Helper()
	created, err := h.billing.BulkCreateCharges(context.Background(), syndic, marchCharges())
	require.NoError(t, err)
	for _, c := range created {
		if c.ApartmentID == apartmentID {
			return c
		}
	}
	t.Fatalf("no charge for %s", apartmentID)
	return domain.Charge{}
}

func TestPaymentConfirmMarksChargePaid(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	charge := chargeFor(t, h, aptA)

	payment, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "transfer"})
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, payment.Status)
	assert.True(t, payment.Amount.Equal(charge.Amount))

	confirmed, err := h.payments.Confirm(ctx, syndic, payment.ID, "")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusConfirmed, confirmed.Status)

	stored, err := h.store.Charges().GetByID(ctx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChargeStatusPaid, stored.Status)

	history, err := h.payments.History(ctx, resident, payment.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "CONFIRMED", history[1].NewStatus)

	_, err = h.payments.Reject(ctx, syndic, payment.ID, "too late", "")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
}

func TestPaymentReject(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	charge := chargeFor(t, h, aptA)
	payment, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "cash"})
	require.NoError(t, err)

	rejected, err := h.payments.Reject(ctx, syndic, payment.ID, "receipt unreadable", "")
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "receipt unreadable", *rejected.RejectionReason)

	stored, err := h.store.Charges().GetByID(ctx, charge.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ChargeStatusUnpaid, stored.Status)

	_, err = h.payments.Confirm(ctx, syndic, payment.ID, "")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))
}

func TestPaymentCreateRules(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	charge := chargeFor(t, h, aptA)

	_, err := h.payments.Create(ctx, neighbor, service.PaymentCreateInput{ChargeID: charge.ID, Method: "cash"})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))

	_, err = h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: "missing", Method: "cash"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: ""})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = h.payments.Create(ctx, resident, service.PaymentCreateInput{
		ChargeID: charge.ID, Method: "cash", Amount: decimal.NewFromInt(10),
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = h.payments.Create(ctx, syndic, service.PaymentCreateInput{ChargeID: charge.ID, Method: "cash"})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestSecondConfirmOnPaidChargeConflicts(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	charge := chargeFor(t, h, aptA)
	first, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "cash"})
	require.NoError(t, err)
	second, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "transfer"})
	require.NoError(t, err)

	_, err = h.payments.Confirm(ctx, syndic, first.ID, "")
	require.NoError(t, err)
	_, err = h.payments.Confirm(ctx, syndic, second.ID, "")
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	_, err = h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "cash"})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))
}

func TestConfirmOnClosedPaymentIsInvalidTransition(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	charge := chargeFor(t, h, aptA)
	paid, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "cash"})
	require.NoError(t, err)
	refused, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "transfer"})
	require.NoError(t, err)
	_, err = h.payments.Reject(ctx, syndic, refused.ID, "wrong reference", "")
	require.NoError(t, err)
	_, err = h.payments.Confirm(ctx, syndic, paid.ID, "")
	require.NoError(t, err)

	_, againErr := h.payments.Confirm(ctx, syndic, paid.ID, "")
	_, rejectedErr := h.payments.Confirm(ctx, syndic, refused.ID, "")

	assert.True(t, apperrors.Is(againErr, apperrors.CodeInvalidTransition), "got %v", againErr)
	assert.True(t, apperrors.Is(rejectedErr, apperrors.CodeInvalidTransition), "got %v", rejectedErr)
	history, err := h.payments.History(ctx, syndic, paid.ID)
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestConfirmIsAtomic(t *testing.T) {
	ctx := context.Background()
	guard := &guardMock{}
	h := newHarness(guard)
	guard.On("Acquire", mock.Anything, mock.Anything, mock.Anything).Return(nil)
	guard.On("Release", mock.Anything, "payments.confirm", "confirm-1").Return(nil).Once()

	charge := chargeFor(t, h, aptA)
	payment, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: charge.ID, Method: "cash"})
	require.NoError(t, err)
	h.store.SetFault(func(op string) error {
		if op == "charges.update" {
			return errors.New("lock timeout")
		}
		return nil
	})

	_, err = h.payments.Confirm(ctx, syndic, payment.ID, "confirm-1")
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavailable))

	h.store.SetFault(nil)
	stored, err := h.store.Payments().GetByID(ctx, payment.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PaymentStatusPending, stored.Status)
	guard.AssertExpectations(t)
}

func TestListPaymentsScopesResidents(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	mine, err := h.payments.Create(ctx, resident, service.PaymentCreateInput{ChargeID: chargeFor(t, h, aptA).ID, Method: "cash"})
	require.NoError(t, err)
	theirs, err := h.payments.Create(ctx, neighbor, service.PaymentCreateInput{ChargeID: chargeFor(t, h, aptB).ID, Method: "cash"})
	require.NoError(t, err)

	got, err := h.payments.List(ctx, resident, repository.PaymentFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mine.ID, got[0].ID)

	got, err = h.payments.List(ctx, syndic, repository.PaymentFilter{Status: domain.PaymentStatusPending})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	_, err = h.payments.History(ctx, resident, theirs.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}
