package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/query"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/repository/memory"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

func TestRunInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	boom := errors.New("boom")

	err := store.RunInTx(ctx, func(txCtx context.Context) error {
		require.NoError(t, store.Charges().Create(txCtx, &domain.Charge{ID: "c1"}))
		require.NoError(t, store.Reclamations().Create(txCtx, &domain.Reclamation{ID: "r1"}))
		return boom
	})

	assert.ErrorIs(t, err, boom)
	charges, err := store.Charges().List(ctx, repository.ChargeFilter{})
	require.NoError(t, err)
	assert.Empty(t, charges)
	_, err = store.Reclamations().GetByID(ctx, "r1")
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestRunInTxCommits(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()

	err := store.RunInTx(ctx, func(txCtx context.Context) error {
		return store.RunInTx(txCtx, func(inner context.Context) error {
			return store.Charges().Create(inner, &domain.Charge{ID: "c1"})
		})
	})

	require.NoError(t, err)
	got, err := store.Charges().GetByID(ctx, "c1")
	require.NoError(t, err)
	assert.Equal(t, "c1", got.ID)
}

func TestFaultSurfacesAsServiceUnavailable(t *testing.T) {
	store := memory.NewStore()
	store.SetFault(func(op string) error {
		if op == "payments.create" {
			return errors.New("disk full")
		}
		return nil
	})

	err := store.Payments().Create(context.Background(), &domain.Payment{ID: "p1"})

	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavailable))
}

func TestReclamationListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a", "c"} {
		require.NoError(t, store.Reclamations().Create(ctx, &domain.Reclamation{
			ID: id, Status: domain.ReclamationStatusPending, CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	items, total, err := store.Reclamations().List(ctx, query.Filter{}, repository.ListOptions{Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 2)
	assert.Equal(t, "b", items[0].ID)
	assert.Equal(t, "a", items[1].ID)
}

func TestReturnedRecordsAreCopies(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	require.NoError(t, store.Reclamations().Create(ctx, &domain.Reclamation{ID: "r1", Title: "original"}))

	got, err := store.Reclamations().GetByID(ctx, "r1")
	require.NoError(t, err)
	got.Title = "mutated"

	again, err := store.Reclamations().GetByID(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "original", again.Title)
}

func TestDirectoryListsBuildingApartments(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	store.AddBuilding(domain.Building{ID: "b1", Name: "Residence Atlas"})
	store.AddApartment(domain.Apartment{ID: "a2", Number: "2", BuildingID: "b1"})
	store.AddApartment(domain.Apartment{ID: "a1", Number: "1", BuildingID: "b1"})
	store.AddApartment(domain.Apartment{ID: "x", Number: "1", BuildingID: "b2"})

	apartments, err := store.Directory().ListApartmentsByBuilding(ctx, "b1")

	require.NoError(t, err)
	require.Len(t, apartments, 2)
	assert.Equal(t, "a1", apartments[0].ID)
	assert.Equal(t, "Residence Atlas", apartments[0].BuildingName)
}
