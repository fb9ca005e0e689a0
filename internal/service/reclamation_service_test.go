package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/query"
	"github.com/syndic-console/reclamation-service/internal/repository"
	"github.com/syndic-console/reclamation-service/internal/service"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

func ptr[T any](v T) *T { return &v }

func createLeak(t *testing.T, h *harness) *domain.Reclamation {
	t.Helper()
	rec, err := h.reclamations.Create(context.Background(), resident, service.ReclamationCreateInput{
		Title:       "Leak in bathroom",
		Content:     "Water under the sink since Monday",
		Priority:    domain.PriorityHigh,
		ApartmentID: aptA,
	})
	require.NoError(t, err)
	return rec
}

func TestReclamationFullLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)

	rec := createLeak(t, h)
	assert.Equal(t, domain.ReclamationStatusPending, rec.Status)
	assert.Equal(t, "1A", rec.ApartmentNumber)
	assert.Equal(t, "Residence Atlas", rec.BuildingName)

	history, err := h.reclamations.History(ctx, resident, rec.ID)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Nil(t, history[0].OldStatus)
	assert.Equal(t, "PENDING", history[0].NewStatus)

	h.clock.Advance(time.Hour)
	rec, err = h.reclamations.Transition(ctx, syndic, rec.ID, domain.ReclamationStatusInProgress, "looking into it")
	require.NoError(t, err)
	assert.Equal(t, domain.ReclamationStatusInProgress, rec.Status)

	h.clock.Advance(time.Hour)
	rec, err = h.reclamations.Respond(ctx, syndic, rec.ID, "Plumber scheduled", ptr(domain.ReclamationStatusResolved))
	require.NoError(t, err)
	assert.Equal(t, domain.ReclamationStatusResolved, rec.Status)
	require.NotNil(t, rec.Response)
	assert.Equal(t, "Plumber scheduled", *rec.Response)

	history, err = h.reclamations.History(ctx, syndic, rec.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, "IN_PROGRESS", *history[2].OldStatus)
	assert.Equal(t, "RESOLVED", history[2].NewStatus)
	assert.Equal(t, syndic.ID, history[2].ChangedBy)

	_, err = h.reclamations.Transition(ctx, syndic, rec.ID, domain.ReclamationStatusPending, "reopen")
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	stored, err := h.reclamations.Get(ctx, syndic, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReclamationStatusResolved, stored.Status)

	assert.Equal(t, []events.EventType{
		events.EventReclamationCreated,
		events.EventReclamationStatusChanged,
		events.EventReclamationResponded,
	}, h.events.types())
}

func TestCreateValidation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)

	cases := map[string]service.ReclamationCreateInput{
		"short title":     {Title: "ab", Content: "x", ApartmentID: aptA},
		"blank content":   {Title: "Broken door", Content: "  ", ApartmentID: aptA},
		"unknown apt":     {Title: "Broken door", Content: "x", ApartmentID: "nope"},
		"urgent resident": {Title: "Broken door", Content: "x", ApartmentID: aptA, Priority: domain.PriorityUrgent},
		"bad priority":    {Title: "Broken door", Content: "x", ApartmentID: aptA, Priority: "CRITICAL"},
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.reclamations.Create(ctx, resident, input)
			assert.True(t, apperrors.Is(err, apperrors.CodeValidation), "got %v", err)
		})
	}

	_, err := h.reclamations.Create(ctx, syndic, service.ReclamationCreateInput{Title: "Broken door", Content: "x", ApartmentID: aptA})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestCreateDefaultsToMediumPriority(t *testing.T) {
	h := newHarness(nil)
	rec, err := h.reclamations.Create(context.Background(), resident, service.ReclamationCreateInput{
		Title: "Noisy elevator", Content: "Squeaks at night", ApartmentID: aptA,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityMedium, rec.Priority)
}

func TestRespondRejectsBlankText(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	rec := createLeak(t, h)

	_, err := h.reclamations.Respond(ctx, syndic, rec.ID, "   ", nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeEmptyResponse))

	stored, err := h.reclamations.Get(ctx, syndic, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Response)
}

func TestRespondWithoutStatusChange(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	rec := createLeak(t, h)

	got, err := h.reclamations.Respond(ctx, syndic, rec.ID, "We will call you tomorrow", nil)
	require.NoError(t, err)
	assert.Equal(t, domain.ReclamationStatusPending, got.Status)

	got, err = h.reclamations.Respond(ctx, syndic, rec.ID, "Still on it", ptr(domain.ReclamationStatusPending))
	require.NoError(t, err)
	assert.Equal(t, "Still on it", *got.Response)

	history, err := h.reclamations.History(ctx, syndic, rec.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestRespondOnClosedReclamation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	rec := createLeak(t, h)
	_, err := h.reclamations.Transition(ctx, syndic, rec.ID, domain.ReclamationStatusRejected, "duplicate")
	require.NoError(t, err)

	_, err = h.reclamations.Respond(ctx, syndic, rec.ID, "Late answer", nil)
	assert.True(t, apperrors.Is(err, apperrors.CodeTerminal))
}

func TestRespondIsAtomicWhenHistoryWriteFails(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	rec := createLeak(t, h)
	h.store.SetFault(func(op string) error {
		if op == "history.append" {
			return errors.New("disk full")
		}
		return nil
	})

	_, err := h.reclamations.Respond(ctx, syndic, rec.ID, "Plumber scheduled", ptr(domain.ReclamationStatusResolved))
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavailable))

	h.store.SetFault(nil)
	stored, err := h.reclamations.Get(ctx, syndic, rec.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ReclamationStatusPending, stored.Status)
	assert.Nil(t, stored.Response)
}

func TestRespondWithInvalidOverrideLeavesNoResponse(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	rec := createLeak(t, h)
	_, err := h.reclamations.Transition(ctx, syndic, rec.ID, domain.ReclamationStatusInProgress, "")
	require.NoError(t, err)

	_, err = h.reclamations.Respond(ctx, syndic, rec.ID, "Back to the queue", ptr(domain.ReclamationStatusPending))
	assert.True(t, apperrors.Is(err, apperrors.CodeInvalidTransition))

	stored, err := h.reclamations.Get(ctx, syndic, rec.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Response)
	assert.Equal(t, domain.ReclamationStatusInProgress, stored.Status)
}

func TestTransitionRequiresSyndic(t *testing.T) {
	h := newHarness(nil)
	rec := createLeak(t, h)
	_, err := h.reclamations.Transition(context.Background(), resident, rec.ID, domain.ReclamationStatusResolved, "")
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestUpdateRules(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	rec := createLeak(t, h)

	h.clock.Advance(time.Minute)
	got, err := h.reclamations.Update(ctx, syndic, rec.ID, domain.ReclamationPatch{
		Priority:          ptr(domain.PriorityUrgent),
		ExpectedUpdatedAt: ptr(rec.UpdatedAt),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.PriorityUrgent, got.Priority)
	assert.True(t, got.UpdatedAt.After(rec.UpdatedAt))

	_, err = h.reclamations.Update(ctx, syndic, rec.ID, domain.ReclamationPatch{
		Title:             ptr("Leak fixed?"),
		ExpectedUpdatedAt: ptr(rec.UpdatedAt),
	})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict), "stale version must be refused")

	_, err = h.reclamations.Update(ctx, syndic, rec.ID, domain.ReclamationPatch{})
	assert.True(t, apperrors.Is(err, apperrors.CodeValidation))

	_, err = h.reclamations.Transition(ctx, syndic, rec.ID, domain.ReclamationStatusResolved, "")
	require.NoError(t, err)

	_, err = h.reclamations.Update(ctx, syndic, rec.ID, domain.ReclamationPatch{Priority: ptr(domain.PriorityLow)})
	assert.True(t, apperrors.Is(err, apperrors.CodeConflict))

	got, err = h.reclamations.Update(ctx, syndic, rec.ID, domain.ReclamationPatch{Title: ptr("Leak in main bathroom")})
	require.NoError(t, err)
	assert.Equal(t, "Leak in main bathroom", got.Title)
	assert.Equal(t, domain.ReclamationStatusResolved, got.Status)
}

func TestDeleteRemovesHistory(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	rec := createLeak(t, h)

	require.NoError(t, h.reclamations.Delete(ctx, syndic, rec.ID))

	_, err := h.reclamations.Get(ctx, syndic, rec.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
	entries, err := h.store.History().ListByEntity(ctx, domain.EntityReclamation, rec.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)

	err = h.reclamations.Delete(ctx, syndic, rec.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeNotFound))
}

func TestResidentsOnlySeeTheirOwn(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	mine := createLeak(t, h)
	_, err := h.reclamations.Create(ctx, neighbor, service.ReclamationCreateInput{
		Title: "Broken intercom", Content: "No sound", ApartmentID: aptB,
	})
	require.NoError(t, err)

	res, err := h.reclamations.List(ctx, resident, query.Filter{}, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, mine.ID, res.Items[0].ID)

	res, err = h.reclamations.List(ctx, syndic, query.Filter{}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Total)

	_, err = h.reclamations.Get(ctx, neighbor, mine.ID)
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}

func TestFilterAndStatistics(t *testing.T) {
	ctx := context.Background()
	h := newHarness(nil)
	titles := []string{"Leak in bathroom", "Broken intercom", "Noisy pipes", "Dark stairwell"}
	var ids []string
	for _, title := range titles {
		rec, err := h.reclamations.Create(ctx, resident, service.ReclamationCreateInput{
			Title: title, Content: "details", ApartmentID: aptA, Priority: domain.PriorityLow,
		})
		require.NoError(t, err)
		ids = append(ids, rec.ID)
		h.clock.Advance(24 * time.Hour)
	}
	_, err := h.reclamations.Transition(ctx, syndic, ids[1], domain.ReclamationStatusRejected, "duplicate")
	require.NoError(t, err)
	_, err = h.reclamations.Transition(ctx, syndic, ids[2], domain.ReclamationStatusInProgress, "")
	require.NoError(t, err)

	all, err := h.reclamations.List(ctx, syndic, query.Filter{}, repository.ListOptions{})
	require.NoError(t, err)
	assert.Len(t, all.Items, 4)

	page, err := h.reclamations.List(ctx, syndic, query.Filter{}, repository.ListOptions{Limit: 2, Offset: 1})
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, ids[1], page.Items[0].ID)

	rejected, err := h.reclamations.List(ctx, syndic, query.Filter{Status: "REJECTED"}, repository.ListOptions{})
	require.NoError(t, err)
	require.Len(t, rejected.Items, 1)
	assert.Equal(t, ids[1], rejected.Items[0].ID)

	stats, err := h.reclamations.Statistics(ctx, syndic, query.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 2, stats.Pending)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.Rejected)
	assert.Equal(t, stats.Total, stats.Pending+stats.InProgress+stats.Resolved+stats.Rejected)
	assert.Equal(t, 4, stats.ByPriority[domain.PriorityLow])
	assert.Equal(t, 0, stats.ByPriority[domain.PriorityUrgent])

	_, err = h.reclamations.Statistics(ctx, resident, query.Filter{})
	assert.True(t, apperrors.Is(err, apperrors.CodeForbidden))
}
