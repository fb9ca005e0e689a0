package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/syndic-console/reclamation-service/internal/domain"
	"github.com/syndic-console/reclamation-service/internal/events"
	"github.com/syndic-console/reclamation-service/internal/idempotency"
	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return time.Now
	}
	return c
}

// publisher emits events after a unit of work has committed. Handler failures are logged, never returned.
type publisher struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

func (p publisher) publish(ctx context.Context, event events.Event) {
	if p.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if err := p.dispatcher.Publish(ctx, event); err != nil && p.logger != nil {
		p.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}

func requireSyndic(actor domain.Actor) error {
	if !actor.IsSyndic() {
		return apperrors.NewForbidden("syndic role required")
	}
	return nil
}

func requireResident(actor domain.Actor) error {
	if actor.Role != domain.RoleResident {
		return apperrors.NewForbidden("resident role required")
	}
	return nil
}

// touch refreshes updated_at without letting it move backwards.
func touch(current, now time.Time) time.Time {
	if now.Before(current) {
		return current
	}
	return now
}

func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	if utf8.RuneCountInString(body) <= max {
		return body
	}
	runes := []rune(body)
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}

// releaseOnError frees an idempotency key when the guarded operation failed.
func releaseOnError(ctx context.Context, guard idempotency.Guard, logger *zap.Logger, scope, key string, err *error) {
	if *err == nil {
		return
	}
	if rerr := guard.Release(context.WithoutCancel(ctx), scope, key); rerr != nil && logger != nil {
		logger.Warn("idempotency release failed", zap.String("scope", scope), zap.Error(rerr))
	}
}
