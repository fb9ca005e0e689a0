// Package worker hosts in-process subscribers to the event dispatcher.
package worker

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/syndic-console/reclamation-service/internal/events"
)

// ActivityLog writes an audit line for every lifecycle event and keeps the most recent ones in memory.
type ActivityLog struct {
	logger *zap.Logger
	limit  int

	mu     sync.Mutex
	recent []events.Event
}

// NewActivityLog creates the subscriber. limit bounds the in-memory backlog.
func NewActivityLog(logger *zap.Logger, limit int) *ActivityLog {
	if limit <= 0 {
		limit = 100
	}
	return &ActivityLog{logger: logger.Named("activity"), limit: limit}
}

// StartActivityLog subscribes the log to every event type.
func StartActivityLog(dispatcher events.Dispatcher, log *ActivityLog) {
	if dispatcher == nil || log == nil {
		return
	}
	for _, t := range events.AllTypes {
		dispatcher.Subscribe(t, log.handle)
	}
}

func (a *ActivityLog) handle(_ context.Context, event events.Event) error {
	a.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("entity_id", event.EntityID),
		zap.String("actor_id", event.Actor.ID),
		zap.String("actor_role", string(event.Actor.Role)),
		zap.Any("payload", event.Payload),
	)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.recent = append(a.recent, event)
	if over := len(a.recent) - a.limit; over > 0 {
		a.recent = append(a.recent[:0:0], a.recent[over:]...)
	}
	return nil
}

// Recent returns the retained events, oldest first.
func (a *ActivityLog) Recent() []events.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]events.Event(nil), a.recent...)
}
