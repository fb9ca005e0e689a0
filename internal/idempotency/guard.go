// Package idempotency rejects replays of non-repeatable writes keyed by a client token.
package idempotency

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/syndic-console/reclamation-service/pkg/errorutil"
)

// Guard reserves idempotency keys. An empty key is never reserved.
type Guard interface {
	// Acquire reserves key within scope, failing with CONFLICT when it is already held.
	Acquire(ctx context.Context, scope, key string) error
	// Release frees the key so a failed operation can be retried.
	Release(ctx context.Context, scope, key string) error
}

type redisGuard struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisGuard stores reservations as SETNX keys expiring after ttl.
func NewRedisGuard(client *redis.Client, ttl time.Duration) Guard {
	return &redisGuard{client: client, ttl: ttl, prefix: "idem:"}
}

func (g *redisGuard) Acquire(ctx context.Context, scope, key string) error {
	if key == "" {
		return nil
	}
	ok, err := g.client.SetNX(ctx, g.key(scope, key), time.Now().UTC().Format(time.RFC3339), g.ttl).Result()
	if err != nil {
		return apperrors.NewServiceUnavailable(err)
	}
	if !ok {
		return apperrors.NewConflict("request already processed", map[string]any{"idempotency_key": key})
	}
	return nil
}

func (g *redisGuard) Release(ctx context.Context, scope, key string) error {
	if key == "" {
		return nil
	}
	if err := g.client.Del(ctx, g.key(scope, key)).Err(); err != nil {
		return apperrors.NewServiceUnavailable(err)
	}
	return nil
}

func (g *redisGuard) key(scope, key string) string {
	return g.prefix + scope + ":" + key
}

type noopGuard struct{}

// Noop accepts every key. Used when Redis is not configured.
func Noop() Guard {
	return noopGuard{}
}

func (noopGuard) Acquire(context.Context, string, string) error { return nil }

func (noopGuard) Release(context.Context, string, string) error { return nil }
