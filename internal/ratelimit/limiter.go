// Package ratelimit implements a fixed-window request counter backed by the
// shared key-value store, so the window is enforced across every instance of
// the server.
package ratelimit

import (
	"context"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"edubatch/internal/observability"
)

// keyPrefix keeps the limiter's namespace disjoint from the cache layer's.
const keyPrefix = "rate:"

// Limiter counts actions per identifier in fixed windows. A window starts on
// the first action and ends by TTL expiry only; denied attempts still count.
type Limiter struct {
	rdb *redis.Client
	// failOpen selects the degraded-mode policy when the store is
	// unreachable: allow (availability) or deny (strictness).
	failOpen bool
}

func New(rdb *redis.Client, failOpen bool) *Limiter {
	return &Limiter{rdb: rdb, failOpen: failOpen}
}

// Allow increments the counter for (action, identifier) and reports whether
// the action is within limit. The counter is never rolled back on denial.
func (l *Limiter) Allow(ctx context.Context, action, identifier string, limit int, window time.Duration) bool {
	key := keyPrefix + action + ":" + identifier

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		observability.StoreDegraded.WithLabelValues("ratelimit").Inc()
		slog.Warn("rate limit store unavailable",
			slog.String("action", action),
			slog.String("identifier", identifier),
			slog.Bool("fail_open", l.failOpen),
			slog.String("error", err.Error()))
		return l.failOpen
	}

	if count == 1 {
		if err := l.rdb.Expire(ctx, key, window).Err(); err != nil {
			observability.StoreDegraded.WithLabelValues("ratelimit").Inc()
			slog.Warn("failed to set rate limit window",
				slog.String("action", action),
				slog.String("error", err.Error()))
		}
	}

	if count > int64(limit) {
		observability.RateLimitDenied.WithLabelValues(action).Inc()
		return false
	}
	return true
}
