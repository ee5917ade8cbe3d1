// Package cache implements the cache-aside read layer over the shared
// key-value store. Readers check the store first and fall back to the source
// of truth on miss; writers invalidate explicitly. When the store is
// unreachable every read degrades to a miss, so correctness degrades to
// "always fresh, never cached", never to stale-forever.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"edubatch/internal/observability"
)

// Resource-specific expiries. A reader can observe a value at most this
// stale, and only if an invalidation was missed.
const (
	TTLBatches   = 120 * time.Second
	TTLSchedules = 120 * time.Second
	TTLSyllabus  = 120 * time.Second
	TTLStudents  = 60 * time.Second
	TTLRosters   = 60 * time.Second
)

// Cache wraps the shared Redis client for the cache-aside key namespace.
type Cache struct {
	rdb *redis.Client
}

func New(rdb *redis.Client) *Cache {
	return &Cache{rdb: rdb}
}

// Read implements the cache-aside pattern for a single key: on hit the
// cached JSON is decoded and returned; on miss the loader runs against the
// source of truth and the result is stored under key with the given TTL.
// Concurrent misses may both invoke the loader; the results are equivalent,
// so no single-flight deduplication is attempted.
func Read[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	resource := resourceOf(key)

	cached, err := c.rdb.Get(ctx, key).Bytes()
	if err == nil {
		var value T
		if jsonErr := json.Unmarshal(cached, &value); jsonErr == nil {
			observability.CacheHits.WithLabelValues(resource).Inc()
			return value, nil
		}
		// Undecodable payload: treat as a miss and overwrite below.
		slog.Warn("cache entry corrupt, recomputing", slog.String("key", key))
	} else if !errors.Is(err, redis.Nil) {
		// Store unreachable: permanent miss, never an error to the caller.
		observability.StoreDegraded.WithLabelValues("cache").Inc()
		slog.Warn("cache store unavailable, reading from source",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	observability.CacheMisses.WithLabelValues(resource).Inc()

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		slog.Error("failed to marshal cache payload",
			slog.String("key", key),
			slog.String("error", err.Error()))
		return value, nil
	}

	if err := c.rdb.Set(ctx, key, payload, ttl).Err(); err != nil {
		observability.StoreDegraded.WithLabelValues("cache").Inc()
		slog.Warn("failed to populate cache",
			slog.String("key", key),
			slog.String("error", err.Error()))
	}

	return value, nil
}

// Invalidate deletes the given keys. Failures are logged and non-fatal; a
// missed delete is bounded by the entry's TTL.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.rdb.Del(ctx, keys...).Err(); err != nil {
		observability.StoreDegraded.WithLabelValues("cache").Inc()
		slog.Warn("cache invalidation failed",
			slog.Any("keys", keys),
			slog.String("error", err.Error()))
	}
}
