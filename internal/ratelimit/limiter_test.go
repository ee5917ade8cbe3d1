package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, failOpen bool) (*Limiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return New(rdb, failOpen), mr
}

func TestLimiter_AllowsUpToLimitThenDenies(t *testing.T) {
	l, _ := newTestLimiter(t, true)
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		assert.True(t, l.Allow(ctx, "auth:login", "u1", 5, time.Minute), "call %d should be allowed", i)
	}
	assert.False(t, l.Allow(ctx, "auth:login", "u1", 5, time.Minute), "sixth call must be denied")
}

func TestLimiter_WindowExpiryResetsCounter(t *testing.T) {
	l, mr := newTestLimiter(t, true)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		l.Allow(ctx, "batch:create", "u1", 5, time.Minute)
	}
	assert.False(t, l.Allow(ctx, "batch:create", "u1", 5, time.Minute))

	mr.FastForward(time.Minute + time.Second)

	assert.True(t, l.Allow(ctx, "batch:create", "u1", 5, time.Minute), "new window must admit again")
}

func TestLimiter_DeniedAttemptsStillCount(t *testing.T) {
	l, mr := newTestLimiter(t, true)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		l.Allow(ctx, "batch:update", "u2", 5, time.Minute)
	}

	got, err := mr.Get("rate:batch:update:u2")
	require.NoError(t, err)
	assert.Equal(t, "8", got, "denials must not roll the counter back")
}

func TestLimiter_IdentifiersAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(t, true)
	ctx := context.Background()

	for i := 0; i < 6; i++ {
		l.Allow(ctx, "auth:login", "u1", 5, time.Minute)
	}
	assert.False(t, l.Allow(ctx, "auth:login", "u1", 5, time.Minute))
	assert.True(t, l.Allow(ctx, "auth:login", "u2", 5, time.Minute))
	assert.True(t, l.Allow(ctx, "batch:create", "u1", 5, time.Minute), "actions have independent windows")
}

func TestLimiter_WindowSetOnlyOnFirstIncrement(t *testing.T) {
	l, mr := newTestLimiter(t, true)
	ctx := context.Background()

	l.Allow(ctx, "auth:login", "u1", 5, time.Minute)
	mr.FastForward(30 * time.Second)
	l.Allow(ctx, "auth:login", "u1", 5, time.Minute)

	// The second call must not extend the window.
	assert.Equal(t, 30*time.Second, mr.TTL("rate:auth:login:u1"))
}

func TestLimiter_FailOpenAllowsWhenStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	l := New(rdb, true)
	mr.Close()

	assert.True(t, l.Allow(context.Background(), "auth:login", "u1", 5, time.Minute))
}

func TestLimiter_FailClosedDeniesWhenStoreDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	l := New(rdb, false)
	mr.Close()

	assert.False(t, l.Allow(context.Background(), "auth:login", "u1", 5, time.Minute))
}
