package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return New(rdb), mr
}

type batchView struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func TestRead_MissLoadsAndPopulates(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) ([]batchView, error) {
		loads++
		return []batchView{{ID: 1, Name: "Go Cohort"}}, nil
	}

	got, err := Read(ctx, c, KeyBatchesAll, TTLBatches, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Len(t, got, 1)
	assert.True(t, mr.Exists(KeyBatchesAll))

	ttl := mr.TTL(KeyBatchesAll)
	assert.Equal(t, TTLBatches, ttl)
}

func TestRead_HitSkipsLoader(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (batchView, error) {
		loads++
		return batchView{ID: 7, Name: "loaded"}, nil
	}

	first, err := Read(ctx, c, KeyBatch(7), TTLBatches, loader)
	require.NoError(t, err)

	second, err := Read(ctx, c, KeyBatch(7), TTLBatches, loader)
	require.NoError(t, err)

	assert.Equal(t, 1, loads, "second read must be served from cache")
	assert.Equal(t, first, second)
}

func TestRead_InvalidateForcesRecompute(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	version := 0
	loader := func(context.Context) (batchView, error) {
		version++
		return batchView{ID: 7, Name: "v" + string(rune('0'+version))}, nil
	}

	_, err := Read(ctx, c, KeyBatch(7), TTLBatches, loader)
	require.NoError(t, err)

	c.Invalidate(ctx, KeyBatch(7))

	got, err := Read(ctx, c, KeyBatch(7), TTLBatches, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, version, "read after invalidation must recompute")
	assert.Equal(t, "v2", got.Name)

	// And the recomputed value is cached again.
	_, err = Read(ctx, c, KeyBatch(7), TTLBatches, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, version)
}

func TestRead_TTLExpiryRecomputes(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	loads := 0
	loader := func(context.Context) (batchView, error) {
		loads++
		return batchView{ID: 1}, nil
	}

	_, err := Read(ctx, c, KeyBatch(1), TTLStudents, loader)
	require.NoError(t, err)

	mr.FastForward(TTLStudents + time.Second)

	_, err = Read(ctx, c, KeyBatch(1), TTLStudents, loader)
	require.NoError(t, err)
	assert.Equal(t, 2, loads)
}

func TestRead_StoreDownFallsThroughToLoader(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	c := New(rdb)
	mr.Close()

	ctx := context.Background()
	loads := 0
	loader := func(context.Context) (batchView, error) {
		loads++
		return batchView{ID: 9, Name: "fresh"}, nil
	}

	// Every read is a miss while the store is down; none of them error.
	for i := 0; i < 3; i++ {
		got, err := Read(ctx, c, KeyBatch(9), TTLBatches, loader)
		require.NoError(t, err)
		assert.Equal(t, "fresh", got.Name)
	}
	assert.Equal(t, 3, loads)
}

func TestInvalidate_StoreDownIsNonFatal(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	c := New(rdb)
	mr.Close()

	// Must not panic or surface an error.
	c.Invalidate(context.Background(), KeyBatchesAll, KeyBatch(1))
}

func TestRead_CorruptEntryRecomputes(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, mr.Set(KeyBatch(3), "{not-json"))

	loads := 0
	loader := func(context.Context) (batchView, error) {
		loads++
		return batchView{ID: 3, Name: "ok"}, nil
	}

	got, err := Read(ctx, c, KeyBatch(3), TTLBatches, loader)
	require.NoError(t, err)
	assert.Equal(t, 1, loads)
	assert.Equal(t, "ok", got.Name)
}

func TestInvalidator_CoversAggregateKeys(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()
	inv := NewInvalidator(c)

	seed := func(keys ...string) {
		for _, k := range keys {
			require.NoError(t, mr.Set(k, "{}"))
		}
	}

	seed(KeyBatchesAll, KeyBatch(5), KeyBatchSchedule(5), KeyBatchRoster(5))
	inv.BatchDeleted(ctx, 5)
	for _, k := range []string{KeyBatchesAll, KeyBatch(5), KeyBatchSchedule(5), KeyBatchRoster(5)} {
		assert.False(t, mr.Exists(k), "key %s should be gone", k)
	}

	seed(KeyStudentsAll, KeyStudent(2))
	inv.Student(ctx, 2)
	assert.False(t, mr.Exists(KeyStudentsAll))
	assert.False(t, mr.Exists(KeyStudent(2)))

	seed(KeyEnrollment(11), KeyBatchRoster(5))
	inv.Enrollment(ctx, 11, 5)
	assert.False(t, mr.Exists(KeyEnrollment(11)))
	assert.False(t, mr.Exists(KeyBatchRoster(5)))
}
