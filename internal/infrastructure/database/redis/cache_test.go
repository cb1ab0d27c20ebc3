package redis

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/CaseRisk-Intelligence/internal/infrastructure/monitoring/logging"
)

type payload struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

func TestCacheSetGet(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCache(client, logging.NewNopLogger())
	ctx := context.Background()

	want := payload{Name: "Kwame Mensah", Score: 55}
	require.NoError(t, cache.Set(ctx, "analytics:1", want, time.Minute))

	var got payload
	require.NoError(t, cache.Get(ctx, "analytics:1", &got))
	assert.Equal(t, want, got)

	exists, err := cache.Exists(ctx, "analytics:1")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCacheMiss(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCache(client, logging.NewNopLogger())

	var got payload
	err := cache.Get(context.Background(), "nope", &got)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestCacheDelete(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCache(client, logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "a", payload{}, time.Minute))
	require.NoError(t, cache.Delete(ctx, "a"))

	var got payload
	assert.ErrorIs(t, cache.Get(ctx, "a", &got), ErrCacheMiss)

	// Deleting nothing is fine.
	require.NoError(t, cache.Delete(ctx))
}

func TestCacheGetOrSet(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCache(client, logging.NewNopLogger())
	ctx := context.Background()

	t.Run("loads and caches on miss", func(t *testing.T) {
		var calls int32
		loader := func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			return payload{Name: "loaded", Score: 1}, nil
		}

		var got payload
		require.NoError(t, cache.GetOrSet(ctx, "gos:1", &got, time.Minute, loader))
		assert.Equal(t, "loaded", got.Name)

		// Second call comes from cache.
		var again payload
		require.NoError(t, cache.GetOrSet(ctx, "gos:1", &again, time.Minute, loader))
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("loader error is surfaced", func(t *testing.T) {
		boom := errors.New("store down")
		var got payload
		err := cache.GetOrSet(ctx, "gos:err", &got, time.Minute, func(ctx context.Context) (interface{}, error) {
			return nil, boom
		})
		assert.ErrorIs(t, err, boom)
	})

	t.Run("nil result is negatively cached", func(t *testing.T) {
		var calls int32
		loader := func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			return nil, nil
		}

		var got payload
		assert.ErrorIs(t, cache.GetOrSet(ctx, "gos:null", &got, time.Minute, loader), ErrCacheMiss)
		assert.ErrorIs(t, cache.GetOrSet(ctx, "gos:null", &got, time.Minute, loader), ErrCacheMiss)
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})

	t.Run("concurrent callers share one load", func(t *testing.T) {
		var calls int32
		loader := func(ctx context.Context) (interface{}, error) {
			atomic.AddInt32(&calls, 1)
			time.Sleep(50 * time.Millisecond)
			return payload{Name: "shared"}, nil
		}

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				var got payload
				_ = cache.GetOrSet(ctx, "gos:flight", &got, time.Minute, loader)
			}()
		}
		wg.Wait()
		assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
	})
}

func TestCacheDeleteByPrefix(t *testing.T) {
	_, client := newTestClient(t)
	cache := NewCache(client, logging.NewNopLogger())
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "entity:1", payload{}, time.Minute))
	require.NoError(t, cache.Set(ctx, "entity:2", payload{}, time.Minute))
	require.NoError(t, cache.Set(ctx, "other:1", payload{}, time.Minute))

	deleted, err := cache.DeleteByPrefix(ctx, "entity:")
	require.NoError(t, err)
	assert.EqualValues(t, 2, deleted)

	exists, err := cache.Exists(ctx, "other:1")
	require.NoError(t, err)
	assert.True(t, exists)
}
