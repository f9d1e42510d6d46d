package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type payload struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

func newRedisCache(t *testing.T) (*Redis, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedis(client, "test:"), mr
}

func TestRedis_GetSet(t *testing.T) {
	ctx := context.Background()
	c, mr := newRedisCache(t)

	var miss payload
	hit, err := c.Get(ctx, "borg_1", &miss)
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "borg_1", payload{ID: 1, Name: "Unit"}, 20*time.Second))
	assert.True(t, mr.Exists("test:borg_1"))

	var got payload
	hit, err = c.Get(ctx, "borg_1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, payload{ID: 1, Name: "Unit"}, got)

	mr.FastForward(21 * time.Second)
	hit, err = c.Get(ctx, "borg_1", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()

	t.Run("Caches Result", func(t *testing.T) {
		c, _ := newRedisCache(t)
		loader := NewLoader(c, zap.NewNop())

		var calls int32
		load := func(context.Context) (payload, error) {
			atomic.AddInt32(&calls, 1)
			return payload{ID: 7}, nil
		}

		for i := 0; i < 3; i++ {
			got, err := Remember(ctx, loader, "borg_7", time.Minute, load)
			require.NoError(t, err)
			assert.Equal(t, 7, got.ID)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("Errors Are Not Cached", func(t *testing.T) {
		loader := NewLoader(Nop{}, zap.NewNop())

		_, err := Remember(ctx, loader, "borg_8", time.Minute, func(context.Context) (payload, error) {
			return payload{}, errors.New("db down")
		})
		assert.EqualError(t, err, "db down")
	})

	t.Run("Nil Cache Loads Directly", func(t *testing.T) {
		loader := NewLoader(nil, zap.NewNop())

		var calls int32
		var wg sync.WaitGroup
		for i := 0; i < 2; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := Remember(ctx, loader, "count", time.Minute, func(context.Context) (int, error) {
					atomic.AddInt32(&calls, 1)
					return 3, nil
				})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	})
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), Config{Addr: mr.Addr(), ConnectTimeoutSeconds: 2}, zap.NewNop())
	require.NoError(t, err)
	defer client.Close()
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConfig_Enabled(t *testing.T) {
	assert.False(t, Config{}.Enabled())
	assert.True(t, Config{Addr: "localhost:6379"}.Enabled())
}
