package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Cache stores JSON-serialisable values with a TTL.
type Cache interface {
	// Get loads key into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value under key for ttl.
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// Redis is a Cache backed by redis string keys.
type Redis struct {
	client *redis.Client
	prefix string
}

// NewRedis creates a redis cache namespacing keys with prefix.
func NewRedis(client *redis.Client, prefix string) *Redis {
	return &Redis{client: client, prefix: prefix}
}

// Get implements Cache.
func (r *Redis) Get(ctx context.Context, key string, dest any) (bool, error) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache key %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to decode cache key %s: %w", key, err)
	}
	return true, nil
}

// Set implements Cache.
func (r *Redis) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache key %s: %w", key, err)
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set cache key %s: %w", key, err)
	}
	return nil
}

// Nop is a Cache that never stores anything.
type Nop struct{}

// Get implements Cache.
func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set implements Cache.
func (Nop) Set(context.Context, string, any, time.Duration) error { return nil }

// Loader fills the cache with read-through semantics. Concurrent misses on the
// same key share a single load.
type Loader struct {
	cache  Cache
	logger *zap.Logger
	sf     singleflight.Group
}

// NewLoader wraps a cache. A nil cache behaves like Nop.
func NewLoader(c Cache, logger *zap.Logger) *Loader {
	if c == nil {
		c = Nop{}
	}
	return &Loader{cache: c, logger: logger}
}

// Remember returns the cached value for key or computes it with load and caches it
// for ttl. Cache failures are logged and fall back to load.
func Remember[T any](ctx context.Context, l *Loader, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	var cached T
	hit, err := l.cache.Get(ctx, key, &cached)
	if err != nil {
		l.logger.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	}
	if hit {
		return cached, nil
	}

	result, err, _ := l.sf.Do(key, func() (interface{}, error) {
		value, err := load(ctx)
		if err != nil {
			return value, err
		}
		if setErr := l.cache.Set(ctx, key, value, ttl); setErr != nil {
			l.logger.Warn("Cache write failed", zap.String("key", key), zap.Error(setErr))
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}
