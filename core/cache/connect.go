package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	initialRetryWait = 500 * time.Millisecond
	maxRetryWait     = 5 * time.Second
	pingTimeout      = 2 * time.Second
)

// Connect opens a redis client and pings it until it answers or the connect
// timeout elapses. The wait between attempts doubles up to maxRetryWait.
func Connect(ctx context.Context, cfg Config, log *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	timeout := time.Duration(cfg.ConnectTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	deadline := time.Now().Add(timeout)
	wait := initialRetryWait

	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			if attempt > 1 {
				log.Warn("Connected to redis after retry", zap.String("addr", cfg.Addr), zap.Int("attempts", attempt))
			} else {
				log.Info("Connected to redis", zap.String("addr", cfg.Addr))
			}
			return client, nil
		}

		if time.Now().Add(wait).After(deadline) {
			_ = client.Close()
			return nil, fmt.Errorf("redis unavailable at %s after %d attempts: %w", cfg.Addr, attempt, err)
		}

		log.Warn("Redis connection failed, retrying",
			zap.String("addr", cfg.Addr),
			zap.Int("attempt", attempt),
			zap.Duration("next_retry_in", wait),
			zap.Error(err))

		select {
		case <-ctx.Done():
			_ = client.Close()
			return nil, ctx.Err()
		case <-time.After(wait):
		}

		wait *= 2
		if wait > maxRetryWait {
			wait = maxRetryWait
		}
	}
}
