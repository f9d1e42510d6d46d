package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisQueue is a durable queue on two redis lists. Dequeue atomically moves a job
// from the pending list to the processing list, and Ack removes it from there. Jobs
// left in processing by a crashed worker are moved back by Recover.
type RedisQueue struct {
	client     *redis.Client
	pending    string
	processing string
	poll       time.Duration
}

// NewRedisQueue creates a redis queue with keys under prefix.
func NewRedisQueue(client *redis.Client, prefix string, poll time.Duration) *RedisQueue {
	if poll <= 0 {
		poll = time.Second
	}
	return &RedisQueue{
		client:     client,
		pending:    prefix + "jobs:pending",
		processing: prefix + "jobs:processing",
		poll:       poll,
	}
}

// Enqueue implements Queue.
func (q *RedisQueue) Enqueue(ctx context.Context, job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to encode job: %w", err)
	}
	if err := q.client.LPush(ctx, q.pending, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue job for item %d: %w", job.ItemID, err)
	}
	return nil
}

// Dequeue implements Queue. It polls in short blocking intervals so cancellation is
// noticed promptly.
func (q *RedisQueue) Dequeue(ctx context.Context) (*Delivery, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		raw, err := q.client.BRPopLPush(ctx, q.pending, q.processing, q.poll).Result()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("failed to dequeue job: %w", err)
		}

		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			// Poison entry; drop it so it does not block the queue.
			_ = q.client.LRem(ctx, q.processing, 1, raw).Err()
			return nil, fmt.Errorf("failed to decode job %q: %w", raw, err)
		}

		return &Delivery{
			Job: job,
			ack: func(ctx context.Context) error {
				return q.client.LRem(ctx, q.processing, 1, raw).Err()
			},
		}, nil
	}
}

// Recover moves every job left in the processing list back to pending and returns
// how many were moved. Call it once at startup before workers run.
func (q *RedisQueue) Recover(ctx context.Context) (int, error) {
	moved := 0
	for {
		err := q.client.RPopLPush(ctx, q.processing, q.pending).Err()
		if errors.Is(err, redis.Nil) {
			return moved, nil
		}
		if err != nil {
			return moved, fmt.Errorf("failed to recover jobs: %w", err)
		}
		moved++
	}
}

// Len returns the number of pending jobs.
func (q *RedisQueue) Len(ctx context.Context) (int64, error) {
	return q.client.LLen(ctx, q.pending).Result()
}
