package queue

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Handler processes a single job.
type Handler func(ctx context.Context, job Job) error

// Pool runs workers that drain a queue. A failed job is re-enqueued with its
// attempt count incremented until MaxAttempts is reached.
type Pool struct {
	queue       Queue
	handler     Handler
	workers     int
	maxAttempts int
	logger      *zap.Logger
	errBackoff  time.Duration
	// requeueWait bounds a retry enqueue so a full buffer cannot stall a worker.
	requeueWait time.Duration
}

// NewPool creates a worker pool.
func NewPool(q Queue, handler Handler, cfg Config, logger *zap.Logger) *Pool {
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	maxAttempts := cfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	return &Pool{
		queue:       q,
		handler:     handler,
		workers:     workers,
		maxAttempts: maxAttempts,
		logger:      logger,
		errBackoff:  time.Second,
		requeueWait: 5 * time.Second,
	}
}

// Run starts the workers and blocks until ctx is cancelled and every in-flight job
// has returned.
func (p *Pool) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			p.work(ctx, p.logger.With(zap.Int("worker", worker)))
		}(i)
	}
	wg.Wait()
}

func (p *Pool) work(ctx context.Context, l *zap.Logger) {
	for {
		d, err := p.queue.Dequeue(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, ErrClosed) {
				return
			}
			l.Error("Dequeue failed", zap.Error(err))
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.errBackoff):
			}
			continue
		}

		p.handle(ctx, l, d)
	}
}

func (p *Pool) handle(ctx context.Context, l *zap.Logger, d *Delivery) {
	job := d.Job
	jl := l.With(zap.Int("item_id", job.ItemID), zap.String("job_id", job.ID), zap.Int("attempt", job.Attempt))

	// Handlers get their own context so shutdown does not abort a job half way.
	err := p.handler(context.WithoutCancel(ctx), job)
	if err != nil {
		if job.Attempt+1 < p.maxAttempts {
			retry := job
			retry.Attempt++
			rctx, cancel := context.WithTimeout(ctx, p.requeueWait)
			enqErr := p.queue.Enqueue(rctx, retry)
			cancel()
			if enqErr != nil {
				// The delivery stays unacknowledged so a durable queue can recover it.
				// A memory queue drops it and the periodic sync finds the id again.
				jl.Error("Failed to requeue job, dropping", zap.Error(err), zap.NamedError("enqueue_error", enqErr))
				return
			}
			jl.Warn("Job failed, requeued", zap.Error(err))
		} else {
			jl.Error("Job failed, giving up", zap.Error(err))
		}
	} else {
		jl.Debug("Job completed")
	}

	if ackErr := d.Ack(context.WithoutCancel(ctx)); ackErr != nil {
		jl.Error("Failed to acknowledge job", zap.Error(ackErr))
	}
}
