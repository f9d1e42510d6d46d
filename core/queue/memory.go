package queue

import (
	"context"

	"github.com/google/uuid"
)

// MemoryQueue is an in-process queue backed by a buffered channel. Jobs are lost
// on restart; the periodic sync re-discovers anything that was still pending.
type MemoryQueue struct {
	jobs chan Job
}

// NewMemoryQueue creates a queue holding up to buffer pending jobs.
func NewMemoryQueue(buffer int) *MemoryQueue {
	if buffer <= 0 {
		buffer = 1024
	}
	return &MemoryQueue{jobs: make(chan Job, buffer)}
}

// Enqueue implements Queue. It blocks while the buffer is full.
func (q *MemoryQueue) Enqueue(ctx context.Context, job Job) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Dequeue implements Queue.
func (q *MemoryQueue) Dequeue(ctx context.Context) (*Delivery, error) {
	select {
	case job := <-q.jobs:
		return &Delivery{Job: job}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of pending jobs.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}
