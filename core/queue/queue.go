package queue

import (
	"context"
	"errors"
)

// ErrClosed is returned by a queue that no longer accepts or delivers jobs.
var ErrClosed = errors.New("queue closed")

// Job asks a worker to import a single item, or to republish the images of a
// stored one.
type Job struct {
	// ID identifies this delivery chain across retries.
	ID string `json:"id"`
	// ItemID is the item to import.
	ItemID int `json:"item_id"`
	// TriggerDownstream propagates the import to the notification webhook.
	TriggerDownstream bool `json:"trigger_downstream"`
	// Republish uploads missing images of a stored item instead of importing it.
	Republish bool `json:"republish,omitempty"`
	// Attempt counts previous failed deliveries.
	Attempt int `json:"attempt"`
}

// Queue delivers jobs at least once.
type Queue interface {
	// Enqueue adds a job to the queue.
	Enqueue(ctx context.Context, job Job) error
	// Dequeue blocks until a job is available or ctx is done.
	Dequeue(ctx context.Context) (*Delivery, error)
}

// Delivery is a dequeued job that must be acknowledged once handled.
type Delivery struct {
	Job Job
	ack func(ctx context.Context) error
}

// Ack removes the job from the queue for good.
func (d *Delivery) Ack(ctx context.Context) error {
	if d.ack == nil {
		return nil
	}
	return d.ack(ctx)
}
