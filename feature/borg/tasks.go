package borg

import (
	"context"
	"fmt"
	"time"

	"borg-link/core/queue"
	"borg-link/core/scheduler"
	"borg-link/core/webhook"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Task names registered with the scheduler.
const (
	TaskSync     = "borg-sync"
	TaskBackfill = "borg-backfill"
	TaskPing     = "keep-alive"
)

// Tasks holds the background work of the catalog.
type Tasks struct {
	cfg         Config
	gaps        *GapDetector
	coordinator *Coordinator
	queue       queue.Queue
	notifier    webhook.Notifier
	logger      *zap.Logger
}

// NewTasks creates the background tasks.
func NewTasks(cfg Config, gaps *GapDetector, coordinator *Coordinator, q queue.Queue, notifier webhook.Notifier, logger *zap.Logger) *Tasks {
	return &Tasks{
		cfg:         cfg,
		gaps:        gaps,
		coordinator: coordinator,
		queue:       q,
		notifier:    notifier,
		logger:      logger,
	}
}

// HandleJob is the queue handler importing a single item.
func (t *Tasks) HandleJob(ctx context.Context, job queue.Job) error {
	if job.Republish {
		return t.coordinator.Republish(ctx, job.ItemID)
	}
	item, err := t.coordinator.SaveImported(ctx, job.ItemID, job.TriggerDownstream)
	if err != nil {
		return err
	}
	if item == nil {
		t.logger.Info("Item not on chain yet", zap.Int("item_id", job.ItemID))
	}
	return nil
}

// Sync enqueues an import for every missing id and returns how many were enqueued.
// Downstream is notified once when anything was enqueued.
func (t *Tasks) Sync(ctx context.Context) (int, error) {
	missing, err := t.gaps.FindMissingIds(ctx)
	if err != nil {
		return 0, err
	}

	enqueued := 0
	for _, id := range missing {
		if err := ctx.Err(); err != nil {
			break
		}
		job := queue.Job{ID: uuid.NewString(), ItemID: id}
		if err := t.queue.Enqueue(ctx, job); err != nil {
			t.logger.Error("Failed to enqueue missing item", zap.Int("item_id", id), zap.Error(err))
			continue
		}
		enqueued++
	}

	if enqueued > 0 {
		t.logger.Info("Enqueued missing items", zap.Int("count", enqueued), zap.Int("missing", len(missing)))
		if t.notifier != nil {
			t.notifier.Propagate(ctx)
		}
	}
	if enqueued < len(missing) {
		return enqueued, fmt.Errorf("enqueued %d of %d missing items", enqueued, len(missing))
	}
	return enqueued, nil
}

// Backfill sets missing child relations on stored parents.
func (t *Tasks) Backfill(ctx context.Context) error {
	updated, err := t.coordinator.BackfillRelations(ctx)
	if updated > 0 {
		t.logger.Info("Back-filled parent relations", zap.Int("updated", updated))
	}
	return err
}

// Ping requests the configured keep-alive URL.
func (t *Tasks) Ping(ctx context.Context) error {
	return webhook.Ping(ctx, t.cfg.PingURL, 30*time.Second)
}

// Register adds the sync, back-fill and keep-alive tasks to s.
func (t *Tasks) Register(s *scheduler.Scheduler) error {
	err := s.Register(TaskSync, t.cfg.SyncSchedule, func(ctx context.Context) error {
		if _, err := t.Sync(ctx); err != nil {
			return err
		}
		return t.Backfill(ctx)
	})
	if err != nil {
		return err
	}
	if err := s.Register(TaskBackfill, t.cfg.BackfillSchedule, t.Backfill); err != nil {
		return err
	}
	if t.cfg.PingURL == "" {
		return nil
	}
	return s.Register(TaskPing, t.cfg.PingSchedule, t.Ping)
}

// Schedule registers the tasks, starts the scheduler and runs a first sync right
// away instead of waiting for its first tick.
func (t *Tasks) Schedule(s *scheduler.Scheduler) error {
	if err := t.Register(s); err != nil {
		return err
	}
	s.Start()
	return s.Trigger(TaskSync)
}
