package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// ErrRunning is returned when a task is triggered while its previous run is active.
var ErrRunning = errors.New("task is already running")

// TaskFunc is a unit of recurring work. It must return promptly once ctx is done.
type TaskFunc func(ctx context.Context) error

type task struct {
	name    string
	fn      TaskFunc
	running bool
}

// Scheduler runs named tasks on cron schedules. Runs of the same task never
// overlap, and every run receives a context that Stop cancels.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	tasks map[string]*task
	wg    sync.WaitGroup
}

// New creates a scheduler. Tasks do not run until Start is called.
func New(logger *zap.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron:   cron.New(),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
		tasks:  make(map[string]*task),
	}
}

// Register adds a task under a cron spec such as "@every 1m" or "*/5 * * * *".
func (s *Scheduler) Register(name, schedule string, fn TaskFunc) error {
	s.mu.Lock()
	if _, exists := s.tasks[name]; exists {
		s.mu.Unlock()
		return fmt.Errorf("task %s already registered", name)
	}
	t := &task{name: name, fn: fn}
	s.tasks[name] = t
	s.mu.Unlock()

	if _, err := s.cron.AddFunc(schedule, func() { _ = s.run(t) }); err != nil {
		s.mu.Lock()
		delete(s.tasks, name)
		s.mu.Unlock()
		return fmt.Errorf("invalid schedule %q for task %s: %w", schedule, name, err)
	}

	s.logger.Info("Registered task", zap.String("task", name), zap.String("schedule", schedule))
	return nil
}

// Trigger runs a task immediately in the background, outside its schedule.
func (s *Scheduler) Trigger(name string) error {
	s.mu.Lock()
	t, ok := s.tasks[name]
	if ok && t.running {
		s.mu.Unlock()
		return ErrRunning
	}
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown task %s", name)
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = s.run(t)
	}()
	return nil
}

// Start begins running scheduled tasks.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running tasks and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
	s.wg.Wait()
}

func (s *Scheduler) run(t *task) error {
	s.mu.Lock()
	if t.running {
		s.mu.Unlock()
		s.logger.Debug("Skipping overlapping run", zap.String("task", t.name))
		return ErrRunning
	}
	t.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		t.running = false
		s.mu.Unlock()
	}()

	if s.ctx.Err() != nil {
		return s.ctx.Err()
	}

	start := time.Now()
	err := t.fn(s.ctx)
	if err != nil {
		s.logger.Error("Task failed", zap.String("task", t.name), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return err
	}
	s.logger.Debug("Task completed", zap.String("task", t.name), zap.Duration("elapsed", time.Since(start)))
	return nil
}
