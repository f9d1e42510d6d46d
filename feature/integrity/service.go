package integrity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"borg-link/core/queue"
	"borg-link/core/reconcile"
	"borg-link/core/storage"
	"borg-link/feature/borg/models"
	"borg-link/feature/integrity/checks"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// imageExtension is the suffix of every rendered image object.
const imageExtension = ".png"

// enqueueWait bounds a single repair enqueue on a full queue.
const enqueueWait = 5 * time.Second

// ErrNoQueue is returned when repairs are scheduled without a job queue.
var ErrNoQueue = errors.New("no job queue configured")

// Repairer re-imports or re-publishes a single item.
type Repairer interface {
	SaveImported(ctx context.Context, id int, triggerDownstream bool) (*models.Item, error)
	Republish(ctx context.Context, id int) error
}

// repairExecutor applies reconcile actions through the import coordinator.
// Repairs never notify downstream consumers.
type repairExecutor struct {
	repairer Repairer
}

func (e repairExecutor) Import(ctx context.Context, id int) error {
	item, err := e.repairer.SaveImported(ctx, id, false)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %d is not available on chain", id)
	}
	return nil
}

func (e repairExecutor) Republish(ctx context.Context, id int) error {
	return e.repairer.Republish(ctx, id)
}

// queueExecutor hands every repair to the import workers.
type queueExecutor struct {
	queue queue.Queue
}

func (e queueExecutor) Import(ctx context.Context, id int) error {
	return e.enqueue(ctx, queue.Job{ItemID: id})
}

func (e queueExecutor) Republish(ctx context.Context, id int) error {
	return e.enqueue(ctx, queue.Job{ItemID: id, Republish: true})
}

func (e queueExecutor) enqueue(ctx context.Context, job queue.Job) error {
	ctx, cancel := context.WithTimeout(ctx, enqueueWait)
	defer cancel()
	return e.queue.Enqueue(ctx, job)
}

// ItemsReport is the outcome of an item reconciliation.
type ItemsReport struct {
	Status   string             `json:"status"` // "checked", "fixed", "scheduled"
	Summary  reconcile.Summary  `json:"summary"`
	Actions  []reconcile.Action `json:"actions"`
	Executed int                `json:"executed"`
	Enqueued int                `json:"enqueued,omitempty"`
}

// Service handles integrity checks.
type Service struct {
	client   storage.Client
	bucket   string
	folders  []string
	db       *gorm.DB
	engine   *reconcile.Engine
	executor reconcile.Executor
	queue    queue.Queue
	logger   *zap.Logger
}

// NewService creates a new integrity service.
func NewService(d Deps) *Service {
	spec := reconcile.Spec{
		Chain:    reconcile.ChainSource{Client: d.Chain, FirstID: d.FirstID},
		DB:       reconcile.TableSource{DB: d.DB, Table: models.Item{}.TableName()},
		CacheTTL: d.CacheTTL,
	}
	folders := checks.RequiredFolders(d.Environment, d.Resolutions)
	for _, folder := range folders {
		spec.Storage = append(spec.Storage, reconcile.StorageSource{
			Client:    d.Storage,
			Bucket:    d.Bucket,
			Prefix:    folder,
			Extension: imageExtension,
		})
	}

	return &Service{
		client:   d.Storage,
		bucket:   d.Bucket,
		folders:  folders,
		db:       d.DB,
		engine:   reconcile.NewEngine(spec),
		executor: repairExecutor{repairer: d.Repairer},
		queue:    d.Queue,
		logger:   d.Logger,
	}
}

// CheckStructure returns the image containers missing from the bucket.
func (s *Service) CheckStructure(ctx context.Context) ([]string, error) {
	return checks.CheckStructure(ctx, s.client, s.bucket, s.folders)
}

// FixStructure creates the missing containers.
func (s *Service) FixStructure(ctx context.Context, missing []string) error {
	return checks.FixStructure(ctx, s.client, s.bucket, s.logger, missing)
}

// CheckSchema compares the catalog tables with the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models.All()...)
}

// CheckItems compares chain, database and storage and plans the repairs.
func (s *Service) CheckItems(ctx context.Context) (*ItemsReport, error) {
	plan, err := s.engine.Plan(ctx)
	if err != nil {
		return nil, err
	}
	return &ItemsReport{Status: "checked", Summary: plan.Summary, Actions: actionsOf(plan)}, nil
}

// FixItems plans and applies the repairs. Execution stops at the first failure;
// the report then carries the number of repairs that succeeded.
func (s *Service) FixItems(ctx context.Context) (*ItemsReport, error) {
	plan, err := s.engine.Plan(ctx)
	if err != nil {
		return nil, err
	}

	executed, err := s.engine.Apply(ctx, plan, s.executor, reconcile.Options{Confirmed: true})
	report := &ItemsReport{Status: "fixed", Summary: plan.Summary, Actions: actionsOf(plan), Executed: executed}
	if err != nil {
		s.logger.Error("Item repair stopped", zap.Int("executed", executed), zap.Error(err))
		return report, err
	}
	s.logger.Info("Item repair completed", zap.Int("executed", executed))
	return report, nil
}

// ScheduleItems plans the repairs and enqueues one job per action for the import
// workers. Imports never notify downstream. Enqueueing stops at the first failure.
func (s *Service) ScheduleItems(ctx context.Context) (*ItemsReport, error) {
	if s.queue == nil {
		return nil, ErrNoQueue
	}
	plan, err := s.engine.Plan(ctx)
	if err != nil {
		return nil, err
	}

	enqueued, err := s.engine.Apply(ctx, plan, queueExecutor{queue: s.queue}, reconcile.Options{Confirmed: true})
	report := &ItemsReport{Status: "scheduled", Summary: plan.Summary, Actions: actionsOf(plan), Enqueued: enqueued}
	if err != nil {
		s.logger.Error("Item repair scheduling stopped", zap.Int("enqueued", enqueued), zap.Error(err))
		return report, err
	}
	s.logger.Info("Item repairs scheduled", zap.Int("enqueued", enqueued))
	return report, nil
}

func actionsOf(plan *reconcile.Plan) []reconcile.Action {
	if plan.Actions == nil {
		return []reconcile.Action{}
	}
	return plan.Actions
}
