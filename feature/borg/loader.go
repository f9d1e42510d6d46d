package borg

import (
	"borg-link/core/cache"
	"borg-link/core/chain"
	"borg-link/core/queue"
	"borg-link/core/storage"
	"borg-link/core/webhook"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators of the catalog feature.
type Deps struct {
	DB          *gorm.DB
	Storage     storage.Client
	StorageCfg  storage.Config
	Environment string
	Chain       chain.Client
	Queue       queue.Queue
	Cache       cache.Cache
	Notifier    webhook.Notifier
	Auth        fiber.Handler
	Logger      *zap.Logger
}

// Feature implements the loader.Feature interface.
type Feature struct {
	service     *Service
	handler     *Handler
	coordinator *Coordinator
	tasks       *Tasks
}

// NewFeature wires the catalog.
func NewFeature(cfg Config, d Deps) *Feature {
	repo := NewRepository(d.DB)
	publisher := NewPublisher(d.Storage, d.StorageCfg, d.Environment, cfg.Resolutions(), d.Logger)
	importer := NewImporter(d.Chain, publisher, d.Logger)
	coordinator := NewCoordinator(d.DB, importer, d.Notifier, d.Logger)
	gaps := NewGapDetector(repo, d.Chain)

	svc := NewService(cfg, repo, cache.NewLoader(d.Cache, d.Logger), d.Queue, gaps, d.Logger)
	return &Feature{
		service:     svc,
		handler:     NewHandler(svc, d.Auth, d.Logger),
		coordinator: coordinator,
		tasks:       NewTasks(cfg, gaps, coordinator, d.Queue, d.Notifier, d.Logger),
	}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "borg"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}

// Service returns the read service.
func (f *Feature) Service() *Service {
	return f.service
}

// Coordinator returns the import coordinator.
func (f *Feature) Coordinator() *Coordinator {
	return f.coordinator
}

// Tasks returns the background tasks.
func (f *Feature) Tasks() *Tasks {
	return f.tasks
}
