package integrity

import (
	"time"

	"borg-link/core/chain"
	"borg-link/core/queue"
	"borg-link/core/storage"
	"borg-link/feature/borg/models"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Deps are the collaborators of the integrity checks.
type Deps struct {
	DB          *gorm.DB
	Storage     storage.Client
	Bucket      string
	Environment string
	Resolutions []models.ResolutionSpec
	Chain       chain.Client
	FirstID     int
	Repairer    Repairer
	// Queue receives the repairs requested over HTTP.
	Queue queue.Queue
	// CacheTTL keeps the item index between checks. Zero rebuilds it every time.
	CacheTTL time.Duration
	Auth     fiber.Handler
	Logger   *zap.Logger
}

// Feature implements the loader.Feature interface.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the integrity feature.
func NewFeature(d Deps) *Feature {
	svc := NewService(d)
	return &Feature{service: svc, handler: NewHandler(svc, d.Auth, d.Logger)}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "integrity"
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

// Service returns the integrity service.
func (f *Feature) Service() *Service {
	return f.service
}
