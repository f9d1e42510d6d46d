package cmd

import (
	"context"
	"fmt"
	"time"

	"borg-link/core/cache"
	"borg-link/core/chain"
	"borg-link/core/config"
	"borg-link/core/database"
	"borg-link/core/logger"
	"borg-link/core/middleware/auth"
	"borg-link/core/queue"
	"borg-link/core/storage"
	"borg-link/core/webhook"
	"borg-link/feature/borg"
	"borg-link/feature/integrity"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// reconcileCacheTTL keeps the integrity item index between HTTP checks.
const reconcileCacheTTL = 30 * time.Second

// app holds every long-lived dependency shared by the commands.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	db        *gorm.DB
	store     storage.Client
	chain     *chain.EthClient
	redis     *redis.Client
	queue     queue.Queue
	notifier  *webhook.Client
	borg      *borg.Feature
	integrity *integrity.Feature
}

// bootstrap loads the configuration and connects to the database, storage, redis
// and the contract. Redis is optional; without it jobs and cached responses stay in memory.
func bootstrap(ctx context.Context) (*app, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logg = logg.With(zap.String("environment", cfg.Server.Environment))

	a := &app{cfg: cfg, logger: logg}

	a.db, err = database.Connect(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := borg.NewRepository(a.db).Migrate(); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	a.store, err = storage.NewClient(cfg.Storage)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	responses := cache.Cache(cache.Nop{})
	if cfg.Redis.Enabled() {
		a.redis, err = cache.Connect(ctx, cfg.Redis, logg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		responses = cache.NewRedis(a.redis, cfg.Redis.KeyPrefix)
		a.queue = queue.NewRedisQueue(a.redis, cfg.Redis.KeyPrefix, time.Duration(cfg.Queue.PollSeconds)*time.Second)
	} else {
		logg.Warn("Redis not configured, using in-memory queue without response cache")
		a.queue = queue.NewMemoryQueue(cfg.Queue.Buffer)
	}

	a.chain, err = chain.Dial(ctx, cfg.Chain, logger.Component(logg, "chain"))
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to chain: %w", err)
	}

	a.notifier = webhook.NewClient(cfg.Webhook, logger.Component(logg, "webhook"))
	guard := auth.New(auth.Config{ApiKey: cfg.Server.ApiKey})

	a.borg = borg.NewFeature(cfg.Borg, borg.Deps{
		DB:          a.db,
		Storage:     a.store,
		StorageCfg:  cfg.Storage,
		Environment: cfg.Server.Environment,
		Chain:       a.chain,
		Queue:       a.queue,
		Cache:       responses,
		Notifier:    a.notifier,
		Auth:        guard,
		Logger:      logg,
	})
	a.integrity = integrity.NewFeature(integrity.Deps{
		DB:          a.db,
		Storage:     a.store,
		Bucket:      cfg.Storage.Bucket,
		Environment: cfg.Server.Environment,
		Resolutions: cfg.Borg.Resolutions(),
		Chain:       a.chain,
		FirstID:     borg.FirstItemID,
		Repairer:    a.borg.Coordinator(),
		Queue:       a.queue,
		CacheTTL:    reconcileCacheTTL,
		Auth:        guard,
		Logger:      logg,
	})

	return a, nil
}

// Close releases the connections opened by bootstrap.
func (a *app) Close() {
	if a.chain != nil {
		a.chain.Close()
	}
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Warn("Failed to close redis", zap.Error(err))
		}
	}
	if a.db != nil {
		if sqlDB, err := a.db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	_ = a.logger.Sync()
}
