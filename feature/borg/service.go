package borg

import (
	"context"
	"fmt"
	"strings"

	"borg-link/core/cache"
	"borg-link/core/queue"
	"borg-link/feature/borg/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service serves catalog reads through the cache and accepts import requests.
type Service struct {
	cfg    Config
	repo   *Repository
	cache  *cache.Loader
	queue  queue.Queue
	gaps   *GapDetector
	rarity *RarityCalculator
	logger *zap.Logger
}

// NewService creates a catalog service.
func NewService(cfg Config, repo *Repository, loader *cache.Loader, q queue.Queue, gaps *GapDetector, logger *zap.Logger) *Service {
	return &Service{
		cfg:    cfg,
		repo:   repo,
		cache:  loader,
		queue:  q,
		gaps:   gaps,
		rarity: NewRarityCalculator(repo),
		logger: logger,
	}
}

// Config returns the catalog configuration.
func (s *Service) Config() Config {
	return s.cfg
}

// List returns a page of item views.
func (s *Service) List(ctx context.Context, filter Filter, page models.Page) (*models.PagedResult[models.ItemView], error) {
	key := fmt.Sprintf("pagedborgs_parent_%s_child_%s_attributes_%s_condition_%s_page_%d_perPage_%d",
		optionalKey(filter.ParentID), optionalKey(filter.ChildID), strings.Join(filter.Attributes, ","),
		filter.Condition, page.Number, page.Size)

	return cache.Remember(ctx, s.cache, key, s.cfg.listTTL(), func(ctx context.Context) (*models.PagedResult[models.ItemView], error) {
		items, err := s.repo.List(ctx, filter, page)
		if err != nil {
			return nil, err
		}
		views := make([]models.ItemView, 0, len(items.Results))
		for i := range items.Results {
			views = append(views, ToView(&items.Results[i]))
		}
		return &models.PagedResult[models.ItemView]{
			Page:         items.Page,
			TotalResults: items.TotalResults,
			Results:      views,
		}, nil
	})
}

// Get returns the view of one item, or nil when it is not stored.
func (s *Service) Get(ctx context.Context, id int) (*models.ItemView, error) {
	return cache.Remember(ctx, s.cache, fmt.Sprintf("borg_%d", id), s.cfg.itemTTL(), func(ctx context.Context) (*models.ItemView, error) {
		item, err := s.repo.FindByID(ctx, id)
		if err != nil || item == nil {
			return nil, err
		}
		view := ToView(item)
		return &view, nil
	})
}

// GetOpenSea returns OpenSea metadata for an item, or nil when it is not stored.
func (s *Service) GetOpenSea(ctx context.Context, id int) (*models.OpenSeaView, error) {
	return cache.Remember(ctx, s.cache, fmt.Sprintf("openseaborg_%d", id), s.cfg.listTTL(), func(ctx context.Context) (*models.OpenSeaView, error) {
		item, err := s.repo.FindByID(ctx, id)
		if err != nil || item == nil {
			return nil, err
		}
		view := ToOpenSea(item, s.cfg)
		return &view, nil
	})
}

// AttributeCounts returns attribute usage among items matching condition.
func (s *Service) AttributeCounts(ctx context.Context, condition Condition) ([]models.AttributeCount, error) {
	return cache.Remember(ctx, s.cache, fmt.Sprintf("attributes_%s", condition), s.cfg.listTTL(), func(ctx context.Context) ([]models.AttributeCount, error) {
		return s.repo.AttributeCounts(ctx, condition)
	})
}

// Rarity returns the rarity of an item, or UnknownRarity when it is not stored.
func (s *Service) Rarity(ctx context.Context, id int) (float64, error) {
	return cache.Remember(ctx, s.cache, fmt.Sprintf("rarity_%d", id), s.cfg.listTTL(), func(ctx context.Context) (float64, error) {
		return s.rarity.ComputeRarity(ctx, id)
	})
}

// MissingIDs returns ids the chain has produced that are not stored.
func (s *Service) MissingIDs(ctx context.Context) ([]int, error) {
	return s.gaps.FindMissingIds(ctx)
}

// RequestImport enqueues one import job for id with downstream propagation on.
func (s *Service) RequestImport(ctx context.Context, id int) (queue.Job, error) {
	job := queue.Job{ID: uuid.NewString(), ItemID: id, TriggerDownstream: true}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		return job, fmt.Errorf("failed to enqueue item %d: %w", id, err)
	}
	s.logger.Info("Import requested", zap.Int("item_id", id), zap.String("job_id", job.ID))
	return job, nil
}

func optionalKey(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(*v)
}
