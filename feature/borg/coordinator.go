package borg

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"borg-link/core/webhook"
	"borg-link/feature/borg/models"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ErrNotSaved is returned when inserting an item affected no rows.
var ErrNotSaved = errors.New("item was not saved")

// Coordinator saves imported items with their attribute links and parent relations.
type Coordinator struct {
	db         *gorm.DB
	repo       *Repository
	importer   *Importer
	attributes AttributeReconciler
	notifier   webhook.Notifier
	logger     *zap.Logger
	group      singleflight.Group
}

// NewCoordinator creates a coordinator. A nil notifier disables propagation.
func NewCoordinator(db *gorm.DB, importer *Importer, notifier webhook.Notifier, logger *zap.Logger) *Coordinator {
	return &Coordinator{
		db:       db,
		repo:     NewRepository(db),
		importer: importer,
		notifier: notifier,
		logger:   logger,
	}
}

// SaveImported imports and stores an item unless it is already stored, in which case
// the stored item is returned. It returns nil when the chain does not have the item yet.
// Parent back-fill and downstream propagation failures are logged, never returned.
func (c *Coordinator) SaveImported(ctx context.Context, id int, triggerDownstream bool) (*models.Item, error) {
	v, err, _ := c.group.Do(strconv.Itoa(id), func() (interface{}, error) {
		return c.saveImported(ctx, id, triggerDownstream)
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.Item), nil
}

func (c *Coordinator) saveImported(ctx context.Context, id int, triggerDownstream bool) (*models.Item, error) {
	l := c.logger.With(zap.Int("item_id", id))

	existing, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		l.Debug("Item already imported")
		return existing, nil
	}

	item, err := c.importer.Import(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	err = c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return c.persist(ctx, tx, item)
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		l.Info("Item imported concurrently, returning stored copy")
		return c.repo.FindByID(ctx, id)
	}
	if err != nil {
		return nil, err
	}

	c.backfillParents(ctx, item)

	saved, err := c.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Info("Imported item", zap.Int("attributes", len(saved.Attributes)))

	if triggerDownstream && c.notifier != nil {
		if !c.notifier.Propagate(ctx) {
			l.Warn("Downstream propagation did not succeed")
		}
	}
	return saved, nil
}

func (c *Coordinator) persist(ctx context.Context, tx *gorm.DB, item *models.Item) error {
	repo := c.repo.WithTx(tx)
	if err := repo.Create(ctx, item); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || errors.Is(err, ErrNotSaved) {
			return err
		}
		return fmt.Errorf("failed to save item %d: %w", item.ID, err)
	}

	ids, err := c.attributes.Reconcile(ctx, tx, item.RawAttributes)
	if err != nil {
		return err
	}

	links := make([]models.ItemAttribute, 0, len(ids))
	seen := make(map[int]bool, len(ids))
	for _, name := range item.RawAttributes {
		attrID, ok := ids[name]
		if !ok || seen[attrID] {
			continue
		}
		seen[attrID] = true
		links = append(links, models.ItemAttribute{
			ItemID:      item.ID,
			AttributeID: attrID,
			Position:    len(links),
		})
	}
	return repo.CreateLinks(ctx, links)
}

func (c *Coordinator) backfillParents(ctx context.Context, item *models.Item) {
	if !item.HasParents() {
		return
	}
	for _, parentID := range []int{*item.ParentID1, *item.ParentID2} {
		updated, err := c.repo.SetChildIfEmpty(ctx, parentID, item.ID)
		if err != nil {
			c.logger.Warn("Failed to back-fill parent", zap.Int("item_id", item.ID), zap.Int("parent_id", parentID), zap.Error(err))
			continue
		}
		if !updated {
			c.logger.Debug("Parent not back-filled", zap.Int("item_id", item.ID), zap.Int("parent_id", parentID))
		}
	}
}

// Republish re-uploads the missing images of a stored item.
func (c *Coordinator) Republish(ctx context.Context, id int) error {
	return c.importer.Republish(ctx, id)
}

// BackfillRelations sets the child of every stored parent that is still empty. It
// returns how many parents were updated.
func (c *Coordinator) BackfillRelations(ctx context.Context) (int, error) {
	items, err := c.repo.ItemsWithParents(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for _, item := range items {
		for _, parentID := range []int{*item.ParentID1, *item.ParentID2} {
			if err := ctx.Err(); err != nil {
				return updated, err
			}
			ok, err := c.repo.SetChildIfEmpty(ctx, parentID, item.ID)
			if err != nil {
				return updated, err
			}
			if ok {
				updated++
			}
		}
	}
	return updated, nil
}
