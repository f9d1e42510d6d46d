package borg

import (
	"context"
	"errors"
	"fmt"

	"borg-link/feature/borg/models"

	"gorm.io/gorm"
)

// Condition filters items by whether they have been bred away.
type Condition string

const (
	ConditionBoth  Condition = "both"
	ConditionAlive Condition = "alive"
	ConditionDead  Condition = "dead"
)

// ParseCondition parses a condition query value. Empty means both.
func ParseCondition(s string) (Condition, error) {
	switch Condition(s) {
	case "", ConditionBoth:
		return ConditionBoth, nil
	case ConditionAlive, ConditionDead:
		return Condition(s), nil
	}
	return "", fmt.Errorf("unknown condition %q", s)
}

// Filter narrows the item list. Nil fields are not applied.
type Filter struct {
	ParentID   *int
	ChildID    *int
	Attributes []string
	Condition  Condition
}

// Repository reads and writes the catalog tables.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a repository on db.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to a transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// Migrate creates or updates the catalog tables.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(models.All()...)
}

// FindByID loads an item with its attributes. It returns nil, nil when absent.
func (r *Repository) FindByID(ctx context.Context, id int) (*models.Item, error) {
	var item models.Item
	err := r.db.WithContext(ctx).
		Preload("Attributes", orderLinks).
		Preload("Attributes.Attribute").
		First(&item, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load item %d: %w", id, err)
	}
	return &item, nil
}

// Exists reports whether an item is stored.
func (r *Repository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Item{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check item %d: %w", id, err)
	}
	return count > 0, nil
}

// AllIDs returns every stored item id in ascending order.
func (r *Repository) AllIDs(ctx context.Context) ([]int, error) {
	var ids []int
	if err := r.db.WithContext(ctx).Model(&models.Item{}).Order("id ASC").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list item ids: %w", err)
	}
	return ids, nil
}

// Create inserts a new item. A duplicate id surfaces as gorm.ErrDuplicatedKey.
func (r *Repository) Create(ctx context.Context, item *models.Item) error {
	res := r.db.WithContext(ctx).Omit("Attributes").Create(item)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: item %d", ErrNotSaved, item.ID)
	}
	return nil
}

// CreateLinks inserts item-attribute links.
func (r *Repository) CreateLinks(ctx context.Context, links []models.ItemAttribute) error {
	if len(links) == 0 {
		return nil
	}
	if err := r.db.WithContext(ctx).Omit("Attribute").Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link attributes: %w", err)
	}
	return nil
}

// SetChildIfEmpty records childID on parentID unless a child is already set. It
// reports whether a row changed; false means the parent is unknown or already bred.
func (r *Repository) SetChildIfEmpty(ctx context.Context, parentID, childID int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.Item{}).
		Where("id = ? AND child_id IS NULL", parentID).
		Update("child_id", childID)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set child of item %d: %w", parentID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

// ItemsWithParents returns every bred item.
func (r *Repository) ItemsWithParents(ctx context.Context) ([]models.Item, error) {
	var items []models.Item
	err := r.db.WithContext(ctx).
		Select("id", "parent_id1", "parent_id2").
		Where("parent_id1 IS NOT NULL AND parent_id2 IS NOT NULL").
		Order("id ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bred items: %w", err)
	}
	return items, nil
}

// List returns one page of items matching filter, newest first.
func (r *Repository) List(ctx context.Context, filter Filter, page models.Page) (*models.PagedResult[models.Item], error) {
	var total int64
	if err := r.filtered(ctx, filter).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("failed to count items: %w", err)
	}

	items := []models.Item{}
	err := r.filtered(ctx, filter).
		Preload("Attributes", orderLinks).
		Preload("Attributes.Attribute").
		Order("id DESC").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	return &models.PagedResult[models.Item]{
		Page:         page,
		TotalResults: int(total),
		Results:      items,
	}, nil
}

func (r *Repository) filtered(ctx context.Context, f Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.Item{})

	if f.ParentID != nil {
		q = q.Where("parent_id1 = ? OR parent_id2 = ?", *f.ParentID, *f.ParentID)
	}
	if f.ChildID != nil {
		q = q.Where("child_id = ?", *f.ChildID)
	}
	if len(f.Attributes) > 0 {
		sub := r.db.Model(&models.ItemAttribute{}).
			Select("borg_attributes.borg_id").
			Joins("JOIN attributes ON attributes.id = borg_attributes.attribute_id").
			Where("attributes.name IN ?", f.Attributes)
		q = q.Where("id IN (?)", sub)
	}
	return applyCondition(q, "child_id", f.Condition)
}

// AttributeCounts returns how many items matching condition carry each attribute,
// most common first.
func (r *Repository) AttributeCounts(ctx context.Context, condition Condition) ([]models.AttributeCount, error) {
	q := r.db.WithContext(ctx).
		Table("borg_attributes").
		Select("attributes.name AS name, COUNT(borg_attributes.id) AS count").
		Joins("JOIN attributes ON attributes.id = borg_attributes.attribute_id").
		Joins("JOIN borgs ON borgs.id = borg_attributes.borg_id")
	q = applyCondition(q, "borgs.child_id", condition)

	counts := []models.AttributeCount{}
	err := q.Group("attributes.name").
		Order("count DESC").
		Order("attributes.name ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count attributes: %w", err)
	}
	return counts, nil
}

// CountAlive returns how many items have not been bred away.
func (r *Repository) CountAlive(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Item{}).Where("child_id IS NULL").Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count alive items: %w", err)
	}
	return count, nil
}

// AttributeIDsOf returns the attribute ids linked to an item.
func (r *Repository) AttributeIDsOf(ctx context.Context, itemID int) ([]int, error) {
	var ids []int
	err := r.db.WithContext(ctx).Model(&models.ItemAttribute{}).
		Where("borg_id = ?", itemID).
		Order("position ASC").
		Pluck("attribute_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load attributes of item %d: %w", itemID, err)
	}
	return ids, nil
}

// AliveUsage counts, per attribute id, the alive items linked to it.
func (r *Repository) AliveUsage(ctx context.Context, attributeIDs []int) (map[int]int64, error) {
	type row struct {
		AttributeID int
		Uses        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).
		Table("borg_attributes").
		Select("borg_attributes.attribute_id AS attribute_id, COUNT(*) AS uses").
		Joins("JOIN borgs ON borgs.id = borg_attributes.borg_id").
		Where("borgs.child_id IS NULL").
		Where("borg_attributes.attribute_id IN ?", attributeIDs).
		Group("borg_attributes.attribute_id").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to count attribute usage: %w", err)
	}

	usage := make(map[int]int64, len(rows))
	for _, r := range rows {
		usage[r.AttributeID] = r.Uses
	}
	return usage, nil
}

func applyCondition(q *gorm.DB, column string, c Condition) *gorm.DB {
	switch c {
	case ConditionAlive:
		return q.Where(column + " IS NULL")
	case ConditionDead:
		return q.Where(column + " IS NOT NULL")
	}
	return q
}

func orderLinks(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC")
}
