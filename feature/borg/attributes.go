package borg

import (
	"context"
	"fmt"

	"borg-link/feature/borg/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttributeReconciler maps attribute names to rows, creating the missing ones.
type AttributeReconciler struct{}

// Reconcile returns the attribute id of every non-empty name, creating attributes
// that do not exist yet. A new attribute takes the index of its name in names as
// layer number. Concurrent callers racing on the same name converge on one row.
func (AttributeReconciler) Reconcile(ctx context.Context, tx *gorm.DB, names []string) (map[string]int, error) {
	wanted := make([]string, 0, len(names))
	layers := make(map[string]int, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		if _, ok := layers[name]; ok {
			continue
		}
		layers[name] = i
		wanted = append(wanted, name)
	}
	if len(wanted) == 0 {
		return map[string]int{}, nil
	}

	ids, err := lookupAttributes(ctx, tx, wanted, false)
	if err != nil {
		return nil, err
	}

	var missing []models.Attribute
	for _, name := range wanted {
		if _, ok := ids[name]; !ok {
			missing = append(missing, models.Attribute{Name: name, LayerNumber: layers[name]})
		}
	}
	if len(missing) == 0 {
		return ids, nil
	}

	err = tx.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&missing).Error
	if err != nil {
		return nil, fmt.Errorf("failed to create attributes: %w", err)
	}

	// Rows inserted by a concurrent transaction are only visible to a locking read.
	ids, err = lookupAttributes(ctx, tx, wanted, true)
	if err != nil {
		return nil, err
	}
	for _, name := range wanted {
		if _, ok := ids[name]; !ok {
			return nil, fmt.Errorf("attribute %q could not be resolved", name)
		}
	}
	return ids, nil
}

func lookupAttributes(ctx context.Context, tx *gorm.DB, names []string, locking bool) (map[string]int, error) {
	q := tx.WithContext(ctx).Where("name IN ?", names)
	if locking && tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "SHARE"})
	}

	var found []models.Attribute
	if err := q.Find(&found).Error; err != nil {
		return nil, fmt.Errorf("failed to look up attributes: %w", err)
	}

	ids := make(map[string]int, len(found))
	for _, a := range found {
		ids[a.Name] = a.ID
	}
	return ids, nil
}
