package borg

import "context"

// UnknownRarity is returned for an item the catalog does not hold.
const UnknownRarity = -1.0

// RarityCalculator scores items by how common their attributes are among alive items.
type RarityCalculator struct {
	repo *Repository
}

// NewRarityCalculator creates a rarity calculator.
func NewRarityCalculator(repo *Repository) *RarityCalculator {
	return &RarityCalculator{repo: repo}
}

// ComputeRarity returns the mean, over the item's attributes, of the share of alive
// items carrying that attribute. The item counts towards a share only while alive.
// It returns 0 for an item without attributes or when no item is alive, and
// UnknownRarity when the item is not stored.
func (r *RarityCalculator) ComputeRarity(ctx context.Context, id int) (float64, error) {
	exists, err := r.repo.Exists(ctx, id)
	if err != nil {
		return 0, err
	}
	if !exists {
		return UnknownRarity, nil
	}

	attrIDs, err := r.repo.AttributeIDsOf(ctx, id)
	if err != nil {
		return 0, err
	}
	if len(attrIDs) == 0 {
		return 0, nil
	}

	alive, err := r.repo.CountAlive(ctx)
	if err != nil {
		return 0, err
	}
	if alive == 0 {
		return 0, nil
	}

	usage, err := r.repo.AliveUsage(ctx, attrIDs)
	if err != nil {
		return 0, err
	}
	return Rarity(attrIDs, usage, alive), nil
}

// Rarity averages usage[a]/population over attrs.
func Rarity(attrs []int, usage map[int]int64, population int64) float64 {
	if len(attrs) == 0 || population <= 0 {
		return 0
	}
	var sum float64
	for _, a := range attrs {
		sum += float64(usage[a]) / float64(population)
	}
	return sum / float64(len(attrs))
}
