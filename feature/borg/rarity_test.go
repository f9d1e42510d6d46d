package borg

import (
	"context"
	"testing"

	"borg-link/feature/borg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRarity(t *testing.T) {
	assert.Equal(t, 0.0, Rarity(nil, nil, 10))
	assert.Equal(t, 0.0, Rarity([]int{1}, map[int]int64{1: 3}, 0))
	assert.InDelta(t, 0.375, Rarity([]int{1, 2}, map[int]int64{1: 4, 2: 2}, 8), 1e-9)
}

func TestRarityCalculator_ComputeRarity(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	seedItem(t, db, models.Item{ID: 1}, "Body", "Hat")
	seedItem(t, db, models.Item{ID: 2}, "Body")
	seedItem(t, db, models.Item{ID: 3}, "Body", "Visor")
	seedItem(t, db, models.Item{ID: 4, ChildID: intPtr(9)}, "Body", "Hat")
	seedItem(t, db, models.Item{ID: 5})

	calc := NewRarityCalculator(NewRepository(db))

	t.Run("unknown item", func(t *testing.T) {
		r, err := calc.ComputeRarity(ctx, 404)
		require.NoError(t, err)
		assert.Equal(t, UnknownRarity, r)
	})

	t.Run("no attributes", func(t *testing.T) {
		r, err := calc.ComputeRarity(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 0.0, r)
	})

	t.Run("alive population only", func(t *testing.T) {
		// 4 alive items. Body is on 3 of them and Hat on 1.
		r, err := calc.ComputeRarity(ctx, 1)
		require.NoError(t, err)
		assert.InDelta(t, (3.0/4+1.0/4)/2, r, 1e-9)
	})

	t.Run("dead item is not counted", func(t *testing.T) {
		r, err := calc.ComputeRarity(ctx, 4)
		require.NoError(t, err)
		assert.InDelta(t, (3.0/4+1.0/4)/2, r, 1e-9)
	})
}
