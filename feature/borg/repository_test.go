package borg

import (
	"context"
	"testing"

	"borg-link/feature/borg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCondition(t *testing.T) {
	c, err := ParseCondition("")
	require.NoError(t, err)
	assert.Equal(t, ConditionBoth, c)

	c, err = ParseCondition("dead")
	require.NoError(t, err)
	assert.Equal(t, ConditionDead, c)

	_, err = ParseCondition("zombie")
	assert.Error(t, err)
}

func TestRepository_List(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	for id := 1; id <= 25; id++ {
		item := models.Item{ID: id}
		if id%5 == 0 {
			item.ChildID = intPtr(100 + id)
		}
		attrs := []string{"Body"}
		if id%2 == 0 {
			attrs = append(attrs, "Hat")
		}
		seedItem(t, db, item, attrs...)
	}
	seedItem(t, db, models.Item{ID: 26, ParentID1: intPtr(3), ParentID2: intPtr(4)}, "Visor")

	t.Run("total count ignores paging", func(t *testing.T) {
		for _, n := range []int{0, 1, 2} {
			page, err := repo.List(ctx, Filter{Condition: ConditionBoth}, models.Page{Number: n, Size: 10})
			require.NoError(t, err)
			assert.Equal(t, 26, page.TotalResults)
		}
		page, err := repo.List(ctx, Filter{}, models.Page{Number: 2, Size: 10})
		require.NoError(t, err)
		assert.Len(t, page.Results, 6)
	})

	t.Run("newest first with ordered attributes", func(t *testing.T) {
		page, err := repo.List(ctx, Filter{}, models.Page{Number: 0, Size: 2})
		require.NoError(t, err)
		require.Len(t, page.Results, 2)
		assert.Equal(t, 26, page.Results[0].ID)
		assert.Equal(t, 25, page.Results[1].ID)

		p2, err := repo.List(ctx, Filter{}, models.Page{Number: 12, Size: 2})
		require.NoError(t, err)
		require.Len(t, p2.Results, 2)
		item := p2.Results[0]
		assert.Equal(t, 2, item.ID)
		require.Len(t, item.Attributes, 2)
		assert.Equal(t, "Body", item.Attributes[0].Attribute.Name)
		assert.Equal(t, "Hat", item.Attributes[1].Attribute.Name)
	})

	t.Run("attribute filter", func(t *testing.T) {
		page, err := repo.List(ctx, Filter{Attributes: []string{"Hat"}}, models.Page{Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 12, page.TotalResults)
		assert.Len(t, page.Results, 10)
	})

	t.Run("condition filter", func(t *testing.T) {
		dead, err := repo.List(ctx, Filter{Condition: ConditionDead}, models.Page{Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 5, dead.TotalResults)

		alive, err := repo.List(ctx, Filter{Condition: ConditionAlive}, models.Page{Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 21, alive.TotalResults)
	})

	t.Run("parent and child filters", func(t *testing.T) {
		page, err := repo.List(ctx, Filter{ParentID: intPtr(4)}, models.Page{Size: 10})
		require.NoError(t, err)
		require.Equal(t, 1, page.TotalResults)
		assert.Equal(t, 26, page.Results[0].ID)

		page, err = repo.List(ctx, Filter{ChildID: intPtr(110)}, models.Page{Size: 10})
		require.NoError(t, err)
		require.Equal(t, 1, page.TotalResults)
		assert.Equal(t, 10, page.Results[0].ID)
	})

	t.Run("page past the end", func(t *testing.T) {
		page, err := repo.List(ctx, Filter{}, models.Page{Number: 50, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, 26, page.TotalResults)
		assert.Empty(t, page.Results)
	})
}

func TestRepository_AttributeCounts(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedItem(t, db, models.Item{ID: 1}, "Body", "Hat")
	seedItem(t, db, models.Item{ID: 2, ChildID: intPtr(3)}, "Body", "Hat")
	seedItem(t, db, models.Item{ID: 3}, "Body", "Visor")

	counts, err := repo.AttributeCounts(ctx, ConditionBoth)
	require.NoError(t, err)
	assert.Equal(t, []models.AttributeCount{
		{Name: "Body", Count: 3},
		{Name: "Hat", Count: 2},
		{Name: "Visor", Count: 1},
	}, counts)

	counts, err = repo.AttributeCounts(ctx, ConditionAlive)
	require.NoError(t, err)
	assert.Equal(t, []models.AttributeCount{
		{Name: "Body", Count: 2},
		{Name: "Hat", Count: 1},
		{Name: "Visor", Count: 1},
	}, counts)
}

func TestRepository_SetChildIfEmpty(t *testing.T) {
	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedItem(t, db, models.Item{ID: 1})

	ok, err := repo.SetChildIfEmpty(ctx, 1, 7)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.SetChildIfEmpty(ctx, 1, 8)
	require.NoError(t, err)
	assert.False(t, ok, "child is set only once")

	ok, err = repo.SetChildIfEmpty(ctx, 99, 8)
	require.NoError(t, err)
	assert.False(t, ok)

	item, err := repo.FindByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, item.ChildID)
	assert.Equal(t, 7, *item.ChildID)
}

func TestRepository_FindByIDMissing(t *testing.T) {
	repo := NewRepository(newTestDB(t))
	item, err := repo.FindByID(context.Background(), 42)
	assert.NoError(t, err)
	assert.Nil(t, item)
}
