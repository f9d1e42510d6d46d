package borg

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"borg-link/core/chain"
	chainmocks "borg-link/core/chain/mocks"
	"borg-link/core/storage/mocks"
	"borg-link/feature/borg/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type countingNotifier struct {
	calls atomic.Int32
	ok    bool
}

func (n *countingNotifier) Propagate(context.Context) bool {
	n.calls.Add(1)
	return n.ok
}

type coordinatorFixture struct {
	db       *gorm.DB
	chain    *chainmocks.Client
	storage  *mocks.Client
	notifier *countingNotifier
	coord    *Coordinator
}

func newCoordinatorFixture(t *testing.T) *coordinatorFixture {
	t.Helper()
	f := &coordinatorFixture{
		db:       newTestDB(t),
		chain:    new(chainmocks.Client),
		storage:  new(mocks.Client),
		notifier: &countingNotifier{ok: true},
	}
	f.storage.On("StatObject", mock.Anything, "borgs", mock.Anything, mock.Anything).Return(minio.ObjectInfo{}, notFound)
	f.storage.On("PutObject", mock.Anything, "borgs", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, nil)

	publisher := NewPublisher(f.storage, testStorageCfg, "test", testResolutions(), zap.NewNop())
	importer := NewImporter(f.chain, publisher, zap.NewNop())
	f.coord = NewCoordinator(f.db, importer, f.notifier, zap.NewNop())
	return f
}

func rawItem(attrs ...string) *chain.RawItem {
	return &chain.RawItem{Pixels: redPixels(4), Attributes: attrs}
}

func TestCoordinator_SaveImported(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	raw := rawItem("Body", "", "Eyes", "Hat")
	raw.Name = "  Zed "
	f.chain.On("FetchItem", mock.Anything, 1).Return(raw, nil)

	item, err := f.coord.SaveImported(ctx, 1, true)
	require.NoError(t, err)
	require.NotNil(t, item)

	assert.Equal(t, 1, item.ID)
	assert.Equal(t, "https://cdn.local/borgs/test-{resolution}/1.png", item.URL)
	require.NotNil(t, item.Name)
	assert.Equal(t, "Zed", *item.Name)
	assert.Nil(t, item.ParentID1)
	assert.Nil(t, item.ChildID)

	require.Len(t, item.Attributes, 3)
	assert.Equal(t, "Body", item.Attributes[0].Attribute.Name)
	assert.Equal(t, "Eyes", item.Attributes[1].Attribute.Name)
	assert.Equal(t, "Hat", item.Attributes[2].Attribute.Name)

	assert.Equal(t, int32(1), f.notifier.calls.Load())
	f.storage.AssertNumberOfCalls(t, "PutObject", 3)
}

func TestCoordinator_Idempotent(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()
	f.chain.On("FetchItem", mock.Anything, 2).Return(rawItem("Body", "Hat"), nil)

	first, err := f.coord.SaveImported(ctx, 2, false)
	require.NoError(t, err)
	second, err := f.coord.SaveImported(ctx, 2, true)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, second.Attributes, 2)
	f.chain.AssertNumberOfCalls(t, "FetchItem", 1)
	assert.Zero(t, f.notifier.calls.Load(), "existing items are not propagated")

	var items, links int64
	require.NoError(t, f.db.Model(&models.Item{}).Count(&items).Error)
	require.NoError(t, f.db.Model(&models.ItemAttribute{}).Count(&links).Error)
	assert.Equal(t, int64(1), items)
	assert.Equal(t, int64(2), links)
}

func TestCoordinator_Concurrent(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.chain.On("FetchItem", mock.Anything, 3).Return(rawItem("Body"), nil)

	var wg sync.WaitGroup
	results := make([]*models.Item, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			item, err := f.coord.SaveImported(context.Background(), 3, false)
			assert.NoError(t, err)
			results[i] = item
		}(i)
	}
	wg.Wait()

	for _, item := range results {
		require.NotNil(t, item)
		assert.Equal(t, 3, item.ID)
	}
	var count int64
	require.NoError(t, f.db.Model(&models.Item{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestCoordinator_DuplicateInsertReturnsExisting(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()

	// The item lands in the store while the import is fetching.
	f.chain.On("FetchItem", mock.Anything, 4).
		Run(func(mock.Arguments) {
			seedItem(t, f.db, models.Item{ID: 4, URL: "stored"}, "Body")
		}).
		Return(rawItem("Body", "Hat"), nil)

	item, err := f.coord.SaveImported(ctx, 4, true)
	require.NoError(t, err)
	require.NotNil(t, item)
	assert.Equal(t, "stored", item.URL)
	assert.Len(t, item.Attributes, 1)
	assert.Zero(t, f.notifier.calls.Load())
}

func TestCoordinator_NotOnChainYet(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.chain.On("FetchItem", mock.Anything, 5).Return(rawItem("", " "), nil)

	item, err := f.coord.SaveImported(context.Background(), 5, true)
	require.NoError(t, err)
	assert.Nil(t, item)
	f.storage.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestCoordinator_ChainFailure(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.chain.On("FetchItem", mock.Anything, 6).Return(nil, errors.New("rpc timeout"))

	_, err := f.coord.SaveImported(context.Background(), 6, false)
	assert.ErrorContains(t, err, "rpc timeout")

	exists, err := NewRepository(f.db).Exists(context.Background(), 6)
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestCoordinator_BackfillsParents(t *testing.T) {
	f := newCoordinatorFixture(t)
	ctx := context.Background()
	seedItem(t, f.db, models.Item{ID: 3}, "Body")

	raw := rawItem("Body")
	raw.ParentA, raw.ParentB = 3, 4
	f.chain.On("FetchItem", mock.Anything, 10).Return(raw, nil)

	item, err := f.coord.SaveImported(ctx, 10, false)
	require.NoError(t, err)
	require.NotNil(t, item.ParentID1)
	assert.Equal(t, 3, *item.ParentID1)
	assert.Equal(t, 4, *item.ParentID2)

	repo := NewRepository(f.db)
	parent, err := repo.FindByID(ctx, 3)
	require.NoError(t, err)
	require.NotNil(t, parent.ChildID)
	assert.Equal(t, 10, *parent.ChildID)

	// Parent 4 arrives later and the relation pass catches up.
	seedItem(t, f.db, models.Item{ID: 4}, "Body")
	updated, err := f.coord.BackfillRelations(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, updated)

	parent, err = repo.FindByID(ctx, 4)
	require.NoError(t, err)
	require.NotNil(t, parent.ChildID)
	assert.Equal(t, 10, *parent.ChildID)
}

func TestCoordinator_Republish(t *testing.T) {
	f := newCoordinatorFixture(t)
	f.chain.On("FetchItem", mock.Anything, 7).Return(rawItem("Body"), nil)
	f.chain.On("FetchItem", mock.Anything, 8).Return(rawItem(), nil)

	require.NoError(t, f.coord.Republish(context.Background(), 7))
	f.storage.AssertNumberOfCalls(t, "PutObject", 3)

	assert.Error(t, f.coord.Republish(context.Background(), 8))
}
