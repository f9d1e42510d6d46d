package reconcile

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	chainmocks "borg-link/core/chain/mocks"
	"borg-link/core/storage/mocks"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// staticSource is a Source with a fixed id set.
type staticSource struct {
	name  string
	ids   []int
	err   error
	loads *atomic.Int32
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Load(context.Context) (IDSet, error) {
	if s.loads != nil {
		s.loads.Add(1)
	}
	if s.err != nil {
		return nil, s.err
	}
	set := make(IDSet, len(s.ids))
	for _, id := range s.ids {
		set[id] = struct{}{}
	}
	return set, nil
}

func testSpec() Spec {
	return Spec{
		Chain: staticSource{name: "chain", ids: []int{1, 2, 3, 4}},
		DB:    staticSource{name: "db", ids: []int{1, 2, 3, 9}},
		Storage: []Source{
			staticSource{name: "live-default", ids: []int{1, 2, 3}},
			staticSource{name: "live-large", ids: []int{1, 3}},
		},
	}
}

func TestEngine_ReconcileAll(t *testing.T) {
	results, err := NewEngine(testSpec()).ReconcileAll(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 5)

	ids := []int{}
	for _, r := range results {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []int{1, 2, 3, 4, 9}, ids)

	assert.True(t, results[0].StorageComplete())
	assert.Equal(t, []string{"live-large"}, results[1].MissingStorage())
	assert.False(t, results[3].DBPresent)
	assert.True(t, results[3].ChainPresent)
	assert.False(t, results[4].ChainPresent)
}

func TestBuildIndex_ErrorHandling(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Spec)
		expectErr string
	}{
		{"chain error", func(s *Spec) { s.Chain = staticSource{name: "chain", err: errors.New("chain error")} }, "chain error"},
		{"db error", func(s *Spec) { s.DB = staticSource{name: "db", err: errors.New("db error")} }, "db error"},
		{"storage error", func(s *Spec) {
			s.Storage = []Source{staticSource{name: "live-default", err: errors.New("storage error")}}
		}, "storage error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := testSpec()
			tt.mutate(&spec)
			_, err := BuildIndex(context.Background(), &spec)
			assert.ErrorContains(t, err, tt.expectErr)
		})
	}
}

func TestEngine_ReconcileOneUsesCache(t *testing.T) {
	var loads atomic.Int32
	spec := testSpec()
	spec.DB = staticSource{name: "db", ids: []int{1}, loads: &loads}
	spec.CacheTTL = time.Minute
	e := NewEngine(spec)

	for i := 0; i < 3; i++ {
		r, err := e.ReconcileOne(context.Background(), 1)
		require.NoError(t, err)
		assert.True(t, r.DBPresent)
	}
	assert.Equal(t, int32(1), loads.Load())

	e.Invalidate()
	_, err := e.ReconcileOne(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int32(2), loads.Load())
}

func TestEngine_NoCacheWithoutTTL(t *testing.T) {
	var loads atomic.Int32
	spec := testSpec()
	spec.DB = staticSource{name: "db", loads: &loads}
	e := NewEngine(spec)

	_, _ = e.ReconcileOne(context.Background(), 1)
	_, _ = e.ReconcileOne(context.Background(), 1)
	assert.Equal(t, int32(2), loads.Load())
}

func TestChainSource(t *testing.T) {
	client := new(chainmocks.Client)
	client.On("FetchTotalGeneratedCount", mock.Anything).Return(3, nil)

	set, err := ChainSource{Client: client, FirstID: 1}.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IDSet{1: {}, 2: {}, 3: {}}, set)
}

func TestStorageSource(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 4)
	ch <- minio.ObjectInfo{Key: "live-medium/"}
	ch <- minio.ObjectInfo{Key: "live-medium/12.png"}
	ch <- minio.ObjectInfo{Key: "live-medium/notes.txt"}
	ch <- minio.ObjectInfo{Key: "live-medium/3.png"}
	close(ch)
	client.On("ListObjects", mock.Anything, "borgs", mock.MatchedBy(func(o minio.ListObjectsOptions) bool {
		return o.Prefix == "live-medium/" && o.Recursive
	})).Return((<-chan minio.ObjectInfo)(ch))

	src := StorageSource{Client: client, Bucket: "borgs", Prefix: "live-medium", Extension: ".png"}
	set, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IDSet{3: {}, 12: {}}, set)
	assert.Equal(t, "live-medium", src.Name())
}

func TestStorageSource_ListError(t *testing.T) {
	client := new(mocks.Client)
	ch := make(chan minio.ObjectInfo, 1)
	ch <- minio.ObjectInfo{Err: errors.New("access denied")}
	close(ch)
	client.On("ListObjects", mock.Anything, "borgs", mock.Anything).Return((<-chan minio.ObjectInfo)(ch))

	_, err := StorageSource{Client: client, Bucket: "borgs", Prefix: "live-large", Extension: ".png"}.Load(context.Background())
	assert.ErrorContains(t, err, "access denied")
}

func TestExtractID(t *testing.T) {
	id, ok := ExtractID("test-default/42.png", ".png")
	assert.True(t, ok)
	assert.Equal(t, 42, id)

	_, ok = ExtractID("test-default/", ".png")
	assert.False(t, ok)
	_, ok = ExtractID("test-default/x.png", ".png")
	assert.False(t, ok)
	_, ok = ExtractID("test-default/42.jpg", ".png")
	assert.False(t, ok)
}
