package reconcile

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Index holds the id sets loaded from every source.
type Index struct {
	// Chain is the set of ids the contract has produced.
	Chain IDSet

	// DB is the set of stored ids.
	DB IDSet

	// Storage holds the id set of each storage source, keyed by source name.
	Storage map[string]IDSet

	// Built is the timestamp when this index was built.
	Built time.Time

	// TTL is the time-to-live for this index.
	TTL time.Duration
}

// IsExpired returns true if this index has expired based on its TTL.
func (i *Index) IsExpired() bool {
	if i.TTL == 0 {
		return true // No caching
	}
	return time.Since(i.Built) > i.TTL
}

// cacheStore holds built indices keyed by spec cache key.
type cacheStore struct {
	mu      sync.RWMutex
	indices map[string]*Index
	sf      singleflight.Group
}

func newCacheStore() *cacheStore {
	return &cacheStore{indices: make(map[string]*Index)}
}

// BuildIndex loads every source concurrently. The first failing source aborts the build.
func BuildIndex(ctx context.Context, spec *Spec) (*Index, error) {
	idx := &Index{
		Storage: make(map[string]IDSet, len(spec.Storage)),
		TTL:     spec.CacheTTL,
	}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		set, err := spec.Chain.Load(ctx)
		idx.Chain = set
		return err
	})
	g.Go(func() error {
		set, err := spec.DB.Load(ctx)
		idx.DB = set
		return err
	})
	for _, src := range spec.Storage {
		g.Go(func() error {
			set, err := src.Load(ctx)
			if err != nil {
				return err
			}
			mu.Lock()
			idx.Storage[src.Name()] = set
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	idx.Built = time.Now()
	return idx, nil
}

// get returns a fresh cached index for spec or builds one. Concurrent builds of the
// same spec share one load.
func (s *cacheStore) get(ctx context.Context, spec *Spec) (*Index, error) {
	key := spec.CacheKey()

	// Fast path: check if index exists and is fresh
	s.mu.RLock()
	idx, exists := s.indices[key]
	s.mu.RUnlock()
	if exists && !idx.IsExpired() {
		return idx, nil
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		s.mu.RLock()
		idx, exists := s.indices[key]
		s.mu.RUnlock()
		if exists && !idx.IsExpired() {
			return idx, nil
		}

		built, err := BuildIndex(ctx, spec)
		if err != nil {
			return nil, err
		}

		s.mu.Lock()
		s.indices[key] = built
		s.mu.Unlock()
		return built, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Index), nil
}

func (s *cacheStore) invalidate(spec *Spec) {
	s.mu.Lock()
	delete(s.indices, spec.CacheKey())
	s.mu.Unlock()
}
