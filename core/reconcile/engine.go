package reconcile

import (
	"context"
	"sort"
)

// Engine compares the chain, the database and storage.
type Engine struct {
	spec  Spec
	cache *cacheStore
}

// NewEngine creates an engine for spec.
func NewEngine(spec Spec) *Engine {
	return &Engine{spec: spec, cache: newCacheStore()}
}

// Index returns the cached index, rebuilding it once its TTL has passed.
func (e *Engine) Index(ctx context.Context) (*Index, error) {
	return e.cache.get(ctx, &e.spec)
}

// Invalidate drops the cached index.
func (e *Engine) Invalidate() {
	e.cache.invalidate(&e.spec)
}

// ReconcileAll builds a fresh index and returns a result for every id seen in
// any source, ordered by id.
func (e *Engine) ReconcileAll(ctx context.Context) ([]Result, error) {
	idx, err := BuildIndex(ctx, &e.spec)
	if err != nil {
		return nil, err
	}
	return resultsFromIndex(idx), nil
}

// ReconcileOne returns the presence of a single id using the cached index.
func (e *Engine) ReconcileOne(ctx context.Context, id int) (*Result, error) {
	idx, err := e.Index(ctx)
	if err != nil {
		return nil, err
	}
	result := buildResult(id, idx)
	return &result, nil
}

func resultsFromIndex(idx *Index) []Result {
	union := buildUnion(idx)

	results := make([]Result, 0, len(union))
	for id := range union {
		results = append(results, buildResult(id, idx))
	}

	// Sort results by id for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})
	return results
}

// buildUnion creates the union of ids across all sources.
func buildUnion(idx *Index) IDSet {
	union := make(IDSet, len(idx.Chain))
	for id := range idx.Chain {
		union[id] = struct{}{}
	}
	for id := range idx.DB {
		union[id] = struct{}{}
	}
	for _, set := range idx.Storage {
		for id := range set {
			union[id] = struct{}{}
		}
	}
	return union
}

// buildResult creates a Result for a single id.
func buildResult(id int, idx *Index) Result {
	result := Result{
		ID:           id,
		ChainPresent: idx.Chain.Has(id),
		DBPresent:    idx.DB.Has(id),
		Storage:      make(map[string]bool, len(idx.Storage)),
	}
	for name, set := range idx.Storage {
		result.Storage[name] = set.Has(id)
	}
	return result
}
