package borg

import (
	"context"
	"fmt"
	"sort"

	"borg-link/core/chain"
)

// GapDetector finds ids the chain has produced but the catalog does not hold.
type GapDetector struct {
	repo  *Repository
	chain chain.Client
}

// NewGapDetector creates a gap detector.
func NewGapDetector(repo *Repository, client chain.Client) *GapDetector {
	return &GapDetector{repo: repo, chain: client}
}

// FindMissingIds returns the missing ids in ascending order.
func (g *GapDetector) FindMissingIds(ctx context.Context) ([]int, error) {
	known, err := g.repo.AllIDs(ctx)
	if err != nil {
		return nil, err
	}
	total, err := g.chain.FetchTotalGeneratedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated count: %w", err)
	}
	return MissingIDs(known, total), nil
}

// MissingIDs returns every id between FirstItemID and total that is absent from
// known, including gaps between known ids. Known ids above total are ignored as bounds
// but still close the gaps below them.
func MissingIDs(known []int, total int) []int {
	ids := append([]int(nil), known...)
	sort.Ints(ids)

	missing := []int{}
	next := FirstItemID
	for _, id := range ids {
		if id < next {
			continue
		}
		for ; next < id; next++ {
			missing = append(missing, next)
		}
		next = id + 1
	}
	for ; next <= total; next++ {
		missing = append(missing, next)
	}
	return missing
}
