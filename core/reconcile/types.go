package reconcile

import (
	"sort"
	"strings"
	"time"
)

// IDSet is a set of item ids.
type IDSet map[int]struct{}

// Has reports whether id is in the set.
func (s IDSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// Result is the presence of a single item across every source.
type Result struct {
	// ID is the item id.
	ID int `json:"id"`

	// ChainPresent indicates whether the contract has produced the item.
	ChainPresent bool `json:"chain_present"`

	// DBPresent indicates whether the item is stored in the database.
	DBPresent bool `json:"db_present"`

	// Storage holds presence per storage source, keyed by source name.
	Storage map[string]bool `json:"storage"`
}

// StorageComplete reports whether every storage source holds the item.
func (r Result) StorageComplete() bool {
	for _, ok := range r.Storage {
		if !ok {
			return false
		}
	}
	return true
}

// MissingStorage returns the names of storage sources lacking the item, sorted.
func (r Result) MissingStorage() []string {
	var missing []string
	for name, ok := range r.Storage {
		if !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// Spec defines the sources compared by a reconciliation.
type Spec struct {
	// Chain lists the ids the contract has produced.
	Chain Source

	// DB lists the ids stored in the database.
	DB Source

	// Storage lists the ids present in each storage location.
	Storage []Source

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration
}

// CacheKey returns a unique key for caching based on the spec's sources.
func (s *Spec) CacheKey() string {
	parts := []string{s.Chain.Name(), s.DB.Name()}
	for _, src := range s.Storage {
		parts = append(parts, src.Name())
	}
	return strings.Join(parts, "|")
}

// ActionType represents the type of repair action.
type ActionType string

const (
	// ActionImport imports an item the chain has produced but the database lacks.
	ActionImport ActionType = "import"
	// ActionRepublish uploads images missing from storage for a stored item.
	ActionRepublish ActionType = "republish"
)

// Action represents a planned repair.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// ID is the item id.
	ID int `json:"id"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`
}

// Plan contains reconciliation results and planned actions.
type Plan struct {
	// Results contains per-item reconciliation data, ordered by id.
	Results []Result `json:"results"`

	// Actions contains planned repairs.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary Summary `json:"summary"`
}

// Summary provides aggregate statistics for a plan.
type Summary struct {
	// TotalItems is the number of distinct ids seen in any source.
	TotalItems int `json:"total_items"`

	// MissingDB counts ids on chain that are not stored.
	MissingDB int `json:"missing_db"`

	// MissingStorage counts stored items lacking at least one image.
	MissingStorage int `json:"missing_storage"`

	// Orphaned counts stored items the chain does not report.
	Orphaned int `json:"orphaned"`

	// ImportActions counts planned imports.
	ImportActions int `json:"import_actions"`

	// RepublishActions counts planned republishes.
	RepublishActions int `json:"republish_actions"`
}

// Options controls whether a plan is executed.
type Options struct {
	// DryRun prevents execution of any actions if true.
	DryRun bool

	// Confirmed indicates the caller asked for the repairs.
	// If false, actions will not execute regardless of DryRun.
	Confirmed bool
}
