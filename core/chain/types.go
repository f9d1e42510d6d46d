package chain

import (
	"context"
	"strings"
)

// RawItem is an item as reported by the contract. Zero parent and child ids mean absent.
type RawItem struct {
	Name       string
	Pixels     []string
	Attributes []string
	ParentA    int
	ParentB    int
	Child      int
}

// HasAttributes reports whether any attribute slot is set. An item with none has not
// been minted yet.
func (r *RawItem) HasAttributes() bool {
	for _, a := range r.Attributes {
		if strings.TrimSpace(a) != "" {
			return true
		}
	}
	return false
}

// EventKind names a contract event.
type EventKind string

const (
	EventGenerated EventKind = "GeneratedBorg"
	EventBred      EventKind = "BredBorg"
)

// Event is a decoded contract event naming a new item.
type Event struct {
	Kind    EventKind
	ItemID  int
	ParentA int
	ParentB int
	Block   uint64
	TxHash  string
}

// Subscription is a live event stream.
type Subscription interface {
	// Err delivers a single error when the stream fails, and is closed on Unsubscribe.
	Err() <-chan error
	// Unsubscribe stops the stream.
	Unsubscribe()
}

// Client reads items from the collectible contract.
type Client interface {
	// FetchItem returns the on-chain data of an item.
	FetchItem(ctx context.Context, id int) (*RawItem, error)
	// FetchTotalGeneratedCount returns how many items the contract has produced.
	FetchTotalGeneratedCount(ctx context.Context) (int, error)
	// SubscribeEvents streams GeneratedBorg and BredBorg events into sink.
	SubscribeEvents(ctx context.Context, sink chan<- Event) (Subscription, error)
}
