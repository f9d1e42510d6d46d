package borg

import (
	"context"
	"fmt"
	"strings"

	"borg-link/core/chain"
	"borg-link/feature/borg/models"

	"go.uber.org/zap"
)

// Importer turns on-chain data into an unsaved item with its images published.
type Importer struct {
	chain     chain.Client
	publisher *Publisher
	logger    *zap.Logger
}

// NewImporter creates an importer.
func NewImporter(client chain.Client, publisher *Publisher, logger *zap.Logger) *Importer {
	return &Importer{chain: client, publisher: publisher, logger: logger}
}

// Import fetches an item from the chain and publishes its images. It returns nil
// without error when the chain has no attributes for the id yet.
func (i *Importer) Import(ctx context.Context, id int) (*models.Item, error) {
	raw, err := i.chain.FetchItem(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch item %d: %w", id, err)
	}
	if raw == nil || !raw.HasAttributes() {
		i.logger.Debug("Item not available on chain yet", zap.Int("item_id", id))
		return nil, nil
	}

	if err := i.publisher.Publish(ctx, id, raw.Pixels); err != nil {
		return nil, fmt.Errorf("failed to publish item %d: %w", id, err)
	}

	return &models.Item{
		ID:            id,
		URL:           i.publisher.URLTemplate(id),
		Name:          optionalString(raw.Name),
		ParentID1:     optionalID(raw.ParentA),
		ParentID2:     optionalID(raw.ParentB),
		ChildID:       optionalID(raw.Child),
		RawAttributes: attributeNames(raw.Attributes),
	}, nil
}

// attributeNames trims names and drops empty slots, keeping chain order.
func attributeNames(slots []string) []string {
	names := make([]string, 0, len(slots))
	for _, s := range slots {
		if s = strings.TrimSpace(s); s != "" {
			names = append(names, s)
		}
	}
	return names
}

func optionalID(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// Republish uploads any image of a stored item that storage lacks.
func (i *Importer) Republish(ctx context.Context, id int) error {
	raw, err := i.chain.FetchItem(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to fetch item %d: %w", id, err)
	}
	if raw == nil || !raw.HasAttributes() {
		return fmt.Errorf("item %d is not available on chain", id)
	}
	return i.publisher.Publish(ctx, id, raw.Pixels)
}
