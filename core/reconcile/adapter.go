package reconcile

import (
	"context"
	"fmt"
	"path"
	"strconv"
	"strings"

	"borg-link/core/chain"
	"borg-link/core/storage"

	"github.com/minio/minio-go/v7"
	"gorm.io/gorm"
)

// Source loads the set of item ids known to one system.
type Source interface {
	// Name returns the unique name of this source (e.g., "chain", "live-medium").
	Name() string

	// Load returns every id the source holds. Implementations should use a single
	// listing or batch query rather than per-item lookups.
	Load(ctx context.Context) (IDSet, error)
}

// ChainSource lists ids from the first id up to the contract's generated count.
type ChainSource struct {
	Client  chain.Client
	FirstID int
}

// Name implements Source.
func (s ChainSource) Name() string { return "chain" }

// Load implements Source.
func (s ChainSource) Load(ctx context.Context) (IDSet, error) {
	total, err := s.Client.FetchTotalGeneratedCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch generated count: %w", err)
	}
	set := make(IDSet, total)
	for id := s.FirstID; id <= total; id++ {
		set[id] = struct{}{}
	}
	return set, nil
}

// TableSource lists the ids of a database table.
type TableSource struct {
	DB     *gorm.DB
	Table  string
	Column string
}

// Name implements Source.
func (s TableSource) Name() string { return "db:" + s.Table }

// Load implements Source.
func (s TableSource) Load(ctx context.Context) (IDSet, error) {
	column := s.Column
	if column == "" {
		column = "id"
	}

	var ids []int
	if err := s.DB.WithContext(ctx).Table(s.Table).Pluck(column, &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load ids from %s: %w", s.Table, err)
	}
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// StorageSource lists ids of objects named "{prefix}/{id}{extension}".
type StorageSource struct {
	Client    storage.Client
	Bucket    string
	Prefix    string
	Extension string
}

// Name implements Source.
func (s StorageSource) Name() string { return s.Prefix }

// Load implements Source. Objects not matching the naming pattern are ignored.
func (s StorageSource) Load(ctx context.Context) (IDSet, error) {
	set := make(IDSet)
	opts := minio.ListObjectsOptions{
		Prefix:    strings.TrimSuffix(s.Prefix, "/") + "/",
		Recursive: true,
	}
	for obj := range s.Client.ListObjects(ctx, s.Bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", s.Prefix, obj.Err)
		}
		if id, ok := ExtractID(obj.Key, s.Extension); ok {
			set[id] = struct{}{}
		}
	}
	return set, nil
}

// ExtractID parses "any/path/{id}{extension}" into the id.
func ExtractID(objectKey, extension string) (int, bool) {
	base := path.Base(objectKey)
	if !strings.HasSuffix(base, extension) {
		return 0, false
	}
	id, err := strconv.Atoi(strings.TrimSuffix(base, extension))
	if err != nil || id < 0 {
		return 0, false
	}
	return id, true
}
