package borg

import (
	"context"
	"testing"

	"borg-link/core/database"
	"borg-link/core/storage"
	"borg-link/feature/borg/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testStorageCfg = storage.Config{
	Endpoint:  "cdn.local",
	Bucket:    "borgs",
	PublicURL: "https://cdn.local",
}

func testResolutions() []models.ResolutionSpec {
	return []models.ResolutionSpec{
		{Name: models.ResolutionDefault, Width: 2, Height: 2},
		{Name: models.ResolutionMedium, Width: 6, Height: 6, Crop: 1},
		{Name: models.ResolutionLarge, Width: 8, Height: 8, Crop: 2},
	}
}

func testConfig() Config {
	return Config{
		DefaultSize:      2,
		MediumSize:       6,
		MediumCrop:       1,
		LargeSize:        8,
		LargeCrop:        2,
		DefaultPerPage:   10,
		MaxPerPage:       50,
		ListCacheSeconds: 30,
		ItemCacheSeconds: 20,
		SyncSchedule:     "@every 1m",
		BackfillSchedule: "@every 10m",
		PingSchedule:     "@every 5m",
		Description:      "A test borg",
		ExternalURL:      "https://borgs.test/",
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, NewRepository(db).Migrate())
	return db
}

func intPtr(v int) *int {
	return &v
}

// seedItem stores an item linked to the named attributes, creating them as needed.
func seedItem(t *testing.T, db *gorm.DB, item models.Item, attrs ...string) {
	t.Helper()
	if item.URL == "" {
		item.URL = "https://cdn.local/borgs/test-{resolution}/x.png"
	}
	require.NoError(t, db.Create(&item).Error)

	ids, err := AttributeReconciler{}.Reconcile(context.Background(), db, attrs)
	require.NoError(t, err)
	for i, name := range attrs {
		require.NoError(t, db.Create(&models.ItemAttribute{
			ItemID:      item.ID,
			AttributeID: ids[name],
			Position:    i,
		}).Error)
	}
}
