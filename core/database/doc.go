// Package database handles database connections and schema inspection.
//
// It wraps GORM and configures a dialector for the selected driver: MySQL in
// production, Postgres as an alternative, and SQLite for local runs and tests.
//
// # Connect
//
// Connect builds the DSN with connection and I/O timeouts, applies pool settings
// and pings the server before returning. Error translation is enabled so primary
// key and unique index collisions surface as gorm.ErrDuplicatedKey.
//
// # Schema Inspection
//
// GetTableColumns reads the live column list of a table. The integrity feature
// uses it to compare the item tables against their GORM models.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "borgs")
package database
