package db

import (
	"fmt"
	"log"
	"sync/atomic"

	"github.com/glebarez/sqlite"
	"github.com/jmpark/gocheol-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testDBCounter gives each test database a unique shared-cache name so
// separate SetupTestDB calls stay isolated.
var testDBCounter atomic.Int64

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB() (*gorm.DB, error) {
	// A plain ":memory:" DSN gives each pooled connection its own empty
	// database; a named shared-cache DSN lets all connections see one schema.
	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared", testDBCounter.Add(1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to test database: %w", err)
	}

	// Run migrations
	err = db.AutoMigrate(
		&model.Site{},
		&model.MaterialType{},
		&model.SymbolMap{},
		&model.MarketPriceDaily{},
		&model.PricingCoefficient{},
		&model.PricingDecision{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate test database: %w", err)
	}

	if err := ensureUniqueIndexes(db); err != nil {
		return nil, fmt.Errorf("failed to create unique indexes: %w", err)
	}

	return db, nil
}

// CleanupTestDB cleans up the test database
func CleanupTestDB(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Failed to get DB instance: %v", err)
		return
	}
	sqlDB.Close()
}

// TruncateAllTables removes all data from tables
func TruncateAllTables(db *gorm.DB) error {
	tables := []string{
		"pricing_decisions", "pricing_coefficients", "market_prices_daily",
		"symbol_maps", "material_types", "sites",
	}
	for _, table := range tables {
		if err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)).Error; err != nil {
			return err
		}
	}
	return nil
}
