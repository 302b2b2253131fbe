package db

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/swarnika/swarnika-backend/internal/app/model"
)

// SetupTestDB opens an in-memory sqlite database with the full schema.
// The database is shared within the process; pair with CleanupTestDB.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=foreign_keys(1)"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := Migrate(testDB); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return testDB
}

// CleanupTestDB truncates every table so tests can share a database handle.
func CleanupTestDB(t *testing.T, testDB *gorm.DB) {
	t.Helper()

	tables := []interface{}{
		&model.GoldmineInstallment{},
		&model.GoldmineSubscription{},
		&model.GoldminePlan{},
		&model.Notification{},
		&model.TrackingConfig{},
		&model.OrderItem{},
		&model.Order{},
		&model.CartItem{},
		&model.Discount{},
		&model.MetalRate{},
		&model.Blog{},
		&model.Banner{},
		&model.ProductOption{},
		&model.Product{},
		&model.Category{},
		&model.User{},
	}
	for _, table := range tables {
		if err := testDB.Session(&gorm.Session{AllowGlobalUpdate: true}).Unscoped().Delete(table).Error; err != nil {
			t.Fatalf("failed to clean up table %T: %v", table, err)
		}
	}
}
