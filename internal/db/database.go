package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

var database *gorm.DB

// Connect opens the postgres connection and configures the pool.
func Connect(cfg *config.Config) error {
	gormLogLevel := gormlogger.Warn
	if cfg.Server.Environment == "development" {
		gormLogLevel = gormlogger.Info
	}

	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	database = db
	logger.Info("database connected", logger.Fields{
		"host": cfg.Database.Host,
		"name": cfg.Database.DBName,
	})
	return nil
}

// Get returns the shared database handle.
func Get() *gorm.DB {
	return database
}

// Close closes the underlying connection pool.
func Close() error {
	if database == nil {
		return nil
	}
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
