package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/internal/app/model"
)

// Migrate runs auto-migration for every model in dependency order.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Product{},
		&model.ProductOption{},
		&model.Banner{},
		&model.Blog{},
		&model.Discount{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.MetalRate{},
		&model.GoldminePlan{},
		&model.GoldmineSubscription{},
		&model.GoldmineInstallment{},
		&model.Notification{},
		&model.TrackingConfig{},
	); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
