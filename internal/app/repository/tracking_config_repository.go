package repository

import (
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TrackingConfigRepository interface {
	FindAll() ([]model.TrackingConfig, error)
	FindEnabled() ([]model.TrackingConfig, error)
	Upsert(cfg *model.TrackingConfig) error
	Delete(id uint) error
}

type trackingConfigRepository struct {
	db *gorm.DB
}

func NewTrackingConfigRepository(db *gorm.DB) TrackingConfigRepository {
	return &trackingConfigRepository{db: db}
}

func (r *trackingConfigRepository) FindAll() ([]model.TrackingConfig, error) {
	var configs []model.TrackingConfig
	if err := r.db.Order("provider ASC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

func (r *trackingConfigRepository) FindEnabled() ([]model.TrackingConfig, error) {
	var configs []model.TrackingConfig
	if err := r.db.Where("enabled = ?", true).Order("provider ASC").Find(&configs).Error; err != nil {
		return nil, err
	}
	return configs, nil
}

// Upsert writes the row keyed by provider.
func (r *trackingConfigRepository) Upsert(cfg *model.TrackingConfig) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "provider"}},
		DoUpdates: clause.AssignmentColumns([]string{"tag_id", "enabled", "updated_at"}),
	}).Create(cfg).Error
}

func (r *trackingConfigRepository) Delete(id uint) error {
	return r.db.Delete(&model.TrackingConfig{}, id).Error
}
