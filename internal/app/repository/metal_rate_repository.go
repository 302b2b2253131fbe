package repository

import (
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
)

type MetalRateRepository interface {
	Create(rate *model.MetalRate) error
	Latest(metal model.MetalType) (*model.MetalRate, error)
	LatestTwo(metal model.MetalType) ([]model.MetalRate, error)
	History(metal model.MetalType, limit int) ([]model.MetalRate, error)
}

type metalRateRepository struct {
	db *gorm.DB
}

func NewMetalRateRepository(db *gorm.DB) MetalRateRepository {
	return &metalRateRepository{db: db}
}

func (r *metalRateRepository) Create(rate *model.MetalRate) error {
	return r.db.Create(rate).Error
}

func (r *metalRateRepository) Latest(metal model.MetalType) (*model.MetalRate, error) {
	var rate model.MetalRate
	err := r.db.Where("metal = ?", metal).
		Order("fetched_at DESC").
		First(&rate).Error
	if err != nil {
		return nil, err
	}
	return &rate, nil
}

// LatestTwo returns the newest rate and its predecessor so callers can
// compute the day-over-day change. May return a single row.
func (r *metalRateRepository) LatestTwo(metal model.MetalType) ([]model.MetalRate, error) {
	var rates []model.MetalRate
	err := r.db.Where("metal = ?", metal).
		Order("fetched_at DESC, id DESC").
		Limit(2).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}

func (r *metalRateRepository) History(metal model.MetalType, limit int) ([]model.MetalRate, error) {
	if limit <= 0 {
		limit = 30
	}
	var rates []model.MetalRate
	err := r.db.Where("metal = ?", metal).
		Order("fetched_at DESC, id DESC").
		Limit(limit).
		Find(&rates).Error
	if err != nil {
		return nil, err
	}
	return rates, nil
}
