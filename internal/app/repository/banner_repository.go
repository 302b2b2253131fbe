package repository

import (
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
)

type BannerRepository interface {
	Create(banner *model.Banner) error
	FindAll() ([]model.Banner, error)
	FindLive(placement model.BannerPlacement, now time.Time) ([]model.Banner, error)
	FindByID(id uint) (*model.Banner, error)
	Update(banner *model.Banner) error
	Delete(id uint) error
}

type bannerRepository struct {
	db *gorm.DB
}

func NewBannerRepository(db *gorm.DB) BannerRepository {
	return &bannerRepository{db: db}
}

func (r *bannerRepository) Create(banner *model.Banner) error {
	return r.db.Create(banner).Error
}

func (r *bannerRepository) FindAll() ([]model.Banner, error) {
	var banners []model.Banner
	if err := r.db.Order("placement ASC, position ASC").Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

// FindLive returns active banners inside their schedule window, ordered by
// position. An empty placement matches all placements.
func (r *bannerRepository) FindLive(placement model.BannerPlacement, now time.Time) ([]model.Banner, error) {
	query := r.db.Where("active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now)
	if placement != "" {
		query = query.Where("placement = ?", placement)
	}

	var banners []model.Banner
	if err := query.Order("position ASC").Find(&banners).Error; err != nil {
		return nil, err
	}
	return banners, nil
}

func (r *bannerRepository) FindByID(id uint) (*model.Banner, error) {
	var banner model.Banner
	if err := r.db.First(&banner, id).Error; err != nil {
		return nil, err
	}
	return &banner, nil
}

func (r *bannerRepository) Update(banner *model.Banner) error {
	return r.db.Save(banner).Error
}

func (r *bannerRepository) Delete(id uint) error {
	return r.db.Delete(&model.Banner{}, id).Error
}
