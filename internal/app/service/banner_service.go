package service

import (
	"errors"
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"gorm.io/gorm"
)

var ErrBannerNotFound = errors.New("banner not found")

type BannerService interface {
	CreateBanner(banner *model.Banner) error
	GetBanners() ([]model.Banner, error)
	GetLiveBanners(placement model.BannerPlacement) ([]model.Banner, error)
	GetBannerByID(id uint) (*model.Banner, error)
	UpdateBanner(banner *model.Banner) error
	DeleteBanner(id uint) error
}

type bannerService struct {
	bannerRepo repository.BannerRepository
}

func NewBannerService(bannerRepo repository.BannerRepository) BannerService {
	return &bannerService{bannerRepo: bannerRepo}
}

func (s *bannerService) CreateBanner(banner *model.Banner) error {
	if banner.Placement == "" {
		banner.Placement = model.BannerHero
	}
	return s.bannerRepo.Create(banner)
}

func (s *bannerService) GetBanners() ([]model.Banner, error) {
	return s.bannerRepo.FindAll()
}

func (s *bannerService) GetLiveBanners(placement model.BannerPlacement) ([]model.Banner, error) {
	return s.bannerRepo.FindLive(placement, time.Now())
}

func (s *bannerService) GetBannerByID(id uint) (*model.Banner, error) {
	banner, err := s.bannerRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBannerNotFound
		}
		return nil, err
	}
	return banner, nil
}

func (s *bannerService) UpdateBanner(banner *model.Banner) error {
	if _, err := s.GetBannerByID(banner.ID); err != nil {
		return err
	}
	return s.bannerRepo.Update(banner)
}

func (s *bannerService) DeleteBanner(id uint) error {
	if _, err := s.GetBannerByID(id); err != nil {
		return err
	}
	return s.bannerRepo.Delete(id)
}
