package service

import (
	"errors"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound      = errors.New("product not found")
	ErrInvalidProductOption = errors.New("invalid product option")
	ErrSlugTaken            = errors.New("slug already in use")
)

type ProductService interface {
	CreateProduct(product *model.Product) error
	GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error)
	GetProductByID(id uint) (*model.Product, error)
	GetProductBySlug(slug string) (*model.Product, error)
	UpdateProduct(product *model.Product) error
	DeleteProduct(id uint) error
	AddOption(productID uint, option *model.ProductOption) error
	UpdateOption(productID uint, option *model.ProductOption) error
	DeleteOption(productID, optionID uint) error
	RecordView(id uint)
}

type productService struct {
	productRepo repository.ProductRepository
	optionRepo  repository.ProductOptionRepository
}

func NewProductService(productRepo repository.ProductRepository, optionRepo repository.ProductOptionRepository) ProductService {
	return &productService{productRepo: productRepo, optionRepo: optionRepo}
}

func (s *productService) CreateProduct(product *model.Product) error {
	if err := s.productRepo.Create(product); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	logger.Info("Product created", logger.Fields{
		"product_id": product.ID,
		"slug":       product.Slug,
	})
	return nil
}

func (s *productService) GetProducts(filter repository.ProductFilter) ([]model.Product, int64, error) {
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 24
	}
	return s.productRepo.FindWithFilter(filter)
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) GetProductBySlug(slug string) (*model.Product, error) {
	product, err := s.productRepo.FindBySlug(slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (s *productService) UpdateProduct(product *model.Product) error {
	if _, err := s.GetProductByID(product.ID); err != nil {
		return err
	}
	if err := s.productRepo.Update(product); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrSlugTaken
		}
		return err
	}
	return nil
}

func (s *productService) DeleteProduct(id uint) error {
	if _, err := s.GetProductByID(id); err != nil {
		return err
	}
	return s.productRepo.Delete(id)
}

func (s *productService) AddOption(productID uint, option *model.ProductOption) error {
	if _, err := s.GetProductByID(productID); err != nil {
		return err
	}
	option.ProductID = productID
	return s.optionRepo.Create(option)
}

func (s *productService) UpdateOption(productID uint, option *model.ProductOption) error {
	existing, err := s.optionRepo.FindByID(option.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidProductOption
		}
		return err
	}
	if existing.ProductID != productID {
		return ErrInvalidProductOption
	}
	option.ProductID = productID
	return s.optionRepo.Update(option)
}

func (s *productService) DeleteOption(productID, optionID uint) error {
	existing, err := s.optionRepo.FindByID(optionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidProductOption
		}
		return err
	}
	if existing.ProductID != productID {
		return ErrInvalidProductOption
	}
	return s.optionRepo.Delete(optionID)
}

// RecordView bumps the popularity counter. Failures are not surfaced; a
// lost view is harmless.
func (s *productService) RecordView(id uint) {
	if err := s.productRepo.IncrementViewCount(id); err != nil {
		logger.Debug("Failed to record product view", logger.Fields{
			"product_id": id,
		})
	}
}
