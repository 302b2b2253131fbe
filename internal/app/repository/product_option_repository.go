package repository

import (
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
)

type ProductOptionRepository interface {
	Create(option *model.ProductOption) error
	FindByID(id uint) (*model.ProductOption, error)
	FindByProduct(productID uint) ([]model.ProductOption, error)
	Update(option *model.ProductOption) error
	Delete(id uint) error
}

type productOptionRepository struct {
	db *gorm.DB
}

func NewProductOptionRepository(db *gorm.DB) ProductOptionRepository {
	return &productOptionRepository{db: db}
}

func (r *productOptionRepository) Create(option *model.ProductOption) error {
	return r.db.Create(option).Error
}

func (r *productOptionRepository) FindByID(id uint) (*model.ProductOption, error) {
	var option model.ProductOption
	if err := r.db.First(&option, id).Error; err != nil {
		return nil, err
	}
	return &option, nil
}

func (r *productOptionRepository) FindByProduct(productID uint) ([]model.ProductOption, error) {
	var options []model.ProductOption
	if err := r.db.Where("product_id = ?", productID).
		Order("is_default DESC, id ASC").
		Find(&options).Error; err != nil {
		return nil, err
	}
	return options, nil
}

func (r *productOptionRepository) Update(option *model.ProductOption) error {
	return r.db.Save(option).Error
}

func (r *productOptionRepository) Delete(id uint) error {
	return r.db.Delete(&model.ProductOption{}, id).Error
}
