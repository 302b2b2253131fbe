package repository

import (
	"strings"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
)

type DiscountRepository interface {
	Create(discount *model.Discount) error
	FindAll() ([]model.Discount, error)
	FindByID(id uint) (*model.Discount, error)
	FindByCode(code string) (*model.Discount, error)
	Update(discount *model.Discount) error
	Delete(id uint) error
	IncrementUsage(tx *gorm.DB, id uint) error
}

type discountRepository struct {
	db *gorm.DB
}

func NewDiscountRepository(db *gorm.DB) DiscountRepository {
	return &discountRepository{db: db}
}

func (r *discountRepository) Create(discount *model.Discount) error {
	discount.Code = strings.ToUpper(strings.TrimSpace(discount.Code))
	return r.db.Create(discount).Error
}

func (r *discountRepository) FindAll() ([]model.Discount, error) {
	var discounts []model.Discount
	if err := r.db.Order("created_at DESC").Find(&discounts).Error; err != nil {
		return nil, err
	}
	return discounts, nil
}

func (r *discountRepository) FindByID(id uint) (*model.Discount, error) {
	var discount model.Discount
	if err := r.db.First(&discount, id).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

// FindByCode matches case-insensitively; codes are stored upper-case.
func (r *discountRepository) FindByCode(code string) (*model.Discount, error) {
	var discount model.Discount
	normalized := strings.ToUpper(strings.TrimSpace(code))
	if err := r.db.Where("code = ?", normalized).First(&discount).Error; err != nil {
		return nil, err
	}
	return &discount, nil
}

func (r *discountRepository) Update(discount *model.Discount) error {
	return r.db.Save(discount).Error
}

func (r *discountRepository) Delete(id uint) error {
	return r.db.Delete(&model.Discount{}, id).Error
}

// IncrementUsage bumps the redemption counter inside the caller's
// transaction so the order insert and the counter move together.
func (r *discountRepository) IncrementUsage(tx *gorm.DB, id uint) error {
	return tx.Model(&model.Discount{}).Where("id = ?", id).
		Update("used_count", gorm.Expr("used_count + ?", 1)).Error
}
