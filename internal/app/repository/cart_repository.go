package repository

import (
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
)

type CartRepository interface {
	FindByUser(userID uint) ([]model.CartItem, error)
	FindItem(userID, productID uint, optionID *uint) (*model.CartItem, error)
	Create(item *model.CartItem) error
	Update(item *model.CartItem) error
	Delete(id uint) error
	Clear(userID uint) error
	ClearUser(tx *gorm.DB, userID uint) error
	FindAbandoned(idleSince time.Time) ([]model.CartItem, error)
	MarkReminded(userID uint, at time.Time) error
}

type cartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) FindByUser(userID uint) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Where("user_id = ?", userID).
		Preload("Product").
		Preload("Product.Options").
		Preload("ProductOption").
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) FindItem(userID, productID uint, optionID *uint) (*model.CartItem, error) {
	query := r.db.Where("user_id = ? AND product_id = ?", userID, productID)
	if optionID != nil {
		query = query.Where("product_option_id = ?", *optionID)
	} else {
		query = query.Where("product_option_id IS NULL")
	}

	var item model.CartItem
	if err := query.First(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *cartRepository) Create(item *model.CartItem) error {
	return r.db.Create(item).Error
}

func (r *cartRepository) Update(item *model.CartItem) error {
	return r.db.Save(item).Error
}

func (r *cartRepository) Delete(id uint) error {
	return r.db.Delete(&model.CartItem{}, id).Error
}

// Clear removes every cart line for the user.
func (r *cartRepository) Clear(userID uint) error {
	return r.ClearUser(r.db, userID)
}

// ClearUser removes every cart line for the user inside the caller's
// transaction. Used after a successful checkout.
func (r *cartRepository) ClearUser(tx *gorm.DB, userID uint) error {
	return tx.Where("user_id = ?", userID).Delete(&model.CartItem{}).Error
}

// FindAbandoned returns cart lines last touched before idleSince whose
// owner has not been reminded since that touch. One row per line; the
// sweeper groups them by user.
func (r *cartRepository) FindAbandoned(idleSince time.Time) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.Where("updated_at < ?", idleSince).
		Where("reminder_sent_at IS NULL OR reminder_sent_at < updated_at").
		Preload("User").
		Preload("Product").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *cartRepository) MarkReminded(userID uint, at time.Time) error {
	// UpdateColumn skips the updated_at touch; bumping it would make the
	// row look freshly active and re-qualify it for the next sweep.
	return r.db.Model(&model.CartItem{}).Where("user_id = ?", userID).
		UpdateColumn("reminder_sent_at", at).Error
}
