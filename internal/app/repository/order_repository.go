package repository

import (
	"fmt"
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"gorm.io/gorm"
)

type OrderFilter struct {
	UserID        *uint
	Status        *model.OrderStatus
	PaymentStatus *model.PaymentStatus
	Search        string // order number, shipping name, email or phone
	From          *time.Time
	To            *time.Time
	Limit         int
	Offset        int
}

type OrderRepository interface {
	Create(tx *gorm.DB, order *model.Order) error
	FindByID(id uint) (*model.Order, error)
	FindByOrderNumber(orderNumber string) (*model.Order, error)
	FindByPaymentID(paymentID string) (*model.Order, error)
	FindByOrderToken(token string) (*model.Order, error)
	FindWithFilter(filter OrderFilter) ([]model.Order, int64, error)
	UpdateStatus(id uint, status model.OrderStatus) error
	UpdatePaymentStatus(id uint, status model.PaymentStatus, paymentID *string) error
	UpdateTracking(id uint, courierName, trackingNumber string) error
	HardDelete(id uint) error
}

type orderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) preloadOrder(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Items").
		Preload("User")
}

// Create inserts the order and its item snapshots inside the caller's
// transaction.
func (r *orderRepository) Create(tx *gorm.DB, order *model.Order) error {
	if err := tx.Create(order).Error; err != nil {
		logger.Error("Failed to create order in database", err, logger.Fields{
			"order_number": order.OrderNumber,
			"user_id":      order.UserID,
		})
		return err
	}
	return nil
}

func (r *orderRepository) FindByID(id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder(r.db).First(&order, id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderNumber(orderNumber string) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder(r.db).Where("order_number = ?", orderNumber).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByPaymentID(paymentID string) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder(r.db).Where("payment_id = ?", paymentID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindByOrderToken(token string) (*model.Order, error) {
	var order model.Order
	if err := r.preloadOrder(r.db).Where("order_token = ?", token).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *orderRepository) FindWithFilter(filter OrderFilter) ([]model.Order, int64, error) {
	query := r.db.Model(&model.Order{})

	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentStatus != nil {
		query = query.Where("payment_status = ?", *filter.PaymentStatus)
	}
	if filter.Search != "" {
		like := fmt.Sprintf("%%%s%%", filter.Search)
		query = query.Where(
			"order_number LIKE ? OR shipping_name LIKE ? OR shipping_email LIKE ? OR shipping_phone LIKE ?",
			like, like, like, like,
		)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = r.preloadOrder(query).Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var orders []model.Order
	if err := query.Find(&orders).Error; err != nil {
		logger.Error("Failed to find orders with filter", err, logger.Fields{
			"search": filter.Search,
		})
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) UpdateStatus(id uint, status model.OrderStatus) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).
		Update("status", status).Error
}

func (r *orderRepository) UpdatePaymentStatus(id uint, status model.PaymentStatus, paymentID *string) error {
	updates := map[string]interface{}{"payment_status": status}
	if paymentID != nil {
		updates["payment_id"] = *paymentID
	}
	return r.db.Model(&model.Order{}).Where("id = ?", id).
		Updates(updates).Error
}

func (r *orderRepository) UpdateTracking(id uint, courierName, trackingNumber string) error {
	return r.db.Model(&model.Order{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"courier_name":    courierName,
			"tracking_number": trackingNumber,
		}).Error
}

// HardDelete permanently removes the order and its item snapshots. Only
// reachable from the admin API.
func (r *orderRepository) HardDelete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("order_id = ?", id).Delete(&model.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Order{}, id).Error
	})
}
