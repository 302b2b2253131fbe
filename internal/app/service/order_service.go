package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/swarnika/swarnika-backend/pkg/mailer"
	"github.com/swarnika/swarnika-backend/pkg/redis"
	"github.com/swarnika/swarnika-backend/pkg/util"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrNoUpdatableFields = errors.New("no updatable fields supplied")
)

// NotificationBroadcaster pushes a notification to connected clients.
// Implemented by the websocket hub; nil disables live pushes.
type NotificationBroadcaster interface {
	BroadcastNotification(notification *model.Notification)
}

// OrderUpdate is an admin partial update; nil fields are left untouched.
type OrderUpdate struct {
	Status         *model.OrderStatus
	PaymentStatus  *model.PaymentStatus
	CourierName    *string
	TrackingNumber *string
	Notes          *string
}

type OrderService interface {
	CreateOrder(req *CheckoutRequest) (*model.Order, error)
	GetOrderByID(orderID uint) (*model.Order, error)
	GetUserOrders(userID uint, limit, offset int) ([]model.Order, int64, error)
	ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error)
	UpdateOrder(orderID uint, update OrderUpdate) (*model.Order, error)
	ConfirmPayment(orderID uint, paymentID string, status model.PaymentStatus) (*model.Order, error)
	DeleteOrder(orderID uint) error
}

type orderService struct {
	db               *gorm.DB
	validator        *CheckoutValidator
	orderRepo        repository.OrderRepository
	cartRepo         repository.CartRepository
	discountRepo     repository.DiscountRepository
	notificationRepo repository.NotificationRepository
	trackingRepo     repository.TrackingConfigRepository
	mail             *mailer.Mailer
	broadcaster      NotificationBroadcaster
}

func NewOrderService(
	db *gorm.DB,
	validator *CheckoutValidator,
	orderRepo repository.OrderRepository,
	cartRepo repository.CartRepository,
	discountRepo repository.DiscountRepository,
	notificationRepo repository.NotificationRepository,
	trackingRepo repository.TrackingConfigRepository,
	mail *mailer.Mailer,
	broadcaster NotificationBroadcaster,
) OrderService {
	return &orderService{
		db:               db,
		validator:        validator,
		orderRepo:        orderRepo,
		cartRepo:         cartRepo,
		discountRepo:     discountRepo,
		notificationRepo: notificationRepo,
		trackingRepo:     trackingRepo,
		mail:             mail,
		broadcaster:      broadcaster,
	}
}

// CreateOrder validates the payload, persists the order atomically and
// fires post-commit side effects. Only a fully-validated payload reaches
// the transaction; any failure inside it rolls everything back.
func (s *orderService) CreateOrder(req *CheckoutRequest) (*model.Order, error) {
	logger.Info("Creating order", logger.Fields{
		"email":          req.Email,
		"payment_method": req.PaymentMethod,
		"total_amount":   req.TotalAmount,
		"item_count":     len(req.Items),
	})

	validated, err := s.validator.Validate(req)
	if err != nil {
		return nil, err
	}

	tx := s.db.Begin()
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			logger.Error("Panic during order creation, rolling back", fmt.Errorf("panic: %v", r), logger.Fields{
				"email": req.Email,
			})
		}
	}()

	customer, err := s.resolveCustomer(tx, req)
	if err != nil {
		tx.Rollback()
		return nil, err
	}

	order := s.buildOrder(req, validated, customer)

	if err := tx.Create(order).Error; err != nil {
		tx.Rollback()
		if apperrors.IsDuplicateKey(err) {
			// Lost a race on payment_id or order_token: surface the winner.
			if existing := s.findExisting(req); existing != nil {
				return nil, &DuplicateOrderError{Existing: existing}
			}
		}
		logger.Error("Failed to insert order", err, logger.Fields{
			"order_number": order.OrderNumber,
			"user_id":      customer.ID,
		})
		return nil, err
	}

	if validated.Discount != nil {
		if err := s.discountRepo.IncrementUsage(tx, validated.Discount.ID); err != nil {
			tx.Rollback()
			logger.Error("Failed to record discount usage", err, logger.Fields{
				"discount_id": validated.Discount.ID,
			})
			return nil, err
		}
	}

	if err := tx.Commit().Error; err != nil {
		logger.Error("Failed to commit order transaction", err, logger.Fields{
			"order_number": order.OrderNumber,
		})
		return nil, err
	}

	logger.Info("Order created", logger.Fields{
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"user_id":        customer.ID,
		"total_amount":   order.TotalAmount,
		"payment_status": order.PaymentStatus,
	})

	s.runSideEffects(order, customer)

	return s.orderRepo.FindByID(order.ID)
}

// resolveCustomer finds or creates the account placing the order. The
// lookup takes a row lock so two concurrent checkouts with the same new
// email converge on one account; an insert that still loses the race is
// resolved by retrying the lookup instead of failing the checkout.
func (s *orderService) resolveCustomer(tx *gorm.DB, req *CheckoutRequest) (*model.User, error) {
	if req.UserID != nil {
		var user model.User
		if err := tx.First(&user, *req.UserID).Error; err != nil {
			return nil, err
		}
		return &user, nil
	}

	lookup := func() (*model.User, error) {
		var user model.User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("email = ? OR phone = ?", req.Email, req.Phone).
			First(&user).Error
		if err != nil {
			return nil, err
		}
		return &user, nil
	}

	user, err := lookup()
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	guest := &model.User{
		Name:    strings.TrimSpace(req.Name),
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		City:    req.City,
		State:   req.State,
		Pincode: req.Pincode,
		Role:    model.RoleUser,
	}
	if err := tx.Create(guest).Error; err != nil {
		if apperrors.IsDuplicateKey(err) {
			logger.Debug("Concurrent customer creation, retrying lookup", logger.Fields{
				"email": req.Email,
			})
			return lookup()
		}
		return nil, err
	}
	return guest, nil
}

func (s *orderService) buildOrder(req *CheckoutRequest, validated *ValidatedCheckout, customer *model.User) *model.Order {
	items := make([]model.OrderItem, 0, len(validated.Lines))
	for _, line := range validated.Lines {
		item := model.OrderItem{
			ProductID:       line.Product.ID,
			ProductName:     line.Product.Name,
			Quantity:        line.Quantity,
			Price:           line.UnitPrice,
			Rate:            line.Product.Rate,
			LabourCharge:    line.Product.LabourCharge,
			GrossWeight:     line.Product.GrossWeight,
			NetWeight:       line.Product.NetWeight,
			LessWeight:      line.Product.LessWeight,
			Purity:          line.Product.Purity,
			WastagePercent:  line.Product.WastagePercent,
			DiscountPercent: line.Product.DiscountPercent,
			ImageURL:        line.Product.ImageURL,
		}
		if line.Option != nil {
			id := line.Option.ID
			item.ProductOptionID = &id
			item.OptionName = fmt.Sprintf("%s: %s", line.Option.Name, line.Option.Value)
			item.GrossWeight = line.Option.GrossWeight
			item.NetWeight = line.Option.NetWeight
		}
		items = append(items, item)
	}

	order := &model.Order{
		OrderNumber:    util.GenerateOrderNumber(),
		UserID:         customer.ID,
		Subtotal:       validated.Subtotal,
		DiscountAmount: validated.DiscountAmount,
		CODCharge:      validated.CODCharge,
		TotalAmount:    validated.Total,
		Status:         model.OrderProcessing,
		PaymentStatus:  derivePaymentStatus(req, validated),
		PaymentMethod:  req.PaymentMethod,
		PaymentID:      req.PaymentID,
		OrderToken:     req.OrderToken,
		ShippingName:   strings.TrimSpace(req.Name),
		ShippingEmail:  req.Email,
		ShippingPhone:  req.Phone,
		Address:        req.Address,
		City:           req.City,
		State:          req.State,
		Pincode:        req.Pincode,
		Notes:          req.Notes,
		Items:          items,
	}
	if validated.Discount != nil {
		order.DiscountCode = validated.Discount.Code
	}
	if req.PAN != "" {
		order.PAN = util.NormalizePAN(req.PAN)
	}
	if req.Aadhaar != "" {
		order.Aadhaar = util.NormalizeAadhaar(req.Aadhaar)
	}
	if order.PaymentID != nil && *order.PaymentID == "" {
		order.PaymentID = nil
	}
	if order.OrderToken != nil && *order.OrderToken == "" {
		order.OrderToken = nil
	}
	return order
}

// derivePaymentStatus: COD is always pending regardless of what the
// client claims; a gateway-confirmed payment is paid; everything else
// waits for the confirmation call.
func derivePaymentStatus(req *CheckoutRequest, validated *ValidatedCheckout) model.PaymentStatus {
	if req.PaymentMethod == model.PaymentCOD {
		return model.PaymentPending
	}
	if validated.PaidOutOfBand {
		return model.PaymentPaid
	}
	return model.PaymentPending
}

func (s *orderService) findExisting(req *CheckoutRequest) *model.Order {
	if req.PaymentID != nil && *req.PaymentID != "" {
		if existing, err := s.orderRepo.FindByPaymentID(*req.PaymentID); err == nil {
			return existing
		}
	}
	if req.OrderToken != nil && *req.OrderToken != "" {
		if existing, err := s.orderRepo.FindByOrderToken(*req.OrderToken); err == nil {
			return existing
		}
	}
	return nil
}

// runSideEffects fires the post-commit work. Each effect runs in its own
// failure boundary: a panic or error in one is logged and swallowed so the
// committed order is never affected and the remaining effects still run.
func (s *orderService) runSideEffects(order *model.Order, customer *model.User) {
	s.guarded("clear cart", order, func() error {
		if err := s.cartRepo.ClearUser(s.db, customer.ID); err != nil {
			return err
		}
		if redis.GetClient() != nil {
			return redis.ClearCartActivity(context.Background(), customer.ID)
		}
		return nil
	})

	s.guarded("customer confirmation email", order, func() error {
		if s.mail == nil {
			return nil
		}
		return s.mail.SendOrderConfirmation(order.ShippingEmail, order.ShippingName, order.OrderNumber, order.TotalAmount)
	})

	s.guarded("admin alert email", order, func() error {
		if s.mail == nil {
			return nil
		}
		return s.mail.SendOrderAlert(order.OrderNumber, order.ShippingName, order.ShippingEmail, order.TotalAmount)
	})

	s.guarded("purchase analytics", order, func() error {
		configs, err := s.trackingRepo.FindEnabled()
		if err != nil {
			return err
		}
		// No configured tracker is the normal case for fresh installs.
		for _, cfg := range configs {
			logger.Info("Recording purchase conversion", logger.Fields{
				"provider":     cfg.Provider,
				"tag_id":       cfg.TagID,
				"order_number": order.OrderNumber,
				"amount":       order.TotalAmount,
			})
		}
		return nil
	})

	s.guarded("in-app notification", order, func() error {
		userID := customer.ID
		orderID := order.ID
		notification := &model.Notification{
			UserID:         &userID,
			Type:           model.NotificationOrderPlaced,
			Title:          "Order placed",
			Content:        fmt.Sprintf("Your order %s for ₹%.2f has been placed.", order.OrderNumber, order.TotalAmount),
			Link:           fmt.Sprintf("/orders/%d", order.ID),
			RelatedOrderID: &orderID,
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			return err
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastNotification(notification)
		}
		return nil
	})
}

func (s *orderService) guarded(name string, order *model.Order, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Order side effect panicked", fmt.Errorf("panic: %v", r), logger.Fields{
				"effect":       name,
				"order_number": order.OrderNumber,
			})
		}
	}()
	if err := fn(); err != nil {
		logger.Error("Order side effect failed", err, logger.Fields{
			"effect":       name,
			"order_number": order.OrderNumber,
		})
	}
}

func (s *orderService) GetOrderByID(orderID uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return order, nil
}

func (s *orderService) GetUserOrders(userID uint, limit, offset int) ([]model.Order, int64, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.orderRepo.FindWithFilter(repository.OrderFilter{
		UserID: &userID,
		Limit:  limit,
		Offset: offset,
	})
}

func (s *orderService) ListOrders(filter repository.OrderFilter) ([]model.Order, int64, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return s.orderRepo.FindWithFilter(filter)
}

// UpdateOrder applies an admin partial update. At least one field must be
// supplied; status changes are checked against the lifecycle.
func (s *orderService) UpdateOrder(orderID uint, update OrderUpdate) (*model.Order, error) {
	if update.Status == nil && update.PaymentStatus == nil &&
		update.CourierName == nil && update.TrackingNumber == nil && update.Notes == nil {
		return nil, ErrNoUpdatableFields
	}

	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if update.Status != nil && *update.Status != order.Status {
		if !order.CanTransitionTo(*update.Status) {
			logger.Warn("Rejected order status transition", logger.Fields{
				"order_id": orderID,
				"from":     order.Status,
				"to":       *update.Status,
			})
			return nil, ErrInvalidTransition
		}
		updates["status"] = *update.Status
	}
	if update.PaymentStatus != nil {
		updates["payment_status"] = *update.PaymentStatus
	}
	if update.CourierName != nil {
		updates["courier_name"] = *update.CourierName
	}
	if update.TrackingNumber != nil {
		updates["tracking_number"] = *update.TrackingNumber
	}
	if update.Notes != nil {
		updates["notes"] = *update.Notes
	}

	if len(updates) > 0 {
		if err := s.db.Model(&model.Order{}).Where("id = ?", orderID).Updates(updates).Error; err != nil {
			logger.Error("Failed to update order", err, logger.Fields{
				"order_id": orderID,
			})
			return nil, err
		}
	}

	updated, err := s.orderRepo.FindByID(orderID)
	if err != nil {
		return nil, err
	}

	if update.Status != nil && *update.Status != order.Status {
		s.notifyStatusChange(updated)
	}
	return updated, nil
}

func (s *orderService) notifyStatusChange(order *model.Order) {
	s.guarded("status notification", order, func() error {
		userID := order.UserID
		orderID := order.ID
		notification := &model.Notification{
			UserID:         &userID,
			Type:           model.NotificationOrderStatus,
			Title:          "Order update",
			Content:        fmt.Sprintf("Order %s is now %s.", order.OrderNumber, order.Status),
			Link:           fmt.Sprintf("/orders/%d", order.ID),
			RelatedOrderID: &orderID,
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			return err
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastNotification(notification)
		}
		return nil
	})
}

// ConfirmPayment records the outcome of an online payment.
func (s *orderService) ConfirmPayment(orderID uint, paymentID string, status model.PaymentStatus) (*model.Order, error) {
	order, err := s.GetOrderByID(orderID)
	if err != nil {
		return nil, err
	}

	var ref *string
	if paymentID != "" {
		ref = &paymentID
	}
	if err := s.orderRepo.UpdatePaymentStatus(order.ID, status, ref); err != nil {
		logger.Error("Failed to record payment confirmation", err, logger.Fields{
			"order_id":   orderID,
			"payment_id": paymentID,
		})
		return nil, err
	}

	logger.Info("Payment status recorded", logger.Fields{
		"order_id":       orderID,
		"payment_id":     paymentID,
		"payment_status": status,
	})
	return s.orderRepo.FindByID(order.ID)
}

// DeleteOrder permanently removes an order and its line items.
func (s *orderService) DeleteOrder(orderID uint) error {
	if _, err := s.GetOrderByID(orderID); err != nil {
		return err
	}
	return s.orderRepo.HardDelete(orderID)
}
