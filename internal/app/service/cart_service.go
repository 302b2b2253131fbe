package service

import (
	"context"
	"errors"
	"time"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/swarnika/swarnika-backend/pkg/mailer"
	"github.com/swarnika/swarnika-backend/pkg/redis"
	"gorm.io/gorm"
)

var ErrCartItemNotFound = errors.New("cart item not found")

type CartService interface {
	GetCart(userID uint) ([]model.CartItem, float64, error)
	AddItem(userID, productID uint, optionID *uint, quantity int) (*model.CartItem, error)
	UpdateQuantity(userID, itemID uint, quantity int) (*model.CartItem, error)
	RemoveItem(userID, itemID uint) error
	ClearCart(userID uint) error
	SendAbandonedReminders() (int, error)
}

type cartService struct {
	cartRepo    repository.CartRepository
	productRepo repository.ProductRepository
	mail        *mailer.Mailer
	policy      config.CheckoutConfig
}

func NewCartService(
	cartRepo repository.CartRepository,
	productRepo repository.ProductRepository,
	mail *mailer.Mailer,
	policy config.CheckoutConfig,
) CartService {
	return &cartService{
		cartRepo:    cartRepo,
		productRepo: productRepo,
		mail:        mail,
		policy:      policy,
	}
}

// GetCart returns the user's cart lines with a subtotal computed from
// current catalog prices.
func (s *cartService) GetCart(userID uint) ([]model.CartItem, float64, error) {
	items, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		return nil, 0, err
	}

	var subtotal float64
	for _, item := range items {
		price := item.Product.TotalRs
		if item.ProductOption != nil {
			price = item.ProductOption.SellPrice
		}
		subtotal += price * float64(item.Quantity)
	}
	return items, subtotal, nil
}

func (s *cartService) AddItem(userID, productID uint, optionID *uint, quantity int) (*model.CartItem, error) {
	if quantity <= 0 {
		quantity = 1
	}

	product, err := s.productRepo.FindByID(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	if optionID != nil {
		var found bool
		for _, opt := range product.Options {
			if opt.ID == *optionID {
				found = true
				break
			}
		}
		if !found {
			return nil, ErrInvalidProductOption
		}
	}

	// Same product+option collapses onto the existing line.
	existing, err := s.cartRepo.FindItem(userID, productID, optionID)
	if err == nil {
		existing.Quantity += quantity
		if err := s.cartRepo.Update(existing); err != nil {
			return nil, err
		}
		s.touchActivity(userID)
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	item := &model.CartItem{
		UserID:          userID,
		ProductID:       productID,
		ProductOptionID: optionID,
		Quantity:        quantity,
	}
	if err := s.cartRepo.Create(item); err != nil {
		return nil, err
	}
	s.touchActivity(userID)
	return item, nil
}

func (s *cartService) UpdateQuantity(userID, itemID uint, quantity int) (*model.CartItem, error) {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return nil, err
	}
	if quantity <= 0 {
		if err := s.cartRepo.Delete(item.ID); err != nil {
			return nil, err
		}
		s.touchActivity(userID)
		return nil, nil
	}
	item.Quantity = quantity
	if err := s.cartRepo.Update(item); err != nil {
		return nil, err
	}
	s.touchActivity(userID)
	return item, nil
}

func (s *cartService) RemoveItem(userID, itemID uint) error {
	item, err := s.ownedItem(userID, itemID)
	if err != nil {
		return err
	}
	if err := s.cartRepo.Delete(item.ID); err != nil {
		return err
	}
	s.touchActivity(userID)
	return nil
}

func (s *cartService) ClearCart(userID uint) error {
	if err := s.cartRepo.Clear(userID); err != nil {
		return err
	}
	if redis.GetClient() != nil {
		_ = redis.ClearCartActivity(context.Background(), userID)
	}
	return nil
}

func (s *cartService) ownedItem(userID, itemID uint) (*model.CartItem, error) {
	items, err := s.cartRepo.FindByUser(userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].ID == itemID {
			return &items[i], nil
		}
	}
	return nil, ErrCartItemNotFound
}

func (s *cartService) touchActivity(userID uint) {
	if redis.GetClient() == nil {
		return
	}
	if err := redis.TouchCartActivity(context.Background(), userID, s.policy.CartAbandonedAfter); err != nil {
		logger.Debug("Failed to touch cart activity", logger.Fields{
			"user_id": userID,
		})
	}
}

// SendAbandonedReminders mails every user whose cart has been idle past
// the configured window and has not been reminded since. Returns the
// number of reminders sent. Run from the scheduler.
func (s *cartService) SendAbandonedReminders() (int, error) {
	cutoff := time.Now().Add(-s.policy.CartAbandonedAfter)
	items, err := s.cartRepo.FindAbandoned(cutoff)
	if err != nil {
		return 0, err
	}

	type pending struct {
		user  model.User
		count int
	}
	byUser := make(map[uint]*pending)
	for _, item := range items {
		if p, ok := byUser[item.UserID]; ok {
			p.count++
			continue
		}
		byUser[item.UserID] = &pending{user: item.User, count: 1}
	}

	sent := 0
	now := time.Now()
	for userID, p := range byUser {
		// A redis activity key means the user touched the cart after the
		// DB rows were last written; skip them this round.
		if redis.GetClient() != nil {
			if active, err := redis.IsCartActive(context.Background(), userID); err == nil && active {
				continue
			}
		}
		if p.user.Email == "" {
			continue
		}
		if s.mail != nil {
			if err := s.mail.SendCartReminder(p.user.Email, p.user.Name, p.count); err != nil {
				logger.Error("Failed to send cart reminder", err, logger.Fields{
					"user_id": userID,
				})
				continue
			}
		}
		if err := s.cartRepo.MarkReminded(userID, now); err != nil {
			logger.Error("Failed to mark cart reminded", err, logger.Fields{
				"user_id": userID,
			})
			continue
		}
		sent++
	}

	if sent > 0 {
		logger.Info("Abandoned cart reminders sent", logger.Fields{
			"count": sent,
		})
	}
	return sent, nil
}
