package service

import (
	"errors"
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"gorm.io/gorm"
)

var (
	ErrDiscountNotFound      = errors.New("discount not found")
	ErrDiscountNotApplicable = errors.New("discount not applicable")
	ErrDiscountCodeTaken     = errors.New("discount code already exists")
)

// DiscountQuote is the result of validating a code against a cart value.
type DiscountQuote struct {
	Code           string  `json:"code"`
	DiscountAmount float64 `json:"discount_amount"`
	PayableAmount  float64 `json:"payable_amount"`
}

type DiscountService interface {
	CreateDiscount(discount *model.Discount) error
	GetDiscounts() ([]model.Discount, error)
	GetDiscountByID(id uint) (*model.Discount, error)
	UpdateDiscount(discount *model.Discount) error
	DeleteDiscount(id uint) error
	QuoteDiscount(code string, subtotal float64) (*DiscountQuote, error)
}

type discountService struct {
	discountRepo repository.DiscountRepository
}

func NewDiscountService(discountRepo repository.DiscountRepository) DiscountService {
	return &discountService{discountRepo: discountRepo}
}

func (s *discountService) CreateDiscount(discount *model.Discount) error {
	if err := s.discountRepo.Create(discount); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrDiscountCodeTaken
		}
		return err
	}
	return nil
}

func (s *discountService) GetDiscounts() ([]model.Discount, error) {
	return s.discountRepo.FindAll()
}

func (s *discountService) GetDiscountByID(id uint) (*model.Discount, error) {
	discount, err := s.discountRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	return discount, nil
}

func (s *discountService) UpdateDiscount(discount *model.Discount) error {
	if _, err := s.GetDiscountByID(discount.ID); err != nil {
		return err
	}
	if err := s.discountRepo.Update(discount); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return ErrDiscountCodeTaken
		}
		return err
	}
	return nil
}

func (s *discountService) DeleteDiscount(id uint) error {
	if _, err := s.GetDiscountByID(id); err != nil {
		return err
	}
	return s.discountRepo.Delete(id)
}

// QuoteDiscount validates a code against a cart subtotal without
// consuming a redemption; the checkout re-checks inside its transaction.
func (s *discountService) QuoteDiscount(code string, subtotal float64) (*DiscountQuote, error) {
	discount, err := s.discountRepo.FindByCode(code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDiscountNotFound
		}
		return nil, err
	}
	if !discount.IsUsable(time.Now(), subtotal) {
		return nil, ErrDiscountNotApplicable
	}

	amount := discount.Amount(subtotal)
	return &DiscountQuote{
		Code:           discount.Code,
		DiscountAmount: amount,
		PayableAmount:  subtotal - amount,
	}, nil
}
