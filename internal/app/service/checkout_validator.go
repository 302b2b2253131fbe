package service

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/swarnika/swarnika-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phonePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// ValidationErrors aggregates every problem found in a checkout payload so
// the client can fix them all in one pass.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return strings.Join(e, "; ")
}

// DuplicateOrderError reports that an order already exists for the
// submitted payment_id or order_token. Carries the existing order so the
// client can reconcile instead of retrying.
type DuplicateOrderError struct {
	Existing *model.Order
}

func (e *DuplicateOrderError) Error() string {
	return fmt.Sprintf("order already exists: %s", e.Existing.OrderNumber)
}

// CheckoutItem is one untrusted cart line from the client.
type CheckoutItem struct {
	ProductID       uint     `json:"product_id" binding:"required"`
	ProductOptionID *uint    `json:"product_option_id"`
	Quantity        int      `json:"quantity" binding:"required"`
	CustomPrice     *float64 `json:"custom_price"`
}

// CheckoutRequest is the full order-creation payload.
type CheckoutRequest struct {
	UserID *uint `json:"-"` // from auth context when signed in

	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`

	TotalAmount    float64             `json:"total_amount"`
	PaymentMethod  model.PaymentMethod `json:"payment_method"`
	PaymentID      *string             `json:"payment_id"`
	PaymentStatus  string              `json:"payment_status"` // client-declared, honored only with payment_id
	OrderToken     *string             `json:"order_token"`
	DiscountCode   string              `json:"discount_code"`
	DiscountAmount float64             `json:"discount_amount"`

	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Notes   string `json:"notes"`

	PAN     string `json:"pan"`
	Aadhaar string `json:"aadhaar"`

	Items []CheckoutItem `json:"items"`
}

// PaidOutOfBand reports whether the client claims payment was already
// captured by the gateway before this call.
func (r *CheckoutRequest) PaidOutOfBand() bool {
	return r.PaymentID != nil && *r.PaymentID != "" &&
		strings.EqualFold(r.PaymentStatus, string(model.PaymentPaid))
}

// ResolvedLine is a cart line after server-side price resolution.
type ResolvedLine struct {
	Product   model.Product
	Option    *model.ProductOption
	Quantity  int
	UnitPrice float64
}

// ValidatedCheckout is the validator's output: every price is
// server-verified and the totals are reconciled.
type ValidatedCheckout struct {
	Lines          []ResolvedLine
	Subtotal       float64
	Discount       *model.Discount
	DiscountAmount float64
	CODCharge      float64
	Total          float64
	PaidOutOfBand  bool
}

// CheckoutValidator turns an untrusted checkout payload into a set of
// line items with server-verified prices, rejecting anything inconsistent.
type CheckoutValidator struct {
	productRepo  repository.ProductRepository
	orderRepo    repository.OrderRepository
	discountRepo repository.DiscountRepository
	policy       config.CheckoutConfig
}

func NewCheckoutValidator(
	productRepo repository.ProductRepository,
	orderRepo repository.OrderRepository,
	discountRepo repository.DiscountRepository,
	policy config.CheckoutConfig,
) *CheckoutValidator {
	return &CheckoutValidator{
		productRepo:  productRepo,
		orderRepo:    orderRepo,
		discountRepo: discountRepo,
		policy:       policy,
	}
}

// Validate runs the full pipeline: field checks, KYC, idempotency guard,
// product resolution, price policy and total reconciliation. Returns
// ValidationErrors for client-fixable problems and *DuplicateOrderError
// when the payload was already processed.
func (v *CheckoutValidator) Validate(req *CheckoutRequest) (*ValidatedCheckout, error) {
	errs := v.checkFields(req)
	if len(errs) > 0 {
		return nil, errs
	}

	if err := v.checkDuplicate(req); err != nil {
		return nil, err
	}

	lines, errs := v.resolveLines(req)
	if len(errs) > 0 {
		return nil, errs
	}

	return v.reconcile(req, lines)
}

func (v *CheckoutValidator) checkFields(req *CheckoutRequest) ValidationErrors {
	var errs ValidationErrors

	if strings.TrimSpace(req.Name) == "" {
		errs = append(errs, "name is required")
	}
	if req.Email == "" {
		errs = append(errs, "email is required")
	} else if !emailPattern.MatchString(req.Email) {
		errs = append(errs, "email is not a valid address")
	}
	if req.Phone == "" {
		errs = append(errs, "phone is required")
	} else if !phonePattern.MatchString(req.Phone) {
		errs = append(errs, "phone must be a 10-digit number")
	}
	if strings.TrimSpace(req.Address) == "" {
		errs = append(errs, "address is required")
	}
	if req.Pincode == "" {
		errs = append(errs, "pincode is required")
	}
	if req.TotalAmount <= 0 {
		errs = append(errs, "total_amount must be greater than zero")
	}

	switch req.PaymentMethod {
	case model.PaymentCOD, model.PaymentRazorpay:
	case "":
		errs = append(errs, "payment_method is required")
	default:
		errs = append(errs, fmt.Sprintf("payment_method %q is not supported", req.PaymentMethod))
	}

	if len(req.Items) == 0 {
		errs = append(errs, "order must contain at least one item")
	}
	for i, item := range req.Items {
		if item.ProductID == 0 {
			errs = append(errs, fmt.Sprintf("item %d: product_id is required", i+1))
		}
		if item.Quantity <= 0 {
			errs = append(errs, fmt.Sprintf("item %d: quantity must be a positive integer", i+1))
		}
	}

	// PAN and Aadhaar become mandatory at the high-value threshold. Both
	// are validated independently so the client sees every problem.
	if req.TotalAmount >= v.policy.KYCThreshold {
		pan := util.NormalizePAN(req.PAN)
		if pan == "" {
			errs = append(errs, fmt.Sprintf("PAN is required for orders of %.0f and above", v.policy.KYCThreshold))
		} else if !util.IsValidPAN(pan) {
			errs = append(errs, "PAN must be 5 letters, 4 digits and a letter (e.g. ABCDE1234F)")
		}
		aadhaar := util.NormalizeAadhaar(req.Aadhaar)
		if aadhaar == "" {
			errs = append(errs, fmt.Sprintf("Aadhaar is required for orders of %.0f and above", v.policy.KYCThreshold))
		} else if !util.IsValidAadhaar(aadhaar) {
			errs = append(errs, "Aadhaar must be exactly 12 digits")
		}
	}

	return errs
}

// checkDuplicate short-circuits on either idempotency key: the gateway
// payment reference or the client-generated order token.
func (v *CheckoutValidator) checkDuplicate(req *CheckoutRequest) error {
	if req.PaymentID != nil && *req.PaymentID != "" {
		existing, err := v.orderRepo.FindByPaymentID(*req.PaymentID)
		if err == nil {
			logger.Warn("Duplicate checkout for payment_id", logger.Fields{
				"payment_id":   *req.PaymentID,
				"order_number": existing.OrderNumber,
			})
			return &DuplicateOrderError{Existing: existing}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	if req.OrderToken != nil && *req.OrderToken != "" {
		existing, err := v.orderRepo.FindByOrderToken(*req.OrderToken)
		if err == nil {
			logger.Warn("Duplicate checkout for order_token", logger.Fields{
				"order_number": existing.OrderNumber,
			})
			return &DuplicateOrderError{Existing: existing}
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}
	return nil
}

func (v *CheckoutValidator) resolveLines(req *CheckoutRequest) ([]ResolvedLine, ValidationErrors) {
	ids := make([]uint, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}

	products, err := v.productRepo.FindByIDs(ids)
	if err != nil {
		return nil, ValidationErrors{"failed to load products for validation"}
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	paid := req.PaidOutOfBand()

	var errs ValidationErrors
	lines := make([]ResolvedLine, 0, len(req.Items))
	for _, item := range req.Items {
		product, ok := byID[item.ProductID]
		if !ok {
			errs = append(errs, fmt.Sprintf("product %d not found", item.ProductID))
			continue
		}
		if product.Status != model.ProductActive {
			errs = append(errs, fmt.Sprintf("product %q is not available", product.Name))
			continue
		}

		var option *model.ProductOption
		if item.ProductOptionID != nil {
			for i := range product.Options {
				if product.Options[i].ID == *item.ProductOptionID {
					option = &product.Options[i]
					break
				}
			}
			// An option that exists but hangs off another product is
			// treated the same as a missing one: hard error, no silent
			// correction.
			if option == nil {
				errs = append(errs, fmt.Sprintf("product option %d does not belong to product %q", *item.ProductOptionID, product.Name))
				continue
			}
		}

		price, priceErr := v.resolvePrice(req, item, product, option, paid)
		if priceErr != "" {
			errs = append(errs, priceErr)
			continue
		}

		lines = append(lines, ResolvedLine{
			Product:   product,
			Option:    option,
			Quantity:  item.Quantity,
			UnitPrice: price,
		})
	}

	return lines, errs
}

// resolvePrice applies the pricing policy for one line. Once the gateway
// has captured money the client-declared amount is authoritative; until
// then the database price rules and a client price is honored only inside
// the tolerance band.
func (v *CheckoutValidator) resolvePrice(req *CheckoutRequest, item CheckoutItem, product model.Product, option *model.ProductOption, paid bool) (float64, string) {
	if paid {
		if item.CustomPrice != nil && *item.CustomPrice > 0 {
			return *item.CustomPrice, ""
		}
		// Gateway amount with no per-line breakdown: split the total
		// equally across lines, floored at one rupee per unit.
		unit := req.TotalAmount / float64(len(req.Items)) / float64(item.Quantity)
		return math.Max(1, unit), ""
	}

	dbPrice := product.TotalRs
	if option != nil {
		dbPrice = option.SellPrice
	}

	price := dbPrice
	if item.CustomPrice != nil && *item.CustomPrice > 0 && dbPrice > 0 {
		deviation := math.Abs(*item.CustomPrice-dbPrice) / dbPrice
		if deviation <= v.policy.PriceTolerance {
			price = *item.CustomPrice
		} else {
			logger.Warn("Discarding out-of-band custom price", logger.Fields{
				"product_id":   product.ID,
				"custom_price": *item.CustomPrice,
				"db_price":     dbPrice,
			})
		}
	}

	if price <= 0 {
		return 0, fmt.Sprintf("product %q has no valid price", product.Name)
	}
	return price, ""
}

// reconcile checks the client total against the server-derived total and
// resolves the discount code.
func (v *CheckoutValidator) reconcile(req *CheckoutRequest, lines []ResolvedLine) (*ValidatedCheckout, error) {
	var subtotal float64
	for _, line := range lines {
		subtotal += line.UnitPrice * float64(line.Quantity)
	}

	var codCharge float64
	if req.PaymentMethod == model.PaymentCOD {
		codCharge = v.policy.CODCharge
		for _, line := range lines {
			codCharge += line.Product.CODCharge
		}
	}

	var (
		discount       *model.Discount
		discountAmount float64
	)
	if req.DiscountCode != "" {
		found, err := v.discountRepo.FindByCode(req.DiscountCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ValidationErrors{fmt.Sprintf("discount code %q is not valid", req.DiscountCode)}
			}
			return nil, err
		}
		if !found.IsUsable(time.Now(), subtotal) {
			return nil, ValidationErrors{fmt.Sprintf("discount code %q is not applicable to this order", req.DiscountCode)}
		}
		discount = found
		discountAmount = found.Amount(subtotal)
	}

	expected := subtotal - discountAmount + codCharge
	paid := req.PaidOutOfBand()

	if expected > 0 {
		deviation := math.Abs(expected-req.TotalAmount) / expected
		if deviation > v.policy.TotalTolerance {
			if paid {
				// Money already moved: the captured amount is the truth.
				logger.Warn("Paid order total differs from derived total", logger.Fields{
					"expected": expected,
					"received": req.TotalAmount,
				})
			} else {
				return nil, ValidationErrors{fmt.Sprintf(
					"order total mismatch: expected %.2f, received %.2f", expected, req.TotalAmount)}
			}
		}
	}

	return &ValidatedCheckout{
		Lines:          lines,
		Subtotal:       subtotal,
		Discount:       discount,
		DiscountAmount: discountAmount,
		CODCharge:      codCharge,
		Total:          req.TotalAmount,
		PaidOutOfBand:  paid,
	}, nil
}
