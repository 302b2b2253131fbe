package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/db"
)

var testCheckoutPolicy = config.CheckoutConfig{
	KYCThreshold:   200000,
	PriceTolerance: 0.20,
	TotalTolerance: 0.05,
	CODCharge:      50,
}

func setupValidatorTest(t *testing.T) (*CheckoutValidator, *gorm.DB, *model.Product) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})

	validator := NewCheckoutValidator(
		repository.NewProductRepository(testDB),
		repository.NewOrderRepository(testDB),
		repository.NewDiscountRepository(testDB),
		testCheckoutPolicy,
	)

	category := &model.Category{Name: "Rings", Slug: "rings", Active: true}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name:       "Gold Ring",
		Slug:       "gold-ring",
		Status:     model.ProductActive,
		CategoryID: category.ID,
		TotalRs:    1000,
		CODCharge:  25,
	}
	require.NoError(t, testDB.Create(product).Error)

	return validator, testDB, product
}

func validCheckoutRequest(product *model.Product, quantity int, total float64) *CheckoutRequest {
	return &CheckoutRequest{
		Name:          "Asha Verma",
		Email:         "asha@example.com",
		Phone:         "9876543210",
		Address:       "12 MG Road",
		City:          "Pune",
		State:         "MH",
		Pincode:       "411001",
		TotalAmount:   total,
		PaymentMethod: model.PaymentCOD,
		Items: []CheckoutItem{
			{ProductID: product.ID, Quantity: quantity},
		},
	}
}

func TestCheckoutValidator_ValidCODOrder(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	// 2 x 1000 + policy COD 50 + product COD 25
	req := validCheckoutRequest(product, 2, 2075)

	validated, err := validator.Validate(req)
	require.NoError(t, err)

	assert.Len(t, validated.Lines, 1)
	assert.InDelta(t, 2000, validated.Subtotal, 0.001)
	assert.InDelta(t, 75, validated.CODCharge, 0.001)
	assert.InDelta(t, 2075, validated.Total, 0.001)
	assert.False(t, validated.PaidOutOfBand)
	assert.InDelta(t, 1000, validated.Lines[0].UnitPrice, 0.001)
}

func TestCheckoutValidator_AggregatesFieldErrors(t *testing.T) {
	validator, _, _ := setupValidatorTest(t)

	req := &CheckoutRequest{
		Email: "not-an-email",
		Phone: "12345",
	}

	_, err := validator.Validate(req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)

	joined := errs.Error()
	assert.Contains(t, joined, "name is required")
	assert.Contains(t, joined, "email is not a valid address")
	assert.Contains(t, joined, "phone must be a 10-digit number")
	assert.Contains(t, joined, "address is required")
	assert.Contains(t, joined, "total_amount must be greater than zero")
	assert.Contains(t, joined, "payment_method is required")
	assert.Contains(t, joined, "at least one item")
}

func TestCheckoutValidator_KYCBelowThreshold(t *testing.T) {
	validator, testDB, _ := setupValidatorTest(t)

	expensive := &model.Product{
		Name: "Heavy Necklace", Slug: "heavy-necklace",
		Status: model.ProductActive, CategoryID: 1, TotalRs: 199999,
	}
	require.NoError(t, testDB.Create(expensive).Error)

	req := validCheckoutRequest(expensive, 1, 199999)
	req.PaymentMethod = model.PaymentRazorpay

	_, err := validator.Validate(req)
	assert.NoError(t, err)
}

func TestCheckoutValidator_KYCAtThreshold(t *testing.T) {
	validator, testDB, _ := setupValidatorTest(t)

	expensive := &model.Product{
		Name: "Bridal Set", Slug: "bridal-set",
		Status: model.ProductActive, CategoryID: 1, TotalRs: 200000,
	}
	require.NoError(t, testDB.Create(expensive).Error)

	req := validCheckoutRequest(expensive, 1, 200000)
	req.PaymentMethod = model.PaymentRazorpay

	t.Run("missing both documents", func(t *testing.T) {
		_, err := validator.Validate(req)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.Error(), "PAN is required")
		assert.Contains(t, errs.Error(), "Aadhaar is required")
	})

	t.Run("malformed documents", func(t *testing.T) {
		bad := *req
		bad.PAN = "INVALID"
		bad.Aadhaar = "123"
		_, err := validator.Validate(&bad)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)
		assert.Contains(t, errs.Error(), "PAN must be")
		assert.Contains(t, errs.Error(), "Aadhaar must be")
	})

	t.Run("valid documents", func(t *testing.T) {
		good := *req
		good.PAN = "abcde1234f"
		good.Aadhaar = "1234 5678 9012"
		_, err := validator.Validate(&good)
		assert.NoError(t, err)
	})
}

func TestCheckoutValidator_DuplicatePaymentID(t *testing.T) {
	validator, testDB, product := setupValidatorTest(t)

	paymentID := "pay_existing123"
	user := &model.User{Name: "Asha", Email: "asha@example.com", Phone: "9876543210"}
	require.NoError(t, testDB.Create(user).Error)
	existing := &model.Order{
		OrderNumber:   "ORD-EXISTING01",
		UserID:        user.ID,
		Subtotal:      1000,
		TotalAmount:   1000,
		Status:        model.OrderProcessing,
		PaymentStatus: model.PaymentPaid,
		PaymentMethod: model.PaymentRazorpay,
		PaymentID:     &paymentID,
		ShippingName:  "Asha", ShippingEmail: "asha@example.com", ShippingPhone: "9876543210",
		Address: "12 MG Road", Pincode: "411001",
	}
	require.NoError(t, testDB.Create(existing).Error)

	req := validCheckoutRequest(product, 1, 1075)
	req.PaymentID = &paymentID

	_, err := validator.Validate(req)
	var dup *DuplicateOrderError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, existing.ID, dup.Existing.ID)
	assert.Equal(t, "ORD-EXISTING01", dup.Existing.OrderNumber)
}

func TestCheckoutValidator_OptionFromAnotherProduct(t *testing.T) {
	validator, testDB, product := setupValidatorTest(t)

	other := &model.Product{
		Name: "Silver Chain", Slug: "silver-chain",
		Status: model.ProductActive, CategoryID: 1, TotalRs: 500,
	}
	require.NoError(t, testDB.Create(other).Error)
	foreignOption := &model.ProductOption{
		ProductID: other.ID, Name: "Length", Value: "18in", SellPrice: 550,
	}
	require.NoError(t, testDB.Create(foreignOption).Error)

	req := validCheckoutRequest(product, 1, 1075)
	req.Items[0].ProductOptionID = &foreignOption.ID

	_, err := validator.Validate(req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Error(), "does not belong to product")
}

func TestCheckoutValidator_OptionPriceReplacesProductPrice(t *testing.T) {
	validator, testDB, product := setupValidatorTest(t)

	option := &model.ProductOption{
		ProductID: product.ID, Name: "Size", Value: "12", SellPrice: 1200,
	}
	require.NoError(t, testDB.Create(option).Error)

	// 1200 + policy COD 50 + product COD 25
	req := validCheckoutRequest(product, 1, 1275)
	req.Items[0].ProductOptionID = &option.ID

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	assert.InDelta(t, 1200, validated.Lines[0].UnitPrice, 0.001)
	require.NotNil(t, validated.Lines[0].Option)
	assert.Equal(t, option.ID, validated.Lines[0].Option.ID)
}

func TestCheckoutValidator_CustomPriceWithinTolerance(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	custom := 1100.0 // 10% above the 1000 catalog price
	req := validCheckoutRequest(product, 1, 1175)
	req.Items[0].CustomPrice = &custom

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	assert.InDelta(t, 1100, validated.Lines[0].UnitPrice, 0.001)
}

func TestCheckoutValidator_TamperedPriceDiscarded(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	custom := 500.0 // 50% below catalog, outside the 20% band
	req := validCheckoutRequest(product, 1, 1075)
	req.Items[0].CustomPrice = &custom

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	// The catalog price wins and the client total still reconciles.
	assert.InDelta(t, 1000, validated.Lines[0].UnitPrice, 0.001)
}

func TestCheckoutValidator_PaidOrderTrustsClientPricing(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	paymentID := "pay_captured42"
	custom := 650.0
	req := validCheckoutRequest(product, 1, 650)
	req.PaymentMethod = model.PaymentRazorpay
	req.PaymentID = &paymentID
	req.PaymentStatus = "paid"
	req.Items[0].CustomPrice = &custom

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	assert.True(t, validated.PaidOutOfBand)
	assert.InDelta(t, 650, validated.Lines[0].UnitPrice, 0.001)
	assert.InDelta(t, 650, validated.Total, 0.001)
}

func TestCheckoutValidator_PaidOrderEqualSplitFallback(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	paymentID := "pay_captured43"
	req := validCheckoutRequest(product, 4, 10)
	req.PaymentMethod = model.PaymentRazorpay
	req.PaymentID = &paymentID
	req.PaymentStatus = "paid"

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	// 10 / 1 line / 4 units = 2.50 per unit
	assert.InDelta(t, 2.5, validated.Lines[0].UnitPrice, 0.001)
}

func TestCheckoutValidator_PaidOrderSplitFlooredAtOne(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	paymentID := "pay_captured44"
	req := validCheckoutRequest(product, 4, 2)
	req.PaymentMethod = model.PaymentRazorpay
	req.PaymentID = &paymentID
	req.PaymentStatus = "paid"

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	// 2 / 4 = 0.50 would undercut the one-rupee floor.
	assert.InDelta(t, 1, validated.Lines[0].UnitPrice, 0.001)
}

func TestCheckoutValidator_TotalMismatchRejectedWhenUnpaid(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	// Expected total is 1075; 500 is far outside the 5% band.
	req := validCheckoutRequest(product, 1, 500)

	_, err := validator.Validate(req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Error(), "order total mismatch")
}

func TestCheckoutValidator_TotalMismatchToleratedWhenPaid(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	paymentID := "pay_captured45"
	custom := 1000.0
	req := validCheckoutRequest(product, 1, 700)
	req.PaymentMethod = model.PaymentRazorpay
	req.PaymentID = &paymentID
	req.PaymentStatus = "paid"
	req.Items[0].CustomPrice = &custom

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	// The captured amount stands even though it disagrees with the lines.
	assert.InDelta(t, 700, validated.Total, 0.001)
}

func TestCheckoutValidator_DiscountApplied(t *testing.T) {
	validator, testDB, product := setupValidatorTest(t)

	discount := &model.Discount{
		Code: "FLAT100", Type: model.DiscountFlat, Value: 100, Active: true,
	}
	require.NoError(t, testDB.Create(discount).Error)

	// 2000 - 100 + 75 COD
	req := validCheckoutRequest(product, 2, 1975)
	req.DiscountCode = "flat100"

	validated, err := validator.Validate(req)
	require.NoError(t, err)
	require.NotNil(t, validated.Discount)
	assert.InDelta(t, 100, validated.DiscountAmount, 0.001)
}

func TestCheckoutValidator_UnknownDiscountRejected(t *testing.T) {
	validator, _, product := setupValidatorTest(t)

	req := validCheckoutRequest(product, 1, 1075)
	req.DiscountCode = "NOPE"

	_, err := validator.Validate(req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Error(), "not valid")
}

func TestCheckoutValidator_ExpiredDiscountRejected(t *testing.T) {
	validator, testDB, product := setupValidatorTest(t)

	past := time.Now().Add(-time.Hour)
	discount := &model.Discount{
		Code: "GONE", Type: model.DiscountFlat, Value: 100, Active: true, EndsAt: &past,
	}
	require.NoError(t, testDB.Create(discount).Error)

	req := validCheckoutRequest(product, 1, 975)
	req.DiscountCode = "GONE"

	_, err := validator.Validate(req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Error(), "not applicable")
}

func TestCheckoutValidator_InactiveProductRejected(t *testing.T) {
	validator, testDB, _ := setupValidatorTest(t)

	hidden := &model.Product{
		Name: "Retired Pendant", Slug: "retired-pendant",
		Status: model.ProductInactive, CategoryID: 1, TotalRs: 900,
	}
	require.NoError(t, testDB.Create(hidden).Error)

	req := validCheckoutRequest(hidden, 1, 975)

	_, err := validator.Validate(req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Contains(t, errs.Error(), "not available")
}
