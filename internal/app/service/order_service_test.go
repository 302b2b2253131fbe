package service

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/db"
)

func setupOrderServiceTest(t *testing.T) (OrderService, *gorm.DB, *model.Product) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	discountRepo := repository.NewDiscountRepository(testDB)

	validator := NewCheckoutValidator(productRepo, orderRepo, discountRepo, testCheckoutPolicy)
	svc := NewOrderService(
		testDB,
		validator,
		orderRepo,
		repository.NewCartRepository(testDB),
		discountRepo,
		repository.NewNotificationRepository(testDB),
		repository.NewTrackingConfigRepository(testDB),
		nil,
		nil,
	)

	category := &model.Category{Name: "Rings", Slug: "rings", Active: true}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name:            "Gold Ring",
		Slug:            "gold-ring",
		Status:          model.ProductActive,
		CategoryID:      category.ID,
		TotalRs:         1000,
		CODCharge:       25,
		Rate:            6500,
		GrossWeight:     4.2,
		NetWeight:       3.9,
		Purity:          "22K",
		DiscountPercent: 5,
	}
	require.NoError(t, testDB.Create(product).Error)

	return svc, testDB, product
}

func TestOrderService_CreateOrder_COD(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	req := validCheckoutRequest(product, 2, 2075)

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(order.OrderNumber, "ORD-"))
	assert.Equal(t, model.OrderProcessing, order.Status)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
	assert.Equal(t, model.PaymentCOD, order.PaymentMethod)
	assert.InDelta(t, 2000, order.Subtotal, 0.001)
	assert.InDelta(t, 2075, order.TotalAmount, 0.001)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	assert.Equal(t, product.ID, item.ProductID)
	assert.Equal(t, "Gold Ring", item.ProductName)
	assert.InDelta(t, 1000, item.Price, 0.001)
	assert.Equal(t, 2, item.Quantity)
	// Catalog attributes are frozen onto the line at purchase time.
	assert.InDelta(t, 6500, item.Rate, 0.001)
	assert.InDelta(t, 3.9, item.NetWeight, 0.001)
	assert.Equal(t, "22K", item.Purity)
	assert.InDelta(t, 5, item.DiscountPercent, 0.001)

	// A guest account is materialized for the shopper.
	var user model.User
	require.NoError(t, testDB.Where("email = ?", "asha@example.com").First(&user).Error)
	assert.Equal(t, user.ID, order.UserID)
	assert.True(t, user.IsGuest())
}

func TestOrderService_CreateOrder_ValidationLeavesNoRows(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	req := validCheckoutRequest(product, 1, 500) // far off the expected 1075

	_, err := svc.CreateOrder(req)
	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)

	var orders, users int64
	testDB.Model(&model.Order{}).Count(&orders)
	testDB.Model(&model.User{}).Count(&users)
	assert.Zero(t, orders)
	assert.Zero(t, users)
}

func TestOrderService_CreateOrder_PaymentIDIdempotent(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	paymentID := "pay_once"
	first := validCheckoutRequest(product, 1, 1000)
	first.PaymentMethod = model.PaymentRazorpay
	first.PaymentID = &paymentID
	first.PaymentStatus = "paid"

	created, err := svc.CreateOrder(first)
	require.NoError(t, err)

	second := validCheckoutRequest(product, 1, 1000)
	second.PaymentMethod = model.PaymentRazorpay
	second.PaymentID = &paymentID
	second.PaymentStatus = "paid"

	_, err = svc.CreateOrder(second)
	var dup *DuplicateOrderError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, created.ID, dup.Existing.ID)
	assert.Equal(t, created.OrderNumber, dup.Existing.OrderNumber)

	var count int64
	testDB.Model(&model.Order{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestOrderService_CreateOrder_OrderTokenIdempotent(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	token := "client-token-abc"
	first := validCheckoutRequest(product, 1, 1075)
	first.OrderToken = &token

	created, err := svc.CreateOrder(first)
	require.NoError(t, err)

	retry := validCheckoutRequest(product, 1, 1075)
	retry.OrderToken = &token

	_, err = svc.CreateOrder(retry)
	var dup *DuplicateOrderError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, created.ID, dup.Existing.ID)

	var count int64
	testDB.Model(&model.Order{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestOrderService_CreateOrder_TamperedPriceUsesCatalog(t *testing.T) {
	svc, _, product := setupOrderServiceTest(t)

	custom := 500.0
	req := validCheckoutRequest(product, 1, 1075)
	req.Items[0].CustomPrice = &custom

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.InDelta(t, 1000, order.Items[0].Price, 0.001)
}

func TestOrderService_CreateOrder_PaidOutOfBand(t *testing.T) {
	svc, _, product := setupOrderServiceTest(t)

	paymentID := "pay_captured"
	custom := 940.0
	req := validCheckoutRequest(product, 1, 940)
	req.PaymentMethod = model.PaymentRazorpay
	req.PaymentID = &paymentID
	req.PaymentStatus = "paid"
	req.Items[0].CustomPrice = &custom

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, order.PaymentStatus)
	require.NotNil(t, order.PaymentID)
	assert.Equal(t, paymentID, *order.PaymentID)
	assert.InDelta(t, 940, order.TotalAmount, 0.001)
}

func TestOrderService_CreateOrder_CODNeverPaid(t *testing.T) {
	svc, _, product := setupOrderServiceTest(t)

	// Even a client claiming "paid" on COD lands as pending.
	req := validCheckoutRequest(product, 1, 1075)
	req.PaymentStatus = "paid"

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, order.PaymentStatus)
}

func TestOrderService_CreateOrder_ReusesExistingCustomer(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	existing := &model.User{
		Name: "Asha Verma", Email: "asha@example.com", Phone: "9876543210",
		Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(existing).Error)

	order, err := svc.CreateOrder(validCheckoutRequest(product, 1, 1075))
	require.NoError(t, err)
	assert.Equal(t, existing.ID, order.UserID)

	var users int64
	testDB.Model(&model.User{}).Count(&users)
	assert.EqualValues(t, 1, users)
}

func TestOrderService_CreateOrder_LostSignupRaceConverges(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	// Slip a conflicting signup in right before the guest insert, the way
	// a second checkout with the same email lands between the locked
	// lookup and the create.
	var injected bool
	var injectErr error
	err := testDB.Callback().Create().Before("gorm:create").
		Register("order_test:concurrent_signup", func(db *gorm.DB) {
			if injected || db.Statement.Table != "users" {
				return
			}
			injected = true
			now := time.Now()
			injectErr = db.Session(&gorm.Session{NewDB: true}).Exec(
				"INSERT INTO users (name, email, phone, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
				"Asha Verma", "asha@example.com", "9876543210", "user", now, now,
			).Error
		})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = testDB.Callback().Create().Remove("order_test:concurrent_signup")
	})

	order, err := svc.CreateOrder(validCheckoutRequest(product, 1, 1075))
	require.NoError(t, err)
	require.True(t, injected)
	require.NoError(t, injectErr)

	// The checkout converges on the row that won the race.
	var users int64
	testDB.Model(&model.User{}).Count(&users)
	assert.EqualValues(t, 1, users)

	var winner model.User
	require.NoError(t, testDB.Where("email = ?", "asha@example.com").First(&winner).Error)
	assert.Equal(t, winner.ID, order.UserID)
}

func TestOrderService_CreateOrder_AttachesToAuthenticatedUser(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	user := &model.User{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9000000000",
		PasswordHash: "x", Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	req := validCheckoutRequest(product, 1, 1075)
	req.UserID = &user.ID

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)
	assert.Equal(t, user.ID, order.UserID)
}

func TestOrderService_CreateOrder_KYCStoredNormalized(t *testing.T) {
	svc, testDB, _ := setupOrderServiceTest(t)

	expensive := &model.Product{
		Name: "Bridal Set", Slug: "bridal-set",
		Status: model.ProductActive, CategoryID: 1, TotalRs: 200000,
	}
	require.NoError(t, testDB.Create(expensive).Error)

	req := validCheckoutRequest(expensive, 1, 200000)
	req.PaymentMethod = model.PaymentRazorpay
	req.PAN = "abcde1234f"
	req.Aadhaar = "1234 5678 9012"

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)
	assert.Equal(t, "ABCDE1234F", order.PAN)
	assert.Equal(t, "123456789012", order.Aadhaar)
}

func TestOrderService_CreateOrder_IncrementsDiscountUsage(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	discount := &model.Discount{
		Code: "FLAT100", Type: model.DiscountFlat, Value: 100, Active: true,
	}
	require.NoError(t, testDB.Create(discount).Error)

	req := validCheckoutRequest(product, 2, 1975)
	req.DiscountCode = "FLAT100"

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)
	assert.InDelta(t, 100, order.DiscountAmount, 0.001)

	var reloaded model.Discount
	require.NoError(t, testDB.First(&reloaded, discount.ID).Error)
	assert.Equal(t, 1, reloaded.UsedCount)
}

func TestOrderService_CreateOrder_ClearsUserCart(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	user := &model.User{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9000000000",
		PasswordHash: "x", Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)
	require.NoError(t, testDB.Create(&model.CartItem{
		UserID: user.ID, ProductID: product.ID, Quantity: 2,
	}).Error)

	req := validCheckoutRequest(product, 2, 2075)
	req.UserID = &user.ID

	_, err := svc.CreateOrder(req)
	require.NoError(t, err)

	var remaining int64
	testDB.Model(&model.CartItem{}).Where("user_id = ?", user.ID).Count(&remaining)
	assert.Zero(t, remaining)
}

func TestOrderService_CreateOrder_WritesNotification(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	order, err := svc.CreateOrder(validCheckoutRequest(product, 1, 1075))
	require.NoError(t, err)

	var notifications []model.Notification
	require.NoError(t, testDB.Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, model.NotificationOrderPlaced, notifications[0].Type)
	require.NotNil(t, notifications[0].RelatedOrderID)
	assert.Equal(t, order.ID, *notifications[0].RelatedOrderID)
}

func TestOrderService_UpdateOrder(t *testing.T) {
	svc, _, product := setupOrderServiceTest(t)

	order, err := svc.CreateOrder(validCheckoutRequest(product, 1, 1075))
	require.NoError(t, err)

	t.Run("no fields", func(t *testing.T) {
		_, err := svc.UpdateOrder(order.ID, OrderUpdate{})
		assert.ErrorIs(t, err, ErrNoUpdatableFields)
	})

	t.Run("illegal transition", func(t *testing.T) {
		delivered := model.OrderDelivered
		_, err := svc.UpdateOrder(order.ID, OrderUpdate{Status: &delivered})
		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("ship with tracking", func(t *testing.T) {
		shipped := model.OrderShipped
		courier := "BlueDart"
		tracking := "BD123456"
		updated, err := svc.UpdateOrder(order.ID, OrderUpdate{
			Status: &shipped, CourierName: &courier, TrackingNumber: &tracking,
		})
		require.NoError(t, err)
		assert.Equal(t, model.OrderShipped, updated.Status)
		assert.Equal(t, "BlueDart", updated.CourierName)
		assert.Equal(t, "BD123456", updated.TrackingNumber)
	})

	t.Run("deliver after shipping", func(t *testing.T) {
		delivered := model.OrderDelivered
		updated, err := svc.UpdateOrder(order.ID, OrderUpdate{Status: &delivered})
		require.NoError(t, err)
		assert.Equal(t, model.OrderDelivered, updated.Status)
	})

	t.Run("unknown order", func(t *testing.T) {
		shipped := model.OrderShipped
		_, err := svc.UpdateOrder(99999, OrderUpdate{Status: &shipped})
		assert.ErrorIs(t, err, ErrOrderNotFound)
	})
}

func TestOrderService_ConfirmPayment(t *testing.T) {
	svc, _, product := setupOrderServiceTest(t)

	req := validCheckoutRequest(product, 1, 1000)
	req.PaymentMethod = model.PaymentRazorpay

	order, err := svc.CreateOrder(req)
	require.NoError(t, err)
	require.Equal(t, model.PaymentPending, order.PaymentStatus)

	updated, err := svc.ConfirmPayment(order.ID, "pay_settled", model.PaymentPaid)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPaid, updated.PaymentStatus)
	require.NotNil(t, updated.PaymentID)
	assert.Equal(t, "pay_settled", *updated.PaymentID)
}

func TestOrderService_DeleteOrder(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	order, err := svc.CreateOrder(validCheckoutRequest(product, 1, 1075))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteOrder(order.ID))

	var orders, items int64
	testDB.Unscoped().Model(&model.Order{}).Count(&orders)
	testDB.Unscoped().Model(&model.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)

	assert.ErrorIs(t, svc.DeleteOrder(order.ID), ErrOrderNotFound)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	svc, testDB, product := setupOrderServiceTest(t)

	user := &model.User{
		Name: "Ravi", Email: "ravi@example.com", Phone: "9000000000",
		PasswordHash: "x", Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	for range [3]struct{}{} {
		req := validCheckoutRequest(product, 1, 1075)
		req.UserID = &user.ID
		_, err := svc.CreateOrder(req)
		require.NoError(t, err)
	}

	orders, total, err := svc.GetUserOrders(user.ID, 2, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, orders, 2)
}
