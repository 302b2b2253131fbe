package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/db"
)

func setupOrderRepoTest(t *testing.T) (OrderRepository, *gorm.DB, *model.User) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})

	user := &model.User{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210",
		PasswordHash: "x", Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	return NewOrderRepository(testDB), testDB, user
}

func seedOrder(t *testing.T, testDB *gorm.DB, userID uint, mutate func(*model.Order)) *model.Order {
	t.Helper()
	order := &model.Order{
		OrderNumber:   "ORD-" + time.Now().Format("150405.000000000"),
		UserID:        userID,
		Subtotal:      1000,
		TotalAmount:   1050,
		Status:        model.OrderProcessing,
		PaymentStatus: model.PaymentPending,
		PaymentMethod: model.PaymentCOD,
		ShippingName:  "Asha Verma",
		ShippingEmail: "asha@example.com",
		ShippingPhone: "9876543210",
		Address:       "12 MG Road",
		Pincode:       "411001",
	}
	if mutate != nil {
		mutate(order)
	}
	require.NoError(t, testDB.Create(order).Error)
	return order
}

func TestOrderRepository_IdempotencyFinders(t *testing.T) {
	repo, testDB, user := setupOrderRepoTest(t)

	paymentID := "pay_abc"
	token := "tok_xyz"
	order := seedOrder(t, testDB, user.ID, func(o *model.Order) {
		o.PaymentID = &paymentID
		o.OrderToken = &token
	})

	byPayment, err := repo.FindByPaymentID("pay_abc")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byPayment.ID)

	byToken, err := repo.FindByOrderToken("tok_xyz")
	require.NoError(t, err)
	assert.Equal(t, order.ID, byToken.ID)

	_, err = repo.FindByPaymentID("pay_missing")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestOrderRepository_DuplicatePaymentIDRejected(t *testing.T) {
	_, testDB, user := setupOrderRepoTest(t)

	paymentID := "pay_dup"
	seedOrder(t, testDB, user.ID, func(o *model.Order) {
		o.PaymentID = &paymentID
	})

	clash := &model.Order{
		OrderNumber:   "ORD-CLASH00001",
		UserID:        user.ID,
		Subtotal:      500,
		TotalAmount:   500,
		Status:        model.OrderProcessing,
		PaymentStatus: model.PaymentPending,
		PaymentMethod: model.PaymentCOD,
		PaymentID:     &paymentID,
		ShippingName:  "Asha", ShippingEmail: "asha@example.com", ShippingPhone: "9876543210",
		Address: "12 MG Road", Pincode: "411001",
	}
	assert.Error(t, testDB.Create(clash).Error)
}

func TestOrderRepository_FindWithFilter(t *testing.T) {
	repo, testDB, user := setupOrderRepoTest(t)

	seedOrder(t, testDB, user.ID, nil)
	shipped := seedOrder(t, testDB, user.ID, func(o *model.Order) {
		o.Status = model.OrderShipped
		o.ShippingName = "Ravi Kumar"
	})
	seedOrder(t, testDB, user.ID, func(o *model.Order) {
		o.PaymentStatus = model.PaymentPaid
	})

	t.Run("by status", func(t *testing.T) {
		status := model.OrderShipped
		orders, total, err := repo.FindWithFilter(OrderFilter{Status: &status})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, orders, 1)
		assert.Equal(t, shipped.ID, orders[0].ID)
	})

	t.Run("by payment status", func(t *testing.T) {
		paid := model.PaymentPaid
		_, total, err := repo.FindWithFilter(OrderFilter{PaymentStatus: &paid})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("by shipping name search", func(t *testing.T) {
		orders, total, err := repo.FindWithFilter(OrderFilter{Search: "Ravi"})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, orders, 1)
		assert.Equal(t, "Ravi Kumar", orders[0].ShippingName)
	})

	t.Run("by date window", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		_, total, err := repo.FindWithFilter(OrderFilter{From: &past})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)

		_, total, err = repo.FindWithFilter(OrderFilter{To: &past})
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("pagination keeps full count", func(t *testing.T) {
		orders, total, err := repo.FindWithFilter(OrderFilter{Limit: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		assert.Len(t, orders, 2)
	})
}

func TestOrderRepository_HardDelete(t *testing.T) {
	repo, testDB, user := setupOrderRepoTest(t)

	category := &model.Category{Name: "Rings", Slug: "rings", Active: true}
	require.NoError(t, testDB.Create(category).Error)
	product := &model.Product{
		Name: "Gold Ring", Slug: "gold-ring",
		Status: model.ProductActive, CategoryID: category.ID, TotalRs: 1000,
	}
	require.NoError(t, testDB.Create(product).Error)

	order := seedOrder(t, testDB, user.ID, nil)
	require.NoError(t, testDB.Create(&model.OrderItem{
		OrderID: order.ID, ProductID: product.ID, ProductName: "Gold Ring",
		Price: 1000, Quantity: 1,
	}).Error)

	require.NoError(t, repo.HardDelete(order.ID))

	var orders, items int64
	testDB.Unscoped().Model(&model.Order{}).Count(&orders)
	testDB.Unscoped().Model(&model.OrderItem{}).Count(&items)
	assert.Zero(t, orders)
	assert.Zero(t, items)
}
