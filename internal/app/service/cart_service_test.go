package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/db"
)

func setupCartTest(t *testing.T) (CartService, *gorm.DB, *model.Product, *model.User) {
	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})

	svc := NewCartService(
		repository.NewCartRepository(testDB),
		repository.NewProductRepository(testDB),
		nil,
		testCheckoutPolicy,
	)

	category := &model.Category{Name: "Rings", Slug: "rings", Active: true}
	require.NoError(t, testDB.Create(category).Error)

	product := &model.Product{
		Name: "Gold Ring", Slug: "gold-ring",
		Status: model.ProductActive, CategoryID: category.ID, TotalRs: 1000,
	}
	require.NoError(t, testDB.Create(product).Error)

	user := &model.User{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210",
		PasswordHash: "x", Role: model.RoleUser,
	}
	require.NoError(t, testDB.Create(user).Error)

	return svc, testDB, product, user
}

func TestCartService_AddItem(t *testing.T) {
	svc, testDB, product, user := setupCartTest(t)

	item, err := svc.AddItem(user.ID, product.ID, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, item.Quantity)

	t.Run("same product collapses onto the line", func(t *testing.T) {
		again, err := svc.AddItem(user.ID, product.ID, nil, 1)
		require.NoError(t, err)
		assert.Equal(t, item.ID, again.ID)
		assert.Equal(t, 3, again.Quantity)
	})

	t.Run("unknown product", func(t *testing.T) {
		_, err := svc.AddItem(user.ID, 99999, nil, 1)
		assert.ErrorIs(t, err, ErrProductNotFound)
	})

	t.Run("option from another product", func(t *testing.T) {
		badID := uint(99999)
		_, err := svc.AddItem(user.ID, product.ID, &badID, 1)
		assert.ErrorIs(t, err, ErrInvalidProductOption)
	})

	t.Run("non-positive quantity defaults to one", func(t *testing.T) {
		other := &model.Product{
			Name: "Silver Ring", Slug: "silver-ring",
			Status: model.ProductActive, CategoryID: product.CategoryID, TotalRs: 500,
		}
		require.NoError(t, testDB.Create(other).Error)

		item, err := svc.AddItem(user.ID, other.ID, nil, 0)
		require.NoError(t, err)
		assert.Equal(t, 1, item.Quantity)
	})
}

func TestCartService_OptionLinesStaySeparate(t *testing.T) {
	svc, testDB, product, user := setupCartTest(t)

	option := &model.ProductOption{
		ProductID: product.ID, Name: "Size", Value: "12", SellPrice: 1200,
	}
	require.NoError(t, testDB.Create(option).Error)

	plain, err := svc.AddItem(user.ID, product.ID, nil, 1)
	require.NoError(t, err)
	sized, err := svc.AddItem(user.ID, product.ID, &option.ID, 1)
	require.NoError(t, err)
	assert.NotEqual(t, plain.ID, sized.ID)

	items, subtotal, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	// 1000 base line + 1200 option line
	assert.InDelta(t, 2200, subtotal, 0.001)
}

func TestCartService_UpdateQuantity(t *testing.T) {
	svc, _, product, user := setupCartTest(t)

	item, err := svc.AddItem(user.ID, product.ID, nil, 2)
	require.NoError(t, err)

	updated, err := svc.UpdateQuantity(user.ID, item.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.Quantity)

	t.Run("zero quantity deletes the line", func(t *testing.T) {
		deleted, err := svc.UpdateQuantity(user.ID, item.ID, 0)
		require.NoError(t, err)
		assert.Nil(t, deleted)

		items, _, err := svc.GetCart(user.ID)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("someone else's line", func(t *testing.T) {
		_, err := svc.UpdateQuantity(user.ID+1, item.ID, 1)
		assert.ErrorIs(t, err, ErrCartItemNotFound)
	})
}

func TestCartService_RemoveAndClear(t *testing.T) {
	svc, _, product, user := setupCartTest(t)

	item, err := svc.AddItem(user.ID, product.ID, nil, 1)
	require.NoError(t, err)

	require.NoError(t, svc.RemoveItem(user.ID, item.ID))
	assert.ErrorIs(t, svc.RemoveItem(user.ID, item.ID), ErrCartItemNotFound)

	_, err = svc.AddItem(user.ID, product.ID, nil, 1)
	require.NoError(t, err)
	require.NoError(t, svc.ClearCart(user.ID))

	items, subtotal, err := svc.GetCart(user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
	assert.Zero(t, subtotal)
}

func TestCartService_SendAbandonedReminders(t *testing.T) {
	svc, testDB, product, user := setupCartTest(t)

	stale := time.Now().Add(-24 * time.Hour)
	item := &model.CartItem{UserID: user.ID, ProductID: product.ID, Quantity: 1}
	require.NoError(t, testDB.Create(item).Error)
	require.NoError(t, testDB.Model(item).UpdateColumn("updated_at", stale).Error)

	sent, err := svc.SendAbandonedReminders()
	require.NoError(t, err)
	assert.Equal(t, 1, sent)

	var reloaded model.CartItem
	require.NoError(t, testDB.First(&reloaded, item.ID).Error)
	require.NotNil(t, reloaded.ReminderSentAt)

	t.Run("already reminded carts are skipped", func(t *testing.T) {
		sent, err := svc.SendAbandonedReminders()
		require.NoError(t, err)
		assert.Zero(t, sent)
	})
}
