package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/swarnika/swarnika-backend/config"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	"github.com/swarnika/swarnika-backend/internal/db"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/pkg/util"
)

const testAPISecret = "controller-test-secret"

func setupCheckoutAPI(t *testing.T) (*gin.Engine, *gorm.DB, *model.Product) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB := db.SetupTestDB(t)
	t.Cleanup(func() {
		db.CleanupTestDB(t, testDB)
	})

	policy := config.CheckoutConfig{
		KYCThreshold:   200000,
		PriceTolerance: 0.20,
		TotalTolerance: 0.05,
		CODCharge:      50,
	}

	productRepo := repository.NewProductRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)
	discountRepo := repository.NewDiscountRepository(testDB)
	validator := service.NewCheckoutValidator(productRepo, orderRepo, discountRepo, policy)
	orderService := service.NewOrderService(
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
	invoiceService := service.NewInvoiceService(orderService, config.StoreConfig{Name: "Swarnika Jewels"})
	reportService := service.NewReportService(orderRepo)

	ctrl := NewOrderController(orderService, invoiceService, reportService)

	engine := gin.New()
	engine.Use(middleware.LoggingMiddleware())
	engine.POST("/orders", ctrl.CreateOrder)

	// Mirrors the production router: the manual payment override sits
	// behind the admin gate.
	auth := middleware.NewAuthMiddleware(testAPISecret)
	admin := engine.Group("/admin", auth.Authenticate(), auth.RequireRole("admin"))
	admin.PUT("/orders/:id/payment", ctrl.ConfirmPayment)

	category := &model.Category{Name: "Rings", Slug: "rings", Active: true}
	require.NoError(t, testDB.Create(category).Error)
	product := &model.Product{
		Name: "Gold Ring", Slug: "gold-ring",
		Status: model.ProductActive, CategoryID: category.ID, TotalRs: 1000, CODCharge: 25,
	}
	require.NoError(t, testDB.Create(product).Error)

	return engine, testDB, product
}

func checkoutPayload(productID uint, quantity int, total float64) map[string]interface{} {
	return map[string]interface{}{
		"name":           "Asha Verma",
		"email":          "asha@example.com",
		"phone":          "9876543210",
		"address":        "12 MG Road",
		"city":           "Pune",
		"state":          "MH",
		"pincode":        "411001",
		"total_amount":   total,
		"payment_method": "cod",
		"items": []map[string]interface{}{
			{"product_id": productID, "quantity": quantity},
		},
	}
}

func postJSON(t *testing.T, engine *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateOrderEndpoint_Success(t *testing.T) {
	engine, _, product := setupCheckoutAPI(t)

	w := postJSON(t, engine, "/orders", checkoutPayload(product.ID, 2, 2075))
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Success       bool    `json:"success"`
		Message       string  `json:"message"`
		OrderID       uint    `json:"order_id"`
		OrderNumber   string  `json:"order_number"`
		TotalAmount   float64 `json:"total_amount"`
		PaymentStatus string  `json:"payment_status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotZero(t, resp.OrderID)
	assert.Contains(t, resp.OrderNumber, "ORD-")
	assert.InDelta(t, 2075, resp.TotalAmount, 0.001)
	assert.Equal(t, "pending", resp.PaymentStatus)
}

func TestCreateOrderEndpoint_ValidationErrors(t *testing.T) {
	engine, _, product := setupCheckoutAPI(t)

	payload := checkoutPayload(product.ID, 1, 1075)
	payload["email"] = "not-an-email"
	payload["phone"] = "123"

	w := postJSON(t, engine, "/orders", payload)
	require.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Success bool     `json:"success"`
		Errors  []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Errors)

	joined := fmt.Sprint(resp.Errors)
	assert.Contains(t, joined, "email")
	assert.Contains(t, joined, "phone")
}

func TestCreateOrderEndpoint_DuplicateReturnsConflict(t *testing.T) {
	engine, _, product := setupCheckoutAPI(t)

	payload := checkoutPayload(product.ID, 1, 1000)
	payload["payment_method"] = "razorpay"
	payload["payment_id"] = "pay_once"
	payload["payment_status"] = "paid"

	first := postJSON(t, engine, "/orders", payload)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	var created struct {
		OrderID     uint   `json:"order_id"`
		OrderNumber string `json:"order_number"`
	}
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &created))

	second := postJSON(t, engine, "/orders", payload)
	require.Equal(t, http.StatusConflict, second.Code, second.Body.String())

	var resp struct {
		Success       bool   `json:"success"`
		Message       string `json:"message"`
		OrderID       uint   `json:"order_id"`
		OrderNumber   string `json:"order_number"`
		PaymentStatus string `json:"payment_status"`
	}
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, created.OrderID, resp.OrderID)
	assert.Equal(t, created.OrderNumber, resp.OrderNumber)
	assert.Equal(t, "paid", resp.PaymentStatus)
}

func apiToken(t *testing.T, role string) string {
	t.Helper()
	pair, err := util.GenerateTokenPair(1, "staff@example.com", role, testAPISecret, time.Minute, time.Hour)
	require.NoError(t, err)
	return pair.AccessToken
}

func putJSON(t *testing.T, engine *gin.Engine, path, token string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPut, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestConfirmPaymentEndpoint_RequiresAdmin(t *testing.T) {
	engine, testDB, product := setupCheckoutAPI(t)

	payload := checkoutPayload(product.ID, 1, 1000)
	payload["payment_method"] = "razorpay"
	created := postJSON(t, engine, "/orders", payload)
	require.Equal(t, http.StatusCreated, created.Code, created.Body.String())

	var resp struct {
		OrderID uint `json:"order_id"`
	}
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))
	path := fmt.Sprintf("/admin/orders/%d/payment", resp.OrderID)
	override := map[string]interface{}{"payment_id": "pay_manual", "status": "paid"}

	paymentStatus := func() model.PaymentStatus {
		var order model.Order
		require.NoError(t, testDB.First(&order, resp.OrderID).Error)
		return order.PaymentStatus
	}

	t.Run("anonymous rejected", func(t *testing.T) {
		w := putJSON(t, engine, path, "", override)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, model.PaymentPending, paymentStatus())
	})

	t.Run("customer forbidden", func(t *testing.T) {
		w := putJSON(t, engine, path, apiToken(t, "user"), override)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, model.PaymentPending, paymentStatus())
	})

	t.Run("admin allowed", func(t *testing.T) {
		w := putJSON(t, engine, path, apiToken(t, "admin"), override)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, model.PaymentPaid, paymentStatus())
	})
}

func TestCreateOrderEndpoint_MalformedBody(t *testing.T) {
	engine, _, _ := setupCheckoutAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
