package controller

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/swarnika/swarnika-backend/pkg/util"
)

type OrderController struct {
	orderService   service.OrderService
	invoiceService service.InvoiceService
	reportService  service.ReportService
}

func NewOrderController(
	orderService service.OrderService,
	invoiceService service.InvoiceService,
	reportService service.ReportService,
) *OrderController {
	return &OrderController{
		orderService:   orderService,
		invoiceService: invoiceService,
		reportService:  reportService,
	}
}

// parseIDParam reads a positive uint path parameter.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, fmt.Sprintf("invalid %s", name))
		return 0, false
	}
	return uint(id), true
}

func parsePagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if limit <= 0 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return limit, (page - 1) * limit
}

// CreateOrder handles checkout.
// POST /api/v1/orders
func (ctrl *OrderController) CreateOrder(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.RespondWithValidationErrors(c, []string{err.Error()})
		return
	}

	// A signed-in customer gets the order attached to their account;
	// guests go through lookup-or-create by email/phone.
	if userID, ok := middleware.GetUserID(c); ok {
		req.UserID = &userID
	}

	order, err := ctrl.orderService.CreateOrder(&req)
	if err != nil {
		var validationErrs service.ValidationErrors
		if errors.As(err, &validationErrs) {
			log.Warn("Order rejected by validation", logger.Fields{
				"email":  req.Email,
				"errors": []string(validationErrs),
			})
			apperrors.RespondWithValidationErrors(c, validationErrs)
			return
		}

		var dup *service.DuplicateOrderError
		if errors.As(err, &dup) {
			c.JSON(http.StatusConflict, gin.H{
				"success":        false,
				"message":        "An order already exists for this payment",
				"order_id":       dup.Existing.ID,
				"order_number":   dup.Existing.OrderNumber,
				"payment_status": dup.Existing.PaymentStatus,
			})
			return
		}

		log.Error("Order creation failed", err, logger.Fields{
			"email": req.Email,
		})
		apperrors.InternalError(c, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":        true,
		"message":        "Order placed successfully",
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"total_amount":   order.TotalAmount,
		"payment_status": order.PaymentStatus,
	})
}

// GetMyOrders returns the signed-in customer's orders.
// GET /api/v1/orders/mine
func (ctrl *OrderController) GetMyOrders(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	limit, offset := parsePagination(c)
	orders, total, err := ctrl.orderService.GetUserOrders(userID, limit, offset)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch orders", err, logger.Fields{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
		"total":   total,
	})
}

// ListOrders is the admin order browser.
// GET /api/v1/admin/orders
func (ctrl *OrderController) ListOrders(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := repository.OrderFilter{
		Search: c.Query("search"),
		Limit:  limit,
		Offset: offset,
	}
	if s := c.Query("status"); s != "" {
		status := model.OrderStatus(s)
		filter.Status = &status
	}
	if s := c.Query("payment_status"); s != "" {
		status := model.PaymentStatus(s)
		filter.PaymentStatus = &status
	}
	if s := c.Query("from"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			filter.From = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.Parse("2006-01-02", s); err == nil {
			end := t.Add(24*time.Hour - time.Nanosecond)
			filter.To = &end
		}
	}

	orders, total, err := ctrl.orderService.ListOrders(filter)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list orders", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"orders":  orders,
		"total":   total,
	})
}

// GetOrderByID returns one order. Admins may view any order, customers
// only their own.
// GET /api/v1/orders/:id
func (ctrl *OrderController) GetOrderByID(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(id)
	if err != nil {
		ctrl.respondOrderError(c, err, id)
		return
	}
	if !middleware.IsAdmin(c) && order.UserID != userID {
		// Hide existence from non-owners.
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

type updateOrderRequest struct {
	Status         *model.OrderStatus   `json:"status"`
	PaymentStatus  *model.PaymentStatus `json:"payment_status"`
	CourierName    *string              `json:"courier_name"`
	TrackingNumber *string              `json:"tracking_number"`
	Notes          *string              `json:"notes"`
}

// UpdateOrder applies an admin partial update.
// PUT /api/v1/admin/orders/:id
func (ctrl *OrderController) UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request body")
		return
	}

	order, err := ctrl.orderService.UpdateOrder(id, service.OrderUpdate{
		Status:         req.Status,
		PaymentStatus:  req.PaymentStatus,
		CourierName:    req.CourierName,
		TrackingNumber: req.TrackingNumber,
		Notes:          req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNoUpdatableFields):
			apperrors.BadRequest(c, apperrors.ValidationRequired, "at least one updatable field is required")
		case errors.Is(err, service.ErrInvalidTransition):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "order status transition not allowed")
		default:
			ctrl.respondOrderError(c, err, id)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order":   order,
	})
}

type confirmPaymentRequest struct {
	PaymentID string              `json:"payment_id"`
	Status    model.PaymentStatus `json:"status" binding:"required"`
}

// ConfirmPayment records a payment outcome on an order. This is the
// admin override for settlements reconciled outside the gateway flow;
// customer payments are confirmed through the signature-verified
// payments endpoint.
// PUT /api/v1/admin/orders/:id/payment
func (ctrl *OrderController) ConfirmPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "invalid request body")
		return
	}

	order, err := ctrl.orderService.ConfirmPayment(id, req.PaymentID, req.Status)
	if err != nil {
		ctrl.respondOrderError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"order_id":       order.ID,
		"payment_status": order.PaymentStatus,
	})
}

// DeleteOrder permanently removes an order and its line items.
// DELETE /api/v1/admin/orders/:id
func (ctrl *OrderController) DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.orderService.DeleteOrder(id); err != nil {
		ctrl.respondOrderError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order deleted",
	})
}

// GetInvoice returns the data needed to render a printable invoice.
// GET /api/v1/orders/:id/invoice
func (ctrl *OrderController) GetInvoice(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	order, err := ctrl.orderService.GetOrderByID(id)
	if err != nil {
		ctrl.respondOrderError(c, err, id)
		return
	}
	if !middleware.IsAdmin(c) && order.UserID != userID {
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	}

	invoice, err := ctrl.invoiceService.BuildInvoice(id)
	if err != nil {
		ctrl.respondOrderError(c, err, id)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"invoice": invoice,
	})
}

// ExportOrders streams the filtered order list as a spreadsheet.
// GET /api/v1/admin/orders/export
func (ctrl *OrderController) ExportOrders(c *gin.Context) {
	filter := repository.OrderFilter{
		Search: c.Query("search"),
	}
	if s := c.Query("status"); s != "" {
		status := model.OrderStatus(s)
		filter.Status = &status
	}

	data, err := ctrl.reportService.ExportOrdersXLSX(filter)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Order export failed", err, nil)
		apperrors.InternalError(c, "Failed to generate export")
		return
	}

	filename := fmt.Sprintf("orders-%s.xlsx", time.Now().Format("20060102-150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// LookupPincode resolves a postal code so the checkout form can autofill
// city and state. Lookup failures are a 404; the form falls back to
// manual entry.
// GET /api/v1/pincode/:code
func (ctrl *OrderController) LookupPincode(c *gin.Context) {
	code := c.Param("code")

	info, err := util.LookupPincode(code)
	if err != nil {
		apperrors.NotFound(c, apperrors.ResourceNotFound, "Could not resolve pincode")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    info,
	})
}

func (ctrl *OrderController) respondOrderError(c *gin.Context, err error, orderID uint) {
	if errors.Is(err, service.ErrOrderNotFound) {
		apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		return
	}
	middleware.GetLoggerFromContext(c).Error("Order operation failed", err, logger.Fields{
		"order_id": orderID,
	})
	apperrors.InternalError(c, "")
}
