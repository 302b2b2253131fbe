package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

type PaymentController struct {
	paymentService service.PaymentService
}

func NewPaymentController(paymentService service.PaymentService) *PaymentController {
	return &PaymentController{paymentService: paymentService}
}

type createGatewayOrderRequest struct {
	Amount  float64 `json:"amount" binding:"required,gt=0"`
	Receipt string  `json:"receipt"`
}

// CreateGatewayOrder registers the amount with the payment gateway so
// the checkout widget can collect it.
// POST /api/v1/payments/order
func (ctrl *PaymentController) CreateGatewayOrder(c *gin.Context) {
	var req createGatewayOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	gatewayOrder, err := ctrl.paymentService.CreateGatewayOrder(c.Request.Context(), req.Amount, req.Receipt)
	if err != nil {
		if errors.Is(err, service.ErrPaymentGatewayUnavailable) {
			apperrors.RespondWithError(c, http.StatusServiceUnavailable, apperrors.PaymentFailed, "Payment gateway unavailable")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Gateway order failed", err, logger.Fields{
			"amount": req.Amount,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.PaymentFailed, "Failed to initiate payment")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"gateway_order": gatewayOrder,
	})
}

type verifyPaymentRequest struct {
	OrderID        uint   `json:"order_id" binding:"required"`
	GatewayOrderID string `json:"gateway_order_id" binding:"required"`
	PaymentID      string `json:"payment_id" binding:"required"`
	Signature      string `json:"signature" binding:"required"`
}

// VerifyPayment checks the gateway signature, confirms capture with the
// gateway and records the outcome on the order.
// POST /api/v1/payments/verify
func (ctrl *PaymentController) VerifyPayment(c *gin.Context) {
	var req verifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	order, err := ctrl.paymentService.VerifyAndConfirm(
		c.Request.Context(),
		req.OrderID,
		req.GatewayOrderID,
		req.PaymentID,
		req.Signature,
	)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPaymentVerificationFailed):
			apperrors.BadRequest(c, apperrors.PaymentInvalidSignature, "Payment signature verification failed")
		case errors.Is(err, service.ErrOrderNotFound):
			apperrors.NotFound(c, apperrors.OrderNotFound, "Order not found")
		default:
			middleware.GetLoggerFromContext(c).Error("Payment verification failed", err, logger.Fields{
				"order_id":   req.OrderID,
				"payment_id": req.PaymentID,
			})
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.PaymentFailed, "Payment verification failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"order_id":       order.ID,
		"order_number":   order.OrderNumber,
		"payment_status": order.PaymentStatus,
	})
}
