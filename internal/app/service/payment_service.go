package service

import (
	"context"
	"errors"
	"math"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"github.com/swarnika/swarnika-backend/pkg/payment/razorpay"
)

var (
	ErrPaymentVerificationFailed = errors.New("payment verification failed")
	ErrPaymentGatewayUnavailable = errors.New("payment gateway not configured")
)

// GatewayOrder is what the storefront needs to open the payment widget.
type GatewayOrder struct {
	GatewayOrderID string  `json:"gateway_order_id"`
	Amount         float64 `json:"amount"`
	AmountPaise    int64   `json:"amount_paise"`
	Currency       string  `json:"currency"`
	KeyID          string  `json:"key_id"`
}

type PaymentService interface {
	CreateGatewayOrder(ctx context.Context, amount float64, receipt string) (*GatewayOrder, error)
	VerifyAndConfirm(ctx context.Context, orderID uint, gatewayOrderID, paymentID, signature string) (*model.Order, error)
}

type paymentService struct {
	client       *razorpay.Client
	orderService OrderService
}

func NewPaymentService(client *razorpay.Client, orderService OrderService) PaymentService {
	return &paymentService{client: client, orderService: orderService}
}

// CreateGatewayOrder registers the amount with Razorpay so the widget can
// collect against it. Amounts cross the wire in paise.
func (s *paymentService) CreateGatewayOrder(ctx context.Context, amount float64, receipt string) (*GatewayOrder, error) {
	if s.client == nil {
		return nil, ErrPaymentGatewayUnavailable
	}
	if amount <= 0 {
		return nil, ValidationErrors{"amount must be greater than zero"}
	}

	paise := int64(math.Round(amount * 100))
	order, err := s.client.CreateOrder(ctx, razorpay.CreateOrderRequest{
		Amount:  paise,
		Receipt: receipt,
	})
	if err != nil {
		logger.Error("Gateway order creation failed", err, logger.Fields{
			"amount":  amount,
			"receipt": receipt,
		})
		return nil, err
	}

	return &GatewayOrder{
		GatewayOrderID: order.ID,
		Amount:         amount,
		AmountPaise:    order.Amount,
		Currency:       order.Currency,
		KeyID:          s.client.GetConfig().KeyID,
	}, nil
}

// VerifyAndConfirm checks the checkout callback signature, cross-checks
// the payment state at the gateway and records the outcome on the order.
func (s *paymentService) VerifyAndConfirm(ctx context.Context, orderID uint, gatewayOrderID, paymentID, signature string) (*model.Order, error) {
	if s.client == nil {
		return nil, ErrPaymentGatewayUnavailable
	}

	if err := s.client.VerifySignature(gatewayOrderID, paymentID, signature); err != nil {
		logger.Warn("Payment signature rejected", logger.Fields{
			"order_id":   orderID,
			"payment_id": paymentID,
		})
		// A forged or garbled callback marks nothing; the order stays
		// pending for a legitimate retry.
		return nil, ErrPaymentVerificationFailed
	}

	payment, err := s.client.FetchPayment(ctx, paymentID)
	if err != nil {
		return nil, err
	}

	status := model.PaymentFailed
	if payment.Status == "captured" || payment.Status == "authorized" {
		status = model.PaymentPaid
	}

	return s.orderService.ConfirmPayment(orderID, paymentID, status)
}
