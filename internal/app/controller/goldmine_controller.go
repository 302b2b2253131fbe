package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

type GoldmineController struct {
	goldmineService service.GoldmineService
}

func NewGoldmineController(goldmineService service.GoldmineService) *GoldmineController {
	return &GoldmineController{goldmineService: goldmineService}
}

// GetPlans lists savings plans customers can join.
// GET /api/v1/goldmine/plans
func (ctrl *GoldmineController) GetPlans(c *gin.Context) {
	plans, err := ctrl.goldmineService.GetPlans(!middleware.IsAdmin(c))
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"plans":   plans,
	})
}

type subscribeRequest struct {
	PlanID uint `json:"plan_id" binding:"required"`
}

// Subscribe enrolls the signed-in customer in a plan.
// POST /api/v1/goldmine/subscriptions
func (ctrl *GoldmineController) Subscribe(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	subscription, err := ctrl.goldmineService.Subscribe(userID, req.PlanID)
	if err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			apperrors.NotFound(c, apperrors.GoldminePlanNotFound, "Plan not found")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Subscription failed", err, logger.Fields{
			"user_id": userID,
			"plan_id": req.PlanID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":      true,
		"subscription": subscription,
	})
}

// GetMySubscriptions lists the signed-in customer's subscriptions with
// their installment history.
// GET /api/v1/goldmine/subscriptions
func (ctrl *GoldmineController) GetMySubscriptions(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	subscriptions, err := ctrl.goldmineService.GetUserSubscriptions(userID)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"subscriptions": subscriptions,
	})
}

// CancelSubscription closes an active subscription owned by the caller.
// DELETE /api/v1/goldmine/subscriptions/:id
func (ctrl *GoldmineController) CancelSubscription(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	subscription, err := ctrl.goldmineService.CancelSubscription(userID, id)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotFound):
			apperrors.NotFound(c, apperrors.GoldmineSubscriptionNotFound, "Subscription not found")
		case errors.Is(err, service.ErrSubscriptionNotActive):
			apperrors.BadRequest(c, apperrors.GoldmineSubscriptionClosed, "Subscription is already closed")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"subscription": subscription,
	})
}

type installmentRequest struct {
	MonthNumber int     `json:"month_number" binding:"required,gt=0"`
	Amount      float64 `json:"amount"`
	PaymentID   *string `json:"payment_id"`
}

// RecordInstallment logs a monthly payment against a subscription.
// POST /api/v1/goldmine/subscriptions/:id/installments
func (ctrl *GoldmineController) RecordInstallment(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	// Customers may only pay into their own subscriptions.
	subscription, err := ctrl.goldmineService.GetSubscription(id)
	if err != nil {
		if errors.Is(err, service.ErrSubscriptionNotFound) {
			apperrors.NotFound(c, apperrors.GoldmineSubscriptionNotFound, "Subscription not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}
	if !middleware.IsAdmin(c) && subscription.UserID != userID {
		apperrors.NotFound(c, apperrors.GoldmineSubscriptionNotFound, "Subscription not found")
		return
	}

	var req installmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	installment, err := ctrl.goldmineService.RecordInstallment(id, req.MonthNumber, req.Amount, req.PaymentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubscriptionNotActive):
			apperrors.BadRequest(c, apperrors.GoldmineSubscriptionClosed, "Subscription is not active")
		case errors.Is(err, service.ErrInstallmentAlreadyPaid):
			apperrors.Conflict(c, apperrors.GoldmineInstallmentDuplicate, "Installment already recorded")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":     true,
		"installment": installment,
	})
}

// ListSubscriptions is the admin view across all customers.
// GET /api/v1/admin/goldmine/subscriptions
func (ctrl *GoldmineController) ListSubscriptions(c *gin.Context) {
	var status *model.SubscriptionStatus
	if s := c.Query("status"); s != "" {
		st := model.SubscriptionStatus(s)
		status = &st
	}

	subscriptions, err := ctrl.goldmineService.ListSubscriptions(status)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"subscriptions": subscriptions,
	})
}

type goldminePlanRequest struct {
	Name           string  `json:"name" binding:"required"`
	DurationMonths int     `json:"duration_months" binding:"required,gt=0"`
	MonthlyAmount  float64 `json:"monthly_amount" binding:"required,gt=0"`
	BenefitPercent float64 `json:"benefit_percent"`
	Description    string  `json:"description"`
	Active         *bool   `json:"active"`
}

// CreatePlan adds a savings plan.
// POST /api/v1/admin/goldmine/plans
func (ctrl *GoldmineController) CreatePlan(c *gin.Context) {
	var req goldminePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	plan := &model.GoldminePlan{
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		MonthlyAmount:  req.MonthlyAmount,
		BenefitPercent: req.BenefitPercent,
		Description:    req.Description,
		Active:         req.Active == nil || *req.Active,
	}
	if err := ctrl.goldmineService.CreatePlan(plan); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"plan":    plan,
	})
}

// UpdatePlan edits a savings plan.
// PUT /api/v1/admin/goldmine/plans/:id
func (ctrl *GoldmineController) UpdatePlan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req goldminePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	plan := &model.GoldminePlan{
		Name:           req.Name,
		DurationMonths: req.DurationMonths,
		MonthlyAmount:  req.MonthlyAmount,
		BenefitPercent: req.BenefitPercent,
		Description:    req.Description,
		Active:         req.Active == nil || *req.Active,
	}
	plan.ID = id
	if err := ctrl.goldmineService.UpdatePlan(plan); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			apperrors.NotFound(c, apperrors.GoldminePlanNotFound, "Plan not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"plan":    plan,
	})
}

// DeletePlan removes a savings plan.
// DELETE /api/v1/admin/goldmine/plans/:id
func (ctrl *GoldmineController) DeletePlan(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.goldmineService.DeletePlan(id); err != nil {
		if errors.Is(err, service.ErrPlanNotFound) {
			apperrors.NotFound(c, apperrors.GoldminePlanNotFound, "Plan not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Plan deleted",
	})
}
