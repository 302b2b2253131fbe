package controller

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
)

type DiscountController struct {
	discountService service.DiscountService
}

func NewDiscountController(discountService service.DiscountService) *DiscountController {
	return &DiscountController{discountService: discountService}
}

type quoteDiscountRequest struct {
	Code     string  `json:"code" binding:"required"`
	Subtotal float64 `json:"subtotal" binding:"required,gt=0"`
}

// QuoteDiscount previews what a code is worth against a cart subtotal.
// POST /api/v1/discounts/quote
func (ctrl *DiscountController) QuoteDiscount(c *gin.Context) {
	var req quoteDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	quote, err := ctrl.discountService.QuoteDiscount(req.Code, req.Subtotal)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrDiscountNotFound):
			apperrors.NotFound(c, apperrors.DiscountNotFound, "Discount code not found")
		case errors.Is(err, service.ErrDiscountNotApplicable):
			apperrors.BadRequest(c, apperrors.DiscountNotEligible, "Discount code cannot be applied to this order")
		default:
			middleware.GetLoggerFromContext(c).Error("Discount quote failed", err, nil)
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"quote":   quote,
	})
}

// ListDiscounts returns every code for the admin panel.
// GET /api/v1/admin/discounts
func (ctrl *DiscountController) ListDiscounts(c *gin.Context) {
	discounts, err := ctrl.discountService.GetDiscounts()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"discounts": discounts,
	})
}

type discountRequest struct {
	Code           string             `json:"code" binding:"required"`
	Type           model.DiscountType `json:"type" binding:"required"`
	Value          float64            `json:"value" binding:"required,gt=0"`
	MinOrderAmount float64            `json:"min_order_amount"`
	MaxDiscount    float64            `json:"max_discount"`
	UsageLimit     int                `json:"usage_limit"`
	Active         *bool              `json:"active"`
	StartsAt       *time.Time         `json:"starts_at"`
	EndsAt         *time.Time         `json:"ends_at"`
}

func (r *discountRequest) toModel() *model.Discount {
	return &model.Discount{
		Code:           r.Code,
		Type:           r.Type,
		Value:          r.Value,
		MinOrderAmount: r.MinOrderAmount,
		MaxDiscount:    r.MaxDiscount,
		UsageLimit:     r.UsageLimit,
		Active:         r.Active == nil || *r.Active,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
	}
}

// CreateDiscount adds a code.
// POST /api/v1/admin/discounts
func (ctrl *DiscountController) CreateDiscount(c *gin.Context) {
	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	discount := req.toModel()
	if err := ctrl.discountService.CreateDiscount(discount); err != nil {
		if errors.Is(err, service.ErrDiscountCodeTaken) {
			apperrors.Conflict(c, apperrors.ValidationInvalidInput, "A discount with this code already exists")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"discount": discount,
	})
}

// UpdateDiscount edits a code.
// PUT /api/v1/admin/discounts/:id
func (ctrl *DiscountController) UpdateDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req discountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	discount := req.toModel()
	discount.ID = id
	if err := ctrl.discountService.UpdateDiscount(discount); err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			apperrors.NotFound(c, apperrors.DiscountNotFound, "Discount not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"discount": discount,
	})
}

// DeleteDiscount removes a code.
// DELETE /api/v1/admin/discounts/:id
func (ctrl *DiscountController) DeleteDiscount(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.discountService.DeleteDiscount(id); err != nil {
		if errors.Is(err, service.ErrDiscountNotFound) {
			apperrors.NotFound(c, apperrors.DiscountNotFound, "Discount not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Discount deleted",
	})
}
