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

type CartController struct {
	cartService service.CartService
}

func NewCartController(cartService service.CartService) *CartController {
	return &CartController{cartService: cartService}
}

// GetCart returns the signed-in user's cart with a running subtotal.
// GET /api/v1/cart
func (ctrl *CartController) GetCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	items, subtotal, err := ctrl.cartService.GetCart(userID)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch cart", err, logger.Fields{
			"user_id": userID,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"items":    items,
		"subtotal": subtotal,
	})
}

type addCartItemRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	OptionID  *uint `json:"option_id"`
	Quantity  int   `json:"quantity" binding:"required,gt=0"`
}

// AddItem puts a product (or a variant of it) in the cart. Adding the
// same line again bumps its quantity.
// POST /api/v1/cart/items
func (ctrl *CartController) AddItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req addCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	item, err := ctrl.cartService.AddItem(userID, req.ProductID, req.OptionID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidProductOption):
			apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Option does not belong to this product")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"item":    item,
	})
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// UpdateItem changes a line's quantity. Zero or less removes the line.
// PUT /api/v1/cart/items/:id
func (ctrl *CartController) UpdateItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	item, err := ctrl.cartService.UpdateQuantity(userID, itemID, req.Quantity)
	if err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.ValidationInvalidID, "Cart item not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"item":    item,
	})
}

// RemoveItem deletes one line.
// DELETE /api/v1/cart/items/:id
func (ctrl *CartController) RemoveItem(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	itemID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.cartService.RemoveItem(userID, itemID); err != nil {
		if errors.Is(err, service.ErrCartItemNotFound) {
			apperrors.NotFound(c, apperrors.ValidationInvalidID, "Cart item not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Item removed",
	})
}

// ClearCart empties the cart.
// DELETE /api/v1/cart
func (ctrl *CartController) ClearCart(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.cartService.ClearCart(userID); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Cart cleared",
	})
}
