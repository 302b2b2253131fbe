package controller

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

// GetCategories lists categories. The storefront sees active ones only.
// GET /api/v1/categories
func (ctrl *CategoryController) GetCategories(c *gin.Context) {
	activeOnly := !middleware.IsAdmin(c)

	categories, err := ctrl.categoryService.GetCategories(activeOnly)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch categories", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"categories": categories,
	})
}

// GetCategory fetches one category by slug.
// GET /api/v1/categories/:slug
func (ctrl *CategoryController) GetCategory(c *gin.Context) {
	category, err := ctrl.categoryService.GetCategoryBySlug(c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

type categoryRequest struct {
	Name     string `json:"name" binding:"required"`
	Slug     string `json:"slug" binding:"required"`
	ImageURL string `json:"image_url"`
	Position int    `json:"position"`
	Active   *bool  `json:"active"`
}

// CreateCategory adds a category.
// POST /api/v1/admin/categories
func (ctrl *CategoryController) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	category := &model.Category{
		Name:     req.Name,
		Slug:     req.Slug,
		ImageURL: req.ImageURL,
		Position: req.Position,
		Active:   req.Active == nil || *req.Active,
	}
	if err := ctrl.categoryService.CreateCategory(category); err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to create category", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":  true,
		"category": category,
	})
}

// UpdateCategory edits a category.
// PUT /api/v1/admin/categories/:id
func (ctrl *CategoryController) UpdateCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	category := &model.Category{
		Name:     req.Name,
		Slug:     req.Slug,
		ImageURL: req.ImageURL,
		Position: req.Position,
		Active:   req.Active == nil || *req.Active,
	}
	category.ID = id
	if err := ctrl.categoryService.UpdateCategory(category); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"category": category,
	})
}

// DeleteCategory removes a category.
// DELETE /api/v1/admin/categories/:id
func (ctrl *CategoryController) DeleteCategory(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.categoryService.DeleteCategory(id); err != nil {
		if errors.Is(err, service.ErrCategoryNotFound) {
			apperrors.NotFound(c, apperrors.CategoryNotFound, "Category not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Category deleted",
	})
}
