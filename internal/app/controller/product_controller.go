package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{productService: productService}
}

// GetProducts lists the catalog with filters, sorting and pagination.
// GET /api/v1/products
func (ctrl *ProductController) GetProducts(c *gin.Context) {
	limit, offset := parsePagination(c)
	filter := repository.ProductFilter{
		CategorySlug:   c.Query("category"),
		Search:         c.Query("search"),
		Limit:          limit,
		Offset:         offset,
		IncludeOptions: c.Query("include_options") == "true",
	}

	if s := c.Query("category_id"); s != "" {
		if id, err := strconv.ParseUint(s, 10, 32); err == nil {
			categoryID := uint(id)
			filter.CategoryID = &categoryID
		}
	}
	if s := c.Query("min_price"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			filter.MinPrice = &v
		}
	}
	if s := c.Query("max_price"); s != "" {
		if v, err := strconv.ParseFloat(s, 64); err == nil {
			filter.MaxPrice = &v
		}
	}
	switch c.Query("sort") {
	case "price_asc":
		filter.SortBy, filter.SortAscending = "price", true
	case "price_desc":
		filter.SortBy = "price"
	case "popular":
		filter.SortBy = "view_count"
	default:
		filter.SortBy = "created_at"
	}

	// The storefront only sees active products; admins may request all.
	if !middleware.IsAdmin(c) {
		status := model.ProductActive
		filter.Status = &status
	} else if s := c.Query("status"); s != "" {
		status := model.ProductStatus(s)
		filter.Status = &status
	}

	products, total, err := ctrl.productService.GetProducts(filter)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch products", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"products": products,
		"total":    total,
	})
}

// GetProduct fetches one product by numeric ID or slug and bumps its
// view counter.
// GET /api/v1/products/:idOrSlug
func (ctrl *ProductController) GetProduct(c *gin.Context) {
	param := c.Param("idOrSlug")

	var product *model.Product
	var err error
	if id, parseErr := strconv.ParseUint(param, 10, 32); parseErr == nil {
		product, err = ctrl.productService.GetProductByID(uint(id))
	} else {
		product, err = ctrl.productService.GetProductBySlug(param)
	}
	if err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	if product.Status != model.ProductActive && !middleware.IsAdmin(c) {
		apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		return
	}

	ctrl.productService.RecordView(product.ID)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

type productRequest struct {
	Name            string              `json:"name" binding:"required"`
	Slug            string              `json:"slug" binding:"required"`
	Description     string              `json:"description"`
	Status          model.ProductStatus `json:"status"`
	CategoryID      uint                `json:"category_id" binding:"required"`
	ImageURL        string              `json:"image_url"`
	HoverImageURL   string              `json:"hover_image_url"`
	Rate            float64             `json:"rate"`
	LabourCharge    float64             `json:"labour_charge"`
	TotalRs         float64             `json:"total_rs" binding:"required,gt=0"`
	GrossWeight     float64             `json:"gross_weight"`
	NetWeight       float64             `json:"net_weight"`
	LessWeight      float64             `json:"less_weight"`
	Purity          string              `json:"purity"`
	WastagePercent  float64             `json:"wastage_percent"`
	DiscountPercent float64             `json:"discount_percent"`
	CODCharge       float64             `json:"cod_charge"`
	StockQuantity   int                 `json:"stock_quantity"`
}

func (r *productRequest) toModel() *model.Product {
	status := r.Status
	if status == "" {
		status = model.ProductActive
	}
	return &model.Product{
		Name:            r.Name,
		Slug:            r.Slug,
		Description:     r.Description,
		Status:          status,
		CategoryID:      r.CategoryID,
		ImageURL:        r.ImageURL,
		HoverImageURL:   r.HoverImageURL,
		Rate:            r.Rate,
		LabourCharge:    r.LabourCharge,
		TotalRs:         r.TotalRs,
		GrossWeight:     r.GrossWeight,
		NetWeight:       r.NetWeight,
		LessWeight:      r.LessWeight,
		Purity:          r.Purity,
		WastagePercent:  r.WastagePercent,
		DiscountPercent: r.DiscountPercent,
		CODCharge:       r.CODCharge,
		StockQuantity:   r.StockQuantity,
	}
}

// CreateProduct adds a catalog entry.
// POST /api/v1/admin/products
func (ctrl *ProductController) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product := req.toModel()
	if err := ctrl.productService.CreateProduct(product); err != nil {
		if errors.Is(err, service.ErrSlugTaken) {
			apperrors.Conflict(c, apperrors.ValidationInvalidInput, "A product with this slug already exists")
			return
		}
		middleware.GetLoggerFromContext(c).Error("Failed to create product", err, logger.Fields{
			"slug": req.Slug,
		})
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"product": product,
	})
}

// UpdateProduct replaces a catalog entry's editable fields.
// PUT /api/v1/admin/products/:id
func (ctrl *ProductController) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	product := req.toModel()
	product.ID = id
	if err := ctrl.productService.UpdateProduct(product); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrSlugTaken):
			apperrors.Conflict(c, apperrors.ValidationInvalidInput, "A product with this slug already exists")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"product": product,
	})
}

// DeleteProduct soft-deletes a catalog entry.
// DELETE /api/v1/admin/products/:id
func (ctrl *ProductController) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteProduct(id); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Product deleted",
	})
}

type productOptionRequest struct {
	Name          string  `json:"name" binding:"required"`
	Value         string  `json:"value" binding:"required"`
	SellPrice     float64 `json:"sell_price" binding:"required,gt=0"`
	GrossWeight   float64 `json:"gross_weight"`
	NetWeight     float64 `json:"net_weight"`
	StockQuantity int     `json:"stock_quantity"`
	IsDefault     bool    `json:"is_default"`
}

// AddOption attaches a variant (size, weight) to a product.
// POST /api/v1/admin/products/:id/options
func (ctrl *ProductController) AddOption(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req productOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	option := &model.ProductOption{
		Name:          req.Name,
		Value:         req.Value,
		SellPrice:     req.SellPrice,
		GrossWeight:   req.GrossWeight,
		NetWeight:     req.NetWeight,
		StockQuantity: req.StockQuantity,
		IsDefault:     req.IsDefault,
	}
	if err := ctrl.productService.AddOption(productID, option); err != nil {
		if errors.Is(err, service.ErrProductNotFound) {
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"option":  option,
	})
}

// UpdateOption edits a variant. The option must belong to the product
// in the path.
// PUT /api/v1/admin/products/:id/options/:optionId
func (ctrl *ProductController) UpdateOption(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}

	var req productOptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	option := &model.ProductOption{
		Name:          req.Name,
		Value:         req.Value,
		SellPrice:     req.SellPrice,
		GrossWeight:   req.GrossWeight,
		NetWeight:     req.NetWeight,
		StockQuantity: req.StockQuantity,
		IsDefault:     req.IsDefault,
	}
	option.ID = optionID
	if err := ctrl.productService.UpdateOption(productID, option); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidProductOption):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Option does not belong to this product")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"option":  option,
	})
}

// DeleteOption removes a variant.
// DELETE /api/v1/admin/products/:id/options/:optionId
func (ctrl *ProductController) DeleteOption(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	optionID, ok := parseIDParam(c, "optionId")
	if !ok {
		return
	}

	if err := ctrl.productService.DeleteOption(productID, optionID); err != nil {
		switch {
		case errors.Is(err, service.ErrProductNotFound):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Product not found")
		case errors.Is(err, service.ErrInvalidProductOption):
			apperrors.NotFound(c, apperrors.ProductNotFound, "Option does not belong to this product")
		default:
			apperrors.InternalError(c, "")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Option deleted",
	})
}
