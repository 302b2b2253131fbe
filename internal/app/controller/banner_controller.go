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

type BannerController struct {
	bannerService service.BannerService
}

func NewBannerController(bannerService service.BannerService) *BannerController {
	return &BannerController{bannerService: bannerService}
}

// GetLiveBanners returns banners the storefront should show right now,
// optionally scoped to a placement slot.
// GET /api/v1/banners
func (ctrl *BannerController) GetLiveBanners(c *gin.Context) {
	placement := model.BannerPlacement(c.Query("placement"))

	banners, err := ctrl.bannerService.GetLiveBanners(placement)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch banners", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"banners": banners,
	})
}

// ListBanners returns every banner for the admin panel.
// GET /api/v1/admin/banners
func (ctrl *BannerController) ListBanners(c *gin.Context) {
	banners, err := ctrl.bannerService.GetBanners()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"banners": banners,
	})
}

type bannerRequest struct {
	Title          string                `json:"title" binding:"required"`
	Placement      model.BannerPlacement `json:"placement" binding:"required"`
	ImageURL       string                `json:"image_url" binding:"required"`
	MobileImageURL string                `json:"mobile_image_url"`
	LinkURL        string                `json:"link_url"`
	Position       int                   `json:"position"`
	Active         *bool                 `json:"active"`
	StartsAt       *time.Time            `json:"starts_at"`
	EndsAt         *time.Time            `json:"ends_at"`
}

func (r *bannerRequest) toModel() *model.Banner {
	return &model.Banner{
		Title:          r.Title,
		Placement:      r.Placement,
		ImageURL:       r.ImageURL,
		MobileImageURL: r.MobileImageURL,
		LinkURL:        r.LinkURL,
		Position:       r.Position,
		Active:         r.Active == nil || *r.Active,
		StartsAt:       r.StartsAt,
		EndsAt:         r.EndsAt,
	}
}

// CreateBanner adds a banner.
// POST /api/v1/admin/banners
func (ctrl *BannerController) CreateBanner(c *gin.Context) {
	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	banner := req.toModel()
	if err := ctrl.bannerService.CreateBanner(banner); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"banner":  banner,
	})
}

// UpdateBanner edits a banner.
// PUT /api/v1/admin/banners/:id
func (ctrl *BannerController) UpdateBanner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req bannerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	banner := req.toModel()
	banner.ID = id
	if err := ctrl.bannerService.UpdateBanner(banner); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			apperrors.NotFound(c, apperrors.BannerNotFound, "Banner not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"banner":  banner,
	})
}

// DeleteBanner removes a banner.
// DELETE /api/v1/admin/banners/:id
func (ctrl *BannerController) DeleteBanner(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.bannerService.DeleteBanner(id); err != nil {
		if errors.Is(err, service.ErrBannerNotFound) {
			apperrors.NotFound(c, apperrors.BannerNotFound, "Banner not found")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Banner deleted",
	})
}
