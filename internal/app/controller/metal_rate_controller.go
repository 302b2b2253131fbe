package controller

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
)

type MetalRateController struct {
	metalRateService service.MetalRateService
}

func NewMetalRateController(metalRateService service.MetalRateService) *MetalRateController {
	return &MetalRateController{metalRateService: metalRateService}
}

// GetRates returns the latest quote for every displayed metal with its
// change since the previous reading.
// GET /api/v1/metal-rates
func (ctrl *MetalRateController) GetRates(c *gin.Context) {
	quotes, err := ctrl.metalRateService.GetQuotes()
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to fetch metal rates", err, nil)
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"rates":   quotes,
	})
}

// GetHistory returns recent readings for one metal.
// GET /api/v1/metal-rates/:metal/history
func (ctrl *MetalRateController) GetHistory(c *gin.Context) {
	metal := model.MetalType(c.Param("metal"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "30"))
	if limit <= 0 || limit > 365 {
		limit = 30
	}

	history, err := ctrl.metalRateService.GetHistory(metal, limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"metal":   metal,
		"history": history,
	})
}

type recordRateRequest struct {
	Metal       model.MetalType `json:"metal" binding:"required"`
	RatePerGram float64         `json:"rate_per_gram" binding:"required,gt=0"`
}

// RecordRate lets an admin enter a rate by hand when the feed is down.
// POST /api/v1/admin/metal-rates
func (ctrl *MetalRateController) RecordRate(c *gin.Context) {
	var req recordRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	rate := &model.MetalRate{
		Metal:       req.Metal,
		RatePerGram: req.RatePerGram,
		Source:      "manual",
		FetchedAt:   time.Now(),
	}
	if err := ctrl.metalRateService.RecordRate(rate); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"rate":    rate,
	})
}

// RefreshRates pulls fresh rates from the external feed on demand.
// POST /api/v1/admin/metal-rates/refresh
func (ctrl *MetalRateController) RefreshRates(c *gin.Context) {
	if err := ctrl.metalRateService.RefreshFromExternalAPI(); err != nil {
		if errors.Is(err, service.ErrExternalAPIFailed) {
			apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.MetalRateNotFound, "Rate feed unavailable")
			return
		}
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Rates refreshed",
	})
}
