package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/internal/storage"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{storage: storage}
}

type presignRequest struct {
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
	Size        int64  `json:"size" binding:"required,gt=0"`
	Folder      string `json:"folder"`
}

// PresignUpload validates the declared file and hands back a short-lived
// PUT URL so the browser uploads straight to the bucket.
// POST /api/v1/admin/uploads/presign
func (ctrl *UploadController) PresignUpload(c *gin.Context) {
	var req presignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	if err := ctrl.storage.ValidateImage(req.Size, req.ContentType); err != nil {
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, err.Error())
		return
	}

	presigned, err := ctrl.storage.PresignUpload(req.Filename, req.ContentType, req.Folder)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Presign failed", err, logger.Fields{
			"filename": req.Filename,
		})
		apperrors.RespondWithError(c, http.StatusBadGateway, apperrors.UploadFailed, "Failed to prepare upload")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"upload":  presigned,
	})
}
