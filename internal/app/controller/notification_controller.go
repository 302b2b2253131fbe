package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/service"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/internal/middleware"
	"github.com/swarnika/swarnika-backend/internal/websocket"
	"github.com/swarnika/swarnika-backend/pkg/logger"
)

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Browser origins are enforced by the CORS layer; the websocket
	// handshake is already behind token auth.
	CheckOrigin: func(r *http.Request) bool { return true },
}

type NotificationController struct {
	notificationService service.NotificationService
	hub                 *websocket.Hub
}

func NewNotificationController(notificationService service.NotificationService, hub *websocket.Hub) *NotificationController {
	return &NotificationController{notificationService: notificationService, hub: hub}
}

// GetNotifications lists the signed-in user's notifications.
// GET /api/v1/notifications
func (ctrl *NotificationController) GetNotifications(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	unreadOnly := c.Query("unread") == "true"
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	notifications, err := ctrl.notificationService.GetUserNotifications(userID, unreadOnly, limit)
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	count, err := ctrl.notificationService.GetUnreadCount(userID)
	if err != nil {
		count = 0
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"notifications": notifications,
		"unread_count":  count,
	})
}

// MarkRead flags one notification as read.
// PUT /api/v1/notifications/:id/read
func (ctrl *NotificationController) MarkRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.MarkRead(id, userID); err != nil {
		apperrors.NotFound(c, apperrors.ValidationInvalidID, "Notification not found")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// MarkAllRead flags every notification for the user as read.
// PUT /api/v1/notifications/read-all
func (ctrl *NotificationController) MarkAllRead(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	if err := ctrl.notificationService.MarkAllRead(userID); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Stream upgrades to a websocket and pushes notifications live. The
// token rides the query string because browsers cannot set headers on
// websocket handshakes.
// GET /api/v1/notifications/stream
func (ctrl *NotificationController) Stream(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("WebSocket upgrade failed", err, logger.Fields{
			"user_id": userID,
		})
		return
	}

	client := &websocket.Client{
		Hub:     ctrl.hub,
		Conn:    &websocket.Conn{Conn: conn},
		UserID:  userID,
		IsAdmin: middleware.IsAdmin(c),
		Send:    make(chan []byte, 64),
	}
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// GetTrackingConfigs lists analytics pixel configurations.
// GET /api/v1/admin/tracking-configs
func (ctrl *NotificationController) GetTrackingConfigs(c *gin.Context) {
	configs, err := ctrl.notificationService.GetTrackingConfigs()
	if err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"configs": configs,
	})
}

type trackingConfigRequest struct {
	Provider string `json:"provider" binding:"required"`
	TagID    string `json:"tag_id" binding:"required"`
	Enabled  bool   `json:"enabled"`
}

// SaveTrackingConfig creates or replaces a provider's pixel config.
// PUT /api/v1/admin/tracking-configs
func (ctrl *NotificationController) SaveTrackingConfig(c *gin.Context) {
	var req trackingConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
		return
	}

	cfg := &model.TrackingConfig{
		Provider: req.Provider,
		TagID:    req.TagID,
		Enabled:  req.Enabled,
	}
	if err := ctrl.notificationService.SaveTrackingConfig(cfg); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"config":  cfg,
	})
}

// DeleteTrackingConfig removes a provider's pixel config.
// DELETE /api/v1/admin/tracking-configs/:id
func (ctrl *NotificationController) DeleteTrackingConfig(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.notificationService.DeleteTrackingConfig(id); err != nil {
		apperrors.InternalError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
