package service

import (
	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
)

type NotificationService interface {
	GetUserNotifications(userID uint, unreadOnly bool, limit int) ([]model.Notification, error)
	GetUnreadCount(userID uint) (int64, error)
	MarkRead(id, userID uint) error
	MarkAllRead(userID uint) error
	GetTrackingConfigs() ([]model.TrackingConfig, error)
	GetEnabledTrackingConfigs() ([]model.TrackingConfig, error)
	SaveTrackingConfig(cfg *model.TrackingConfig) error
	DeleteTrackingConfig(id uint) error
}

type notificationService struct {
	notificationRepo repository.NotificationRepository
	trackingRepo     repository.TrackingConfigRepository
}

func NewNotificationService(
	notificationRepo repository.NotificationRepository,
	trackingRepo repository.TrackingConfigRepository,
) NotificationService {
	return &notificationService{
		notificationRepo: notificationRepo,
		trackingRepo:     trackingRepo,
	}
}

func (s *notificationService) GetUserNotifications(userID uint, unreadOnly bool, limit int) ([]model.Notification, error) {
	return s.notificationRepo.FindForUser(userID, unreadOnly, limit)
}

func (s *notificationService) GetUnreadCount(userID uint) (int64, error) {
	return s.notificationRepo.UnreadCount(userID)
}

func (s *notificationService) MarkRead(id, userID uint) error {
	return s.notificationRepo.MarkRead(id, userID)
}

func (s *notificationService) MarkAllRead(userID uint) error {
	return s.notificationRepo.MarkAllRead(userID)
}

func (s *notificationService) GetTrackingConfigs() ([]model.TrackingConfig, error) {
	return s.trackingRepo.FindAll()
}

func (s *notificationService) GetEnabledTrackingConfigs() ([]model.TrackingConfig, error) {
	return s.trackingRepo.FindEnabled()
}

func (s *notificationService) SaveTrackingConfig(cfg *model.TrackingConfig) error {
	return s.trackingRepo.Upsert(cfg)
}

func (s *notificationService) DeleteTrackingConfig(id uint) error {
	return s.trackingRepo.Delete(id)
}
