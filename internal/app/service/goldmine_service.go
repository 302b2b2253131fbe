package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"github.com/swarnika/swarnika-backend/internal/app/repository"
	apperrors "github.com/swarnika/swarnika-backend/internal/errors"
	"github.com/swarnika/swarnika-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrPlanNotFound           = errors.New("goldmine plan not found")
	ErrSubscriptionNotFound   = errors.New("goldmine subscription not found")
	ErrSubscriptionNotActive  = errors.New("goldmine subscription is not active")
	ErrInstallmentAlreadyPaid = errors.New("installment already recorded for this month")
)

type GoldmineService interface {
	CreatePlan(plan *model.GoldminePlan) error
	GetPlans(activeOnly bool) ([]model.GoldminePlan, error)
	GetPlanByID(id uint) (*model.GoldminePlan, error)
	UpdatePlan(plan *model.GoldminePlan) error
	DeletePlan(id uint) error

	Subscribe(userID, planID uint) (*model.GoldmineSubscription, error)
	GetUserSubscriptions(userID uint) ([]model.GoldmineSubscription, error)
	GetSubscription(id uint) (*model.GoldmineSubscription, error)
	ListSubscriptions(status *model.SubscriptionStatus) ([]model.GoldmineSubscription, error)
	CancelSubscription(userID, subscriptionID uint) (*model.GoldmineSubscription, error)
	RecordInstallment(subscriptionID uint, monthNumber int, amount float64, paymentID *string) (*model.GoldmineInstallment, error)
	MatureDueSubscriptions() (int, error)
}

type goldmineService struct {
	db               *gorm.DB
	goldmineRepo     repository.GoldmineRepository
	notificationRepo repository.NotificationRepository
	broadcaster      NotificationBroadcaster
}

func NewGoldmineService(
	db *gorm.DB,
	goldmineRepo repository.GoldmineRepository,
	notificationRepo repository.NotificationRepository,
	broadcaster NotificationBroadcaster,
) GoldmineService {
	return &goldmineService{
		db:               db,
		goldmineRepo:     goldmineRepo,
		notificationRepo: notificationRepo,
		broadcaster:      broadcaster,
	}
}

func (s *goldmineService) CreatePlan(plan *model.GoldminePlan) error {
	return s.goldmineRepo.CreatePlan(plan)
}

func (s *goldmineService) GetPlans(activeOnly bool) ([]model.GoldminePlan, error) {
	return s.goldmineRepo.FindPlans(activeOnly)
}

func (s *goldmineService) GetPlanByID(id uint) (*model.GoldminePlan, error) {
	plan, err := s.goldmineRepo.FindPlanByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return plan, nil
}

func (s *goldmineService) UpdatePlan(plan *model.GoldminePlan) error {
	if _, err := s.GetPlanByID(plan.ID); err != nil {
		return err
	}
	return s.goldmineRepo.UpdatePlan(plan)
}

func (s *goldmineService) DeletePlan(id uint) error {
	if _, err := s.GetPlanByID(id); err != nil {
		return err
	}
	return s.goldmineRepo.DeletePlan(id)
}

func (s *goldmineService) Subscribe(userID, planID uint) (*model.GoldmineSubscription, error) {
	plan, err := s.GetPlanByID(planID)
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, ErrPlanNotFound
	}

	sub := &model.GoldmineSubscription{
		UserID:    userID,
		PlanID:    planID,
		Status:    model.SubscriptionActive,
		StartedAt: time.Now(),
	}
	if err := s.goldmineRepo.CreateSubscription(sub); err != nil {
		return nil, err
	}

	logger.Info("Goldmine subscription started", logger.Fields{
		"subscription_id": sub.ID,
		"user_id":         userID,
		"plan_id":         planID,
	})
	return s.goldmineRepo.FindSubscriptionByID(sub.ID)
}

func (s *goldmineService) GetUserSubscriptions(userID uint) ([]model.GoldmineSubscription, error) {
	return s.goldmineRepo.FindSubscriptionsByUser(userID)
}

func (s *goldmineService) GetSubscription(id uint) (*model.GoldmineSubscription, error) {
	sub, err := s.goldmineRepo.FindSubscriptionByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return sub, nil
}

func (s *goldmineService) ListSubscriptions(status *model.SubscriptionStatus) ([]model.GoldmineSubscription, error) {
	return s.goldmineRepo.FindAllSubscriptions(status)
}

// CancelSubscription is customer-initiated; only an active subscription
// can be cancelled, and only by its owner.
func (s *goldmineService) CancelSubscription(userID, subscriptionID uint) (*model.GoldmineSubscription, error) {
	sub, err := s.GetSubscription(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.UserID != userID {
		return nil, ErrSubscriptionNotFound
	}
	if sub.Status != model.SubscriptionActive {
		return nil, ErrSubscriptionNotActive
	}

	now := time.Now()
	sub.Status = model.SubscriptionCancelled
	sub.CancelledAt = &now
	if err := s.goldmineRepo.UpdateSubscription(sub); err != nil {
		return nil, err
	}

	logger.Info("Goldmine subscription cancelled", logger.Fields{
		"subscription_id": sub.ID,
		"user_id":         userID,
	})
	return sub, nil
}

// RecordInstallment stores one month's payment. The unique
// (subscription, month) index makes a replayed payment callback a no-op
// conflict rather than a double credit.
func (s *goldmineService) RecordInstallment(subscriptionID uint, monthNumber int, amount float64, paymentID *string) (*model.GoldmineInstallment, error) {
	sub, err := s.GetSubscription(subscriptionID)
	if err != nil {
		return nil, err
	}
	if sub.Status != model.SubscriptionActive {
		return nil, ErrSubscriptionNotActive
	}
	if monthNumber < 1 || monthNumber > sub.Plan.DurationMonths {
		return nil, ValidationErrors{fmt.Sprintf("month_number must be between 1 and %d", sub.Plan.DurationMonths)}
	}
	if amount <= 0 {
		amount = sub.Plan.MonthlyAmount
	}

	inst := &model.GoldmineInstallment{
		SubscriptionID: subscriptionID,
		MonthNumber:    monthNumber,
		Amount:         amount,
		PaymentID:      paymentID,
		PaidAt:         time.Now(),
	}
	if err := s.goldmineRepo.CreateInstallment(s.db, inst); err != nil {
		if apperrors.IsDuplicateKey(err) {
			return nil, ErrInstallmentAlreadyPaid
		}
		return nil, err
	}

	logger.Info("Goldmine installment recorded", logger.Fields{
		"subscription_id": subscriptionID,
		"month_number":    monthNumber,
		"amount":          amount,
	})
	return inst, nil
}

// MatureDueSubscriptions flips active subscriptions whose term has
// elapsed to matured and notifies the owner. Run daily from the
// scheduler; returns how many subscriptions matured.
func (s *goldmineService) MatureDueSubscriptions() (int, error) {
	due, err := s.goldmineRepo.FindDueForMaturity(time.Now())
	if err != nil {
		return 0, err
	}

	matured := 0
	for i := range due {
		sub := &due[i]
		now := time.Now()
		sub.Status = model.SubscriptionMatured
		sub.MaturedAt = &now
		if err := s.goldmineRepo.UpdateSubscription(sub); err != nil {
			logger.Error("Failed to mature goldmine subscription", err, logger.Fields{
				"subscription_id": sub.ID,
			})
			continue
		}
		matured++

		userID := sub.UserID
		notification := &model.Notification{
			UserID:  &userID,
			Type:    model.NotificationGoldmine,
			Title:   "Goldmine plan matured",
			Content: fmt.Sprintf("Your %s plan has matured. Visit the store to redeem your savings with the plan benefit.", sub.Plan.Name),
			Link:    fmt.Sprintf("/goldmine/subscriptions/%d", sub.ID),
		}
		if err := s.notificationRepo.Create(notification); err != nil {
			logger.Error("Failed to create maturity notification", err, logger.Fields{
				"subscription_id": sub.ID,
			})
			continue
		}
		if s.broadcaster != nil {
			s.broadcaster.BroadcastNotification(notification)
		}
	}

	if matured > 0 {
		logger.Info("Goldmine subscriptions matured", logger.Fields{
			"count": matured,
		})
	}
	return matured, nil
}
