package repository

import (
	"time"

	"github.com/swarnika/swarnika-backend/internal/app/model"
	"gorm.io/gorm"
)

type GoldmineRepository interface {
	CreatePlan(plan *model.GoldminePlan) error
	FindPlans(activeOnly bool) ([]model.GoldminePlan, error)
	FindPlanByID(id uint) (*model.GoldminePlan, error)
	UpdatePlan(plan *model.GoldminePlan) error
	DeletePlan(id uint) error

	CreateSubscription(sub *model.GoldmineSubscription) error
	FindSubscriptionByID(id uint) (*model.GoldmineSubscription, error)
	FindSubscriptionsByUser(userID uint) ([]model.GoldmineSubscription, error)
	FindAllSubscriptions(status *model.SubscriptionStatus) ([]model.GoldmineSubscription, error)
	UpdateSubscription(sub *model.GoldmineSubscription) error
	FindDueForMaturity(asOf time.Time) ([]model.GoldmineSubscription, error)

	CreateInstallment(tx *gorm.DB, inst *model.GoldmineInstallment) error
	FindInstallmentByPaymentID(paymentID string) (*model.GoldmineInstallment, error)
}

type goldmineRepository struct {
	db *gorm.DB
}

func NewGoldmineRepository(db *gorm.DB) GoldmineRepository {
	return &goldmineRepository{db: db}
}

func (r *goldmineRepository) CreatePlan(plan *model.GoldminePlan) error {
	return r.db.Create(plan).Error
}

func (r *goldmineRepository) FindPlans(activeOnly bool) ([]model.GoldminePlan, error) {
	query := r.db.Model(&model.GoldminePlan{})
	if activeOnly {
		query = query.Where("active = ?", true)
	}
	var plans []model.GoldminePlan
	if err := query.Order("monthly_amount ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	return plans, nil
}

func (r *goldmineRepository) FindPlanByID(id uint) (*model.GoldminePlan, error) {
	var plan model.GoldminePlan
	if err := r.db.First(&plan, id).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *goldmineRepository) UpdatePlan(plan *model.GoldminePlan) error {
	return r.db.Save(plan).Error
}

func (r *goldmineRepository) DeletePlan(id uint) error {
	return r.db.Delete(&model.GoldminePlan{}, id).Error
}

func (r *goldmineRepository) preloadSubscription(query *gorm.DB) *gorm.DB {
	return query.
		Preload("Plan").
		Preload("Installments", func(db *gorm.DB) *gorm.DB {
			return db.Order("month_number ASC")
		})
}

func (r *goldmineRepository) CreateSubscription(sub *model.GoldmineSubscription) error {
	return r.db.Create(sub).Error
}

func (r *goldmineRepository) FindSubscriptionByID(id uint) (*model.GoldmineSubscription, error) {
	var sub model.GoldmineSubscription
	if err := r.preloadSubscription(r.db).First(&sub, id).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *goldmineRepository) FindSubscriptionsByUser(userID uint) ([]model.GoldmineSubscription, error) {
	var subs []model.GoldmineSubscription
	err := r.preloadSubscription(r.db).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *goldmineRepository) FindAllSubscriptions(status *model.SubscriptionStatus) ([]model.GoldmineSubscription, error) {
	query := r.preloadSubscription(r.db).Preload("User")
	if status != nil {
		query = query.Where("status = ?", *status)
	}
	var subs []model.GoldmineSubscription
	if err := query.Order("created_at DESC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

func (r *goldmineRepository) UpdateSubscription(sub *model.GoldmineSubscription) error {
	return r.db.Save(sub).Error
}

// FindDueForMaturity returns active subscriptions whose term has elapsed
// as of the given time.
func (r *goldmineRepository) FindDueForMaturity(asOf time.Time) ([]model.GoldmineSubscription, error) {
	var subs []model.GoldmineSubscription
	err := r.preloadSubscription(r.db).
		Where("status = ?", model.SubscriptionActive).
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	// Month arithmetic differs between engines, so the maturity cut
	// happens in Go on the preloaded plan.
	due := subs[:0]
	for _, sub := range subs {
		if !sub.MaturesAt().After(asOf) {
			due = append(due, sub)
		}
	}
	return due, nil
}

func (r *goldmineRepository) CreateInstallment(tx *gorm.DB, inst *model.GoldmineInstallment) error {
	return tx.Create(inst).Error
}

func (r *goldmineRepository) FindInstallmentByPaymentID(paymentID string) (*model.GoldmineInstallment, error) {
	var inst model.GoldmineInstallment
	if err := r.db.Where("payment_id = ?", paymentID).First(&inst).Error; err != nil {
		return nil, err
	}
	return &inst, nil
}
