package model

import (
	"time"

	"gorm.io/gorm"
)

type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionMatured   SubscriptionStatus = "matured"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// GoldminePlan is a monthly gold-savings scheme: pay MonthlyAmount for
// DurationMonths, redeem with a store bonus of BenefitPercent on maturity.
type GoldminePlan struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Name           string         `gorm:"not null" json:"name"`
	DurationMonths int            `gorm:"not null" json:"duration_months"`
	MonthlyAmount  float64        `gorm:"not null" json:"monthly_amount"`
	BenefitPercent float64        `gorm:"default:0" json:"benefit_percent"`
	Description    string         `gorm:"type:text" json:"description"`
	Active         bool           `json:"active"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (GoldminePlan) TableName() string {
	return "goldmine_plans"
}

type GoldmineSubscription struct {
	ID          uint               `gorm:"primarykey" json:"id"`
	UserID      uint               `gorm:"index;not null" json:"user_id"`
	PlanID      uint               `gorm:"not null" json:"plan_id"`
	Status      SubscriptionStatus `gorm:"type:varchar(20);default:'active';index" json:"status"`
	StartedAt   time.Time          `gorm:"not null" json:"started_at"`
	MaturedAt   *time.Time         `json:"matured_at"`
	CancelledAt *time.Time         `json:"cancelled_at"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`

	User         User                  `gorm:"foreignKey:UserID" json:"-"`
	Plan         GoldminePlan          `gorm:"foreignKey:PlanID" json:"plan,omitempty"`
	Installments []GoldmineInstallment `gorm:"foreignKey:SubscriptionID" json:"installments,omitempty"`
}

func (GoldmineSubscription) TableName() string {
	return "goldmine_subscriptions"
}

// MaturesAt is the scheduled maturity date: StartedAt plus the plan term.
func (s *GoldmineSubscription) MaturesAt() time.Time {
	return s.StartedAt.AddDate(0, s.Plan.DurationMonths, 0)
}

// PaidTotal sums the recorded installments.
func (s *GoldmineSubscription) PaidTotal() float64 {
	var total float64
	for _, inst := range s.Installments {
		total += inst.Amount
	}
	return total
}

// GoldmineInstallment is one month's payment against a subscription. The
// unique (subscription, month) pair keeps a retried payment callback from
// recording the same month twice.
type GoldmineInstallment struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	SubscriptionID uint      `gorm:"not null;uniqueIndex:idx_installment_month" json:"subscription_id"`
	MonthNumber    int       `gorm:"not null;uniqueIndex:idx_installment_month" json:"month_number"` // 1-based
	Amount         float64   `gorm:"not null" json:"amount"`
	PaymentID      *string   `gorm:"uniqueIndex" json:"payment_id"`
	PaidAt         time.Time `gorm:"not null" json:"paid_at"`
	CreatedAt      time.Time `json:"created_at"`
}

func (GoldmineInstallment) TableName() string {
	return "goldmine_installments"
}
