package model

import (
	"time"

	"gorm.io/gorm"
)

type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFlat    DiscountType = "flat"
)

type Discount struct {
	ID             uint           `gorm:"primarykey" json:"id"`
	Code           string         `gorm:"uniqueIndex;not null" json:"code"` // stored upper-case
	Type           DiscountType   `gorm:"type:varchar(20);not null" json:"type"`
	Value          float64        `gorm:"not null" json:"value"` // percent (0-100) or flat rupees
	MinOrderAmount float64        `gorm:"default:0" json:"min_order_amount"`
	MaxDiscount    float64        `gorm:"default:0" json:"max_discount"` // cap for percent type; 0 = uncapped
	UsageLimit     int            `gorm:"default:0" json:"usage_limit"`  // 0 = unlimited
	UsedCount      int            `gorm:"default:0" json:"used_count"`
	Active         bool           `json:"active"`
	StartsAt       *time.Time     `json:"starts_at"`
	EndsAt         *time.Time     `json:"ends_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Discount) TableName() string {
	return "discounts"
}

// IsUsable reports whether the code can be applied at t to an order of the
// given subtotal. It does not check the usage counter against concurrent
// redemptions; the writer re-checks inside the transaction.
func (d *Discount) IsUsable(t time.Time, subtotal float64) bool {
	if !d.Active {
		return false
	}
	if d.StartsAt != nil && t.Before(*d.StartsAt) {
		return false
	}
	if d.EndsAt != nil && t.After(*d.EndsAt) {
		return false
	}
	if subtotal < d.MinOrderAmount {
		return false
	}
	if d.UsageLimit > 0 && d.UsedCount >= d.UsageLimit {
		return false
	}
	return true
}

// Amount computes the rupee discount for the given subtotal.
func (d *Discount) Amount(subtotal float64) float64 {
	var amount float64
	switch d.Type {
	case DiscountPercent:
		amount = subtotal * d.Value / 100
		if d.MaxDiscount > 0 && amount > d.MaxDiscount {
			amount = d.MaxDiscount
		}
	case DiscountFlat:
		amount = d.Value
	}
	if amount > subtotal {
		amount = subtotal
	}
	return amount
}
