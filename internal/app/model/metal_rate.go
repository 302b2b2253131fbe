package model

import "time"

type MetalType string

const (
	MetalGold24K MetalType = "gold_24k"
	MetalGold22K MetalType = "gold_22k"
	MetalGold18K MetalType = "gold_18k"
	MetalSilver  MetalType = "silver"
)

// MetalRate is one published per-gram rate. A new row is appended per
// refresh; the latest row per metal is the display rate.
type MetalRate struct {
	ID         uint      `gorm:"primarykey" json:"id"`
	Metal      MetalType `gorm:"type:varchar(20);not null;index" json:"metal"`
	RatePerGram float64  `gorm:"not null" json:"rate_per_gram"` // rupees
	Source     string    `json:"source"`
	FetchedAt  time.Time `gorm:"index" json:"fetched_at"`
	CreatedAt  time.Time `json:"created_at"`
}

func (MetalRate) TableName() string {
	return "metal_rates"
}

// MetalRateQuote is the storefront view of a rate with day-over-day change.
type MetalRateQuote struct {
	Metal         MetalType `json:"metal"`
	RatePerGram   float64   `json:"rate_per_gram"`
	Change        float64   `json:"change"`         // rupees vs previous rate
	ChangePercent float64   `json:"change_percent"`
	FetchedAt     time.Time `json:"fetched_at"`
}
