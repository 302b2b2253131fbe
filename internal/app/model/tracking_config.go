package model

import "time"

// TrackingConfig stores third-party pixel/analytics identifiers the
// storefront injects at render time. One row per provider.
type TrackingConfig struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Provider  string    `gorm:"uniqueIndex;not null" json:"provider"` // e.g. google_analytics, meta_pixel
	TagID     string    `gorm:"not null" json:"tag_id"`
	Enabled   bool      `json:"enabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (TrackingConfig) TableName() string {
	return "tracking_configs"
}
