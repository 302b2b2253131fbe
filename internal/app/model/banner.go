package model

import (
	"time"

	"gorm.io/gorm"
)

type BannerPlacement string

const (
	BannerHero  BannerPlacement = "hero"
	BannerStrip BannerPlacement = "strip"
	BannerPopup BannerPlacement = "popup"
)

// Banner is a scheduled storefront creative. A banner is live when Active
// is set and the current time falls inside [StartsAt, EndsAt]; a nil bound
// is open-ended.
type Banner struct {
	ID             uint            `gorm:"primarykey" json:"id"`
	Title          string          `gorm:"not null" json:"title"`
	Placement      BannerPlacement `gorm:"type:varchar(20);default:'hero';index" json:"placement"`
	ImageURL       string          `gorm:"not null" json:"image_url"`
	MobileImageURL string          `json:"mobile_image_url"`
	LinkURL        string          `json:"link_url"`
	Position       int             `gorm:"default:0" json:"position"`
	Active         bool            `json:"active"`
	StartsAt       *time.Time      `json:"starts_at"`
	EndsAt         *time.Time      `json:"ends_at"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
}

func (Banner) TableName() string {
	return "banners"
}

// IsLive reports whether the banner should be served at t.
func (b *Banner) IsLive(t time.Time) bool {
	if !b.Active {
		return false
	}
	if b.StartsAt != nil && t.Before(*b.StartsAt) {
		return false
	}
	if b.EndsAt != nil && t.After(*b.EndsAt) {
		return false
	}
	return true
}
