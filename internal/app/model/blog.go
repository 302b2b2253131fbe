package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Blog struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	Title         string         `gorm:"not null" json:"title"`
	Slug          string         `gorm:"uniqueIndex;not null" json:"slug"`
	Excerpt       string         `json:"excerpt"`
	Body          string         `gorm:"type:text" json:"body"`
	CoverImageURL string         `json:"cover_image_url"`
	Tags          pq.StringArray `gorm:"type:text[]" json:"tags"`
	Published     bool           `gorm:"default:false;index" json:"published"`
	PublishedAt   *time.Time     `json:"published_at"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Blog) TableName() string {
	return "blogs"
}
