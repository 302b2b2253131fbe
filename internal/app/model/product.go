package model

import (
	"time"

	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "inactive"
)

// Product carries the full jewelry price breakup alongside the resolved
// sell price. TotalRs is the authoritative price the checkout validator
// trusts; the component fields exist so each order item can snapshot the
// breakup at time of sale: Rate is the metal rate per gram applied at
// listing, LabourCharge the making charge, the weights are grams
// (LessWeight being the stone/diamond grams excluded from the metal),
// and Purity reads like 22K, 18K or 925.
type Product struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	Name            string         `gorm:"not null" json:"name"`
	Slug            string         `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string         `gorm:"type:text" json:"description"`
	Status          ProductStatus  `gorm:"type:varchar(20);default:'active';index" json:"status"`
	CategoryID      uint           `gorm:"not null;index" json:"category_id"`
	ImageURL        string         `json:"image_url"`
	HoverImageURL   string         `json:"hover_image_url"`
	Rate            float64        `json:"rate"`
	LabourCharge    float64        `json:"labour_charge"`
	TotalRs         float64        `gorm:"not null" json:"total_rs"`
	GrossWeight     float64        `json:"gross_weight"`
	NetWeight       float64        `json:"net_weight"`
	LessWeight      float64        `json:"less_weight"`
	Purity          string         `json:"purity"`
	WastagePercent  float64        `json:"wastage_percent"`
	DiscountPercent float64        `json:"discount_percent"`
	CODCharge       float64        `json:"cod_charge"`
	StockQuantity   int            `gorm:"default:0" json:"stock_quantity"`
	ViewCount       int            `gorm:"default:0" json:"view_count"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Category   Category        `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Options    []ProductOption `gorm:"foreignKey:ProductID" json:"options,omitempty"`
	OrderItems []OrderItem     `gorm:"foreignKey:ProductID" json:"-"`
	CartItems  []CartItem      `gorm:"foreignKey:ProductID" json:"-"`
}

func (Product) TableName() string {
	return "products"
}
