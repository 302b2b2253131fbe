package model

import (
	"time"

	"gorm.io/gorm"
)

// ProductOption is a sellable variant (size, weight class) with its own
// price and stock. SellPrice fully replaces the parent's TotalRs when the
// option is chosen; it is not an increment.
type ProductOption struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProductID     uint           `gorm:"index;not null" json:"product_id"`
	Name          string         `gorm:"not null" json:"name"`  // option group, e.g. "Size"
	Value         string         `gorm:"not null" json:"value"` // e.g. "12 (51.8mm)"
	SellPrice     float64        `gorm:"not null" json:"sell_price"`
	GrossWeight   float64        `json:"gross_weight"`
	NetWeight     float64        `json:"net_weight"`
	StockQuantity int            `gorm:"default:0" json:"stock_quantity"`
	IsDefault     bool           `gorm:"default:false" json:"is_default"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (ProductOption) TableName() string {
	return "product_options"
}
