package model

import (
	"time"

	"gorm.io/gorm"
)

// CartItem is a server-side cart line for a signed-in user. Guest carts
// live entirely on the client and only reach the server at checkout.
type CartItem struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	UserID          uint           `gorm:"index;not null" json:"user_id"`
	ProductID       uint           `gorm:"not null" json:"product_id"`
	ProductOptionID *uint          `json:"product_option_id"`
	Quantity        int            `gorm:"not null;default:1" json:"quantity"`
	ReminderSentAt  *time.Time     `json:"-"` // last abandoned-cart email, nil if never
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	User          User           `gorm:"foreignKey:UserID" json:"-"`
	Product       Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductOption *ProductOption `gorm:"foreignKey:ProductOptionID" json:"product_option,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}
