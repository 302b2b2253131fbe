package model

import (
	"time"

	"gorm.io/gorm"
)

type OrderStatus string

const (
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

type PaymentMethod string

const (
	PaymentCOD      PaymentMethod = "cod"
	PaymentRazorpay PaymentMethod = "razorpay"
)

// Order is the committed record of a checkout. PaymentID and OrderToken
// carry unique indexes so a replayed webhook or double-submitted checkout
// collapses onto the first insert.
type Order struct {
	ID          uint   `gorm:"primarykey" json:"id"`
	OrderNumber string `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID      uint   `gorm:"index;not null" json:"user_id"`

	Subtotal       float64 `gorm:"not null" json:"subtotal"`
	DiscountCode   string  `json:"discount_code"`
	DiscountAmount float64 `gorm:"default:0" json:"discount_amount"`
	CODCharge      float64 `gorm:"default:0" json:"cod_charge"`
	TotalAmount    float64 `gorm:"not null" json:"total_amount"`

	Status        OrderStatus   `gorm:"type:varchar(20);default:'processing';index" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);default:'pending';index" json:"payment_status"`
	PaymentMethod PaymentMethod `gorm:"type:varchar(20);not null" json:"payment_method"`
	PaymentID     *string       `gorm:"uniqueIndex" json:"payment_id"` // gateway payment reference
	OrderToken    *string       `gorm:"uniqueIndex" json:"-"`          // client idempotency token

	ShippingName  string `gorm:"not null" json:"shipping_name"`
	ShippingEmail string `gorm:"not null" json:"shipping_email"`
	ShippingPhone string `gorm:"not null" json:"shipping_phone"`
	Address       string `gorm:"not null" json:"address"`
	City          string `json:"city"`
	State         string `json:"state"`
	Pincode       string `gorm:"not null" json:"pincode"`

	// KYC captured when the total crosses the statutory threshold.
	PAN     string `gorm:"column:pan" json:"pan,omitempty"`
	Aadhaar string `json:"aadhaar,omitempty"`

	CourierName    string `json:"courier_name"`
	TrackingNumber string `json:"tracking_number"`
	Notes          string `json:"notes"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User        `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

// CanTransitionTo enforces the order lifecycle:
// processing -> shipped | cancelled, shipped -> delivered | cancelled.
// Delivered and cancelled are terminal.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch o.Status {
	case OrderProcessing:
		return next == OrderShipped || next == OrderCancelled
	case OrderShipped:
		return next == OrderDelivered || next == OrderCancelled
	default:
		return false
	}
}

// OrderItem is a denormalized snapshot of the product (or option) at the
// moment of sale. Later catalog edits never change what the customer sees
// on an old order or invoice.
type OrderItem struct {
	ID              uint  `gorm:"primarykey" json:"id"`
	OrderID         uint  `gorm:"index;not null" json:"order_id"`
	ProductID       uint  `gorm:"not null" json:"product_id"`
	ProductOptionID *uint `json:"product_option_id"`

	ProductName string  `gorm:"not null" json:"product_name"`
	OptionName  string  `json:"option_name"` // "Size: 12 (51.8mm)", empty without option
	Quantity    int     `gorm:"not null" json:"quantity"`
	Price       float64 `gorm:"not null" json:"price"` // unit price charged

	// Price breakup frozen from the catalog row.
	Rate            float64 `json:"rate"`
	LabourCharge    float64 `json:"labour_charge"`
	GrossWeight     float64 `json:"gross_weight"`
	NetWeight       float64 `json:"net_weight"`
	LessWeight      float64 `json:"less_weight"`
	Purity          string  `json:"purity"`
	WastagePercent  float64 `json:"wastage_percent"`
	DiscountPercent float64 `json:"discount_percent"`
	ImageURL        string  `json:"image_url"`

	CreatedAt time.Time `json:"created_at"`

	Product Product `gorm:"foreignKey:ProductID" json:"-"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

// LineTotal is the charged amount for this line.
func (i *OrderItem) LineTotal() float64 {
	return i.Price * float64(i.Quantity)
}
