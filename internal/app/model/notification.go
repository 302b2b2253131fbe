package model

import "time"

type NotificationType string

const (
	NotificationOrderPlaced NotificationType = "order_placed"
	NotificationOrderStatus NotificationType = "order_status"
	NotificationGoldmine    NotificationType = "goldmine"
	NotificationPromo       NotificationType = "promo"
)

// Notification is an in-app message. UserID nil means a broadcast visible
// to admins (e.g. new-order alerts on the dashboard).
type Notification struct {
	ID             uint             `gorm:"primarykey" json:"id"`
	UserID         *uint            `gorm:"index" json:"user_id"`
	Type           NotificationType `gorm:"type:varchar(30);not null" json:"type"`
	Title          string           `gorm:"not null" json:"title"`
	Content        string           `gorm:"type:text" json:"content"`
	Link           string           `json:"link"`
	RelatedOrderID *uint            `json:"related_order_id"`
	IsRead         bool             `gorm:"default:false;index" json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
