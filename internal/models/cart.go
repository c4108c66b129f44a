package models

import "time"

// Ticket quantity limits per cart row.
const (
	MaxRegularTickets = 8
	DisabilityTickets = 1
)

// CartItem is a pending reservation of Quantity tickets of one event category.
// There is at most one row per (user, event category).
type CartItem struct {
	ID              string         `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string         `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_category"`
	EventID         string         `json:"event_id" gorm:"type:varchar(36);not null;index"`
	EventCategoryID string         `json:"event_category_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_user_category"`
	EventCategory   *EventCategory `json:"event_category,omitempty" gorm:"foreignKey:EventCategoryID"`
	Quantity        int            `json:"quantity" gorm:"not null"`
	Price           float64        `json:"price" gorm:"not null"` // Unit price at the time it was added
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
