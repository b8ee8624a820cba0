package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is a settled checkout. Rows are immutable after settlement:
// final_amount = total_amount - applied_gems, floored at zero.
type Order struct {
	BaseModel
	UserID          uuid.UUID   `gorm:"type:uuid;index" json:"user_id"`
	User            *User       `json:"user,omitempty"`
	OrderNumber     string      `gorm:"uniqueIndex" json:"order_number"`
	Status          string      `json:"status"`
	PlacedAt        time.Time   `json:"placed_at"`
	TotalAmount     float64     `json:"total_amount"`
	AppliedGems     int         `json:"applied_gems"`
	FinalAmount     float64     `json:"final_amount"`
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Items           []OrderItem `json:"items,omitempty"`
}

// OrderItem is a passthrough snapshot of a purchased product.
type OrderItem struct {
	BaseModel
	OrderID     uuid.UUID  `gorm:"type:uuid;index" json:"order_id"`
	ProductID   *uuid.UUID `gorm:"type:uuid" json:"product_id"`
	ProductName string     `json:"product_name"`
	Quantity    int        `json:"quantity"`
	UnitPrice   float64    `json:"unit_price"`
	LineTotal   float64    `json:"line_total"`
}
