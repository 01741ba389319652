// internal/domain/order/entity.go
package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus represents the order status
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusCompleted  OrderStatus = "completed"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// Order represents an order header. Rows are immutable after checkout except
// for admin status transitions.
type Order struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	OrderNumber string          `gorm:"uniqueIndex;not null;size:50" json:"order_number"`
	UserID      uint            `gorm:"not null;index" json:"user_id"`
	Total       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total"`
	Status      OrderStatus     `gorm:"not null;size:30;default:'pending'" json:"status"`

	// Shipping and payment metadata captured at checkout
	ShippingName    string `gorm:"size:255" json:"shipping_name"`
	ShippingAddress string `gorm:"size:500" json:"shipping_address"`
	ShippingCity    string `gorm:"size:100" json:"shipping_city"`
	ShippingPostal  string `gorm:"size:20" json:"shipping_postal"`
	ShippingCountry string `gorm:"size:2" json:"shipping_country"`
	PaymentMethod   string `gorm:"size:50" json:"payment_method"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// OrderItem represents one line of an order. Price is snapshotted at purchase
// time so later product price changes never alter the historical record; rows
// are append-only.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"` // per unit at purchase
	CreatedAt time.Time       `json:"created_at"`
}

// TableName overrides
func (Order) TableName() string     { return "orders" }
func (OrderItem) TableName() string { return "order_items" }
