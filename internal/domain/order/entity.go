// internal/domain/order/entity.go
package order

import (
	"time"
)

// Status is the order lifecycle state. Orders are created before the
// gateway checkout opens; they end paid or failed and never change
// again after that.
type Status string

const (
	StatusCreated Status = "created"
	StatusPaid    Status = "paid"
	StatusFailed  Status = "failed"
)

// Order represents a payment order. Monetary fields are minor currency
// units. Items are a snapshot of the cart at the moment the order was
// created — later catalog edits do not affect them.
type Order struct {
	ID               string    `gorm:"primaryKey;size:36" json:"id"`
	OrderNumber      string    `gorm:"uniqueIndex;not null;size:32" json:"order_number"`
	UserID           uint      `gorm:"index;not null" json:"user_id"`
	SessionID        string    `gorm:"size:100" json:"-"`
	GatewayOrderID   string    `gorm:"index;size:100" json:"gateway_order_id"`
	GatewayPaymentID string    `gorm:"size:100" json:"gateway_payment_id,omitempty"`
	Status           Status    `gorm:"not null;size:20;default:'created'" json:"status"`
	Currency         string    `gorm:"not null;size:3" json:"currency"`
	Subtotal         int64     `gorm:"not null" json:"subtotal"`
	Tax              int64     `gorm:"not null" json:"tax"`
	Shipping         int64     `gorm:"not null;default:0" json:"shipping"`
	Total            int64     `gorm:"not null" json:"total"`
	FailureReason    string    `gorm:"size:255" json:"failure_reason,omitempty"`
	Items            []Item    `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
}

// TableName overrides the table name
func (Order) TableName() string {
	return "orders"
}

// Item is one line of an order snapshot
type Item struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	OrderID   string `gorm:"index;not null;size:36" json:"-"`
	ProductID string `gorm:"not null;size:100" json:"product_id"`
	Name      string `gorm:"not null;size:255" json:"name"`
	Size      string `gorm:"size:20" json:"size"`
	Color     string `gorm:"size:50" json:"color"`
	Quantity  int    `gorm:"not null" json:"quantity"`
	UnitPrice int64  `gorm:"not null" json:"unit_price"`
}

// TableName overrides the table name
func (Item) TableName() string {
	return "order_items"
}

// IsTerminal reports whether the order can no longer change
func (o *Order) IsTerminal() bool {
	return o.Status == StatusPaid || o.Status == StatusFailed
}
