// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Line is one (product, size, color) selection. The triple is the line
// key: at most one line per key exists in a cart, adding the same
// combination again bumps the quantity instead. Name, price and image
// are denormalized snapshots taken when the line was added.
type Line struct {
	ProductID string    `json:"product_id"`
	Size      string    `json:"size"`
	Color     string    `json:"color"`
	Quantity  int       `json:"quantity"`
	Name      string    `json:"name"`
	Price     int64     `json:"price"` // unit price in minor units
	ImageURL  string    `json:"image_url"`
	AddedAt   time.Time `json:"added_at"`
}

// Matches reports whether the line has the given key
func (l *Line) Matches(productID, size, color string) bool {
	return l.ProductID == productID && l.Size == size && l.Color == color
}

// Cart is the full per-session cart document. It is serialized as one
// JSON value under a single storage key and always rewritten whole.
type Cart struct {
	SessionID string    `json:"session_id"`
	Lines     []Line    `json:"lines"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals summarizes a cart. Subtotal is accumulated in int64 minor
// units so it cannot drift the way repeated float addition would.
type Totals struct {
	ItemCount     int     `json:"item_count"`     // Number of distinct lines
	TotalQuantity int     `json:"total_quantity"` // Sum of all quantities
	Subtotal      int64   `json:"subtotal"`       // Minor units
	SubtotalValue float64 `json:"subtotal_value"` // Display decimal
}

// Totals computes the cart summary
func (c *Cart) Totals() Totals {
	var t Totals
	t.ItemCount = len(c.Lines)
	for _, line := range c.Lines {
		t.TotalQuantity += line.Quantity
		t.Subtotal += line.Price * int64(line.Quantity)
	}
	t.SubtotalValue = float64(t.Subtotal) / 100
	return t
}

// find returns the index of the line with the given key, or -1
func (c *Cart) find(productID, size, color string) int {
	for i := range c.Lines {
		if c.Lines[i].Matches(productID, size, color) {
			return i
		}
	}
	return -1
}
