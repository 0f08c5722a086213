// internal/domain/product/entity.go
package product

import (
	"math"
	"time"
)

// Category is the product category enum
type Category string

const (
	CategoryHoodies     Category = "hoodies"
	CategoryTees        Category = "tees"
	CategoryAccessories Category = "accessories"
)

// ValidCategory reports whether c is a known category
func ValidCategory(c string) bool {
	switch Category(c) {
	case CategoryHoodies, CategoryTees, CategoryAccessories:
		return true
	}
	return false
}

// Product represents the product entity. Price is stored in minor
// currency units; the decimal representation exists only at the JSON
// boundary. Products are created and mutated exclusively through the
// admin surface — storefront traffic reads them.
type Product struct {
	ID            string    `gorm:"primaryKey;size:100" json:"id"`
	Name          string    `gorm:"not null;size:255" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Price         int64     `gorm:"not null" json:"-"`
	Category      Category  `gorm:"not null;size:50" json:"category"`
	ImageURL      string    `gorm:"size:2000" json:"image_url"`
	Sizes         []string  `gorm:"serializer:json" json:"sizes"`
	Colors        []string  `gorm:"serializer:json" json:"colors"`
	StockQuantity int       `gorm:"not null;default:0" json:"stock_quantity"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// TableName overrides the table name
func (Product) TableName() string {
	return "products"
}

// IsInStock reports whether any stock remains
func (p *Product) IsInStock() bool {
	return p.StockQuantity > 0
}

// PriceDecimal returns the price in display units
func (p *Product) PriceDecimal() float64 {
	return float64(p.Price) / 100
}

// MinorUnits converts a decimal amount to minor currency units,
// rounding half away from zero.
func MinorUnits(decimal float64) int64 {
	return int64(math.Round(decimal * 100))
}

// Payload is the wire representation of a product with a decimal price
type Payload struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Category      string   `json:"category"`
	ImageURL      string   `json:"image_url"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stock_quantity"`
}

// ToPayload converts a product to its wire representation
func (p *Product) ToPayload() Payload {
	return Payload{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         p.PriceDecimal(),
		Category:      string(p.Category),
		ImageURL:      p.ImageURL,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		StockQuantity: p.StockQuantity,
	}
}
