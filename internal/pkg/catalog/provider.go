// internal/pkg/catalog/provider.go
package catalog

import "context"

// Item is the catalog view the cart and checkout path consume. Price is
// in minor currency units; decimals appear only at the JSON boundary.
type Item struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         int64    `json:"price"`
	Category      string   `json:"category"`
	ImageURL      string   `json:"image_url"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stock_quantity"`
}

// Provider serves read-only product data. The storefront wires the
// database-backed product service here; split deployments can swap in
// the HTTP Client without touching cart or checkout logic.
type Provider interface {
	Item(ctx context.Context, id string) (*Item, error)
	Items(ctx context.Context) ([]Item, error)
}

// HasSize reports whether size is offered for the item
func (i *Item) HasSize(size string) bool {
	for _, s := range i.Sizes {
		if s == size {
			return true
		}
	}
	return false
}

// HasColor reports whether color is offered for the item
func (i *Item) HasColor(color string) bool {
	for _, c := range i.Colors {
		if c == color {
			return true
		}
	}
	return false
}
