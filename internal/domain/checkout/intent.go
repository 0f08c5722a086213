// internal/domain/checkout/intent.go
package checkout

import (
	"context"

	"github.com/trippydrip/storefront-backend/internal/domain/cart"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
	"github.com/trippydrip/storefront-backend/internal/pkg/catalog"
)

// IntentLine is one priced line of an order intent. UnitPrice comes
// from the live catalog at build time, not from the cart snapshot, so
// a price change between add-to-cart and checkout is always honored.
type IntentLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	LineTotal int64  `json:"line_total"`
}

// OrderIntent is the priced, immutable summary a checkout attempt is
// built from. All amounts are minor currency units.
type OrderIntent struct {
	Lines    []IntentLine `json:"lines"`
	Subtotal int64        `json:"subtotal"`
	Tax      int64        `json:"tax"`
	Shipping int64        `json:"shipping"`
	Total    int64        `json:"total"`
	Currency string       `json:"currency"`
}

// Pricing holds the checkout pricing rules, all amounts in minor
// currency units.
type Pricing struct {
	Currency              string
	TaxRateBasisPoints    int64
	ShippingFlatRate      int64
	FreeShippingThreshold int64
}

// Shipping returns the shipping charge for a subtotal: the flat rate,
// waived at or above the free-shipping threshold. A zero threshold
// means every order ships free.
func (p Pricing) Shipping(subtotal int64) int64 {
	if p.FreeShippingThreshold <= 0 || subtotal >= p.FreeShippingThreshold {
		return 0
	}
	return p.ShippingFlatRate
}

// Tax applies a basis-point rate to a subtotal, rounding half up.
// 1000 basis points on 17998 yields 1800, never 1799.
func Tax(subtotal, rateBasisPoints int64) int64 {
	return (subtotal*rateBasisPoints + 5000) / 10000
}

// BuildIntent prices a cart against the live catalog. An empty cart is
// a validation failure: no order may ever be created from one. A line
// whose product has disappeared from the catalog fails the build with
// the catalog's not-found error.
func BuildIntent(ctx context.Context, provider catalog.Provider, lines []cart.Line, pricing Pricing) (*OrderIntent, error) {
	if len(lines) == 0 {
		return nil, apperr.NewValidation("cannot create an order from an empty cart")
	}

	intent := &OrderIntent{
		Lines:    make([]IntentLine, 0, len(lines)),
		Currency: pricing.Currency,
	}

	for _, line := range lines {
		item, err := provider.Item(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if line.Quantity <= 0 {
			return nil, apperr.NewValidation("cart line has no quantity", line.ProductID)
		}

		lineTotal := item.Price * int64(line.Quantity)
		intent.Lines = append(intent.Lines, IntentLine{
			ProductID: item.ID,
			Name:      item.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: item.Price,
			LineTotal: lineTotal,
		})
		intent.Subtotal += lineTotal
	}

	intent.Tax = Tax(intent.Subtotal, pricing.TaxRateBasisPoints)
	intent.Shipping = pricing.Shipping(intent.Subtotal)
	intent.Total = intent.Subtotal + intent.Tax + intent.Shipping
	return intent, nil
}
