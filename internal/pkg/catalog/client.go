// internal/pkg/catalog/client.go
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
)

// Client is an HTTP Provider for a remote catalog API. It exists for
// deployments where the storefront and the catalog run as separate
// services; the wire contract is GET /products and GET /products/{id}.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog API client
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// itemPayload mirrors the catalog API product JSON. Older catalog
// deployments emit "image" instead of "image_url"; both are accepted
// here so no consumer ever has to know about the alias.
type itemPayload struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Category      string   `json:"category"`
	ImageURL      string   `json:"image_url"`
	Image         string   `json:"image"`
	Sizes         []string `json:"sizes"`
	Colors        []string `json:"colors"`
	StockQuantity int      `json:"stock_quantity"`
}

func (p *itemPayload) toItem() Item {
	imageURL := p.ImageURL
	if imageURL == "" {
		imageURL = p.Image
	}
	return Item{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         int64(math.Round(p.Price * 100)),
		Category:      p.Category,
		ImageURL:      imageURL,
		Sizes:         p.Sizes,
		Colors:        p.Colors,
		StockQuantity: p.StockQuantity,
	}
}

// Item fetches a single product by id. An unknown id yields a typed
// not-found error, distinct from transport failures.
func (c *Client) Item(ctx context.Context, id string) (*Item, error) {
	var payload itemPayload
	if err := c.getJSON(ctx, fmt.Sprintf("/products/%s", id), &payload); err != nil {
		return nil, err
	}

	item := payload.toItem()
	return &item, nil
}

// Items fetches the full product list
func (c *Client) Items(ctx context.Context) ([]Item, error) {
	var payloads []itemPayload
	if err := c.getJSON(ctx, "/products", &payloads); err != nil {
		return nil, err
	}

	items := make([]Item, len(payloads))
	for i := range payloads {
		items[i] = payloads[i].toItem()
	}
	return items, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperr.GatewayError{Op: "catalog fetch", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return apperr.NotFound("product", path)
	}
	if resp.StatusCode >= 400 {
		return &apperr.GatewayError{
			Op:         "catalog fetch",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status"),
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return &apperr.GatewayError{Op: "catalog fetch", Err: fmt.Errorf("malformed response: %w", err)}
	}

	return nil
}
