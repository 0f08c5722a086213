// internal/domain/cart/service.go
package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
	"github.com/trippydrip/storefront-backend/internal/pkg/catalog"
)

// Service handles cart business logic. Every mutation re-reads the
// persisted document first and rewrites it whole — the snapshot in the
// store is the single source of truth, never an in-memory copy.
type Service struct {
	store   Store
	catalog catalog.Provider
	config  *config.Config
}

// NewService creates a new cart service
func NewService(store Store, provider catalog.Provider, cfg *config.Config) *Service {
	return &Service{
		store:   store,
		catalog: provider,
		config:  cfg,
	}
}

// AddRequest represents an add-to-cart request
type AddRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
}

// UpdateRequest represents a quantity update. Quantity is absolute, not
// incremental; zero or below removes the line.
type UpdateRequest struct {
	Size     string `json:"size" binding:"required"`
	Color    string `json:"color" binding:"required"`
	Quantity int    `json:"quantity"`
}

// Response represents a cart with its computed totals
type Response struct {
	SessionID string `json:"session_id"`
	Lines     []Line `json:"lines"`
	Totals    Totals `json:"totals"`
}

// Get returns the cart for a session, empty if none exists yet
func (s *Service) Get(ctx context.Context, sessionID string) (*Response, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.respond(c), nil
}

// Add puts one unit of (product, size, color) in the cart. The size and
// color must be offered by the product. If a line with the same key
// already exists its quantity goes up by one; carts never hold two
// lines for the same key.
func (s *Service) Add(ctx context.Context, sessionID string, req *AddRequest) (*Response, error) {
	item, err := s.catalog.Item(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	var fields []string
	if !item.HasSize(req.Size) {
		fields = append(fields, "size")
	}
	if !item.HasColor(req.Color) {
		fields = append(fields, "color")
	}
	if len(fields) > 0 {
		return nil, apperr.NewValidation(
			fmt.Sprintf("selection not offered for product %s", item.ID), fields...)
	}

	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if i := c.find(req.ProductID, req.Size, req.Color); i >= 0 {
		c.Lines[i].Quantity++
	} else {
		c.Lines = append(c.Lines, Line{
			ProductID: req.ProductID,
			Size:      req.Size,
			Color:     req.Color,
			Quantity:  1,
			Name:      item.Name,
			Price:     item.Price,
			ImageURL:  item.ImageURL,
			AddedAt:   time.Now().UTC(),
		})
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.respond(c), nil
}

// UpdateQuantity sets a line's quantity exactly. Zero or below behaves
// as Remove. A missing key is a no-op, not an error.
func (s *Service) UpdateQuantity(ctx context.Context, sessionID, productID string, req *UpdateRequest) (*Response, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	i := c.find(productID, req.Size, req.Color)
	if i < 0 {
		return s.respond(c), nil
	}

	if req.Quantity <= 0 {
		c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
	} else {
		c.Lines[i].Quantity = req.Quantity
	}

	if err := s.save(ctx, c); err != nil {
		return nil, err
	}
	return s.respond(c), nil
}

// Remove deletes the matching line if present
func (s *Service) Remove(ctx context.Context, sessionID, productID, size, color string) (*Response, error) {
	return s.UpdateQuantity(ctx, sessionID, productID, &UpdateRequest{
		Size:     size,
		Color:    color,
		Quantity: 0,
	})
}

// Clear empties the cart
func (s *Service) Clear(ctx context.Context, sessionID string) error {
	if err := s.store.Del(ctx, s.key(sessionID)); err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Count returns the sum of quantities, for UI badges
func (s *Service) Count(ctx context.Context, sessionID string) (int, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return 0, err
	}
	return c.Totals().TotalQuantity, nil
}

// Lines returns the raw lines of the cart, for the checkout path
func (s *Service) Lines(ctx context.Context, sessionID string) ([]Line, error) {
	c, err := s.load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return c.Lines, nil
}

func (s *Service) key(sessionID string) string {
	return fmt.Sprintf("cart:session:%s", sessionID)
}

func (s *Service) load(ctx context.Context, sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, apperr.NewValidation("session ID required for cart")
	}

	data, err := s.store.Get(ctx, s.key(sessionID))
	if err == ErrNoSnapshot {
		now := time.Now().UTC()
		return &Cart{
			SessionID: sessionID,
			Lines:     []Line{},
			CreatedAt: now,
			UpdatedAt: now,
		}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart: %w", err)
	}

	var c Cart
	if err := json.Unmarshal([]byte(data), &c); err != nil {
		return nil, fmt.Errorf("failed to decode cart snapshot: %w", err)
	}
	return &c, nil
}

func (s *Service) save(ctx context.Context, c *Cart) error {
	c.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode cart: %w", err)
	}

	if err := s.store.Set(ctx, s.key(c.SessionID), string(data), s.config.Checkout.CartTTL); err != nil {
		return fmt.Errorf("failed to persist cart: %w", err)
	}
	return nil
}

func (s *Service) respond(c *Cart) *Response {
	return &Response{
		SessionID: c.SessionID,
		Lines:     c.Lines,
		Totals:    c.Totals(),
	}
}
