// internal/domain/order/service.go
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
)

// Service handles order persistence. Transitions into paid or failed
// are one-way: a terminal order is never modified again.
type Service struct {
	db     *gorm.DB
	config *config.Config
}

// NewService creates a new order service
func NewService(db *gorm.DB, cfg *config.Config) *Service {
	return &Service{
		db:     db,
		config: cfg,
	}
}

// Create persists a new order in the created state
func (s *Service) Create(ctx context.Context, o *Order) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.OrderNumber == "" {
		o.OrderNumber = generateOrderNumber()
	}
	o.Status = StatusCreated

	if err := s.db.WithContext(ctx).Create(o).Error; err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

// GetByID returns an order with its items
func (s *Service) GetByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", id)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// GetByGatewayOrderID returns the order tied to a gateway order
func (s *Service) GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*Order, error) {
	var o Order
	err := s.db.WithContext(ctx).Preload("Items").Where("gateway_order_id = ?", gatewayOrderID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("order", gatewayOrderID)
		}
		return nil, fmt.Errorf("failed to retrieve order: %w", err)
	}
	return &o, nil
}

// ListByUser returns a user's orders, newest first
func (s *Service) ListByUser(ctx context.Context, userID uint) ([]Order, error) {
	var orders []Order
	err := s.db.WithContext(ctx).Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// SetGatewayOrder records the gateway's order id once the gateway
// accepted the order.
func (s *Service) SetGatewayOrder(ctx context.Context, id, gatewayOrderID string) error {
	result := s.db.WithContext(ctx).Model(&Order{}).
		Where("id = ?", id).
		Update("gateway_order_id", gatewayOrderID)
	if result.Error != nil {
		return fmt.Errorf("failed to set gateway order id: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperr.NotFound("order", id)
	}
	return nil
}

// MarkPaid records a successful payment. It refuses to touch an order
// that already reached a terminal state.
func (s *Service) MarkPaid(ctx context.Context, id, gatewayPaymentID string) (*Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsTerminal() {
		return nil, fmt.Errorf("order %s already %s", o.ID, o.Status)
	}

	now := time.Now().UTC()
	updates := map[string]interface{}{
		"status":             StatusPaid,
		"gateway_payment_id": gatewayPaymentID,
		"paid_at":            now,
	}
	if err := s.db.WithContext(ctx).Model(o).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	o.Status = StatusPaid
	o.GatewayPaymentID = gatewayPaymentID
	o.PaidAt = &now
	return o, nil
}

// MarkFailed records a failed checkout attempt with its reason
func (s *Service) MarkFailed(ctx context.Context, id, reason string) (*Order, error) {
	o, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.IsTerminal() {
		return nil, fmt.Errorf("order %s already %s", o.ID, o.Status)
	}

	updates := map[string]interface{}{
		"status":         StatusFailed,
		"failure_reason": reason,
	}
	if err := s.db.WithContext(ctx).Model(o).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to mark order failed: %w", err)
	}

	o.Status = StatusFailed
	o.FailureReason = reason
	return o, nil
}

// generateOrderNumber produces a human-readable order reference,
// e.g. TD-20260829-7F3A2B1C.
func generateOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return fmt.Sprintf("TD-%s-%s", time.Now().UTC().Format("20060102"), suffix)
}
