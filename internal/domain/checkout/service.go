// internal/domain/checkout/service.go
package checkout

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/domain/cart"
	"github.com/trippydrip/storefront-backend/internal/domain/order"
	"github.com/trippydrip/storefront-backend/internal/domain/payment"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
	"github.com/trippydrip/storefront-backend/internal/pkg/catalog"
)

// OrderStore is the order persistence surface checkout needs
type OrderStore interface {
	Create(ctx context.Context, o *order.Order) error
	GetByID(ctx context.Context, id string) (*order.Order, error)
	GetByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*order.Order, error)
	SetGatewayOrder(ctx context.Context, id, gatewayOrderID string) error
	MarkPaid(ctx context.Context, id, gatewayPaymentID string) (*order.Order, error)
	MarkFailed(ctx context.Context, id, reason string) (*order.Order, error)
}

// Service drives the checkout state machine. One attempt per user may
// be in flight at a time; the guard is a SetNX claim in the session
// store. Payment failures are terminal for the attempt and are never
// retried here — only an explicit new user action starts over.
type Service struct {
	carts    *cart.Service
	orders   OrderStore
	catalog  catalog.Provider
	gateway  payment.Gateway
	sessions SessionStore
	config   *config.Config
	logger   *logrus.Logger
}

// NewService creates a new checkout service
func NewService(carts *cart.Service, orders OrderStore, provider catalog.Provider, gateway payment.Gateway, sessions SessionStore, cfg *config.Config, logger *logrus.Logger) *Service {
	return &Service{
		carts:    carts,
		orders:   orders,
		catalog:  provider,
		gateway:  gateway,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
}

// CreateOrderResponse is what the browser needs to open the gateway
// checkout widget.
type CreateOrderResponse struct {
	OrderID      string                `json:"order_id"`
	OrderNumber  string                `json:"order_number"`
	GatewayOrder *payment.GatewayOrder `json:"razorpay_order"`
	Amount       int64                 `json:"amount"`
	AmountValue  float64               `json:"amount_value"`
	Currency     string                `json:"currency"`
	KeyID        string                `json:"key_id"`
}

// VerifyRequest carries the gateway checkout callback fields
type VerifyRequest struct {
	OrderID          string `json:"order_id" binding:"required"`
	GatewayOrderID   string `json:"razorpay_order_id" binding:"required"`
	GatewayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	Signature        string `json:"razorpay_signature" binding:"required"`
}

// VerifyResponse confirms a completed payment
type VerifyResponse struct {
	OrderID         string `json:"order_id"`
	OrderNumber     string `json:"order_number"`
	Status          string `json:"status"`
	ConfirmationRef string `json:"confirmation_ref"`
}

// CreateOrder prices the cart, persists an order and registers it with
// the gateway. An empty cart fails before any order row or gateway
// call exists. A gateway failure marks the order failed and leaves the
// cart exactly as it was.
func (s *Service) CreateOrder(ctx context.Context, userID uint, sessionID string) (*CreateOrderResponse, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthRequired
	}

	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !session.State.CanStart() {
		return nil, apperr.NewValidation(fmt.Sprintf("checkout already in progress (state %s)", session.State))
	}

	lines, err := s.carts.Lines(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Prices the cart against the live catalog. An empty cart stops
	// here, before the in-flight guard is even claimed.
	intent, err := BuildIntent(ctx, s.catalog, lines, Pricing{
		Currency:              s.config.Checkout.Currency,
		TaxRateBasisPoints:    s.config.Checkout.TaxRateBasisPoints,
		ShippingFlatRate:      s.config.Checkout.ShippingFlatRate,
		FreeShippingThreshold: s.config.Checkout.FreeShippingThreshold,
	})
	if err != nil {
		return nil, err
	}

	claimed, err := s.sessions.SetNX(ctx, s.lockKey(userID), "1", s.config.Checkout.SessionTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to claim checkout guard: %w", err)
	}
	if !claimed {
		return nil, apperr.NewValidation("another checkout attempt is already in flight")
	}

	o := &order.Order{
		UserID:    userID,
		SessionID: sessionID,
		Currency:  intent.Currency,
		Subtotal:  intent.Subtotal,
		Tax:       intent.Tax,
		Shipping:  intent.Shipping,
		Total:     intent.Total,
		Items:     intentItems(intent),
	}
	if err := s.orders.Create(ctx, o); err != nil {
		s.releaseLock(ctx, userID)
		return nil, err
	}

	if err := s.saveSession(ctx, &Session{
		UserID:  userID,
		State:   StateCreatingOrder,
		OrderID: o.ID,
		Amount:  intent.Total,
	}); err != nil {
		s.releaseLock(ctx, userID)
		return nil, err
	}

	gatewayOrder, err := s.gateway.CreateOrder(ctx, intent.Total, intent.Currency, o.OrderNumber)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"order_id": o.ID,
			"user_id":  userID,
		}).WithError(err).Error("Gateway order creation failed")

		if _, ferr := s.orders.MarkFailed(ctx, o.ID, "gateway order creation failed"); ferr != nil {
			s.logger.WithError(ferr).Error("Failed to mark order failed")
		}
		s.failSession(ctx, userID, o.ID)
		return nil, err
	}

	if err := s.orders.SetGatewayOrder(ctx, o.ID, gatewayOrder.ID); err != nil {
		if _, ferr := s.orders.MarkFailed(ctx, o.ID, "failed to record gateway order"); ferr != nil {
			s.logger.WithError(ferr).Error("Failed to mark order failed")
		}
		s.failSession(ctx, userID, o.ID)
		return nil, err
	}

	if err := s.saveSession(ctx, &Session{
		UserID:         userID,
		State:          StateAwaitingGateway,
		OrderID:        o.ID,
		GatewayOrderID: gatewayOrder.ID,
		Amount:         intent.Total,
	}); err != nil {
		if _, ferr := s.orders.MarkFailed(ctx, o.ID, "failed to persist checkout session"); ferr != nil {
			s.logger.WithError(ferr).Error("Failed to mark order failed")
		}
		s.failSession(ctx, userID, o.ID)
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":         o.ID,
		"order_number":     o.OrderNumber,
		"gateway_order_id": gatewayOrder.ID,
		"amount":           intent.Total,
	}).Info("Checkout order created")

	return &CreateOrderResponse{
		OrderID:      o.ID,
		OrderNumber:  o.OrderNumber,
		GatewayOrder: gatewayOrder,
		Amount:       intent.Total,
		AmountValue:  float64(intent.Total) / 100,
		Currency:     intent.Currency,
		KeyID:        s.config.External.Razorpay.KeyID,
	}, nil
}

// VerifyPayment checks the checkout callback signature and settles the
// attempt. Success marks the order paid and clears the cart; any
// mismatch marks the order failed, keeps the cart intact and returns a
// verification error. Neither path is ever retried automatically.
func (s *Service) VerifyPayment(ctx context.Context, userID uint, req *VerifyRequest) (*VerifyResponse, error) {
	if userID == 0 {
		return nil, apperr.ErrAuthRequired
	}

	session, err := s.loadSession(ctx, userID)
	if err != nil {
		return nil, err
	}
	if session.State != StateAwaitingGateway {
		return nil, apperr.NewValidation(fmt.Sprintf("no payment awaiting verification (state %s)", session.State))
	}

	session.State = StateVerifying
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}

	o, err := s.orders.GetByID(ctx, req.OrderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, apperr.NotFound("order", req.OrderID)
	}

	if o.GatewayOrderID != req.GatewayOrderID ||
		!payment.VerifySignature(req.GatewayOrderID, req.GatewayPaymentID, req.Signature, s.config.External.Razorpay.KeySecret) {

		s.logger.WithFields(logrus.Fields{
			"order_id": o.ID,
			"user_id":  userID,
		}).Warn("Payment signature verification failed")

		if _, ferr := s.orders.MarkFailed(ctx, o.ID, "signature verification failed"); ferr != nil {
			s.logger.WithError(ferr).Error("Failed to mark order failed")
		}
		s.failSession(ctx, userID, o.ID)
		return nil, &apperr.VerificationError{OrderID: o.ID, Reason: "signature mismatch"}
	}

	paid, err := s.orders.MarkPaid(ctx, o.ID, req.GatewayPaymentID)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, o.SessionID); err != nil {
		// The payment settled; a stale cart is an inconvenience, not a
		// reason to report failure to the buyer.
		s.logger.WithError(err).WithField("order_id", o.ID).Error("Failed to clear cart after payment")
	}

	s.saveSession(ctx, &Session{
		UserID:  userID,
		State:   StateSucceeded,
		OrderID: o.ID,
	})
	s.releaseLock(ctx, userID)

	s.logger.WithFields(logrus.Fields{
		"order_id":           paid.ID,
		"order_number":       paid.OrderNumber,
		"gateway_payment_id": req.GatewayPaymentID,
	}).Info("Payment verified")

	return &VerifyResponse{
		OrderID:         paid.ID,
		OrderNumber:     paid.OrderNumber,
		Status:          string(paid.Status),
		ConfirmationRef: paid.OrderNumber,
	}, nil
}

// Cancel drops an in-flight attempt back to idle. Dismissing the
// gateway widget is not a failure: the order stays abandoned in its
// created state, the cart stays intact, and nothing is reported.
func (s *Service) Cancel(ctx context.Context, userID uint) error {
	if userID == 0 {
		return apperr.ErrAuthRequired
	}
	if err := s.sessions.Del(ctx, s.sessionKey(userID)); err != nil {
		return fmt.Errorf("failed to reset checkout session: %w", err)
	}
	s.releaseLock(ctx, userID)
	return nil
}

// Status reports the current checkout session state
func (s *Service) Status(ctx context.Context, userID uint) (*Session, error) {
	return s.loadSession(ctx, userID)
}

// ConfirmFromWebhook settles an order from a gateway webhook delivery.
// It is idempotent: a payment.captured event for an already-paid order
// is a no-op, so browser callback and webhook can race safely.
func (s *Service) ConfirmFromWebhook(ctx context.Context, gatewayOrderID, gatewayPaymentID string) error {
	o, err := s.orders.GetByGatewayOrderID(ctx, gatewayOrderID)
	if err != nil {
		return err
	}
	if o.Status == order.StatusPaid {
		return nil
	}
	if o.Status == order.StatusFailed {
		s.logger.WithField("order_id", o.ID).Warn("Webhook capture for an order already marked failed")
		return nil
	}

	if _, err := s.orders.MarkPaid(ctx, o.ID, gatewayPaymentID); err != nil {
		return err
	}
	if err := s.carts.Clear(ctx, o.SessionID); err != nil {
		s.logger.WithError(err).WithField("order_id", o.ID).Error("Failed to clear cart after webhook capture")
	}

	s.saveSession(ctx, &Session{
		UserID:  o.UserID,
		State:   StateSucceeded,
		OrderID: o.ID,
	})
	s.releaseLock(ctx, o.UserID)

	s.logger.WithFields(logrus.Fields{
		"order_id":         o.ID,
		"gateway_order_id": gatewayOrderID,
	}).Info("Order settled from webhook")
	return nil
}

func (s *Service) sessionKey(userID uint) string {
	return fmt.Sprintf("checkout:session:%d", userID)
}

func (s *Service) lockKey(userID uint) string {
	return fmt.Sprintf("checkout:lock:%d", userID)
}

func (s *Service) loadSession(ctx context.Context, userID uint) (*Session, error) {
	data, err := s.sessions.Get(ctx, s.sessionKey(userID))
	if err == ErrNoSession {
		return &Session{UserID: userID, State: StateIdle}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout session: %w", err)
	}

	var session Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to decode checkout session: %w", err)
	}
	return &session, nil
}

func (s *Service) saveSession(ctx context.Context, session *Session) error {
	session.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode checkout session: %w", err)
	}
	if err := s.sessions.Set(ctx, s.sessionKey(session.UserID), string(data), s.config.Checkout.SessionTTL); err != nil {
		return fmt.Errorf("failed to persist checkout session: %w", err)
	}
	return nil
}

func (s *Service) failSession(ctx context.Context, userID uint, orderID string) {
	if err := s.saveSession(ctx, &Session{UserID: userID, State: StateFailed, OrderID: orderID}); err != nil {
		s.logger.WithError(err).Error("Failed to record failed checkout session")
	}
	s.releaseLock(ctx, userID)
}

func (s *Service) releaseLock(ctx context.Context, userID uint) {
	if err := s.sessions.Del(ctx, s.lockKey(userID)); err != nil {
		s.logger.WithError(err).Error("Failed to release checkout guard")
	}
}

func intentItems(intent *OrderIntent) []order.Item {
	items := make([]order.Item, len(intent.Lines))
	for i, line := range intent.Lines {
		items[i] = order.Item{
			ProductID: line.ProductID,
			Name:      line.Name,
			Size:      line.Size,
			Color:     line.Color,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		}
	}
	return items
}
