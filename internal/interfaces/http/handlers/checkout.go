// internal/interfaces/http/handlers/checkout.go
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/domain/checkout"
	"github.com/trippydrip/storefront-backend/internal/domain/payment"
	"github.com/trippydrip/storefront-backend/internal/interfaces/http/middleware"
)

// CheckoutHandler handles payment endpoints
type CheckoutHandler struct {
	checkoutService *checkout.Service
	config          *config.Config
	logger          *logrus.Logger
}

// NewCheckoutHandler creates a new checkout handler
func NewCheckoutHandler(checkoutService *checkout.Service, cfg *config.Config, logger *logrus.Logger) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
		config:          cfg,
		logger:          logger,
	}
}

// CreateOrder handles POST /payments/create-order
func (h *CheckoutHandler) CreateOrder(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	resp, err := h.checkoutService.CreateOrder(c.Request.Context(), userID, middleware.GetSessionID(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order created successfully",
		"data":    resp,
	})
}

// VerifyPayment handles POST /payments/verify
func (h *CheckoutHandler) VerifyPayment(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req checkout.VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	resp, err := h.checkoutService.VerifyPayment(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Payment verified successfully",
		"data":    resp,
	})
}

// Cancel handles POST /payments/cancel. Dismissing the gateway widget
// lands here; it quietly resets the session.
func (h *CheckoutHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	if err := h.checkoutService.Cancel(c.Request.Context(), userID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout cancelled",
	})
}

// Status handles GET /payments/status
func (h *CheckoutHandler) Status(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	session, err := h.checkoutService.Status(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Checkout status retrieved successfully",
		"data":    session,
	})
}

type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				ID      string `json:"id"`
				OrderID string `json:"order_id"`
			} `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// Webhook handles POST /webhooks/razorpay. The delivery is trusted
// only after its signature checks out against the webhook secret.
// Gateways redeliver, so the handler always acknowledges events it
// has already settled.
func (h *CheckoutHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		badRequest(c, err)
		return
	}

	signature := c.GetHeader("X-Razorpay-Signature")
	if !payment.VerifyWebhookSignature(body, signature, h.config.External.Razorpay.WebhookSecret) {
		h.logger.Warn("Webhook delivery with bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid webhook signature"})
		return
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		badRequest(c, err)
		return
	}

	if event.Event != "payment.captured" {
		c.JSON(http.StatusOK, gin.H{"message": "Event ignored"})
		return
	}

	entity := event.Payload.Payment.Entity
	if err := h.checkoutService.ConfirmFromWebhook(c.Request.Context(), entity.OrderID, entity.ID); err != nil {
		h.logger.WithError(err).WithField("gateway_order_id", entity.OrderID).Error("Webhook settlement failed")
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Webhook processed"})
}
