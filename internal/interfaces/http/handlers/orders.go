// internal/interfaces/http/handlers/orders.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trippydrip/storefront-backend/internal/domain/order"
	"github.com/trippydrip/storefront-backend/internal/interfaces/http/middleware"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
	"github.com/trippydrip/storefront-backend/internal/pkg/invoice"
)

// OrderHandler handles order history endpoints
type OrderHandler struct {
	orderService   *order.Service
	invoiceService *invoice.Service
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(orderService *order.Service, invoiceService *invoice.Service) *OrderHandler {
	return &OrderHandler{
		orderService:   orderService,
		invoiceService: invoiceService,
	}
}

// ListOrders handles GET /orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	orders, err := h.orderService.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data": gin.H{
			"orders": orders,
			"count":  len(orders),
		},
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// GetReceipt handles GET /orders/:id/invoice, returning a PDF
func (h *OrderHandler) GetReceipt(c *gin.Context) {
	o, ok := h.ownedOrder(c)
	if !ok {
		return
	}

	if o.Status != order.StatusPaid {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Receipts are only available for paid orders",
		})
		return
	}

	pdf, err := h.invoiceService.GenerateReceipt(o)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=receipt-%s.pdf", o.OrderNumber))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// ownedOrder loads the order and verifies the caller owns it. A
// foreign order is reported as not found, not forbidden.
func (h *OrderHandler) ownedOrder(c *gin.Context) (*order.Order, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return nil, false
	}

	o, err := h.orderService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return nil, false
	}
	if o.UserID != userID {
		respondError(c, apperr.NotFound("order", o.ID))
		return nil, false
	}
	return o, true
}
