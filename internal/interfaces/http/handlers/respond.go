// internal/interfaces/http/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
)

// respondError translates domain errors into HTTP responses. The
// mapping is deliberate: validation is 400, missing auth is 401, an
// unknown entity is 404, a failed payment verification is 402, and a
// gateway that never answered properly is 502.
func respondError(c *gin.Context, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Validation failed",
			"details": ve.Message,
			"fields":  ve.Fields,
		})
		return
	}

	if errors.Is(err, apperr.ErrAuthRequired) {
		c.JSON(http.StatusUnauthorized, gin.H{
			"error": "Authentication required",
		})
		return
	}

	if errors.Is(err, apperr.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"details": err.Error(),
		})
		return
	}

	if errors.Is(err, apperr.ErrAlreadyExists) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Already exists",
			"details": err.Error(),
		})
		return
	}

	var verif *apperr.VerificationError
	if errors.As(err, &verif) {
		c.JSON(http.StatusPaymentRequired, gin.H{
			"error":    "Payment verification failed",
			"details":  verif.Reason,
			"order_id": verif.OrderID,
		})
		return
	}

	var ge *apperr.GatewayError
	if errors.As(err, &ge) {
		// A 4xx from the gateway means our request was bad; anything
		// else is the gateway's problem.
		status := http.StatusBadGateway
		if ge.StatusCode >= 400 && ge.StatusCode < 500 {
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error":   "Payment gateway error",
			"details": "The payment provider could not process the request",
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": "Internal server error",
	})
}

// badRequest reports a malformed request body
func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request data",
		"details": err.Error(),
	})
}
