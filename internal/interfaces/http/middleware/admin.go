// internal/interfaces/http/middleware/admin.go
package middleware

import (
	"crypto/hmac"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trippydrip/storefront-backend/internal/config"
)

// AdminAuth guards the admin catalog surface with a shared secret.
// X-Admin-Key must match the configured key; when an admin id is
// configured, X-Admin-ID must match too. Comparisons are constant
// time. A missing key is 401, a wrong one is 403.
func AdminAuth(cfg *config.AdminConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.SecretKey == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"error": "Admin access is not configured",
			})
			c.Abort()
			return
		}

		key := c.GetHeader("X-Admin-Key")
		if key == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Admin authentication required",
			})
			c.Abort()
			return
		}

		if !hmac.Equal([]byte(key), []byte(cfg.SecretKey)) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Invalid admin credentials",
			})
			c.Abort()
			return
		}

		if cfg.AdminID != "" {
			adminID := c.GetHeader("X-Admin-ID")
			if !hmac.Equal([]byte(adminID), []byte(cfg.AdminID)) {
				c.JSON(http.StatusForbidden, gin.H{
					"error": "Invalid admin credentials",
				})
				c.Abort()
				return
			}
		}

		c.Next()
	}
}
