// internal/interfaces/http/middleware/session.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ContextSessionID is the context key for the cart session id
const ContextSessionID = "session_id"

// SessionHeader is the header carrying the cart session id
const SessionHeader = "X-Session-ID"

// Session resolves the cart session id. Clients send the id they were
// given in X-Session-ID; first-time visitors get a fresh one, echoed
// back in the response header so the client can persist it.
func Session() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(SessionHeader)
		if sessionID == "" {
			sessionID = uuid.New().String()
		}
		c.Set(ContextSessionID, sessionID)
		c.Header(SessionHeader, sessionID)
		c.Next()
	}
}

// GetSessionID returns the cart session id from the context
func GetSessionID(c *gin.Context) string {
	return c.GetString(ContextSessionID)
}
