package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/trippydrip/storefront-backend/internal/config"
)

func adminRouter(cfg *config.AdminConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(AdminAuth(cfg))
	router.POST("/admin/products", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})
	return router
}

func adminRequest(router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/products", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAdminAuthMissingKey(t *testing.T) {
	router := adminRouter(&config.AdminConfig{SecretKey: "super-secret"})
	w := adminRequest(router, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAdminAuthWrongKey(t *testing.T) {
	router := adminRouter(&config.AdminConfig{SecretKey: "super-secret"})
	w := adminRequest(router, map[string]string{"X-Admin-Key": "guess"})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestAdminAuthCorrectKey(t *testing.T) {
	router := adminRouter(&config.AdminConfig{SecretKey: "super-secret"})
	w := adminRequest(router, map[string]string{"X-Admin-Key": "super-secret"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthChecksAdminID(t *testing.T) {
	cfg := &config.AdminConfig{SecretKey: "super-secret", AdminID: "ops-1"}
	router := adminRouter(cfg)

	w := adminRequest(router, map[string]string{"X-Admin-Key": "super-secret"})
	assert.Equal(t, http.StatusForbidden, w.Code, "missing admin id must be rejected when one is configured")

	w = adminRequest(router, map[string]string{"X-Admin-Key": "super-secret", "X-Admin-ID": "ops-2"})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = adminRequest(router, map[string]string{"X-Admin-Key": "super-secret", "X-Admin-ID": "ops-1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminAuthUnconfigured(t *testing.T) {
	router := adminRouter(&config.AdminConfig{})
	w := adminRequest(router, map[string]string{"X-Admin-Key": ""})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code, "an empty configured key must never grant access")
}
