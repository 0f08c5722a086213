package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/domain/product"
)

// productRouter wires the handler over a service with no database.
// Requests that are rejected at the JSON boundary never reach it; one
// that slipped through would panic and fail the test.
func productRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewProductHandler(product.NewService(nil, &config.Config{}))

	router := gin.New()
	router.POST("/admin/products", handler.CreateProduct)
	return router
}

func postProduct(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/products", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestCreateProductNonNumericPrice(t *testing.T) {
	router := productRouter()

	w := postProduct(router, `{"id":"tee-new","name":"New Tee","price":"abc","colors":["black"]}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid request data")
}

func TestCreateProductMalformedJSON(t *testing.T) {
	router := productRouter()

	w := postProduct(router, `{"id":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateProductMissingFieldsListedAtOnce(t *testing.T) {
	router := productRouter()

	// Well-formed JSON with every required field missing: this reaches
	// validation, which must report all fields without touching storage.
	w := postProduct(router, `{"description":"just a description"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "id")
	assert.Contains(t, body, "name")
	assert.Contains(t, body, "price")
	assert.Contains(t, body, "colors")
}
