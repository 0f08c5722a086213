package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
)

func sign(payload, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	secret := "test_key_secret"
	orderID := "order_ABC123"
	paymentID := "pay_XYZ789"
	good := sign(orderID+"|"+paymentID, secret)

	assert.True(t, VerifySignature(orderID, paymentID, good, secret))
	assert.False(t, VerifySignature(orderID, paymentID, "deadbeef", secret))
	assert.False(t, VerifySignature(orderID, paymentID, good, "wrong_secret"))
	assert.False(t, VerifySignature(orderID, "pay_other", good, secret))
	assert.False(t, VerifySignature(orderID, paymentID, "", secret))
}

func TestVerifyWebhookSignature(t *testing.T) {
	secret := "webhook_secret"
	body := []byte(`{"event":"payment.captured"}`)

	assert.True(t, VerifyWebhookSignature(body, sign(string(body), secret), secret))
	assert.False(t, VerifyWebhookSignature(body, sign(string(body), "other"), secret))
	assert.False(t, VerifyWebhookSignature([]byte(`{}`), sign(string(body), secret), secret))
}

func newTestClient(baseURL string) *RazorpayClient {
	return NewRazorpayClient(&config.RazorpayConfig{
		KeyID:     "rzp_test_key",
		KeySecret: "rzp_test_secret",
		BaseURL:   baseURL,
		Timeout:   5 * time.Second,
	})
}

func TestCreateOrder(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orders", r.URL.Path)
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"order_ABC123","amount":19798,"currency":"INR","receipt":"TD-20260829-7F3A2B1C","status":"created"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	gatewayOrder, err := client.CreateOrder(context.Background(), 19798, "INR", "TD-20260829-7F3A2B1C")
	require.NoError(t, err)

	assert.Equal(t, "order_ABC123", gatewayOrder.ID)
	assert.Equal(t, int64(19798), gatewayOrder.Amount)
	assert.Equal(t, "INR", gatewayOrder.Currency)
}

func TestCreateOrderGatewayRejects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":{"description":"amount too small"}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), 1, "INR", "rcpt")
	require.Error(t, err)
	require.True(t, apperr.IsGateway(err))

	var ge *apperr.GatewayError
	require.ErrorAs(t, err, &ge)
	assert.Equal(t, http.StatusBadRequest, ge.StatusCode)
}

func TestCreateOrderTransportFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // refuse connections

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), 19798, "INR", "rcpt")
	require.Error(t, err)
	assert.True(t, apperr.IsGateway(err))
}

func TestCreateOrderMissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"created"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.CreateOrder(context.Background(), 19798, "INR", "rcpt")
	require.Error(t, err)
	assert.True(t, apperr.IsGateway(err))
}
