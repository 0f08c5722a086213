// internal/domain/payment/gateway.go
package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/trippydrip/storefront-backend/internal/config"
	"github.com/trippydrip/storefront-backend/internal/pkg/apperr"
)

// GatewayOrder is the gateway's record of an order awaiting payment.
// Its ID is what the browser checkout widget is opened with.
type GatewayOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

// Gateway creates orders with the payment provider
type Gateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error)
}

// RazorpayClient talks to the Razorpay Orders API
type RazorpayClient struct {
	config     *config.RazorpayConfig
	httpClient *http.Client
}

// NewRazorpayClient creates a Razorpay gateway client
func NewRazorpayClient(cfg *config.RazorpayConfig) *RazorpayClient {
	return &RazorpayClient{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// CreateOrder registers an order with the gateway. Amount is in minor
// currency units, which is also what Razorpay expects.
func (c *RazorpayClient) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*GatewayOrder, error) {
	payload := map[string]interface{}{
		"amount":          amount,
		"currency":        currency,
		"receipt":         receipt,
		"payment_capture": 1,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, &apperr.GatewayError{Op: "create order", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+"/orders", bytes.NewReader(body))
	if err != nil {
		return nil, &apperr.GatewayError{Op: "create order", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.config.KeyID, c.config.KeySecret)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &apperr.GatewayError{Op: "create order", Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &apperr.GatewayError{Op: "create order", StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &apperr.GatewayError{
			Op:         "create order",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected response: %s", data),
		}
	}

	var gatewayOrder GatewayOrder
	if err := json.Unmarshal(data, &gatewayOrder); err != nil {
		return nil, &apperr.GatewayError{Op: "create order", StatusCode: resp.StatusCode, Err: err}
	}
	if gatewayOrder.ID == "" {
		return nil, &apperr.GatewayError{
			Op:         "create order",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("response missing order id"),
		}
	}

	return &gatewayOrder, nil
}

// VerifySignature checks the checkout callback signature: HMAC-SHA256
// over "<order_id>|<payment_id>" with the key secret, hex encoded. The
// comparison is constant time.
func VerifySignature(gatewayOrderID, gatewayPaymentID, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(gatewayOrderID + "|" + gatewayPaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// VerifyWebhookSignature checks a webhook delivery: HMAC-SHA256 over
// the raw request body with the webhook secret.
func VerifyWebhookSignature(body []byte, signature, secret string) bool {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
