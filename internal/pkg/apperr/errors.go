// internal/pkg/apperr/errors.go
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for classification with errors.Is.
var (
	// ErrAuthRequired means the caller must sign in before retrying.
	ErrAuthRequired = errors.New("authentication required")
	// ErrNotFound means the requested entity does not exist. It is
	// deliberately distinct from transport failures.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means a unique identifier is already taken.
	ErrAlreadyExists = errors.New("already exists")
)

// ValidationError reports bad input that never reached the network or
// the database. Fields lists what was missing or invalid.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, strings.Join(e.Fields, ", "))
}

// NewValidation creates a ValidationError
func NewValidation(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// GatewayError reports a failed interaction with an external service:
// a transport failure, a non-2xx response, or a malformed payload.
type GatewayError struct {
	Op         string // e.g. "create order"
	StatusCode int    // zero when the request never completed
	Err        error
}

func (e *GatewayError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("gateway %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("gateway %s failed: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// IsGateway reports whether err is a GatewayError
func IsGateway(err error) bool {
	var ge *GatewayError
	return errors.As(err, &ge)
}

// VerificationError reports a payment signature mismatch or a failed
// verification call. It is terminal for the checkout attempt: callers
// must never retry it automatically.
type VerificationError struct {
	OrderID string
	Reason  string
}

func (e *VerificationError) Error() string {
	return fmt.Sprintf("payment verification failed for order %s: %s", e.OrderID, e.Reason)
}

// IsVerification reports whether err is a VerificationError
func IsVerification(err error) bool {
	var ve *VerificationError
	return errors.As(err, &ve)
}

// NotFound wraps ErrNotFound with entity context
func NotFound(entity, id string) error {
	return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
}
