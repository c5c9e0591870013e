package payment

import (
	"context"
	"fmt"
)

// Gateway is the third-party payment processor used by checkout.
type Gateway interface {
	Name() string
	// PublicKey is handed to the client to open the gateway checkout.
	PublicKey() string
	CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error)
	// VerifyPayment reports whether paymentID is a genuine, successful
	// payment for orderID. A false result with a nil error means the
	// confirmation was forged or does not belong to the order.
	VerifyPayment(ctx context.Context, request *VerifyRequest) (bool, error)
}

type OrderRequest struct {
	Amount   int64             `json:"amount"` // minor units
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

type Order struct {
	ID           string `json:"id"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
	ClientSecret string `json:"client_secret,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

type VerifyRequest struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// GatewayError wraps a failure reported by, or talking to, the processor.
type GatewayError struct {
	Gateway string
	Op      string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Gateway, e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// callWithContext runs a blocking SDK call that has no context support and
// gives up when ctx is done.
func callWithContext[T any](ctx context.Context, call func() (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	done := make(chan result, 1)
	go func() {
		v, err := call()
		done <- result{value: v, err: err}
	}()

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case r := <-done:
		return r.value, r.err
	}
}
