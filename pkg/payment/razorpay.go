package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/razorpay/razorpay-go"
)

const GatewayRazorpay = "razorpay"

type RazorpayGateway struct {
	client    *razorpay.Client
	keyID     string
	keySecret string
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		keyID:     keyID,
		keySecret: keySecret,
	}
}

func (r *RazorpayGateway) Name() string {
	return GatewayRazorpay
}

func (r *RazorpayGateway) PublicKey() string {
	return r.keyID
}

func (r *RazorpayGateway) CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	notes := make(map[string]interface{}, len(request.Notes))
	for k, v := range request.Notes {
		notes[k] = v
	}

	orderData := map[string]interface{}{
		"amount":   request.Amount, // paise
		"currency": strings.ToUpper(request.Currency),
		"receipt":  request.Receipt,
		"notes":    notes,
	}

	order, err := callWithContext(ctx, func() (map[string]interface{}, error) {
		return r.client.Order.Create(orderData, nil)
	})
	if err != nil {
		return nil, &GatewayError{Gateway: GatewayRazorpay, Op: "create order", Err: err}
	}

	return parseRazorpayOrder(order)
}

// VerifyPayment checks the checkout signature, hex(HMAC-SHA256(order_id|payment_id)).
func (r *RazorpayGateway) VerifyPayment(ctx context.Context, request *VerifyRequest) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if request.Signature == "" || request.OrderID == "" || request.PaymentID == "" {
		return false, nil
	}

	expected := SignRazorpayPayment(request.OrderID, request.PaymentID, r.keySecret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(request.Signature))), nil
}

// SignRazorpayPayment computes the signature Razorpay returns to the client
// after a successful checkout.
func SignRazorpayPayment(orderID, paymentID, keySecret string) string {
	h := hmac.New(sha256.New, []byte(keySecret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func parseRazorpayOrder(order map[string]interface{}) (*Order, error) {
	id, ok := order["id"].(string)
	if !ok || id == "" {
		return nil, &GatewayError{Gateway: GatewayRazorpay, Op: "create order", Err: fmt.Errorf("response has no order id")}
	}

	amount, err := toInt64(order["amount"])
	if err != nil {
		return nil, &GatewayError{Gateway: GatewayRazorpay, Op: "create order", Err: fmt.Errorf("amount: %w", err)}
	}

	createdAt, _ := toInt64(order["created_at"])
	currency, _ := order["currency"].(string)
	status, _ := order["status"].(string)

	return &Order{
		ID:        id,
		Amount:    amount,
		Currency:  currency,
		Status:    status,
		CreatedAt: createdAt,
	}, nil
}

// toInt64 normalises numbers decoded from the SDK's JSON maps.
func toInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int:
		return int64(n), nil
	case int64:
		return n, nil
	case json.Number:
		return n.Int64()
	case nil:
		return 0, fmt.Errorf("missing value")
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}
