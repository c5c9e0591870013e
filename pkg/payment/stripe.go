package payment

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

const GatewayStripe = "stripe"

// StripeGateway maps a checkout order onto a PaymentIntent. The intent id
// plays the role of the gateway order id.
type StripeGateway struct {
	client         *client.API
	publishableKey string
}

func NewStripeGateway(secretKey, publishableKey string) *StripeGateway {
	return NewStripeGatewayWithBackends(secretKey, publishableKey, nil)
}

// NewStripeGatewayWithBackends allows pointing the SDK at a different API host.
func NewStripeGatewayWithBackends(secretKey, publishableKey string, backends *stripe.Backends) *StripeGateway {
	sc := &client.API{}
	sc.Init(secretKey, backends)

	return &StripeGateway{
		client:         sc,
		publishableKey: publishableKey,
	}
}

func (s *StripeGateway) Name() string {
	return GatewayStripe
}

func (s *StripeGateway) PublicKey() string {
	return s.publishableKey
}

func (s *StripeGateway) CreateOrder(ctx context.Context, request *OrderRequest) (*Order, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(request.Amount),
		Currency: stripe.String(strings.ToLower(request.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(request.Receipt)
	params.AddMetadata("receipt", request.Receipt)
	for key, value := range request.Notes {
		params.AddMetadata(key, value)
	}

	pi, err := s.client.PaymentIntents.New(params)
	if err != nil {
		return nil, &GatewayError{Gateway: GatewayStripe, Op: "create payment intent", Err: err}
	}

	return &Order{
		ID:           pi.ID,
		Amount:       pi.Amount,
		Currency:     strings.ToUpper(string(pi.Currency)),
		Status:       string(pi.Status),
		ClientSecret: pi.ClientSecret,
		CreatedAt:    pi.Created,
	}, nil
}

// VerifyPayment fetches the intent and accepts it only when it succeeded and
// paymentID names the intent or its latest charge.
func (s *StripeGateway) VerifyPayment(ctx context.Context, request *VerifyRequest) (bool, error) {
	if request.OrderID == "" || request.PaymentID == "" {
		return false, nil
	}

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := s.client.PaymentIntents.Get(request.OrderID, params)
	if err != nil {
		var stripeErr *stripe.Error
		if errors.As(err, &stripeErr) && stripeErr.HTTPStatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, &GatewayError{Gateway: GatewayStripe, Op: "retrieve payment intent", Err: err}
	}

	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		return false, nil
	}

	if request.PaymentID == pi.ID {
		return true, nil
	}
	return pi.LatestCharge != nil && pi.LatestCharge.ID == request.PaymentID, nil
}
