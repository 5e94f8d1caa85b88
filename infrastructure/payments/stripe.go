// Package payments adapts the Stripe SDK to the service layer's
// PaymentProvider boundary.
package payments

import (
	"context"
	"fmt"

	"mailvault/services"

	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(apiKey string) *StripeProvider {
	return &StripeProvider{api: client.New(apiKey, nil)}
}

// CreateCheckoutSession opens a hosted checkout page for either a
// subscription or a one-off payment.
func (p *StripeProvider) CreateCheckoutSession(ctx context.Context, cp services.CheckoutParams) (services.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(cp.Mode)),
		CustomerEmail: stripe.String(cp.CustomerEmail),
		SuccessURL:    stripe.String(cp.SuccessURL),
		CancelURL:     stripe.String(cp.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(cp.PriceRef),
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.Context = ctx
	for k, v := range cp.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return services.CheckoutSession{}, fmt.Errorf("checkout session creation failed: %w", err)
	}
	return services.CheckoutSession{ID: sess.ID, URL: sess.URL}, nil
}
