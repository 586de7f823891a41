package client

import (
	"context"

	"shopease-backend/internal/config"

	"github.com/stripe/stripe-go/v80"
	"github.com/stripe/stripe-go/v80/checkout/session"
	"github.com/stripe/stripe-go/v80/webhook"
)

type CheckoutLineItem struct {
	Name       string
	UnitAmount int64 // minor units
	Quantity   int64
}

type CreateSessionParams struct {
	LineItems  []CheckoutLineItem
	Currency   string
	SuccessURL string
	CancelURL  string
	Metadata   map[string]string
}

type CreateSessionResponse struct {
	SessionID   string
	RedirectURL string
}

// PaymentGateway wraps the payment provider: session creation on the way
// out, signed-event parsing on the way back in.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, params *CreateSessionParams) (*CreateSessionResponse, error)
	ParseEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

type stripeGatewayImpl struct {
	webhookSecret string
}

func NewStripeGateway(cfg *config.Stripe) PaymentGateway {
	stripe.Key = cfg.SecretKey
	return &stripeGatewayImpl{webhookSecret: cfg.WebhookSecret}
}

func (g *stripeGatewayImpl) CreateCheckoutSession(ctx context.Context, p *CreateSessionParams) (*CreateSessionResponse, error) {
	lineItems := make([]*stripe.CheckoutSessionLineItemParams, 0, len(p.LineItems))
	for _, item := range p.LineItems {
		lineItems = append(lineItems, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency:   stripe.String(p.Currency),
				UnitAmount: stripe.Int64(item.UnitAmount),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
			},
			Quantity: stripe.Int64(item.Quantity),
		})
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems:          lineItems,
		SuccessURL:         stripe.String(p.SuccessURL),
		CancelURL:          stripe.String(p.CancelURL),
	}
	params.Context = ctx
	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	sess, err := session.New(params)
	if err != nil {
		return nil, err
	}

	return &CreateSessionResponse{
		SessionID:   sess.ID,
		RedirectURL: sess.URL,
	}, nil
}

func (g *stripeGatewayImpl) ParseEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, g.webhookSecret)
}
