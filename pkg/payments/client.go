package payments

import (
	"context"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// StripeClient is the slice of the Stripe API this service uses.
// Constructed once at startup and injected, instead of the package-level
// stripe.Key global, so tests can substitute a fake processor.
type StripeClient interface {
	NewCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	NewPrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error)
	GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error)
	GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error)
	GetInvoice(ctx context.Context, id string) (*stripe.Invoice, error)
	GetCharge(ctx context.Context, id string) (*stripe.Charge, error)
	GetCustomer(ctx context.Context, id string) (*stripe.Customer, error)
	ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error)
}

// Client wraps the official Stripe client with a fixed request timeout.
type Client struct {
	api           *client.API
	webhookSecret string
}

// NewClient creates a Stripe client. Calls that exceed timeout fail and
// surface as provider errors; no retries are performed.
func NewClient(secretKey, webhookSecret string, timeout time.Duration) *Client {
	backends := stripe.NewBackends(&http.Client{Timeout: timeout})
	return &Client{
		api:           client.New(secretKey, backends),
		webhookSecret: webhookSecret,
	}
}

// NewCheckoutSession creates a hosted checkout session
func (c *Client) NewCheckoutSession(ctx context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	params.Context = ctx
	return c.api.CheckoutSessions.New(params)
}

// GetCheckoutSession retrieves a checkout session with optional expansions
func (c *Client) GetCheckoutSession(ctx context.Context, id string, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if params == nil {
		params = &stripe.CheckoutSessionParams{}
	}
	params.Context = ctx
	return c.api.CheckoutSessions.Get(id, params)
}

// NewPrice creates a price object
func (c *Client) NewPrice(ctx context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	params.Context = ctx
	return c.api.Prices.New(params)
}

// GetPaymentIntent retrieves a payment intent by identifier
func (c *Client) GetPaymentIntent(ctx context.Context, id string) (*stripe.PaymentIntent, error) {
	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	return c.api.PaymentIntents.Get(id, params)
}

// GetSubscription retrieves a subscription by identifier
func (c *Client) GetSubscription(ctx context.Context, id string) (*stripe.Subscription, error) {
	params := &stripe.SubscriptionParams{}
	params.Context = ctx
	return c.api.Subscriptions.Get(id, params)
}

// GetInvoice retrieves an invoice by identifier
func (c *Client) GetInvoice(ctx context.Context, id string) (*stripe.Invoice, error) {
	params := &stripe.InvoiceParams{}
	params.Context = ctx
	return c.api.Invoices.Get(id, params)
}

// GetCharge retrieves a charge by identifier
func (c *Client) GetCharge(ctx context.Context, id string) (*stripe.Charge, error) {
	params := &stripe.ChargeParams{}
	params.Context = ctx
	return c.api.Charges.Get(id, params)
}

// GetCustomer retrieves a customer by identifier
func (c *Client) GetCustomer(ctx context.Context, id string) (*stripe.Customer, error) {
	params := &stripe.CustomerParams{}
	params.Context = ctx
	return c.api.Customers.Get(id, params)
}

// ConstructEvent verifies a webhook payload against its signature
// header using the shared signing secret.
func (c *Client) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, c.webhookSecret)
}
