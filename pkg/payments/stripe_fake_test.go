package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const testWebhookSecret = "whsec_test_secret"

// fakeStripeClient is an in-memory stand-in for the Stripe API. Create
// calls are recorded for assertion; retrievals are served from the
// object maps so tests can control which sub-objects come back
// expanded versus as bare identifier stubs.
type fakeStripeClient struct {
	paymentIntents map[string]*stripe.PaymentIntent
	subscriptions  map[string]*stripe.Subscription
	invoices       map[string]*stripe.Invoice
	charges        map[string]*stripe.Charge
	customers      map[string]*stripe.Customer
	sessions       map[string]*stripe.CheckoutSession

	createdPrices   []*stripe.PriceParams
	createdSessions []*stripe.CheckoutSessionParams

	newSessionErr error
	getErr        error

	fetches []string
}

func newFakeStripeClient() *fakeStripeClient {
	return &fakeStripeClient{
		paymentIntents: make(map[string]*stripe.PaymentIntent),
		subscriptions:  make(map[string]*stripe.Subscription),
		invoices:       make(map[string]*stripe.Invoice),
		charges:        make(map[string]*stripe.Charge),
		customers:      make(map[string]*stripe.Customer),
		sessions:       make(map[string]*stripe.CheckoutSession),
	}
}

func (f *fakeStripeClient) NewCheckoutSession(_ context.Context, params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if f.newSessionErr != nil {
		return nil, f.newSessionErr
	}
	f.createdSessions = append(f.createdSessions, params)
	return &stripe.CheckoutSession{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.com/c/pay/cs_test_1",
	}, nil
}

func (f *fakeStripeClient) GetCheckoutSession(_ context.Context, id string, _ *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	sess, ok := f.sessions[id]
	if !ok {
		return nil, &stripe.Error{Msg: fmt.Sprintf("No such checkout session: %s", id)}
	}
	return sess, nil
}

func (f *fakeStripeClient) NewPrice(_ context.Context, params *stripe.PriceParams) (*stripe.Price, error) {
	f.createdPrices = append(f.createdPrices, params)
	return &stripe.Price{ID: fmt.Sprintf("price_test_%d", len(f.createdPrices))}, nil
}

func (f *fakeStripeClient) GetPaymentIntent(_ context.Context, id string) (*stripe.PaymentIntent, error) {
	f.fetches = append(f.fetches, "payment_intent:"+id)
	if pi, ok := f.paymentIntents[id]; ok {
		return pi, nil
	}
	return nil, &stripe.Error{Msg: fmt.Sprintf("No such payment intent: %s", id)}
}

func (f *fakeStripeClient) GetSubscription(_ context.Context, id string) (*stripe.Subscription, error) {
	f.fetches = append(f.fetches, "subscription:"+id)
	if sub, ok := f.subscriptions[id]; ok {
		return sub, nil
	}
	return nil, &stripe.Error{Msg: fmt.Sprintf("No such subscription: %s", id)}
}

func (f *fakeStripeClient) GetInvoice(_ context.Context, id string) (*stripe.Invoice, error) {
	f.fetches = append(f.fetches, "invoice:"+id)
	if inv, ok := f.invoices[id]; ok {
		return inv, nil
	}
	return nil, &stripe.Error{Msg: fmt.Sprintf("No such invoice: %s", id)}
}

func (f *fakeStripeClient) GetCharge(_ context.Context, id string) (*stripe.Charge, error) {
	f.fetches = append(f.fetches, "charge:"+id)
	if ch, ok := f.charges[id]; ok {
		return ch, nil
	}
	return nil, &stripe.Error{Msg: fmt.Sprintf("No such charge: %s", id)}
}

func (f *fakeStripeClient) GetCustomer(_ context.Context, id string) (*stripe.Customer, error) {
	f.fetches = append(f.fetches, "customer:"+id)
	if cust, ok := f.customers[id]; ok {
		return cust, nil
	}
	return nil, &stripe.Error{Msg: fmt.Sprintf("No such customer: %s", id)}
}

// ConstructEvent runs real signature verification against the test
// signing secret.
func (f *fakeStripeClient) ConstructEvent(payload []byte, sigHeader string) (stripe.Event, error) {
	return webhook.ConstructEvent(payload, sigHeader, testWebhookSecret)
}
