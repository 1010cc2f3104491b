package payments

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/thecloudsteward/proposals/pkg/models"
)

// GetCheckoutSessionDetails queries the processor for a session and
// reduces the heterogeneous response shapes (payment vs. subscription
// mode, expanded vs. bare sub-objects) into a single stable outcome for
// the confirmation page.
func (s *Service) GetCheckoutSessionDetails(ctx context.Context, sessionID string) (*models.SessionOutcome, error) {
	params := &stripe.CheckoutSessionParams{}
	params.AddExpand("payment_intent")
	params.AddExpand("subscription")
	params.AddExpand("customer")

	sess, err := s.client.GetCheckoutSession(ctx, sessionID, params)
	if err != nil {
		return nil, providerError(err)
	}

	outcome := &models.SessionOutcome{}

	if name, err := s.resolveCustomerName(ctx, sess); err != nil {
		return nil, err
	} else {
		outcome.CustomerName = name
	}

	var charge *stripe.Charge
	switch sess.Mode {
	case stripe.CheckoutSessionModePayment:
		charge, err = s.resolvePaymentOutcome(ctx, sess, outcome)
	case stripe.CheckoutSessionModeSubscription:
		charge, err = s.resolveSubscriptionOutcome(ctx, sess, outcome)
	default:
		return nil, fmt.Errorf("unsupported session mode %q", sess.Mode)
	}
	if err != nil {
		return nil, err
	}

	// No resolvable charge (e.g. a trialing subscription with nothing
	// due today) means no receipt yet, not an error.
	if charge != nil && charge.ReceiptURL != "" {
		url := charge.ReceiptURL
		outcome.ReceiptURL = &url
	}

	return outcome, nil
}

// resolvePaymentOutcome fills amount and currency from the session's
// payment intent and returns its latest charge when one exists.
func (s *Service) resolvePaymentOutcome(ctx context.Context, sess *stripe.CheckoutSession, outcome *models.SessionOutcome) (*stripe.Charge, error) {
	intent, err := s.resolvePaymentIntent(ctx, sess.PaymentIntent)
	if err != nil {
		return nil, providerError(err)
	}
	if intent == nil {
		return nil, fmt.Errorf("session %s has no payment intent", sess.ID)
	}

	outcome.AmountTotal = intent.Amount
	outcome.Currency = string(intent.Currency)

	charge, err := s.resolveCharge(ctx, intent.LatestCharge)
	if err != nil {
		return nil, providerError(err)
	}
	return charge, nil
}

// resolveSubscriptionOutcome fills amount and currency from the latest
// invoice and resolves the receipt charge, preferring the invoice's
// payment intent and falling back to its direct charge reference.
func (s *Service) resolveSubscriptionOutcome(ctx context.Context, sess *stripe.CheckoutSession, outcome *models.SessionOutcome) (*stripe.Charge, error) {
	sub, err := resolveRef(sess.Subscription,
		func(v *stripe.Subscription) bool { return v.Status != "" },
		func(v *stripe.Subscription) string { return v.ID },
		func(id string) (*stripe.Subscription, error) { return s.client.GetSubscription(ctx, id) },
	)
	if err != nil {
		return nil, providerError(err)
	}
	if sub == nil {
		return nil, fmt.Errorf("session %s has no subscription", sess.ID)
	}

	invoice, err := resolveRef(sub.LatestInvoice,
		func(v *stripe.Invoice) bool { return v.Status != "" },
		func(v *stripe.Invoice) string { return v.ID },
		func(id string) (*stripe.Invoice, error) { return s.client.GetInvoice(ctx, id) },
	)
	if err != nil {
		return nil, providerError(err)
	}
	if invoice == nil {
		return nil, fmt.Errorf("subscription %s has no invoice", sub.ID)
	}

	outcome.AmountTotal = invoice.AmountPaid
	outcome.Currency = string(invoice.Currency)

	intent, err := s.resolvePaymentIntent(ctx, invoice.PaymentIntent)
	if err != nil {
		return nil, providerError(err)
	}
	if intent != nil {
		charge, err := s.resolveCharge(ctx, intent.LatestCharge)
		if err != nil {
			return nil, providerError(err)
		}
		if charge != nil {
			return charge, nil
		}
	}

	charge, err := s.resolveCharge(ctx, invoice.Charge)
	if err != nil {
		return nil, providerError(err)
	}
	return charge, nil
}

// resolveCustomerName prefers the inline customer_details on the
// session and falls back to fetching the customer object.
func (s *Service) resolveCustomerName(ctx context.Context, sess *stripe.CheckoutSession) (string, error) {
	if sess.CustomerDetails != nil && sess.CustomerDetails.Name != "" {
		return sess.CustomerDetails.Name, nil
	}

	cust, err := resolveRef(sess.Customer,
		func(v *stripe.Customer) bool { return v.Created != 0 },
		func(v *stripe.Customer) string { return v.ID },
		func(id string) (*stripe.Customer, error) { return s.client.GetCustomer(ctx, id) },
	)
	if err != nil {
		return "", providerError(err)
	}
	if cust == nil {
		return "", nil
	}
	return cust.Name, nil
}

func (s *Service) resolvePaymentIntent(ctx context.Context, intent *stripe.PaymentIntent) (*stripe.PaymentIntent, error) {
	return resolveRef(intent,
		func(v *stripe.PaymentIntent) bool { return v.Status != "" },
		func(v *stripe.PaymentIntent) string { return v.ID },
		func(id string) (*stripe.PaymentIntent, error) { return s.client.GetPaymentIntent(ctx, id) },
	)
}

func (s *Service) resolveCharge(ctx context.Context, charge *stripe.Charge) (*stripe.Charge, error) {
	return resolveRef(charge,
		func(v *stripe.Charge) bool { return v.Status != "" },
		func(v *stripe.Charge) string { return v.ID },
		func(id string) (*stripe.Charge, error) { return s.client.GetCharge(ctx, id) },
	)
}
