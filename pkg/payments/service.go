package payments

import (
	"context"
	"fmt"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/thecloudsteward/proposals/pkg/logger"
	"github.com/thecloudsteward/proposals/pkg/metrics"
	"github.com/thecloudsteward/proposals/pkg/models"
	"github.com/thecloudsteward/proposals/pkg/pages"
	"github.com/thecloudsteward/proposals/pkg/pricing"
)

// DefaultPlanTitle labels the recurring price when the checkout request
// does not name one.
const DefaultPlanTitle = "Ongoing Support Plan"

// Config holds checkout behavior settings
type Config struct {
	// SiteURL is the base for success/cancel redirects.
	SiteURL string

	// TrialPeriodDays applies a trial to bundled subscriptions when
	// greater than zero. Default is no trial.
	TrialPeriodDays int
}

// Service orchestrates checkout sessions against the payment processor.
// It holds no state of its own; every request is resolved from the page
// store and the processor.
type Service struct {
	client  StripeClient
	store   *pages.Store
	config  *Config
	log     logger.Logger
	metrics *metrics.Metrics
}

// NewService creates a new payments service
func NewService(stripeClient StripeClient, store *pages.Store, config *Config, log logger.Logger, m *metrics.Metrics) *Service {
	return &Service{
		client:  stripeClient,
		store:   store,
		config:  config,
		log:     log,
		metrics: m,
	}
}

// CreateCheckoutSession builds a Stripe checkout session for the given
// proposal and pricing option and returns the hosted checkout URL.
func (s *Service) CreateCheckoutSession(ctx context.Context, req *models.CheckoutRequest) (*models.CheckoutResponse, error) {
	rec, err := s.store.Get(ctx, req.Slug)
	if err != nil {
		return nil, err
	}

	quote, err := pricing.Resolve(rec, req.Option)
	if err != nil {
		return nil, err
	}

	var sess *stripe.CheckoutSession
	switch quote.Mode {
	case pricing.ModePayment:
		sess, err = s.createPaymentSession(ctx, rec, quote, req.Email)
	case pricing.ModeSubscription:
		sess, err = s.createSubscriptionSession(ctx, rec, quote, req.Email, req.PlanTitle)
	default:
		return nil, fmt.Errorf("unhandled pricing mode %q", quote.Mode)
	}
	if err != nil {
		s.log.Error("checkout session creation failed", "slug", req.Slug, "option", req.Option, "error", err)
		return nil, err
	}

	s.metrics.RecordCheckoutSession(string(quote.Mode))
	s.log.Info("checkout session created", "slug", req.Slug, "option", req.Option, "mode", string(quote.Mode))

	return &models.CheckoutResponse{URL: sess.URL}, nil
}

// createPaymentSession issues a single-payment session with one inline
// line item for the full project price.
func (s *Service) createPaymentSession(ctx context.Context, rec *pages.ProposalRecord, quote *pricing.Quote, email string) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyUSD)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(projectLabel(rec)),
					},
					UnitAmount: stripe.Int64(quote.OneTimeAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL()),
		CancelURL:  stripe.String(s.cancelURL(rec.Slug)),
	}

	if email != "" {
		params.CustomerEmail = stripe.String(email)
		params.PaymentIntentData = &stripe.CheckoutSessionPaymentIntentDataParams{
			ReceiptEmail: stripe.String(email),
		}
	}

	sess, err := s.client.NewCheckoutSession(ctx, params)
	if err != nil {
		return nil, providerError(err)
	}
	return sess, nil
}

// createSubscriptionSession creates two processor-side prices (one-time
// project fee plus monthly recurring) and a subscription-mode session
// referencing both.
func (s *Service) createSubscriptionSession(ctx context.Context, rec *pages.ProposalRecord, quote *pricing.Quote, email, planTitle string) (*stripe.CheckoutSession, error) {
	if planTitle == "" {
		planTitle = DefaultPlanTitle
	}

	oneTime, err := s.client.NewPrice(ctx, &stripe.PriceParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(quote.OneTimeAmount),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(projectLabel(rec)),
		},
	})
	if err != nil {
		return nil, providerError(err)
	}

	recurring, err := s.client.NewPrice(ctx, &stripe.PriceParams{
		Currency:   stripe.String(string(stripe.CurrencyUSD)),
		UnitAmount: stripe.Int64(quote.RecurringAmount),
		ProductData: &stripe.PriceProductDataParams{
			Name: stripe.String(planTitle),
		},
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
	})
	if err != nil {
		return nil, providerError(err)
	}

	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(oneTime.ID),
				Quantity: stripe.Int64(1),
			},
			{
				Price:    stripe.String(recurring.ID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.successURL()),
		CancelURL:  stripe.String(s.cancelURL(rec.Slug)),
	}

	if email != "" {
		params.CustomerEmail = stripe.String(email)
	}

	if s.config.TrialPeriodDays > 0 {
		params.SubscriptionData = &stripe.CheckoutSessionSubscriptionDataParams{
			TrialPeriodDays: stripe.Int64(int64(s.config.TrialPeriodDays)),
		}
	}

	sess, err := s.client.NewCheckoutSession(ctx, params)
	if err != nil {
		return nil, providerError(err)
	}
	return sess, nil
}

func (s *Service) successURL() string {
	return strings.TrimRight(s.config.SiteURL, "/") + "/success?session_id={CHECKOUT_SESSION_ID}"
}

func (s *Service) cancelURL(slug string) string {
	return strings.TrimRight(s.config.SiteURL, "/") + "/" + slug
}

func projectLabel(rec *pages.ProposalRecord) string {
	return fmt.Sprintf("%s Project", rec.CompanyName)
}
