package payments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/thecloudsteward/proposals/pkg/logger"
	"github.com/thecloudsteward/proposals/pkg/metrics"
)

// ErrInvalidSignature is returned when a webhook payload fails
// signature verification or is not valid JSON.
var ErrInvalidSignature = errors.New("invalid webhook signature")

// Notifier sends the follow-up email after a successful payment.
type Notifier interface {
	SendPaymentInstructions(toEmail string, amountPaid int64, currency string) error
}

// WebhookService verifies and dispatches inbound Stripe events.
type WebhookService struct {
	client   StripeClient
	notifier Notifier
	log      logger.Logger
	metrics  *metrics.Metrics
}

// NewWebhookService creates a new webhook service
func NewWebhookService(stripeClient StripeClient, notifier Notifier, log logger.Logger, m *metrics.Metrics) *WebhookService {
	return &WebhookService{
		client:   stripeClient,
		notifier: notifier,
		log:      log,
		metrics:  m,
	}
}

// HandleEvent verifies the signed payload and dispatches on event type.
// Verification failures are returned to the caller (rejected with 400);
// once verified, downstream failures are logged and swallowed so the
// processor never retries because of a notification problem.
func (s *WebhookService) HandleEvent(ctx context.Context, payload []byte, sigHeader string) error {
	event, err := s.client.ConstructEvent(payload, sigHeader)
	if err != nil {
		s.metrics.RecordWebhookEvent("unknown", "rejected")
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	switch event.Type {
	case "checkout.session.completed":
		s.handleCheckoutCompleted(event)
	case "invoice.payment_succeeded":
		s.handleInvoicePaymentSucceeded(event)
	default:
		s.log.Debug("ignoring webhook event", "type", string(event.Type))
		s.metrics.RecordWebhookEvent(string(event.Type), "ignored")
	}

	return nil
}

func (s *WebhookService) handleCheckoutCompleted(event stripe.Event) {
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		s.log.Error("failed to unmarshal checkout session", "event", event.ID, "error", err)
		s.metrics.RecordWebhookEvent(string(event.Type), "ignored")
		return
	}

	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}
	if email == "" {
		s.log.Warn("checkout completed without customer email", "session", sess.ID)
		s.metrics.RecordWebhookEvent(string(event.Type), "ignored")
		return
	}

	s.notify(email, sess.AmountTotal, string(sess.Currency), sess.ID)
	s.metrics.RecordWebhookEvent(string(event.Type), "handled")
}

func (s *WebhookService) handleInvoicePaymentSucceeded(event stripe.Event) {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		s.log.Error("failed to unmarshal invoice", "event", event.ID, "error", err)
		s.metrics.RecordWebhookEvent(string(event.Type), "ignored")
		return
	}

	// Only the first invoice of a new subscription triggers onboarding.
	if invoice.BillingReason != stripe.InvoiceBillingReasonSubscriptionCreate || invoice.CustomerEmail == "" {
		s.metrics.RecordWebhookEvent(string(event.Type), "ignored")
		return
	}

	s.notify(invoice.CustomerEmail, invoice.AmountPaid, string(invoice.Currency), invoice.ID)
	s.metrics.RecordWebhookEvent(string(event.Type), "handled")
}

// notify triggers the follow-up email. Failures are logged but never
// propagated; the webhook is acknowledged regardless. Duplicate events
// from the processor's retry policy can cause duplicate emails.
func (s *WebhookService) notify(email string, amountPaid int64, currency, sourceID string) {
	if err := s.notifier.SendPaymentInstructions(email, amountPaid, currency); err != nil {
		s.log.Error("follow-up email failed", "source", sourceID, "error", err)
		s.metrics.RecordFollowupEmail(false)
		return
	}
	s.log.Info("follow-up email sent", "source", sourceID)
	s.metrics.RecordFollowupEmail(true)
}
