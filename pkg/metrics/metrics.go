package metrics

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Business metrics
	CheckoutSessionsCreated *prometheus.CounterVec
	WebhookEvents           *prometheus.CounterVec
	FollowupEmails          *prometheus.CounterVec
	PagesServed             prometheus.Counter
	PagesPurged             prometheus.Counter
}

// New creates a new Metrics instance with all metrics registered.
// Must only be called once per process; promauto registers against the
// default registry.
func New() *Metrics {
	return &Metrics{
		HTTPRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		),

		CheckoutSessionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "checkout_sessions_created_total",
				Help: "Total number of Stripe checkout sessions created",
			},
			[]string{"mode"}, // payment, subscription
		),
		WebhookEvents: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "webhook_events_total",
				Help: "Total number of Stripe webhook events received",
			},
			[]string{"type", "status"}, // status: handled, ignored, rejected
		),
		FollowupEmails: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "followup_emails_total",
				Help: "Total number of follow-up emails attempted",
			},
			[]string{"status"}, // sent, failed
		),
		PagesServed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proposal_pages_served_total",
			Help: "Total number of proposal pages served",
		}),
		PagesPurged: promauto.NewCounter(prometheus.CounterOpts{
			Name: "proposal_pages_purged_total",
			Help: "Total number of expired proposal pages purged",
		}),
	}
}

// Middleware creates an Echo middleware for Prometheus metrics
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			path := c.Path() // route pattern, not the raw request path

			err := next(c)

			status := strconv.Itoa(c.Response().Status)
			m.HTTPRequestsTotal.WithLabelValues(req.Method, path, status).Inc()
			m.HTTPRequestDuration.WithLabelValues(req.Method, path, status).Observe(time.Since(start).Seconds())

			return err
		}
	}
}

// RecordCheckoutSession increments the checkout sessions counter.
// Safe on a nil receiver so services can run without metrics in tests.
func (m *Metrics) RecordCheckoutSession(mode string) {
	if m == nil {
		return
	}
	m.CheckoutSessionsCreated.WithLabelValues(mode).Inc()
}

// RecordWebhookEvent increments the webhook events counter
func (m *Metrics) RecordWebhookEvent(eventType, status string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(eventType, status).Inc()
}

// RecordFollowupEmail increments the follow-up emails counter
func (m *Metrics) RecordFollowupEmail(sent bool) {
	if m == nil {
		return
	}
	status := "failed"
	if sent {
		status = "sent"
	}
	m.FollowupEmails.WithLabelValues(status).Inc()
}

// RecordPageServed increments the proposal pages served counter
func (m *Metrics) RecordPageServed() {
	if m == nil {
		return
	}
	m.PagesServed.Inc()
}

// RecordPagesPurged adds to the purged pages counter
func (m *Metrics) RecordPagesPurged(count int) {
	if m == nil {
		return
	}
	m.PagesPurged.Add(float64(count))
}
