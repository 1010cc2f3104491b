package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/thecloudsteward/proposals/pkg/cache"
	"github.com/thecloudsteward/proposals/pkg/logger"
	"github.com/thecloudsteward/proposals/pkg/models"
	"github.com/thecloudsteward/proposals/pkg/pages"
)

const testSiteURL = "https://www.thecloudsteward.com"

func price(v float64) *float64 {
	return &v
}

func setupService(t *testing.T, cfg *Config) (*Service, *fakeStripeClient, *pages.Store) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := &cache.Client{
		Redis: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	t.Cleanup(func() { client.Close() })

	store := pages.NewStore(client, testSiteURL)
	fake := newFakeStripeClient()

	if cfg == nil {
		cfg = &Config{SiteURL: testSiteURL}
	}

	svc := NewService(fake, store, cfg, logger.Default(), nil)
	return svc, fake, store
}

func savedRecord(t *testing.T, store *pages.Store) *pages.ProposalRecord {
	t.Helper()

	rec := &pages.ProposalRecord{
		ClientName:                   "Jane Doe",
		CompanyName:                  "Acme Corp",
		ProjectOnlyPrice:             price(1000),
		ProjectWithSubscriptionPrice: price(800),
		Tier1SubscriptionPrice:       price(249),
	}
	require.NoError(t, store.Save(context.Background(), rec))
	return rec
}

func TestCreateCheckoutSession_ProjectOnly(t *testing.T) {
	svc, fake, store := setupService(t, nil)
	rec := savedRecord(t, store)

	resp, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutRequest{
		Slug:   rec.Slug,
		Option: pages.OptionProjectOnly,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", resp.URL)

	// One-time purchase: no processor-side prices are created, the
	// single line item carries the price inline.
	assert.Empty(t, fake.createdPrices)
	require.Len(t, fake.createdSessions, 1)

	params := fake.createdSessions[0]
	assert.Equal(t, string(stripe.CheckoutSessionModePayment), *params.Mode)
	require.Len(t, params.LineItems, 1)

	item := params.LineItems[0]
	require.NotNil(t, item.PriceData)
	assert.Equal(t, int64(100000), *item.PriceData.UnitAmount)
	assert.Equal(t, "usd", *item.PriceData.Currency)
	assert.Equal(t, "Acme Corp Project", *item.PriceData.ProductData.Name)
	assert.Equal(t, int64(1), *item.Quantity)

	assert.Equal(t, testSiteURL+"/success?session_id={CHECKOUT_SESSION_ID}", *params.SuccessURL)
	assert.Equal(t, testSiteURL+"/"+rec.Slug, *params.CancelURL)

	// No email in the request means none is forwarded.
	assert.Nil(t, params.CustomerEmail)
	assert.Nil(t, params.PaymentIntentData)
}

func TestCreateCheckoutSession_ProjectOnlyWithEmail(t *testing.T) {
	svc, fake, store := setupService(t, nil)
	rec := savedRecord(t, store)

	_, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutRequest{
		Slug:   rec.Slug,
		Option: pages.OptionProjectOnly,
		Email:  "jane@acme.example",
	})
	require.NoError(t, err)

	params := fake.createdSessions[0]
	assert.Equal(t, "jane@acme.example", *params.CustomerEmail)
	require.NotNil(t, params.PaymentIntentData)
	assert.Equal(t, "jane@acme.example", *params.PaymentIntentData.ReceiptEmail)
}

func TestCreateCheckoutSession_SubscriptionTier(t *testing.T) {
	svc, fake, store := setupService(t, nil)
	rec := savedRecord(t, store)

	resp, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutRequest{
		Slug:   rec.Slug,
		Option: pages.OptionTier1,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.URL)

	// Bundled option creates two prices: the one-time project fee and
	// the monthly plan.
	require.Len(t, fake.createdPrices, 2)

	oneTime := fake.createdPrices[0]
	assert.Equal(t, int64(80000), *oneTime.UnitAmount)
	assert.Equal(t, "Acme Corp Project", *oneTime.ProductData.Name)
	assert.Nil(t, oneTime.Recurring)

	recurring := fake.createdPrices[1]
	assert.Equal(t, int64(24900), *recurring.UnitAmount)
	assert.Equal(t, DefaultPlanTitle, *recurring.ProductData.Name)
	require.NotNil(t, recurring.Recurring)
	assert.Equal(t, "month", *recurring.Recurring.Interval)

	require.Len(t, fake.createdSessions, 1)
	params := fake.createdSessions[0]
	assert.Equal(t, string(stripe.CheckoutSessionModeSubscription), *params.Mode)
	require.Len(t, params.LineItems, 2)
	assert.Equal(t, "price_test_1", *params.LineItems[0].Price)
	assert.Equal(t, "price_test_2", *params.LineItems[1].Price)

	// No trial unless configured.
	assert.Nil(t, params.SubscriptionData)
}

func TestCreateCheckoutSession_SubscriptionPlanTitle(t *testing.T) {
	svc, fake, store := setupService(t, nil)
	rec := savedRecord(t, store)

	_, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutRequest{
		Slug:      rec.Slug,
		Option:    pages.OptionTier1,
		PlanTitle: "Premium Care",
	})
	require.NoError(t, err)

	assert.Equal(t, "Premium Care", *fake.createdPrices[1].ProductData.Name)
}

func TestCreateCheckoutSession_TrialPeriod(t *testing.T) {
	svc, fake, store := setupService(t, &Config{SiteURL: testSiteURL, TrialPeriodDays: 30})
	rec := savedRecord(t, store)

	_, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutRequest{
		Slug:   rec.Slug,
		Option: pages.OptionTier1,
	})
	require.NoError(t, err)

	params := fake.createdSessions[0]
	require.NotNil(t, params.SubscriptionData)
	assert.Equal(t, int64(30), *params.SubscriptionData.TrialPeriodDays)
}

func TestCreateCheckoutSession_UnknownSlug(t *testing.T) {
	svc, fake, _ := setupService(t, nil)

	_, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutRequest{
		Slug:   "nope",
		Option: pages.OptionProjectOnly,
	})
	assert.ErrorIs(t, err, pages.ErrNotFound)
	assert.Empty(t, fake.createdSessions)
}

func TestCreateCheckoutSession_ProviderError(t *testing.T) {
	svc, fake, store := setupService(t, nil)
	rec := savedRecord(t, store)

	fake.newSessionErr = &stripe.Error{Msg: "Your card was declined."}

	_, err := svc.CreateCheckoutSession(context.Background(), &models.CheckoutRequest{
		Slug:   rec.Slug,
		Option: pages.OptionProjectOnly,
	})
	require.Error(t, err)

	var provErr *ProviderError
	require.True(t, errors.As(err, &provErr))
	assert.Contains(t, provErr.Error(), "Your card was declined.")
}
