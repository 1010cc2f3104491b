package payments

import (
	"errors"

	"github.com/stripe/stripe-go/v76"
)

// ProviderError wraps a payment-processor failure. The provider's own
// message is kept for the API response; everything else stays in the
// wrapped error for logs.
type ProviderError struct {
	msg string
	err error
}

func (e *ProviderError) Error() string {
	return e.msg
}

func (e *ProviderError) Unwrap() error {
	return e.err
}

// providerError converts any Stripe call failure into a ProviderError,
// preferring the human-readable message Stripe attaches to API errors.
func providerError(err error) error {
	if err == nil {
		return nil
	}

	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return &ProviderError{msg: stripeErr.Msg, err: err}
	}
	return &ProviderError{msg: err.Error(), err: err}
}
