package pricing

import (
	"errors"
	"fmt"

	"github.com/thecloudsteward/proposals/pkg/pages"
)

// Pricing resolution failures. Both map to a 400-equivalent response.
var (
	ErrUnknownOption = errors.New("unknown pricing option")
	ErrInvalidPrice  = errors.New("invalid price")
)

// Mode selects how the checkout session is created.
type Mode string

const (
	// ModePayment is a single one-time payment for the project.
	ModePayment Mode = "payment"
	// ModeSubscription bundles a one-time project fee with a monthly
	// recurring subscription.
	ModeSubscription Mode = "subscription"
)

// Quote is a resolved pricing decision in integer minor units (cents).
type Quote struct {
	Mode Mode

	// OneTimeAmount is the project fee. In payment mode it is the full
	// price; in subscription mode it is the bundled project fee.
	OneTimeAmount int64

	// RecurringAmount is the monthly subscription amount. Zero in
	// payment mode.
	RecurringAmount int64
}

// Resolve decides the pricing mode for a record and requested option.
func Resolve(rec *pages.ProposalRecord, option string) (*Quote, error) {
	if option == pages.OptionProjectOnly {
		if rec.ProjectOnlyPrice == nil || *rec.ProjectOnlyPrice <= 0 {
			return nil, fmt.Errorf("%w: project_only_price is not set", ErrInvalidPrice)
		}
		return &Quote{
			Mode:          ModePayment,
			OneTimeAmount: MinorUnits(*rec.ProjectOnlyPrice),
		}, nil
	}

	recurring := rec.TierPrice(option)
	if recurring == nil && !isTierOption(option) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOption, option)
	}
	if recurring == nil {
		return nil, fmt.Errorf("%w: %s is not set", ErrInvalidPrice, option)
	}
	if rec.ProjectWithSubscriptionPrice == nil {
		return nil, fmt.Errorf("%w: project_with_subscription_price is not set", ErrInvalidPrice)
	}

	return &Quote{
		Mode:            ModeSubscription,
		OneTimeAmount:   MinorUnits(*rec.ProjectWithSubscriptionPrice),
		RecurringAmount: MinorUnits(*recurring),
	}, nil
}

// MinorUnits converts a decimal dollar amount to integer cents by
// multiplying by 100 and truncating.
func MinorUnits(amount float64) int64 {
	return int64(amount * 100)
}

func isTierOption(option string) bool {
	switch option {
	case pages.OptionTier1, pages.OptionTier2, pages.OptionTier3:
		return true
	}
	return false
}
