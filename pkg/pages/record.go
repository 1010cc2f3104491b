package pages

import (
	"math"
	"time"
)

// Proposal pricing options selectable at checkout. The option value is
// the name of the price field it reads from the record.
const (
	OptionProjectOnly = "project_only_price"
	OptionTier1       = "tier_1_subscription_price"
	OptionTier2       = "tier_2_subscription_price"
	OptionTier3       = "tier_3_subscription_price"
)

// Default monthly prices applied to new records when a tier is left blank.
const (
	DefaultTier1Price = 299
	DefaultTier2Price = 1750
	DefaultTier3Price = 2500
)

// ProposalRecord is a client-facing offer keyed by slug, the only
// persisted entity in the system.
type ProposalRecord struct {
	Slug              string `json:"slug"`
	ClientName        string `json:"client_name,omitempty"`
	CompanyName       string `json:"company_name,omitempty"`
	ProjectName       string `json:"project_name,omitempty"`
	ProjectNotes      string `json:"project_notes,omitempty"`
	ProjectSummary    string `json:"project_summary,omitempty"`
	ProjectObjectives string `json:"project_objectives,omitempty"`

	ProjectOnlyPrice             *float64 `json:"project_only_price"`
	ProjectWithSubscriptionPrice *float64 `json:"project_with_subscription_price"`
	Tier1SubscriptionPrice       *float64 `json:"tier_1_subscription_price"`
	Tier2SubscriptionPrice       *float64 `json:"tier_2_subscription_price"`
	Tier3SubscriptionPrice       *float64 `json:"tier_3_subscription_price"`

	// Derived on save; null unless both project prices are present and
	// the project-only price is nonzero.
	ProjectDiscountPercent *int `json:"project_discount_percent"`

	IsConsultant bool `json:"is_consultant"`

	// Derived on save from the configured site URL and the slug.
	AutoLink string `json:"auto_link,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TierPrice returns the recurring price field named by option, or nil
// when the option does not name a tier.
func (r *ProposalRecord) TierPrice(option string) *float64 {
	switch option {
	case OptionTier1:
		return r.Tier1SubscriptionPrice
	case OptionTier2:
		return r.Tier2SubscriptionPrice
	case OptionTier3:
		return r.Tier3SubscriptionPrice
	default:
		return nil
	}
}

// Expired reports whether the record's expiration time has passed.
func (r *ProposalRecord) Expired(now time.Time) bool {
	return r.ExpiresAt.Before(now)
}

// computeDiscount derives the project discount percent:
// round(100 * (only - bundled) / only), half away from zero.
// Any other combination of prices leaves the discount unset.
func computeDiscount(only, bundled *float64) *int {
	if only == nil || bundled == nil || *only == 0 {
		return nil
	}
	pct := int(math.Round(100 * (*only - *bundled) / *only))
	return &pct
}
