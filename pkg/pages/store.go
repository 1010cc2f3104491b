package pages

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/thecloudsteward/proposals/pkg/cache"
)

// ErrNotFound is returned when a slug is unknown or the record expired.
var ErrNotFound = errors.New("page not found")

const (
	keyPrefix       = "page:"
	defaultLifetime = 30 * 24 * time.Hour
)

// Store persists proposal records in Redis, keyed by slug.
type Store struct {
	cache   *cache.Client
	siteURL string
	now     func() time.Time
}

// NewStore creates a new page store. siteURL is the base used to build
// each record's auto_link.
func NewStore(cacheClient *cache.Client, siteURL string) *Store {
	return &Store{
		cache:   cacheClient,
		siteURL: strings.TrimRight(siteURL, "/"),
		now:     time.Now,
	}
}

// Save creates or updates a record, filling in computed fields: slug
// (assigned once, on first save), created_at/expires_at defaults, tier
// price defaults, auto_link, and the project discount percent.
func (s *Store) Save(ctx context.Context, rec *ProposalRecord) error {
	isNew := rec.Slug == ""
	if isNew {
		rec.Slug = newSlug()
	}

	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	if rec.ExpiresAt.IsZero() {
		rec.ExpiresAt = rec.CreatedAt.Add(defaultLifetime)
	}

	if isNew {
		applyTierDefaults(rec)
	}

	rec.AutoLink = s.siteURL + "/" + rec.Slug
	rec.ProjectDiscountPercent = computeDiscount(rec.ProjectOnlyPrice, rec.ProjectWithSubscriptionPrice)

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal page %s: %w", rec.Slug, err)
	}

	// Records are kept past their expiration so the admin path can
	// inspect or extend them; expiry is enforced on read.
	if err := s.cache.Set(ctx, keyPrefix+rec.Slug, data, 0); err != nil {
		return fmt.Errorf("failed to save page %s: %w", rec.Slug, err)
	}

	return nil
}

// Get returns the record for slug. Expired records are reported as
// not found.
func (s *Store) Get(ctx context.Context, slug string) (*ProposalRecord, error) {
	rec, err := s.load(ctx, keyPrefix+slug)
	if err != nil {
		return nil, err
	}
	if rec.Expired(s.now()) {
		return nil, ErrNotFound
	}
	return rec, nil
}

// GetAny returns the record for slug regardless of expiration. Used by
// the admin path.
func (s *Store) GetAny(ctx context.Context, slug string) (*ProposalRecord, error) {
	return s.load(ctx, keyPrefix+slug)
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, slug string) error {
	return s.cache.Delete(ctx, keyPrefix+slug)
}

// PurgeExpired deletes all expired records and returns how many were
// removed.
func (s *Store) PurgeExpired(ctx context.Context) (int, error) {
	keys, err := s.cache.Keys(ctx, keyPrefix+"*")
	if err != nil {
		return 0, fmt.Errorf("failed to list pages: %w", err)
	}

	purged := 0
	for _, key := range keys {
		rec, err := s.load(ctx, key)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				continue
			}
			return purged, err
		}
		if !rec.Expired(s.now()) {
			continue
		}
		if err := s.cache.Delete(ctx, key); err != nil {
			return purged, fmt.Errorf("failed to delete page %s: %w", rec.Slug, err)
		}
		purged++
	}

	return purged, nil
}

func (s *Store) load(ctx context.Context, key string) (*ProposalRecord, error) {
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	var rec ProposalRecord
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal page: %w", err)
	}
	return &rec, nil
}

func applyTierDefaults(rec *ProposalRecord) {
	if rec.Tier1SubscriptionPrice == nil {
		rec.Tier1SubscriptionPrice = priceOf(DefaultTier1Price)
	}
	if rec.Tier2SubscriptionPrice == nil {
		rec.Tier2SubscriptionPrice = priceOf(DefaultTier2Price)
	}
	if rec.Tier3SubscriptionPrice == nil {
		rec.Tier3SubscriptionPrice = priceOf(DefaultTier3Price)
	}
}

func priceOf(v float64) *float64 {
	return &v
}

// newSlug returns a short opaque identifier for a page.
func newSlug() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:10]
}
