package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// CacheOptions configures CachedProviders.
type CacheOptions struct {
	// Size is the maximum number of entries per lookup kind.
	Size int
	// TTL bounds how long a snapshot is served after it was fetched.
	TTL time.Duration
}

// CachedProviders memoises rate and rule snapshots per product and pricing instant.
// A batch shares one instant, so its items hit the same entry.
// Failed lookups are never cached.
type CachedProviders struct {
	next  contracts.Providers
	rates *expirable.LRU[string, *domain.Rate]
	rules *expirable.LRU[string, []*domain.DiscountRule]
}

// NewCachedProviders wraps next with an expiring LRU cache.
func NewCachedProviders(next contracts.Providers, opts CacheOptions) *CachedProviders {
	return &CachedProviders{
		next:  next,
		rates: expirable.NewLRU[string, *domain.Rate](opts.Size, nil, opts.TTL),
		rules: expirable.NewLRU[string, []*domain.DiscountRule](opts.Size, nil, opts.TTL),
	}
}

// Providers exposes the cache as a provider bundle.
func (c *CachedProviders) Providers() contracts.Providers {
	return contracts.Providers{Rates: c, Rules: c}
}

// GetActiveRate serves the rate cached for exactly asOf.
func (c *CachedProviders) GetActiveRate(ctx context.Context, product domain.Product, asOf time.Time) (*domain.Rate, error) {
	key := snapshotKey(product, asOf)
	if rate, ok := c.rates.Get(key); ok {
		return rate, nil
	}

	rate, err := c.next.Rates.GetActiveRate(ctx, product, asOf)
	if err != nil {
		return nil, err
	}
	c.rates.Add(key, rate)
	return rate, nil
}

// GetActiveRules serves the rule set cached for exactly asOf.
func (c *CachedProviders) GetActiveRules(ctx context.Context, product domain.Product, asOf time.Time) ([]*domain.DiscountRule, error) {
	key := snapshotKey(product, asOf)
	if cached, ok := c.rules.Get(key); ok {
		return cached, nil
	}

	rules, err := c.next.Rules.GetActiveRules(ctx, product, asOf)
	if err != nil {
		return nil, err
	}
	c.rules.Add(key, rules)
	return rules, nil
}

// Purge drops every cached entry, e.g. after a catalog write.
func (c *CachedProviders) Purge() {
	c.rates.Purge()
	c.rules.Purge()
}

// snapshotKey identifies a snapshot. Any coarser key would hide a window opening
// between two instants that share it.
func snapshotKey(product domain.Product, asOf time.Time) string {
	return fmt.Sprintf("%s|%d", product, asOf.UnixNano())
}
