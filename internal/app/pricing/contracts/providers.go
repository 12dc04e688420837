package contracts

import (
	"context"
	"time"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// RateProvider looks up the base rate of a product.
type RateProvider interface {
	// GetActiveRate returns the single rate whose window contains asOf.
	// Returns domain.ErrRateNotFound when none does and domain.ErrAmbiguousRate
	// when the catalog holds more than one.
	GetActiveRate(ctx context.Context, product domain.Product, asOf time.Time) (*domain.Rate, error)
}

// DiscountRuleProvider looks up discount rules.
type DiscountRuleProvider interface {
	// GetActiveRules returns the rules valid at asOf that are scoped to the product
	// or to every product. An empty result is not an error.
	GetActiveRules(ctx context.Context, product domain.Product, asOf time.Time) ([]*domain.DiscountRule, error)
}

// Providers bundles the two lookups a price computation needs.
type Providers struct {
	Rates RateProvider
	Rules DiscountRuleProvider
}

// SnapshotCache is a provider cache that catalog writes invalidate.
type SnapshotCache interface {
	Purge()
}
