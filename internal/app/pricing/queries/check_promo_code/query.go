package check_promo_code

import (
	"context"
	"fmt"
	"time"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
)

// Request contains the promo code to look up.
type Request struct {
	Code string
	// Product narrows the check to one product. Empty checks every product.
	Product string
	// AsOf is the instant to check at. Zero means now.
	AsOf time.Time
}

// Result reports whether a code is currently redeemable.
type Result struct {
	Code     string
	Valid    bool
	RuleID   string
	Products []domain.Product
}

// Query handles the check promo code query. It is separate from pricing, where an
// unknown code simply has no effect.
type Query struct {
	rules contracts.DiscountRuleProvider
	clock clock.Clock
}

// NewQuery creates a new check promo code query.
func NewQuery(rules contracts.DiscountRuleProvider, clock clock.Clock) *Query {
	return &Query{
		rules: rules,
		clock: clock,
	}
}

// Execute checks the code against the rules active at the requested instant.
func (q *Query) Execute(ctx context.Context, req *Request) (*Result, error) {
	if req.Code == "" {
		return nil, domain.ErrEmptyPromoCode
	}

	products := domain.Products()
	if req.Product != "" {
		p, err := domain.ParseProduct(req.Product)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", err, req.Product)
		}
		products = []domain.Product{p}
	}

	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = q.clock.Now()
	}

	result := &Result{Code: req.Code, Products: []domain.Product{}}
	for _, product := range products {
		rules, err := q.rules.GetActiveRules(ctx, product, asOf)
		if err != nil {
			return nil, err
		}

		rule := promoMatch(rules, req.Code)
		if rule == nil {
			continue
		}

		result.Valid = true
		result.Products = append(result.Products, product)
		if result.RuleID == "" || rule.ID() < result.RuleID {
			result.RuleID = rule.ID()
		}
	}
	return result, nil
}

// promoMatch runs the resolver on promo-code rules only, so tiers with a zero threshold
// cannot make a code look valid.
func promoMatch(rules []*domain.DiscountRule, code string) *domain.DiscountRule {
	promos := make([]*domain.DiscountRule, 0, len(rules))
	for _, r := range rules {
		if r.Kind() == domain.KindPromoCode {
			promos = append(promos, r)
		}
	}
	matched := domain.Resolve(promos, domain.Selection{PromoCode: code})
	if len(matched) == 0 {
		return nil
	}
	return matched[0]
}
