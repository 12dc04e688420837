package services

import (
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// PriceCalculator is a domain service that turns a rate and a rule set into a price breakdown.
// It performs no lookups; callers hand it the rate and rules active at the pricing instant.
type PriceCalculator struct{}

// NewPriceCalculator creates a new PriceCalculator.
func NewPriceCalculator() *PriceCalculator {
	return &PriceCalculator{}
}

// Calculate prices a single line item.
//
// Every discount is computed against the original base amount and the results are summed,
// so the outcome does not depend on the order rules are applied in.
// Formula: finalAmount = max(0, baseAmount - sum(effectAmounts))
func (pc *PriceCalculator) Calculate(rate *domain.Rate, rules []*domain.DiscountRule, item domain.LineItem) (*domain.Breakdown, error) {
	if err := item.Validate(); err != nil {
		return nil, err
	}

	base, err := rate.BaseAmount(item.Quantity, item.DurationDays)
	if err != nil {
		return nil, err
	}

	candidates := make([]*domain.DiscountRule, 0, len(rules))
	for _, r := range rules {
		if r.AppliesTo(item.Product) {
			candidates = append(candidates, r)
		}
	}

	resolved := domain.Resolve(candidates, item.Selection())

	breakdown := &domain.Breakdown{
		Product:    item.Product,
		RateID:     rate.ID(),
		BaseAmount: base,
		Applied:    make([]domain.AppliedDiscount, 0, len(resolved)),
	}
	for _, r := range resolved {
		breakdown.Applied = append(breakdown.Applied, domain.AppliedDiscount{
			RuleID: r.ID(),
			Kind:   r.Kind(),
			Amount: pc.CalculateDiscountAmount(base, r.Effect()),
		})
	}

	breakdown.FinalAmount = base.Subtract(breakdown.TotalDiscount())
	return breakdown, nil
}

// CalculateDiscountAmount calculates one effect's amount (not the final price).
func (pc *PriceCalculator) CalculateDiscountAmount(base domain.Money, effect domain.Effect) domain.Money {
	return effect.AmountOn(base)
}
