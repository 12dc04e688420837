package services

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

var since = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func flatRate(t *testing.T, product domain.Product, amount int64) *domain.Rate {
	t.Helper()
	r, err := domain.NewRate("rate-"+string(product), product, domain.Money(amount), domain.BasisFlat, domain.OpenEndedFrom(since))
	require.NoError(t, err)
	return r
}

func rule(t *testing.T, id string, product domain.Product, kind domain.RuleKind, threshold int64, effect domain.Effect, code string) *domain.DiscountRule {
	t.Helper()
	r, err := domain.NewDiscountRule(domain.DiscountRuleParams{
		ID:        id,
		Product:   product,
		Kind:      kind,
		Threshold: threshold,
		Effect:    effect,
		Code:      code,
		Window:    domain.OpenEndedFrom(since),
	})
	require.NoError(t, err)
	return r
}

func pct(t *testing.T, p string) domain.Effect {
	t.Helper()
	e, err := domain.PercentOff(decimal.RequireFromString(p))
	require.NoError(t, err)
	return e
}

func off(t *testing.T, a int64) domain.Effect {
	t.Helper()
	e, err := domain.AmountOff(domain.Money(a))
	require.NoError(t, err)
	return e
}

func TestPriceCalculator_Calculate(t *testing.T) {
	pc := NewPriceCalculator()

	t.Run("quantity tier on box advertising", func(t *testing.T) {
		rate := flatRate(t, domain.ProductBoxAdvertising, 10000)
		rules := []*domain.DiscountRule{
			rule(t, "q5", domain.ProductBoxAdvertising, domain.KindQuantityTier, 5, pct(t, "10"), ""),
		}

		b, err := pc.Calculate(rate, rules, domain.LineItem{
			Product:      domain.ProductBoxAdvertising,
			Quantity:     5,
			DurationDays: 1,
		})
		require.NoError(t, err)

		assert.Equal(t, domain.Money(10000), b.BaseAmount)
		require.Len(t, b.Applied, 1)
		assert.Equal(t, "q5", b.Applied[0].RuleID)
		assert.Equal(t, domain.KindQuantityTier, b.Applied[0].Kind)
		assert.Equal(t, domain.Money(1000), b.Applied[0].Amount)
		assert.Equal(t, domain.Money(9000), b.FinalAmount)
	})

	t.Run("promo code stacks with duration tier", func(t *testing.T) {
		rate := flatRate(t, domain.ProductService, 10000)
		rules := []*domain.DiscountRule{
			rule(t, "sommer", domain.ProductAny, domain.KindPromoCode, 0, off(t, 2000), "SOMMER"),
			rule(t, "d30", domain.ProductService, domain.KindDurationTier, 30, pct(t, "5"), ""),
		}

		b, err := pc.Calculate(rate, rules, domain.LineItem{
			Product:      domain.ProductService,
			Quantity:     1,
			DurationDays: 30,
			PromoCodes:   []string{"SOMMER"},
		})
		require.NoError(t, err)

		require.Len(t, b.Applied, 2)
		assert.Equal(t, domain.KindDurationTier, b.Applied[0].Kind)
		assert.Equal(t, domain.Money(500), b.Applied[0].Amount)
		assert.Equal(t, domain.KindPromoCode, b.Applied[1].Kind)
		assert.Equal(t, domain.Money(2000), b.Applied[1].Amount)
		assert.Equal(t, domain.Money(2500), b.TotalDiscount())
		assert.Equal(t, domain.Money(7500), b.FinalAmount)
	})

	t.Run("quantity below all tiers gets no quantity discount", func(t *testing.T) {
		rate := flatRate(t, domain.ProductBoxAdvertising, 10000)
		rules := []*domain.DiscountRule{
			rule(t, "q5", domain.ProductBoxAdvertising, domain.KindQuantityTier, 5, pct(t, "10"), ""),
			rule(t, "q10", domain.ProductBoxAdvertising, domain.KindQuantityTier, 10, pct(t, "15"), ""),
		}

		b, err := pc.Calculate(rate, rules, domain.LineItem{
			Product:      domain.ProductBoxAdvertising,
			Quantity:     4,
			DurationDays: 1,
		})
		require.NoError(t, err)

		assert.Empty(t, b.Applied)
		assert.Equal(t, b.BaseAmount, b.FinalAmount)
	})

	t.Run("rules for other products are ignored", func(t *testing.T) {
		rate := flatRate(t, domain.ProductBoxAdvertising, 10000)
		rules := []*domain.DiscountRule{
			rule(t, "q1", domain.ProductSponsoredPlacement, domain.KindQuantityTier, 1, pct(t, "50"), ""),
		}

		b, err := pc.Calculate(rate, rules, domain.LineItem{
			Product:      domain.ProductBoxAdvertising,
			Quantity:     3,
			DurationDays: 1,
		})
		require.NoError(t, err)
		assert.Empty(t, b.Applied)
	})

	t.Run("final amount is clamped at zero", func(t *testing.T) {
		rate := flatRate(t, domain.ProductService, 1000)
		rules := []*domain.DiscountRule{
			rule(t, "q1", domain.ProductService, domain.KindQuantityTier, 1, pct(t, "80"), ""),
			rule(t, "big", domain.ProductAny, domain.KindPromoCode, 0, off(t, 5000), "BIG"),
		}

		b, err := pc.Calculate(rate, rules, domain.LineItem{
			Product:      domain.ProductService,
			Quantity:     1,
			DurationDays: 1,
			PromoCodes:   []string{"BIG"},
		})
		require.NoError(t, err)

		assert.Equal(t, domain.Money(800), b.Applied[0].Amount)
		assert.Equal(t, domain.Money(1000), b.Applied[1].Amount)
		assert.Equal(t, domain.Money(0), b.FinalAmount)
	})

	t.Run("stacked discounts near the int64 limit stay within base", func(t *testing.T) {
		rate := flatRate(t, domain.ProductService, 5_000_000_000_000_000_000)
		rules := []*domain.DiscountRule{
			rule(t, "q1", domain.ProductService, domain.KindQuantityTier, 1, pct(t, "100"), ""),
			rule(t, "d1", domain.ProductService, domain.KindDurationTier, 1, pct(t, "100"), ""),
			rule(t, "all", domain.ProductAny, domain.KindPromoCode, 0, pct(t, "100"), "ALL"),
		}

		b, err := pc.Calculate(rate, rules, domain.LineItem{
			Product:      domain.ProductService,
			Quantity:     1,
			DurationDays: 1,
			PromoCodes:   []string{"ALL"},
		})
		require.NoError(t, err)

		require.Len(t, b.Applied, 3)
		assert.Equal(t, b.BaseAmount, b.TotalDiscount())
		assert.Equal(t, domain.Money(0), b.FinalAmount)
		assert.LessOrEqual(t, b.FinalAmount, b.BaseAmount)
	})

	t.Run("suppressed promotions skip promo codes", func(t *testing.T) {
		rate := flatRate(t, domain.ProductService, 10000)
		rules := []*domain.DiscountRule{
			rule(t, "sommer", domain.ProductAny, domain.KindPromoCode, 0, off(t, 2000), "SOMMER"),
		}

		b, err := pc.Calculate(rate, rules, domain.LineItem{
			Product:            domain.ProductService,
			Quantity:           1,
			DurationDays:       1,
			PromoCodes:         []string{"SOMMER"},
			SuppressPromotions: true,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.Money(10000), b.FinalAmount)
	})

	t.Run("invalid items are rejected before pricing", func(t *testing.T) {
		rate := flatRate(t, domain.ProductService, 10000)

		tests := []struct {
			name string
			item domain.LineItem
			want error
		}{
			{"zero quantity", domain.LineItem{Product: domain.ProductService, Quantity: 0, DurationDays: 1}, domain.ErrNonPositiveQuantity},
			{"negative duration", domain.LineItem{Product: domain.ProductService, Quantity: 1, DurationDays: -1}, domain.ErrNonPositiveDuration},
			{"two promo codes", domain.LineItem{Product: domain.ProductService, Quantity: 1, DurationDays: 1, PromoCodes: []string{"A", "B"}}, domain.ErrMultiplePromoCodes},
			{"unknown product", domain.LineItem{Product: "banner", Quantity: 1, DurationDays: 1}, domain.ErrUnknownProduct},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := pc.Calculate(rate, nil, tt.item)
				assert.ErrorIs(t, err, tt.want)
				assert.ErrorIs(t, err, domain.ErrInvalidRequest)
			})
		}
	})
}

func TestPriceCalculator_Properties(t *testing.T) {
	pc := NewPriceCalculator()
	rate := flatRate(t, domain.ProductBoxAdvertising, 12345)
	rules := []*domain.DiscountRule{
		rule(t, "q3", domain.ProductBoxAdvertising, domain.KindQuantityTier, 3, pct(t, "12.5"), ""),
		rule(t, "d7", domain.ProductAny, domain.KindDurationTier, 7, pct(t, "7"), ""),
		rule(t, "promo", domain.ProductAny, domain.KindPromoCode, 0, off(t, 999), "HEI"),
	}
	item := domain.LineItem{
		Product:      domain.ProductBoxAdvertising,
		Quantity:     4,
		DurationDays: 14,
		PromoCodes:   []string{"HEI"},
	}

	t.Run("final lies between zero and base", func(t *testing.T) {
		b, err := pc.Calculate(rate, rules, item)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, int64(b.FinalAmount), int64(0))
		assert.LessOrEqual(t, b.FinalAmount, b.BaseAmount)
	})

	t.Run("same input gives same breakdown", func(t *testing.T) {
		first, err := pc.Calculate(rate, rules, item)
		require.NoError(t, err)
		second, err := pc.Calculate(rate, rules, item)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("rule order does not matter", func(t *testing.T) {
		reversed := []*domain.DiscountRule{rules[2], rules[1], rules[0]}
		a, err := pc.Calculate(rate, rules, item)
		require.NoError(t, err)
		b, err := pc.Calculate(rate, reversed, item)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("discounts add up without clamping", func(t *testing.T) {
		b, err := pc.Calculate(rate, rules, item)
		require.NoError(t, err)

		var sum domain.Money
		for _, a := range b.Applied {
			sum = sum.Add(pc.CalculateDiscountAmount(b.BaseAmount, findRule(rules, a.RuleID).Effect()))
		}
		assert.Equal(t, b.BaseAmount.Subtract(sum), b.FinalAmount)
	})
}

func findRule(rules []*domain.DiscountRule, id string) *domain.DiscountRule {
	for _, r := range rules {
		if r.ID() == id {
			return r
		}
	}
	return nil
}
