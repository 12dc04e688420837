package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleIDs(rules []*DiscountRule) []string {
	ids := make([]string, 0, len(rules))
	for _, r := range rules {
		ids = append(ids, r.ID())
	}
	return ids
}

func TestResolve_QuantityTiers(t *testing.T) {
	rules := []*DiscountRule{
		tierRule(t, "q10", KindQuantityTier, 10, percent(t, "15")),
		tierRule(t, "q5", KindQuantityTier, 5, percent(t, "10")),
		tierRule(t, "q20", KindQuantityTier, 20, percent(t, "20")),
	}

	tests := []struct {
		name     string
		quantity int64
		want     []string
	}{
		{"below every tier", 4, []string{}},
		{"exactly on threshold", 5, []string{"q5"}},
		{"between tiers", 9, []string{"q5"}},
		{"highest qualifying tier wins", 10, []string{"q10"}},
		{"above every tier", 500, []string{"q20"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(rules, Selection{Quantity: tt.quantity, DurationDays: 1})
			assert.Equal(t, tt.want, ruleIDs(got))
		})
	}
}

func TestResolve_TierSelectionIsMonotonic(t *testing.T) {
	rules := []*DiscountRule{
		tierRule(t, "q5", KindQuantityTier, 5, percent(t, "10")),
		tierRule(t, "q10", KindQuantityTier, 10, percent(t, "15")),
	}

	first := Resolve(rules, Selection{Quantity: 5, DurationDays: 1})
	for q := int64(6); q < 10; q++ {
		got := Resolve(rules, Selection{Quantity: q, DurationDays: 1})
		assert.Equal(t, ruleIDs(first), ruleIDs(got), "quantity %d", q)
	}
}

func TestResolve_EqualThresholdsPickLowestID(t *testing.T) {
	rules := []*DiscountRule{
		tierRule(t, "b", KindDurationTier, 30, percent(t, "5")),
		tierRule(t, "a", KindDurationTier, 30, percent(t, "7")),
	}

	got := Resolve(rules, Selection{Quantity: 1, DurationDays: 30})
	assert.Equal(t, []string{"a"}, ruleIDs(got))
}

func TestResolve_PromoCodes(t *testing.T) {
	rules := []*DiscountRule{
		promoRule(t, "p1", "SOMMER", amount(t, 2000)),
	}

	t.Run("exact code matches", func(t *testing.T) {
		got := Resolve(rules, Selection{Quantity: 1, DurationDays: 1, PromoCode: "SOMMER"})
		assert.Equal(t, []string{"p1"}, ruleIDs(got))
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		got := Resolve(rules, Selection{Quantity: 1, DurationDays: 1, PromoCode: "sommer"})
		assert.Empty(t, got)
	})

	t.Run("unknown code has no effect", func(t *testing.T) {
		got := Resolve(rules, Selection{Quantity: 1, DurationDays: 1, PromoCode: "VINTER"})
		assert.Empty(t, got)
	})

	t.Run("suppressed promotions ignore codes", func(t *testing.T) {
		got := Resolve(rules, Selection{Quantity: 1, DurationDays: 1, PromoCode: "SOMMER", SuppressPromotions: true})
		assert.Empty(t, got)
	})
}

func TestResolve_KindsStackInFixedOrder(t *testing.T) {
	rules := []*DiscountRule{
		promoRule(t, "promo", "SOMMER", amount(t, 2000)),
		tierRule(t, "duration", KindDurationTier, 30, percent(t, "5")),
		tierRule(t, "quantity", KindQuantityTier, 2, percent(t, "10")),
	}

	got := Resolve(rules, Selection{Quantity: 3, DurationDays: 30, PromoCode: "SOMMER"})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"quantity", "duration", "promo"}, ruleIDs(got))
}
