package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var testEpoch = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func percent(t *testing.T, p string) Effect {
	t.Helper()
	e, err := PercentOff(decimal.RequireFromString(p))
	require.NoError(t, err)
	return e
}

func amount(t *testing.T, a int64) Effect {
	t.Helper()
	e, err := AmountOff(Money(a))
	require.NoError(t, err)
	return e
}

func tierRule(t *testing.T, id string, kind RuleKind, threshold int64, effect Effect) *DiscountRule {
	t.Helper()
	r, err := NewDiscountRule(DiscountRuleParams{
		ID:        id,
		Product:   ProductBoxAdvertising,
		Kind:      kind,
		Threshold: threshold,
		Effect:    effect,
		Window:    OpenEndedFrom(testEpoch),
	})
	require.NoError(t, err)
	return r
}

func promoRule(t *testing.T, id, code string, effect Effect) *DiscountRule {
	t.Helper()
	r, err := NewDiscountRule(DiscountRuleParams{
		ID:      id,
		Product: ProductAny,
		Kind:    KindPromoCode,
		Effect:  effect,
		Code:    code,
		Window:  OpenEndedFrom(testEpoch),
	})
	require.NoError(t, err)
	return r
}
