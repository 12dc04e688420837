package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPercentOff(t *testing.T) {
	t.Run("percentage below 0 returns error", func(t *testing.T) {
		_, err := PercentOff(decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, ErrInvalidDiscountPercent)
	})

	t.Run("percentage above 100 returns error", func(t *testing.T) {
		_, err := PercentOff(decimal.NewFromInt(101))
		assert.ErrorIs(t, err, ErrInvalidDiscountPercent)
	})

	t.Run("boundaries are valid", func(t *testing.T) {
		_, err := PercentOff(decimal.Zero)
		assert.NoError(t, err)
		_, err = PercentOff(decimal.NewFromInt(100))
		assert.NoError(t, err)
	})
}

func TestEffectFromColumns(t *testing.T) {
	p := decimal.NewFromInt(10)
	a := Money(500)

	t.Run("percent only", func(t *testing.T) {
		e, err := EffectFromColumns(&p, nil)
		require.NoError(t, err)
		assert.True(t, e.IsPercent())
	})

	t.Run("amount only", func(t *testing.T) {
		e, err := EffectFromColumns(nil, &a)
		require.NoError(t, err)
		assert.False(t, e.IsPercent())
		assert.Equal(t, a, e.Amount())
	})

	t.Run("both set returns error", func(t *testing.T) {
		_, err := EffectFromColumns(&p, &a)
		assert.ErrorIs(t, err, ErrInvalidEffect)
	})

	t.Run("neither set returns error", func(t *testing.T) {
		_, err := EffectFromColumns(nil, nil)
		assert.ErrorIs(t, err, ErrInvalidEffect)
	})
}

func TestEffect_AmountOn(t *testing.T) {
	t.Run("percent of base", func(t *testing.T) {
		assert.Equal(t, Money(500), percent(t, "5").AmountOn(10000))
	})

	t.Run("amount capped at base", func(t *testing.T) {
		assert.Equal(t, Money(300), amount(t, 2000).AmountOn(300))
	})
}

func TestNewDiscountRule(t *testing.T) {
	base := DiscountRuleParams{
		ID:        "rule-1",
		Product:   ProductBoxAdvertising,
		Kind:      KindQuantityTier,
		Threshold: 5,
		Effect:    percent(t, "10"),
		Window:    OpenEndedFrom(testEpoch),
	}

	t.Run("valid tier rule", func(t *testing.T) {
		r, err := NewDiscountRule(base)
		require.NoError(t, err)
		assert.Equal(t, int64(5), r.Threshold())
		assert.True(t, r.AppliesTo(ProductBoxAdvertising))
		assert.False(t, r.AppliesTo(ProductService))
	})

	t.Run("any applies to every product", func(t *testing.T) {
		p := base
		p.Product = ProductAny
		r, err := NewDiscountRule(p)
		require.NoError(t, err)
		for _, product := range Products() {
			assert.True(t, r.AppliesTo(product))
		}
	})

	t.Run("unknown kind returns error", func(t *testing.T) {
		p := base
		p.Kind = "loyalty"
		_, err := NewDiscountRule(p)
		assert.ErrorIs(t, err, ErrInvalidRuleKind)
	})

	t.Run("zero effect returns error", func(t *testing.T) {
		p := base
		p.Effect = Effect{}
		_, err := NewDiscountRule(p)
		assert.ErrorIs(t, err, ErrInvalidEffect)
	})

	t.Run("amount off zero is a valid effect", func(t *testing.T) {
		p := base
		p.Effect = amount(t, 0)
		r, err := NewDiscountRule(p)
		require.NoError(t, err)
		assert.True(t, r.Effect().IsSet())
		assert.Equal(t, Money(0), r.Effect().AmountOn(1000))
	})

	t.Run("negative threshold returns error", func(t *testing.T) {
		p := base
		p.Threshold = -1
		_, err := NewDiscountRule(p)
		assert.ErrorIs(t, err, ErrNegativeThreshold)
	})

	t.Run("tier rule with code returns error", func(t *testing.T) {
		p := base
		p.Code = "SOMMER"
		_, err := NewDiscountRule(p)
		assert.ErrorIs(t, err, ErrUnexpectedPromoCode)
	})

	t.Run("promo rule without code returns error", func(t *testing.T) {
		p := base
		p.Kind = KindPromoCode
		_, err := NewDiscountRule(p)
		assert.ErrorIs(t, err, ErrMissingPromoCode)
	})

	t.Run("promo rule ignores threshold", func(t *testing.T) {
		p := base
		p.Kind = KindPromoCode
		p.Code = "SOMMER"
		r, err := NewDiscountRule(p)
		require.NoError(t, err)
		assert.Zero(t, r.Threshold())
	})
}

func TestDiscountRule_Retire(t *testing.T) {
	now := testEpoch.Add(48 * time.Hour)

	t.Run("retires active rule", func(t *testing.T) {
		r := promoRule(t, "rule-1", "SOMMER", amount(t, 2000))
		require.NoError(t, r.Retire(now))
		assert.False(t, r.IsActiveAt(now))
		assert.True(t, r.IsActiveAt(now.Add(-time.Second)))
	})

	t.Run("cannot retire inactive rule", func(t *testing.T) {
		r := promoRule(t, "rule-1", "SOMMER", amount(t, 2000))
		assert.ErrorIs(t, r.Retire(testEpoch.Add(-time.Hour)), ErrRuleNotActive)
	})
}
