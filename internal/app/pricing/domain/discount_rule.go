package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RuleKind is the discount dimension a rule belongs to.
type RuleKind string

const (
	KindQuantityTier RuleKind = "quantity-tier"
	KindDurationTier RuleKind = "duration-tier"
	KindPromoCode    RuleKind = "promo-code"
)

// ParseRuleKind parses a rule kind.
func ParseRuleKind(s string) (RuleKind, error) {
	switch k := RuleKind(s); k {
	case KindQuantityTier, KindDurationTier, KindPromoCode:
		return k, nil
	}
	return "", ErrInvalidRuleKind
}

// IsTier reports whether rules of this kind are keyed to a threshold.
func (k RuleKind) IsTier() bool {
	return k == KindQuantityTier || k == KindDurationTier
}

var hundred = decimal.NewFromInt(100)

// Effect is what a discount rule takes off the base amount:
// either a percentage or a fixed amount, never both.
type Effect struct {
	set        bool
	percent    bool
	percentOff decimal.Decimal
	amountOff  Money
}

// PercentOff creates a percentage effect (0-100, fractions allowed).
func PercentOff(percent decimal.Decimal) (Effect, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return Effect{}, ErrInvalidDiscountPercent
	}
	return Effect{set: true, percent: true, percentOff: percent}, nil
}

// AmountOff creates a fixed-amount effect.
func AmountOff(amount Money) (Effect, error) {
	if amount.IsNegative() {
		return Effect{}, ErrNegativeAmount
	}
	return Effect{set: true, amountOff: amount}, nil
}

// EffectFromColumns builds an Effect from the two nullable storage columns.
// Exactly one of them must be set.
func EffectFromColumns(percentOff *decimal.Decimal, amountOff *Money) (Effect, error) {
	switch {
	case percentOff != nil && amountOff == nil:
		return PercentOff(*percentOff)
	case amountOff != nil && percentOff == nil:
		return AmountOff(*amountOff)
	}
	return Effect{}, ErrInvalidEffect
}

// IsSet reports whether the effect was built by PercentOff or AmountOff.
func (e Effect) IsSet() bool { return e.set }

// IsPercent reports whether the effect is a percentage.
func (e Effect) IsPercent() bool { return e.percent }

// Percent returns the percentage (zero for amount effects).
func (e Effect) Percent() decimal.Decimal { return e.percentOff }

// Amount returns the fixed amount (zero for percent effects).
func (e Effect) Amount() Money { return e.amountOff }

// AmountOn computes the effect against a base amount.
// Percent effects round half to even; amount effects are capped at the base.
func (e Effect) AmountOn(base Money) Money {
	if e.percent {
		return base.PercentOf(e.percentOff)
	}
	return e.amountOff.Min(base)
}

// DiscountRuleParams carries the fields of a new DiscountRule.
type DiscountRuleParams struct {
	ID        string
	Product   Product
	Kind      RuleKind
	Threshold int64
	Effect    Effect
	Code      string
	Window    Window
}

// DiscountRule is shared reference data: a tier or promo-code discount valid over a window.
type DiscountRule struct {
	id        string
	product   Product
	kind      RuleKind
	threshold int64
	effect    Effect
	code      string
	window    Window
}

// NewDiscountRule creates a new DiscountRule with validation.
func NewDiscountRule(p DiscountRuleParams) (*DiscountRule, error) {
	if p.ID == "" {
		return nil, ErrMissingID
	}
	if p.Product != ProductAny && !p.Product.IsPriceable() {
		return nil, ErrUnknownProduct
	}
	if _, err := ParseRuleKind(string(p.Kind)); err != nil {
		return nil, err
	}
	if !p.Effect.IsSet() {
		return nil, ErrInvalidEffect
	}

	if p.Kind == KindPromoCode {
		if p.Code == "" {
			return nil, ErrMissingPromoCode
		}
	} else {
		if p.Code != "" {
			return nil, ErrUnexpectedPromoCode
		}
		if p.Threshold < 0 {
			return nil, ErrNegativeThreshold
		}
	}

	threshold := p.Threshold
	if p.Kind == KindPromoCode {
		threshold = 0
	}

	return &DiscountRule{
		id:        p.ID,
		product:   p.Product,
		kind:      p.Kind,
		threshold: threshold,
		effect:    p.Effect,
		code:      p.Code,
		window:    p.Window,
	}, nil
}

// Getters
func (r *DiscountRule) ID() string       { return r.id }
func (r *DiscountRule) Product() Product { return r.product }
func (r *DiscountRule) Kind() RuleKind   { return r.kind }
func (r *DiscountRule) Threshold() int64 { return r.threshold }
func (r *DiscountRule) Effect() Effect   { return r.effect }
func (r *DiscountRule) Code() string     { return r.code }
func (r *DiscountRule) Window() Window   { return r.window }

// AppliesTo reports whether the rule is scoped to the product (directly or via "any").
func (r *DiscountRule) AppliesTo(product Product) bool {
	return r.product == ProductAny || r.product == product
}

// IsActiveAt checks if the rule is valid at t.
func (r *DiscountRule) IsActiveAt(t time.Time) bool {
	return r.window.Contains(t)
}

// Retire ends the rule's validity at the given instant.
func (r *DiscountRule) Retire(at time.Time) error {
	if !r.window.Contains(at) {
		return ErrRuleNotActive
	}
	r.window.To = at.UTC()
	return nil
}
