package domain

// Selection is what a request asks the resolver to match against.
type Selection struct {
	Quantity           int64
	DurationDays       int64
	PromoCode          string
	SuppressPromotions bool
}

// Resolve picks the discount rules that apply to a selection.
//
// Within a tier kind the rule with the highest threshold not exceeding the requested value
// wins; tiers never combine. Promo codes match case-sensitively. Different kinds stack, and
// the result is ordered quantity-tier, duration-tier, promo-code.
func Resolve(rules []*DiscountRule, sel Selection) []*DiscountRule {
	applied := make([]*DiscountRule, 0, 3)

	if r := bestTier(rules, KindQuantityTier, sel.Quantity); r != nil {
		applied = append(applied, r)
	}
	if r := bestTier(rules, KindDurationTier, sel.DurationDays); r != nil {
		applied = append(applied, r)
	}
	if !sel.SuppressPromotions {
		if r := matchPromoCode(rules, sel.PromoCode); r != nil {
			applied = append(applied, r)
		}
	}

	return applied
}

// bestTier returns the qualifying rule with the highest threshold.
// Equal thresholds fall back to the lowest rule ID so the choice is deterministic.
func bestTier(rules []*DiscountRule, kind RuleKind, value int64) *DiscountRule {
	var best *DiscountRule
	for _, r := range rules {
		if r.kind != kind || r.threshold > value {
			continue
		}
		if best == nil ||
			r.threshold > best.threshold ||
			(r.threshold == best.threshold && r.id < best.id) {
			best = r
		}
	}
	return best
}

func matchPromoCode(rules []*DiscountRule, code string) *DiscountRule {
	if code == "" {
		return nil
	}
	var match *DiscountRule
	for _, r := range rules {
		if r.kind != KindPromoCode || r.code != code {
			continue
		}
		if match == nil || r.id < match.id {
			match = r
		}
	}
	return match
}
