package domain

// AppliedDiscount is one rule's contribution to a Breakdown.
type AppliedDiscount struct {
	RuleID string
	Kind   RuleKind
	Amount Money
}

// Breakdown is a computed price. It is built per request and never persisted.
type Breakdown struct {
	Product     Product
	RateID      string
	BaseAmount  Money
	Applied     []AppliedDiscount
	FinalAmount Money
}

// TotalDiscount sums the applied discount amounts, capped at the base amount.
func (b *Breakdown) TotalDiscount() Money {
	var total Money
	for _, a := range b.Applied {
		total = total.AddCapped(a.Amount, b.BaseAmount)
	}
	return total
}
