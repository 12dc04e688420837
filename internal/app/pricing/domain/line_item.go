package domain

// LineItem is a single thing to price.
type LineItem struct {
	Product      Product
	Quantity     int64
	DurationDays int64

	// PromoCodes holds the codes the caller supplied; at most one is accepted.
	PromoCodes []string

	// SuppressPromotions switches promo-code discounts off for this item,
	// e.g. while a campaign flag is disabled.
	SuppressPromotions bool
}

// Validate rejects requests that must fail before any lookup.
func (li LineItem) Validate() error {
	if !li.Product.IsPriceable() {
		return ErrUnknownProduct
	}
	if li.Quantity <= 0 {
		return ErrNonPositiveQuantity
	}
	if li.DurationDays <= 0 {
		return ErrNonPositiveDuration
	}
	if len(li.PromoCodes) > 1 {
		return ErrMultiplePromoCodes
	}
	return nil
}

// PromoCode returns the supplied promo code, or "" when none was given.
func (li LineItem) PromoCode() string {
	if len(li.PromoCodes) == 0 {
		return ""
	}
	return li.PromoCodes[0]
}

// Selection returns the resolver input for this item.
func (li LineItem) Selection() Selection {
	return Selection{
		Quantity:           li.Quantity,
		DurationDays:       li.DurationDays,
		PromoCode:          li.PromoCode(),
		SuppressPromotions: li.SuppressPromotions,
	}
}
