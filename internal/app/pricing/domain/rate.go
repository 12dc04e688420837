package domain

import "time"

// Basis describes how a rate's unit amount scales with the requested quantity and duration.
type Basis string

const (
	BasisFlat       Basis = "flat"
	BasisPerUnit    Basis = "per-unit"
	BasisPerDay     Basis = "per-day"
	BasisPerUnitDay Basis = "per-unit-day"
)

// ParseBasis parses a billing basis. An empty string means flat.
func ParseBasis(s string) (Basis, error) {
	switch b := Basis(s); b {
	case "":
		return BasisFlat, nil
	case BasisFlat, BasisPerUnit, BasisPerDay, BasisPerUnitDay:
		return b, nil
	}
	return "", ErrInvalidBasis
}

// Rate is the base price of a product over a validity window.
// At most one rate per product is active at any instant.
type Rate struct {
	id         string
	product    Product
	unitAmount Money
	basis      Basis
	window     Window
}

// NewRate creates a new Rate with validation.
func NewRate(id string, product Product, unitAmount Money, basis Basis, window Window) (*Rate, error) {
	if id == "" {
		return nil, ErrMissingID
	}
	if !product.IsPriceable() {
		return nil, ErrUnknownProduct
	}
	if unitAmount.IsNegative() {
		return nil, ErrNegativeAmount
	}
	basis, err := ParseBasis(string(basis))
	if err != nil {
		return nil, err
	}
	return &Rate{
		id:         id,
		product:    product,
		unitAmount: unitAmount,
		basis:      basis,
		window:     window,
	}, nil
}

// Getters
func (r *Rate) ID() string               { return r.id }
func (r *Rate) Product() Product         { return r.product }
func (r *Rate) UnitAmount() Money        { return r.unitAmount }
func (r *Rate) Basis() Basis             { return r.basis }
func (r *Rate) Window() Window           { return r.window }
func (r *Rate) EffectiveFrom() time.Time { return r.window.From }
func (r *Rate) EffectiveTo() time.Time   { return r.window.To }

// IsActiveAt checks if the rate covers t.
func (r *Rate) IsActiveAt(t time.Time) bool {
	return r.window.Contains(t)
}

// BaseAmount computes the undiscounted amount for a line item.
func (r *Rate) BaseAmount(quantity, durationDays int64) (Money, error) {
	switch r.basis {
	case BasisPerUnit:
		return r.unitAmount.MultiplyBy(quantity)
	case BasisPerDay:
		return r.unitAmount.MultiplyBy(durationDays)
	case BasisPerUnitDay:
		perUnit, err := r.unitAmount.MultiplyBy(quantity)
		if err != nil {
			return 0, err
		}
		return perUnit.MultiplyBy(durationDays)
	default:
		return r.unitAmount, nil
	}
}

// Close ends an open rate at the given instant, which must lie after its start.
func (r *Rate) Close(at time.Time) error {
	if !r.window.OpenEnded() {
		return ErrRateNotOpen
	}
	at = at.UTC()
	if !at.After(r.window.From) {
		return ErrRateOverlap
	}
	r.window.To = at
	return nil
}
