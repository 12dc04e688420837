package domain

import (
	"math"

	"github.com/shopspring/decimal"
)

// Money is an amount in minor currency units. The engine prices in a single currency,
// so no currency code travels with it.
type Money int64

// NewMoney creates a non-negative Money value.
func NewMoney(minor int64) (Money, error) {
	if minor < 0 {
		return 0, ErrNegativeAmount
	}
	return Money(minor), nil
}

// Int64 returns the amount in minor units.
func (m Money) Int64() int64 {
	return int64(m)
}

// Add adds two Money values.
func (m Money) Add(other Money) Money {
	return m + other
}

// AddCapped returns min(m+other, limit) for non-negative amounts without overflowing.
func (m Money) AddCapped(other, limit Money) Money {
	if m >= limit || other >= limit-m {
		return limit
	}
	return m + other
}

// Subtract subtracts another Money value from this one. The result may be negative.
func (m Money) Subtract(other Money) Money {
	return m - other
}

// MultiplyBy multiplies the amount by a non-negative factor, failing on int64 overflow.
func (m Money) MultiplyBy(factor int64) (Money, error) {
	if factor < 0 {
		return 0, ErrNegativeAmount
	}
	if m != 0 && factor > math.MaxInt64/int64(m) {
		return 0, ErrAmountOverflow
	}
	return m * Money(factor), nil
}

// PercentOf returns round(m × percent / 100) with round-half-to-even.
func (m Money) PercentOf(percent decimal.Decimal) Money {
	amount := decimal.NewFromInt(int64(m)).Mul(percent).Shift(-2)
	return Money(amount.RoundBank(0).IntPart())
}

// Min returns the smaller of two Money values.
func (m Money) Min(other Money) Money {
	if other < m {
		return other
	}
	return m
}

// FloorAtZero clamps negative amounts to zero.
func (m Money) FloorAtZero() Money {
	if m < 0 {
		return 0
	}
	return m
}

// IsZero returns true if the money value is zero.
func (m Money) IsZero() bool {
	return m == 0
}

// IsNegative returns true if the money value is negative.
func (m Money) IsNegative() bool {
	return m < 0
}

// String formats the amount in major units with two decimals (for display only).
func (m Money) String() string {
	return decimal.New(int64(m), -2).StringFixed(2)
}
