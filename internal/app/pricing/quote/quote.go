// Package quote projects computed prices into the response shape callers see.
package quote

import (
	"errors"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// Error codes carried by failed batch items.
const (
	CodeRateNotFound        = "RATE_NOT_FOUND"
	CodeInvalidRequest      = "INVALID_REQUEST"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeInternal            = "INTERNAL"
)

// Quote is a priced line item.
type Quote struct {
	Product     string     `json:"product"`
	RateID      string     `json:"rate_id"`
	BaseAmount  int64      `json:"base_amount"`
	Discounts   []Discount `json:"discounts"`
	FinalAmount int64      `json:"final_amount"`
}

// Discount is one applied rule.
type Discount struct {
	RuleID string `json:"rule_id"`
	Kind   string `json:"kind"`
	Amount int64  `json:"amount"`
}

// Error describes why a batch item could not be priced.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// BatchItem is either a Quote or an Error, never both.
type BatchItem struct {
	Quote *Quote `json:"quote,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// FromBreakdown projects a breakdown. Discounts keep the resolver's order.
func FromBreakdown(b *domain.Breakdown) *Quote {
	discounts := make([]Discount, 0, len(b.Applied))
	for _, a := range b.Applied {
		discounts = append(discounts, Discount{
			RuleID: a.RuleID,
			Kind:   string(a.Kind),
			Amount: a.Amount.Int64(),
		})
	}
	return &Quote{
		Product:     string(b.Product),
		RateID:      b.RateID,
		BaseAmount:  b.BaseAmount.Int64(),
		Discounts:   discounts,
		FinalAmount: b.FinalAmount.Int64(),
	}
}

// FromResult projects the outcome of pricing one batch item.
func FromResult(b *domain.Breakdown, err error) BatchItem {
	if err != nil {
		return BatchItem{Error: &Error{Code: ErrorCode(err), Message: err.Error()}}
	}
	return BatchItem{Quote: FromBreakdown(b)}
}

// ErrorCode classifies a pricing error.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return CodeUpstreamUnavailable
	case errors.Is(err, domain.ErrRateNotFound):
		return CodeRateNotFound
	case errors.Is(err, domain.ErrInvalidRequest):
		return CodeInvalidRequest
	default:
		return CodeInternal
	}
}
