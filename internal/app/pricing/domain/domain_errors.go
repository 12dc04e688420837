package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Pricing errors
	ErrRateNotFound        = errors.New("no active rate for product")
	ErrAmbiguousRate       = errors.New("more than one active rate for product")
	ErrInvalidRequest      = errors.New("invalid pricing request")
	ErrUpstreamUnavailable = errors.New("pricing data source unavailable")

	// Request validation errors, all matching ErrInvalidRequest
	ErrUnknownProduct      = fmt.Errorf("%w: unknown product", ErrInvalidRequest)
	ErrNonPositiveQuantity = fmt.Errorf("%w: quantity must be positive", ErrInvalidRequest)
	ErrNonPositiveDuration = fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	ErrMultiplePromoCodes  = fmt.Errorf("%w: at most one promo code per request", ErrInvalidRequest)
	ErrAmountOverflow      = fmt.Errorf("%w: amount exceeds representable range", ErrInvalidRequest)
	ErrEmptyPromoCode      = fmt.Errorf("%w: promo code cannot be empty", ErrInvalidRequest)

	// Catalog errors
	ErrMissingID              = errors.New("id cannot be empty")
	ErrNegativeAmount         = errors.New("amount cannot be negative")
	ErrInvalidWindow          = errors.New("window end must be after window start")
	ErrInvalidBasis           = errors.New("unknown rate billing basis")
	ErrInvalidDiscountPercent = errors.New("discount percentage must be between 0 and 100")
	ErrInvalidEffect          = errors.New("discount rule needs exactly one of percent_off and amount_off")
	ErrInvalidRuleKind        = errors.New("unknown discount rule kind")
	ErrNegativeThreshold      = errors.New("tier threshold cannot be negative")
	ErrMissingPromoCode       = errors.New("promo-code rule requires a code")
	ErrUnexpectedPromoCode    = errors.New("only promo-code rules carry a code")
	ErrRuleNotFound           = errors.New("discount rule not found")
	ErrRuleNotActive          = errors.New("discount rule is not active")
	ErrRateNotOpen            = errors.New("rate already has an end date")
	ErrRateOverlap            = errors.New("new rate must start after the current rate")
)
