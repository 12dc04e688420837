// Package dto holds the JSON request and response bodies shared by the HTTP and gRPC
// transports, so both speak the same field names.
package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/queries/check_promo_code"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/quote"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/compute_price"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/create_discount_rule"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/publish_rate"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/retire_discount_rule"
)

// QuoteRequest prices one line item.
// PromoCode and PromoCodes are alternatives; more than one code in total is rejected.
type QuoteRequest struct {
	Product            string     `json:"product" binding:"required"`
	Quantity           int64      `json:"quantity"`
	DurationDays       int64      `json:"duration_days"`
	AsOf               *time.Time `json:"as_of,omitempty"`
	PromoCode          string     `json:"promo_code,omitempty"`
	PromoCodes         []string   `json:"promo_codes,omitempty"`
	SuppressPromotions *bool      `json:"suppress_promotions,omitempty"`
}

// ToUsecase converts the body to a compute_price request.
func (r *QuoteRequest) ToUsecase() *compute_price.Request {
	codes := append([]string(nil), r.PromoCodes...)
	if r.PromoCode != "" {
		codes = append(codes, r.PromoCode)
	}
	return &compute_price.Request{
		Product:            r.Product,
		Quantity:           r.Quantity,
		DurationDays:       r.DurationDays,
		AsOf:               timeOrZero(r.AsOf),
		PromoCodes:         codes,
		SuppressPromotions: r.SuppressPromotions,
	}
}

// BatchQuoteRequest prices independent line items at one instant.
type BatchQuoteRequest struct {
	Items []*QuoteRequest `json:"items" binding:"required"`
	AsOf  *time.Time      `json:"as_of,omitempty"`
}

// ToUsecase converts the body to a compute_price batch request.
func (r *BatchQuoteRequest) ToUsecase() *compute_price.BatchRequest {
	items := make([]*compute_price.Request, len(r.Items))
	for i, item := range r.Items {
		if item != nil {
			items[i] = item.ToUsecase()
		}
	}
	return &compute_price.BatchRequest{Items: items, AsOf: timeOrZero(r.AsOf)}
}

// BatchQuoteResponse holds one entry per requested item, in request order.
type BatchQuoteResponse struct {
	Items []quote.BatchItem `json:"items"`
}

// PromoCodeRequest asks whether a promo code is redeemable.
type PromoCodeRequest struct {
	Code    string     `json:"code" binding:"required"`
	Product string     `json:"product,omitempty"`
	AsOf    *time.Time `json:"as_of,omitempty"`
}

// ToQuery converts the body to a check_promo_code request.
func (r *PromoCodeRequest) ToQuery() *check_promo_code.Request {
	return &check_promo_code.Request{
		Code:    r.Code,
		Product: r.Product,
		AsOf:    timeOrZero(r.AsOf),
	}
}

// PromoCodeResponse reports whether a promo code is redeemable.
type PromoCodeResponse struct {
	Code     string   `json:"code"`
	Valid    bool     `json:"valid"`
	RuleID   string   `json:"rule_id,omitempty"`
	Products []string `json:"products"`
}

// FromPromoCodeResult converts a check_promo_code result.
func FromPromoCodeResult(res *check_promo_code.Result) *PromoCodeResponse {
	products := make([]string, 0, len(res.Products))
	for _, p := range res.Products {
		products = append(products, string(p))
	}
	return &PromoCodeResponse{
		Code:     res.Code,
		Valid:    res.Valid,
		RuleID:   res.RuleID,
		Products: products,
	}
}

// PublishRateRequest publishes a new rate.
type PublishRateRequest struct {
	Product       string     `json:"product" binding:"required"`
	UnitAmount    int64      `json:"unit_amount"`
	Basis         string     `json:"basis,omitempty"`
	EffectiveFrom *time.Time `json:"effective_from,omitempty"`
	EffectiveTo   *time.Time `json:"effective_to,omitempty"`
}

// ToUsecase converts the body to a publish_rate request.
func (r *PublishRateRequest) ToUsecase() *publish_rate.Request {
	return &publish_rate.Request{
		Product:       r.Product,
		UnitAmount:    r.UnitAmount,
		Basis:         r.Basis,
		EffectiveFrom: timeOrZero(r.EffectiveFrom),
		EffectiveTo:   timeOrZero(r.EffectiveTo),
	}
}

// PublishRateResponse returns the new rate's ID.
type PublishRateResponse struct {
	RateID string `json:"rate_id"`
}

// CreateDiscountRuleRequest creates a discount rule. Set exactly one of percent_off and amount_off.
type CreateDiscountRuleRequest struct {
	Product    string           `json:"product" binding:"required"`
	Kind       string           `json:"kind" binding:"required"`
	Threshold  int64            `json:"threshold"`
	PercentOff *decimal.Decimal `json:"percent_off,omitempty"`
	AmountOff  *int64           `json:"amount_off,omitempty"`
	Code       string           `json:"code,omitempty"`
	ValidFrom  *time.Time       `json:"valid_from,omitempty"`
	ValidTo    *time.Time       `json:"valid_to,omitempty"`
}

// ToUsecase converts the body to a create_discount_rule request.
func (r *CreateDiscountRuleRequest) ToUsecase() *create_discount_rule.Request {
	return &create_discount_rule.Request{
		Product:    r.Product,
		Kind:       r.Kind,
		Threshold:  r.Threshold,
		PercentOff: r.PercentOff,
		AmountOff:  r.AmountOff,
		Code:       r.Code,
		ValidFrom:  timeOrZero(r.ValidFrom),
		ValidTo:    timeOrZero(r.ValidTo),
	}
}

// CreateDiscountRuleResponse returns the new rule's ID.
type CreateDiscountRuleResponse struct {
	RuleID string `json:"rule_id"`
}

// RetireDiscountRuleRequest retires a rule.
type RetireDiscountRuleRequest struct {
	RuleID string `json:"rule_id" binding:"required"`
}

// ToUsecase converts the body to a retire_discount_rule request.
func (r *RetireDiscountRuleRequest) ToUsecase() *retire_discount_rule.Request {
	return &retire_discount_rule.Request{RuleID: r.RuleID}
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error quote.Error `json:"error"`
}

func timeOrZero(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
