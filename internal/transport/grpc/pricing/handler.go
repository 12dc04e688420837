package pricing

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/queries/check_promo_code"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/compute_price"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/create_discount_rule"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/publish_rate"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/retire_discount_rule"
	"github.com/light-bringer/adpricing-service/internal/transport/dto"
)

var errAdminDisabled = status.Error(codes.Unimplemented, "catalog administration needs the spanner store")

// Handler implements PricingServiceServer.
// It's a thin coordinator that delegates to use cases and queries.
type Handler struct {
	// Commands. The admin interactors are nil when the catalog is read-only.
	computePrice       *compute_price.Interactor
	publishRate        *publish_rate.Interactor
	createDiscountRule *create_discount_rule.Interactor
	retireDiscountRule *retire_discount_rule.Interactor

	// Queries
	checkPromoCode *check_promo_code.Query

	logger *zap.Logger
}

// NewHandler creates a new gRPC pricing handler.
func NewHandler(
	computePrice *compute_price.Interactor,
	checkPromoCode *check_promo_code.Query,
	publishRate *publish_rate.Interactor,
	createDiscountRule *create_discount_rule.Interactor,
	retireDiscountRule *retire_discount_rule.Interactor,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		computePrice:       computePrice,
		checkPromoCode:     checkPromoCode,
		publishRate:        publishRate,
		createDiscountRule: createDiscountRule,
		retireDiscountRule: retireDiscountRule,
		logger:             logger,
	}
}

var _ PricingServiceServer = (*Handler)(nil)

// ComputePrice prices one line item.
func (h *Handler) ComputePrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	// 1. Decode and validate request
	var body dto.QuoteRequest
	if err := decodeStruct(req, &body); err != nil {
		return nil, err
	}
	if err := validateQuoteRequest(&body); err != nil {
		return nil, err
	}

	// 2. Execute use case
	q, err := h.computePrice.Execute(ctx, body.ToUsecase())
	if err != nil {
		return nil, h.fail("ComputePrice", err)
	}

	// 3. Encode reply
	return encodeStruct(q)
}

// ComputeBatchPrice prices independent line items. Item failures are part of the reply.
func (h *Handler) ComputeBatchPrice(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body dto.BatchQuoteRequest
	if err := decodeStruct(req, &body); err != nil {
		return nil, err
	}
	if err := validateBatchQuoteRequest(&body); err != nil {
		return nil, err
	}

	items := h.computePrice.ExecuteBatch(ctx, body.ToUsecase())

	return encodeStruct(&dto.BatchQuoteResponse{Items: items})
}

// CheckPromoCode reports whether a code is currently redeemable.
func (h *Handler) CheckPromoCode(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var body dto.PromoCodeRequest
	if err := decodeStruct(req, &body); err != nil {
		return nil, err
	}
	if err := validatePromoCodeRequest(&body); err != nil {
		return nil, err
	}

	res, err := h.checkPromoCode.Execute(ctx, body.ToQuery())
	if err != nil {
		return nil, h.fail("CheckPromoCode", err)
	}

	return encodeStruct(dto.FromPromoCodeResult(res))
}

// PublishRate publishes a rate and closes the product's current one.
func (h *Handler) PublishRate(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if h.publishRate == nil {
		return nil, errAdminDisabled
	}

	var body dto.PublishRateRequest
	if err := decodeStruct(req, &body); err != nil {
		return nil, err
	}
	if err := validatePublishRateRequest(&body); err != nil {
		return nil, err
	}

	rateID, err := h.publishRate.Execute(ctx, body.ToUsecase())
	if err != nil {
		return nil, h.fail("PublishRate", err)
	}

	return encodeStruct(&dto.PublishRateResponse{RateID: rateID})
}

// CreateDiscountRule creates a discount rule.
func (h *Handler) CreateDiscountRule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if h.createDiscountRule == nil {
		return nil, errAdminDisabled
	}

	var body dto.CreateDiscountRuleRequest
	if err := decodeStruct(req, &body); err != nil {
		return nil, err
	}
	if err := validateCreateDiscountRuleRequest(&body); err != nil {
		return nil, err
	}

	ruleID, err := h.createDiscountRule.Execute(ctx, body.ToUsecase())
	if err != nil {
		return nil, h.fail("CreateDiscountRule", err)
	}

	return encodeStruct(&dto.CreateDiscountRuleResponse{RuleID: ruleID})
}

// RetireDiscountRule ends a rule's validity now.
func (h *Handler) RetireDiscountRule(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if h.retireDiscountRule == nil {
		return nil, errAdminDisabled
	}

	var body dto.RetireDiscountRuleRequest
	if err := decodeStruct(req, &body); err != nil {
		return nil, err
	}
	if err := validateRetireDiscountRuleRequest(&body); err != nil {
		return nil, err
	}

	if err := h.retireDiscountRule.Execute(ctx, body.ToUsecase()); err != nil {
		return nil, h.fail("RetireDiscountRule", err)
	}

	return &structpb.Struct{}, nil
}

func (h *Handler) fail(method string, err error) error {
	st := mapDomainErrorToGRPC(err)
	if status.Code(st) == codes.Internal || status.Code(st) == codes.Unavailable {
		h.logger.Error("pricing call failed", zap.String("method", method), zap.Error(err))
	}
	return st
}
