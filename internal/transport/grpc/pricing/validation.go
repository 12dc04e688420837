package pricing

import (
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/light-bringer/adpricing-service/internal/transport/dto"
)

func validateQuoteRequest(req *dto.QuoteRequest) error {
	if req.Product == "" {
		return status.Error(codes.InvalidArgument, "product is required")
	}
	return validateTimestamp("as_of", req.AsOf)
}

func validateBatchQuoteRequest(req *dto.BatchQuoteRequest) error {
	if req.Items == nil {
		return status.Error(codes.InvalidArgument, "items is required")
	}
	// Per-item problems are reported inside the batch reply.
	return validateTimestamp("as_of", req.AsOf)
}

func validatePromoCodeRequest(req *dto.PromoCodeRequest) error {
	if req.Code == "" {
		return status.Error(codes.InvalidArgument, "code is required")
	}
	return validateTimestamp("as_of", req.AsOf)
}

func validatePublishRateRequest(req *dto.PublishRateRequest) error {
	if req.Product == "" {
		return status.Error(codes.InvalidArgument, "product is required")
	}
	if req.UnitAmount < 0 {
		return status.Error(codes.InvalidArgument, "unit_amount cannot be negative")
	}
	if err := validateTimestamp("effective_from", req.EffectiveFrom); err != nil {
		return err
	}
	return validateTimestamp("effective_to", req.EffectiveTo)
}

func validateCreateDiscountRuleRequest(req *dto.CreateDiscountRuleRequest) error {
	if req.Product == "" {
		return status.Error(codes.InvalidArgument, "product is required")
	}
	if req.Kind == "" {
		return status.Error(codes.InvalidArgument, "kind is required")
	}
	if err := validateTimestamp("valid_from", req.ValidFrom); err != nil {
		return err
	}
	return validateTimestamp("valid_to", req.ValidTo)
}

func validateRetireDiscountRuleRequest(req *dto.RetireDiscountRuleRequest) error {
	if req.RuleID == "" {
		return status.Error(codes.InvalidArgument, "rule_id is required")
	}
	return nil
}

// validateTimestamp rejects instants a google.protobuf.Timestamp cannot carry.
func validateTimestamp(field string, t *time.Time) error {
	if t == nil {
		return nil
	}
	if err := timestamppb.New(*t).CheckValid(); err != nil {
		return status.Errorf(codes.InvalidArgument, "%s: %v", field, err)
	}
	return nil
}
