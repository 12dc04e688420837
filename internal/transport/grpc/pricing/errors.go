package pricing

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// mapDomainErrorToGRPC converts domain errors to gRPC status errors.
// The message keeps the wrapped detail, for example which product had no rate.
func mapDomainErrorToGRPC(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	// Upstream first: a failed lookup wraps the provider error it gave up on.
	case errors.Is(err, domain.ErrUpstreamUnavailable):
		return status.Error(codes.Unavailable, err.Error())

	case errors.Is(err, domain.ErrRateNotFound):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrMissingID),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrInvalidBasis),
		errors.Is(err, domain.ErrInvalidDiscountPercent),
		errors.Is(err, domain.ErrInvalidEffect),
		errors.Is(err, domain.ErrInvalidRuleKind),
		errors.Is(err, domain.ErrNegativeThreshold),
		errors.Is(err, domain.ErrMissingPromoCode),
		errors.Is(err, domain.ErrUnexpectedPromoCode):
		return status.Error(codes.InvalidArgument, err.Error())

	case errors.Is(err, domain.ErrRuleNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, domain.ErrRuleNotActive),
		errors.Is(err, domain.ErrRateNotOpen),
		errors.Is(err, domain.ErrRateOverlap):
		return status.Error(codes.FailedPrecondition, err.Error())

	case errors.Is(err, domain.ErrAmbiguousRate):
		return status.Error(codes.Internal, err.Error())

	default:
		return status.Error(codes.Internal, "internal error")
	}
}
