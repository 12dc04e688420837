package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/queries/check_promo_code"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/quote"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/compute_price"
	"github.com/light-bringer/adpricing-service/internal/transport/dto"
)

// QuotesHandler serves the JSON pricing API.
type QuotesHandler struct {
	computePrice   *compute_price.Interactor
	checkPromoCode *check_promo_code.Query
	logger         *zap.Logger
}

// NewQuotesHandler creates a new HTTP quotes handler.
func NewQuotesHandler(
	computePrice *compute_price.Interactor,
	checkPromoCode *check_promo_code.Query,
	logger *zap.Logger,
) *QuotesHandler {
	return &QuotesHandler{
		computePrice:   computePrice,
		checkPromoCode: checkPromoCode,
		logger:         logger,
	}
}

// Register mounts the pricing routes.
func (h *QuotesHandler) Register(r gin.IRouter) {
	v1 := r.Group("/api/v1")
	{
		v1.POST("/quotes", h.CreateQuote)
		v1.POST("/quotes/batch", h.CreateBatchQuote)
		v1.GET("/promo-codes/:code", h.GetPromoCode)
	}
}

// CreateQuote handles POST /api/v1/quotes.
func (h *QuotesHandler) CreateQuote(c *gin.Context) {
	var body dto.QuoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	q, err := h.computePrice.Execute(c.Request.Context(), body.ToUsecase())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, q)
}

// CreateBatchQuote handles POST /api/v1/quotes/batch. Item failures do not fail the request.
func (h *QuotesHandler) CreateBatchQuote(c *gin.Context) {
	var body dto.BatchQuoteRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}

	items := h.computePrice.ExecuteBatch(c.Request.Context(), body.ToUsecase())

	c.JSON(http.StatusOK, dto.BatchQuoteResponse{Items: items})
}

// GetPromoCode handles GET /api/v1/promo-codes/:code?product=&as_of=.
func (h *QuotesHandler) GetPromoCode(c *gin.Context) {
	req := dto.PromoCodeRequest{
		Code:    c.Param("code"),
		Product: c.Query("product"),
	}
	if raw := c.Query("as_of"); raw != "" {
		asOf, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			badRequest(c, err)
			return
		}
		req.AsOf = &asOf
	}

	res, err := h.checkPromoCode.Execute(c.Request.Context(), req.ToQuery())
	if err != nil {
		h.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromPromoCodeResult(res))
}

func (h *QuotesHandler) writeError(c *gin.Context, err error) {
	code := quote.ErrorCode(err)
	status := statusFor(code)

	message := err.Error()
	if status == http.StatusInternalServerError && !errors.Is(err, domain.ErrAmbiguousRate) {
		message = "internal error"
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("pricing request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}

	c.JSON(status, dto.ErrorResponse{Error: quote.Error{Code: code, Message: message}})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{
		Error: quote.Error{Code: quote.CodeInvalidRequest, Message: err.Error()},
	})
}

// statusFor maps a quote error code to an HTTP status.
func statusFor(code string) int {
	switch code {
	case quote.CodeRateNotFound:
		return http.StatusUnprocessableEntity
	case quote.CodeInvalidRequest:
		return http.StatusBadRequest
	case quote.CodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
