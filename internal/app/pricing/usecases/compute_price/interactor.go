package compute_price

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/quote"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
)

const defaultBatchConcurrency = 8

// Request contains one line item to price.
type Request struct {
	Product      string
	Quantity     int64
	DurationDays int64
	// AsOf is the pricing instant. Zero means now.
	AsOf       time.Time
	PromoCodes []string
	// SuppressPromotions overrides the configured promotions default when set.
	SuppressPromotions *bool
}

// BatchRequest contains independent line items priced at one instant.
type BatchRequest struct {
	Items []*Request
	// AsOf applies to items that carry none. Zero means now, read once for the whole batch.
	AsOf time.Time
}

// Options tunes the interactor.
type Options struct {
	PromotionsEnabled bool
	BatchConcurrency  int
}

// Interactor handles the compute price use case.
type Interactor struct {
	providers  contracts.Providers
	calculator *services.PriceCalculator
	clock      clock.Clock
	opts       Options
	logger     *zap.Logger
}

// NewInteractor creates a new compute price interactor.
func NewInteractor(
	providers contracts.Providers,
	calculator *services.PriceCalculator,
	clock clock.Clock,
	opts Options,
	logger *zap.Logger,
) *Interactor {
	if opts.BatchConcurrency <= 0 {
		opts.BatchConcurrency = defaultBatchConcurrency
	}
	return &Interactor{
		providers:  providers,
		calculator: calculator,
		clock:      clock,
		opts:       opts,
		logger:     logger,
	}
}

// Execute prices a single line item.
func (i *Interactor) Execute(ctx context.Context, req *Request) (*quote.Quote, error) {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = i.clock.Now()
	}

	breakdown, err := i.ComputeBreakdown(ctx, req, asOf)
	if err != nil {
		return nil, err
	}
	return quote.FromBreakdown(breakdown), nil
}

// ExecuteBatch prices every item independently. The result has one entry per item,
// in input order, holding either a quote or that item's error.
func (i *Interactor) ExecuteBatch(ctx context.Context, req *BatchRequest) []quote.BatchItem {
	asOf := req.AsOf
	if asOf.IsZero() {
		asOf = i.clock.Now()
	}

	results := make([]quote.BatchItem, len(req.Items))

	g := new(errgroup.Group)
	g.SetLimit(i.opts.BatchConcurrency)
	for idx, item := range req.Items {
		g.Go(func() error {
			itemAsOf := asOf
			if item != nil && !item.AsOf.IsZero() {
				itemAsOf = item.AsOf
			}
			results[idx] = quote.FromResult(i.ComputeBreakdown(ctx, item, itemAsOf))
			return nil
		})
	}
	_ = g.Wait()

	failed := 0
	for _, r := range results {
		if r.Error != nil {
			failed++
		}
	}
	i.logger.Debug("batch priced",
		zap.Int("items", len(results)),
		zap.Int("failed", failed),
		zap.Time("as_of", asOf),
	)

	return results
}

// ComputeBreakdown prices one item at asOf.
func (i *Interactor) ComputeBreakdown(ctx context.Context, req *Request, asOf time.Time) (*domain.Breakdown, error) {
	item, err := i.lineItem(req)
	if err != nil {
		return nil, err
	}

	rate, rules, err := i.lookup(ctx, item.Product, asOf)
	if err != nil {
		i.logger.Info("price lookup failed",
			zap.String("product", string(item.Product)),
			zap.Time("as_of", asOf),
			zap.Error(err),
		)
		return nil, err
	}

	breakdown, err := i.calculator.Calculate(rate, rules, item)
	if err != nil {
		return nil, err
	}

	i.logger.Debug("price computed",
		zap.String("product", string(item.Product)),
		zap.String("rate_id", breakdown.RateID),
		zap.Int64("base_amount", breakdown.BaseAmount.Int64()),
		zap.Int64("final_amount", breakdown.FinalAmount.Int64()),
		zap.Int("discounts", len(breakdown.Applied)),
	)
	return breakdown, nil
}

func (i *Interactor) lineItem(req *Request) (domain.LineItem, error) {
	if req == nil {
		return domain.LineItem{}, fmt.Errorf("%w: empty line item", domain.ErrInvalidRequest)
	}

	product, err := domain.ParseProduct(req.Product)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("%w: %q", err, req.Product)
	}

	suppress := !i.opts.PromotionsEnabled
	if req.SuppressPromotions != nil {
		suppress = *req.SuppressPromotions
	}

	item := domain.LineItem{
		Product:            product,
		Quantity:           req.Quantity,
		DurationDays:       req.DurationDays,
		PromoCodes:         req.PromoCodes,
		SuppressPromotions: suppress,
	}
	if err := item.Validate(); err != nil {
		return domain.LineItem{}, err
	}
	return item, nil
}

// lookup fetches the rate and the rules concurrently. Neither lookup cancels the other and
// a rate failure takes precedence, so a missing rate is always reported as such.
func (i *Interactor) lookup(ctx context.Context, product domain.Product, asOf time.Time) (*domain.Rate, []*domain.DiscountRule, error) {
	var (
		rate             *domain.Rate
		rules            []*domain.DiscountRule
		rateErr, ruleErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		rate, rateErr = i.providers.Rates.GetActiveRate(ctx, product, asOf)
		return rateErr
	})
	g.Go(func() error {
		rules, ruleErr = i.providers.Rules.GetActiveRules(ctx, product, asOf)
		return ruleErr
	})
	_ = g.Wait()

	if rateErr != nil {
		return nil, nil, rateErr
	}
	if ruleErr != nil {
		return nil, nil, ruleErr
	}
	return rate, rules, nil
}
