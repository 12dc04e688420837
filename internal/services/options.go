package services

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	domainsvc "github.com/light-bringer/adpricing-service/internal/app/pricing/domain/services"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/queries/check_promo_code"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/repo"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/repo/memory"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/compute_price"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/create_discount_rule"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/publish_rate"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/usecases/retire_discount_rule"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
	"github.com/light-bringer/adpricing-service/internal/pkg/committer"
	"github.com/light-bringer/adpricing-service/internal/pkg/config"
	"github.com/light-bringer/adpricing-service/internal/transport/grpc/pricing"
	httphandler "github.com/light-bringer/adpricing-service/internal/transport/http"
)

// ServiceOptions holds all dependencies for the application.
type ServiceOptions struct {
	SpannerClient *spanner.Client

	ComputePrice   *compute_price.Interactor
	CheckPromoCode *check_promo_code.Query

	PricingHandler *pricing.Handler
	QuotesHandler  *httphandler.QuotesHandler
}

// NewServiceOptions creates and wires up all application dependencies.
// The memory store serves a read-only catalog; administration needs Spanner.
func NewServiceOptions(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*ServiceOptions, error) {
	opts := &ServiceOptions{}
	clk := clock.NewRealClock()

	var (
		raw      contracts.Providers
		rateRepo *repo.RateRepo
		ruleRepo *repo.DiscountRuleRepo
		comm     *committer.Committer
	)

	// 1. Initialize the catalog store
	switch cfg.Store {
	case config.StoreMemory:
		cat, err := memory.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			return nil, err
		}
		raw = contracts.Providers{Rates: cat, Rules: cat}

	default:
		client, err := spanner.NewClient(ctx, cfg.Spanner.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to create Spanner client: %w", err)
		}
		opts.SpannerClient = client

		rateRepo = repo.NewRateRepo(client)
		ruleRepo = repo.NewDiscountRuleRepo(client)
		comm = committer.NewCommitter(client)
		raw = contracts.Providers{Rates: rateRepo, Rules: ruleRepo}
	}

	// 2. Decorate providers: guard the store, cache above the guard
	providers := repo.NewGuardedProviders(raw, repo.GuardOptions{
		Timeout: cfg.Pricing.LookupTimeout,
		Retries: cfg.Pricing.Retries,
		Backoff: gax.Backoff{
			Initial:    cfg.Pricing.RetryInitial,
			Max:        cfg.Pricing.RetryMax,
			Multiplier: 2,
		},
	}, logger).Providers()

	var cache contracts.SnapshotCache
	if cfg.Cache.Enabled {
		cached := repo.NewCachedProviders(providers, repo.CacheOptions{
			Size: cfg.Cache.Size,
			TTL:  cfg.Cache.TTL,
		})
		providers = cached.Providers()
		cache = cached
	}

	// 3. Create query use cases (read operations)
	opts.ComputePrice = compute_price.NewInteractor(
		providers,
		domainsvc.NewPriceCalculator(),
		clk,
		compute_price.Options{
			PromotionsEnabled: cfg.Pricing.PromotionsEnabled,
			BatchConcurrency:  cfg.Pricing.BatchConcurrency,
		},
		logger,
	)
	opts.CheckPromoCode = check_promo_code.NewQuery(providers.Rules, clk)

	// 4. Create command use cases (write operations), Spanner only
	var (
		publishRateUseCase *publish_rate.Interactor
		createRuleUseCase  *create_discount_rule.Interactor
		retireRuleUseCase  *retire_discount_rule.Interactor
	)
	if comm != nil {
		publishRateUseCase = publish_rate.NewInteractor(rateRepo, comm, cache, clk, logger)
		createRuleUseCase = create_discount_rule.NewInteractor(ruleRepo, comm, cache, clk, logger)
		retireRuleUseCase = retire_discount_rule.NewInteractor(ruleRepo, comm, cache, clk, logger)
	}

	// 5. Create transport handlers
	opts.PricingHandler = pricing.NewHandler(
		opts.ComputePrice,
		opts.CheckPromoCode,
		publishRateUseCase,
		createRuleUseCase,
		retireRuleUseCase,
		logger,
	)
	opts.QuotesHandler = httphandler.NewQuotesHandler(opts.ComputePrice, opts.CheckPromoCode, logger)

	return opts, nil
}

// Close closes all resources.
func (s *ServiceOptions) Close() {
	if s.SpannerClient != nil {
		s.SpannerClient.Close()
	}
}
