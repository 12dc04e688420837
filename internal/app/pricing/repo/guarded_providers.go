package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// GuardOptions configures GuardedProviders.
type GuardOptions struct {
	// Timeout bounds each lookup attempt. Zero disables it.
	Timeout time.Duration
	// Retries is the number of extra attempts after a failed lookup.
	Retries int
	// Backoff spaces the attempts.
	Backoff gax.Backoff
}

// GuardedProviders runs every lookup under a timeout and retries transient failures.
// Anything still failing is reported as domain.ErrUpstreamUnavailable; catalog answers
// (no rate, ambiguous rate) pass through untouched.
type GuardedProviders struct {
	next   contracts.Providers
	opts   GuardOptions
	logger *zap.Logger
}

// NewGuardedProviders wraps next with timeouts and retries.
func NewGuardedProviders(next contracts.Providers, opts GuardOptions, logger *zap.Logger) *GuardedProviders {
	return &GuardedProviders{next: next, opts: opts, logger: logger}
}

// Providers exposes the guard as a provider bundle.
func (g *GuardedProviders) Providers() contracts.Providers {
	return contracts.Providers{Rates: g, Rules: g}
}

// GetActiveRate looks up a rate with timeout and retry.
func (g *GuardedProviders) GetActiveRate(ctx context.Context, product domain.Product, asOf time.Time) (*domain.Rate, error) {
	var rate *domain.Rate
	err := g.do(ctx, "rate", product, func(ctx context.Context) error {
		r, err := g.next.Rates.GetActiveRate(ctx, product, asOf)
		rate = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// GetActiveRules looks up discount rules with timeout and retry.
func (g *GuardedProviders) GetActiveRules(ctx context.Context, product domain.Product, asOf time.Time) ([]*domain.DiscountRule, error) {
	var rules []*domain.DiscountRule
	err := g.do(ctx, "discount rules", product, func(ctx context.Context) error {
		r, err := g.next.Rules.GetActiveRules(ctx, product, asOf)
		rules = r
		return err
	})
	if err != nil {
		return nil, err
	}
	return rules, nil
}

func (g *GuardedProviders) do(ctx context.Context, lookup string, product domain.Product, fn func(context.Context) error) error {
	bo := g.opts.Backoff
	for attempt := 0; ; attempt++ {
		err := g.attempt(ctx, fn)
		if err == nil || isCatalogAnswer(err) {
			return err
		}

		if attempt >= g.opts.Retries || ctx.Err() != nil {
			return fmt.Errorf("%w: %s lookup for %s: %w", domain.ErrUpstreamUnavailable, lookup, product, err)
		}

		pause := bo.Pause()
		g.logger.Warn("pricing lookup failed, retrying",
			zap.String("lookup", lookup),
			zap.String("product", string(product)),
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", pause),
			zap.Error(err),
		)
		if err := gax.Sleep(ctx, pause); err != nil {
			return fmt.Errorf("%w: %s lookup for %s: %w", domain.ErrUpstreamUnavailable, lookup, product, err)
		}
	}
}

func (g *GuardedProviders) attempt(ctx context.Context, fn func(context.Context) error) error {
	if g.opts.Timeout <= 0 {
		return fn(ctx)
	}
	ctx, cancel := context.WithTimeout(ctx, g.opts.Timeout)
	defer cancel()
	return fn(ctx)
}

func isCatalogAnswer(err error) bool {
	return errors.Is(err, domain.ErrRateNotFound) || errors.Is(err, domain.ErrAmbiguousRate)
}
