// Package memory serves rates and discount rules from an in-process catalog,
// typically loaded from a YAML file. It backs the quote CLI, local runs and tests.
package memory

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// Catalog is an immutable in-memory rate table and rule set.
type Catalog struct {
	rates []*domain.Rate
	rules []*domain.DiscountRule
}

var (
	_ contracts.RateProvider         = (*Catalog)(nil)
	_ contracts.DiscountRuleProvider = (*Catalog)(nil)
)

// NewCatalog creates a Catalog from domain objects.
func NewCatalog(rates []*domain.Rate, rules []*domain.DiscountRule) *Catalog {
	sorted := append([]*domain.DiscountRule(nil), rules...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID() < sorted[j].ID() })
	return &Catalog{
		rates: append([]*domain.Rate(nil), rates...),
		rules: sorted,
	}
}

// GetActiveRate returns the product's rate whose window contains asOf.
func (c *Catalog) GetActiveRate(ctx context.Context, product domain.Product, asOf time.Time) (*domain.Rate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var found *domain.Rate
	for _, r := range c.rates {
		if r.Product() != product || !r.IsActiveAt(asOf) {
			continue
		}
		if found != nil {
			return nil, fmt.Errorf("%w: %s has rates %s and %s", domain.ErrAmbiguousRate, product, found.ID(), r.ID())
		}
		found = r
	}
	if found == nil {
		return nil, fmt.Errorf("%w: %s at %s", domain.ErrRateNotFound, product, asOf.UTC().Format(time.RFC3339))
	}
	return found, nil
}

// GetActiveRules returns the rules valid at asOf for the product or for any product, ordered by ID.
func (c *Catalog) GetActiveRules(ctx context.Context, product domain.Product, asOf time.Time) ([]*domain.DiscountRule, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	active := make([]*domain.DiscountRule, 0)
	for _, r := range c.rules {
		if r.AppliesTo(product) && r.IsActiveAt(asOf) {
			active = append(active, r)
		}
	}
	return active, nil
}

// File is the YAML layout of a catalog.
type File struct {
	Rates         []RateEntry `yaml:"rates"`
	DiscountRules []RuleEntry `yaml:"discount_rules"`
}

// RateEntry is one rate in a catalog file.
type RateEntry struct {
	ID            string    `yaml:"id"`
	Product       string    `yaml:"product"`
	UnitAmount    int64     `yaml:"unit_amount"`
	Basis         string    `yaml:"basis"`
	EffectiveFrom time.Time `yaml:"effective_from"`
	EffectiveTo   time.Time `yaml:"effective_to"`
}

// RuleEntry is one discount rule in a catalog file.
// Set exactly one of PercentOff and AmountOff.
type RuleEntry struct {
	ID         string    `yaml:"id"`
	Product    string    `yaml:"product"`
	Kind       string    `yaml:"kind"`
	Threshold  int64     `yaml:"threshold"`
	PercentOff *string   `yaml:"percent_off"`
	AmountOff  *int64    `yaml:"amount_off"`
	Code       string    `yaml:"code"`
	ValidFrom  time.Time `yaml:"valid_from"`
	ValidTo    time.Time `yaml:"valid_to"`
}

// LoadCatalog reads a YAML catalog file.
func LoadCatalog(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return ParseCatalog(raw)
}

// ParseCatalog decodes and validates a YAML catalog.
func ParseCatalog(raw []byte) (*Catalog, error) {
	var f File
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	rates := make([]*domain.Rate, 0, len(f.Rates))
	for i, e := range f.Rates {
		rate, err := e.toDomain()
		if err != nil {
			return nil, fmt.Errorf("rate %d (%s): %w", i, e.ID, err)
		}
		rates = append(rates, rate)
	}

	rules := make([]*domain.DiscountRule, 0, len(f.DiscountRules))
	for i, e := range f.DiscountRules {
		rule, err := e.toDomain()
		if err != nil {
			return nil, fmt.Errorf("discount rule %d (%s): %w", i, e.ID, err)
		}
		rules = append(rules, rule)
	}

	return NewCatalog(rates, rules), nil
}

func (e RateEntry) toDomain() (*domain.Rate, error) {
	product, err := domain.ParseProduct(e.Product)
	if err != nil {
		return nil, err
	}
	basis, err := domain.ParseBasis(e.Basis)
	if err != nil {
		return nil, err
	}
	window, err := domain.NewWindow(e.EffectiveFrom, e.EffectiveTo)
	if err != nil {
		return nil, err
	}
	return domain.NewRate(e.ID, product, domain.Money(e.UnitAmount), basis, window)
}

func (e RuleEntry) toDomain() (*domain.DiscountRule, error) {
	product, err := domain.ParseRuleScope(e.Product)
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseRuleKind(e.Kind)
	if err != nil {
		return nil, err
	}

	var percentOff *decimal.Decimal
	if e.PercentOff != nil {
		p, err := decimal.NewFromString(*e.PercentOff)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidDiscountPercent, err)
		}
		percentOff = &p
	}
	var amountOff *domain.Money
	if e.AmountOff != nil {
		a := domain.Money(*e.AmountOff)
		amountOff = &a
	}
	effect, err := domain.EffectFromColumns(percentOff, amountOff)
	if err != nil {
		return nil, err
	}

	window, err := domain.NewWindow(e.ValidFrom, e.ValidTo)
	if err != nil {
		return nil, err
	}

	return domain.NewDiscountRule(domain.DiscountRuleParams{
		ID:        e.ID,
		Product:   product,
		Kind:      kind,
		Threshold: e.Threshold,
		Effect:    effect,
		Code:      e.Code,
		Window:    window,
	})
}
