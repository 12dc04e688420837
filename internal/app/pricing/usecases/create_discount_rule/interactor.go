package create_discount_rule

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
	"github.com/light-bringer/adpricing-service/internal/pkg/committer"
)

// Request contains the data needed to create a discount rule.
// Set exactly one of PercentOff and AmountOff.
type Request struct {
	Product    string
	Kind       string
	Threshold  int64
	PercentOff *decimal.Decimal
	AmountOff  *int64
	Code       string
	ValidFrom  time.Time
	ValidTo    time.Time
}

// Interactor handles the create discount rule use case.
type Interactor struct {
	repo      contracts.DiscountRuleRepository
	committer *committer.Committer
	cache     contracts.SnapshotCache
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new create discount rule interactor. cache may be nil.
func NewInteractor(
	repo contracts.DiscountRuleRepository,
	committer *committer.Committer,
	cache contracts.SnapshotCache,
	clock clock.Clock,
	logger *zap.Logger,
) *Interactor {
	return &Interactor{
		repo:      repo,
		committer: committer,
		cache:     cache,
		clock:     clock,
		logger:    logger,
	}
}

// Execute creates a new discount rule following the Golden Mutation Pattern.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	// 1. Create domain object
	rule, err := i.newRule(req)
	if err != nil {
		return "", err
	}

	// 2. Create commit plan
	plan := committer.NewPlan()
	plan.Add(i.repo.InsertMut(rule))

	// 3. Apply plan
	if err := i.committer.Apply(ctx, plan); err != nil {
		return "", fmt.Errorf("failed to commit transaction: %w", err)
	}

	if i.cache != nil {
		i.cache.Purge()
	}

	i.logger.Info("discount rule created",
		zap.String("rule_id", rule.ID()),
		zap.String("kind", string(rule.Kind())),
		zap.String("product", string(rule.Product())),
	)
	return rule.ID(), nil
}

// Validate checks the request without writing anything.
func (i *Interactor) Validate(req *Request) error {
	_, err := i.newRule(req)
	return err
}

func (i *Interactor) newRule(req *Request) (*domain.DiscountRule, error) {
	product, err := domain.ParseRuleScope(req.Product)
	if err != nil {
		return nil, err
	}
	kind, err := domain.ParseRuleKind(req.Kind)
	if err != nil {
		return nil, err
	}

	var amountOff *domain.Money
	if req.AmountOff != nil {
		a := domain.Money(*req.AmountOff)
		amountOff = &a
	}
	effect, err := domain.EffectFromColumns(req.PercentOff, amountOff)
	if err != nil {
		return nil, err
	}

	from := req.ValidFrom
	if from.IsZero() {
		from = i.clock.Now()
	}
	window, err := domain.NewWindow(from, req.ValidTo)
	if err != nil {
		return nil, err
	}

	return domain.NewDiscountRule(domain.DiscountRuleParams{
		ID:        uuid.New().String(),
		Product:   product,
		Kind:      kind,
		Threshold: req.Threshold,
		Effect:    effect,
		Code:      req.Code,
		Window:    window,
	})
}
