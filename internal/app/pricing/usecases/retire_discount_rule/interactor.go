package retire_discount_rule

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
	"github.com/light-bringer/adpricing-service/internal/pkg/committer"
)

// Request contains the rule to retire.
type Request struct {
	RuleID string
}

// Interactor handles the retire discount rule use case.
type Interactor struct {
	repo      contracts.DiscountRuleRepository
	committer *committer.Committer
	cache     contracts.SnapshotCache
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new retire discount rule interactor. cache may be nil.
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

// Execute ends a rule's validity now. Rules are never deleted so past quotes stay explainable.
func (i *Interactor) Execute(ctx context.Context, req *Request) error {
	if req.RuleID == "" {
		return domain.ErrMissingID
	}

	// 1. Load rule
	rule, err := i.repo.GetByID(ctx, req.RuleID)
	if err != nil {
		return err
	}

	// 2. Call domain method
	if err := rule.Retire(i.clock.Now()); err != nil {
		return err
	}

	// 3. Create and apply plan
	plan := committer.NewPlan()
	plan.Add(i.repo.RetireMut(rule))
	if err := i.committer.Apply(ctx, plan); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	if i.cache != nil {
		i.cache.Purge()
	}

	i.logger.Info("discount rule retired", zap.String("rule_id", rule.ID()))
	return nil
}
