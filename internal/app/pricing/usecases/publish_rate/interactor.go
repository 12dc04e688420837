package publish_rate

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
	"github.com/light-bringer/adpricing-service/internal/pkg/committer"
)

// Request contains the data to publish a new rate.
type Request struct {
	Product    string
	UnitAmount int64
	Basis      string
	// EffectiveFrom defaults to now.
	EffectiveFrom time.Time
	// EffectiveTo is optional; zero leaves the rate open-ended.
	EffectiveTo time.Time
}

// Interactor handles the publish rate use case.
type Interactor struct {
	repo      contracts.RateRepository
	committer *committer.Committer
	cache     contracts.SnapshotCache
	clock     clock.Clock
	logger    *zap.Logger
}

// NewInteractor creates a new publish rate interactor. cache may be nil.
func NewInteractor(
	repo contracts.RateRepository,
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

// Execute publishes a rate. The product's open rate, if any, is closed where the new
// one starts, in the same transaction, so at most one rate is active at any instant.
func (i *Interactor) Execute(ctx context.Context, req *Request) (string, error) {
	// 1. Build the new rate
	rate, err := i.newRate(req)
	if err != nil {
		return "", err
	}

	// 2. Close the open rate and insert the new one atomically
	var closed string
	err = i.committer.ApplyInTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) (*committer.CommitPlan, error) {
		plan := committer.NewPlan()
		closed = ""

		open, err := i.repo.GetOpenRate(ctx, txn, rate.Product())
		if err != nil {
			return nil, err
		}
		if open != nil {
			if err := open.Close(rate.EffectiveFrom()); err != nil {
				return nil, fmt.Errorf("cannot supersede rate %s: %w", open.ID(), err)
			}
			plan.Add(i.repo.CloseMut(open))
			closed = open.ID()
		}

		plan.Add(i.repo.InsertMut(rate))
		return plan, nil
	})
	if err != nil {
		return "", err
	}

	// 3. Drop cached snapshots
	if i.cache != nil {
		i.cache.Purge()
	}

	i.logger.Info("rate published",
		zap.String("rate_id", rate.ID()),
		zap.String("product", string(rate.Product())),
		zap.Int64("unit_amount", rate.UnitAmount().Int64()),
		zap.String("superseded", closed),
	)
	return rate.ID(), nil
}

func (i *Interactor) newRate(req *Request) (*domain.Rate, error) {
	product, err := domain.ParseProduct(req.Product)
	if err != nil {
		return nil, err
	}
	basis, err := domain.ParseBasis(req.Basis)
	if err != nil {
		return nil, err
	}

	from := req.EffectiveFrom
	if from.IsZero() {
		from = i.clock.Now()
	}
	window, err := domain.NewWindow(from, req.EffectiveTo)
	if err != nil {
		return nil, err
	}

	return domain.NewRate(uuid.New().String(), product, domain.Money(req.UnitAmount), basis, window)
}
