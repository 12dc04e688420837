package contracts

import (
	"context"

	"cloud.google.com/go/spanner"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
)

// Reader is the query surface shared by single-use reads and read-write transactions.
type Reader interface {
	Query(ctx context.Context, statement spanner.Statement) *spanner.RowIterator
}

// RateRepository defines rate persistence for catalog administration.
// Repositories return mutations, they don't apply them (Golden Mutation Pattern).
type RateRepository interface {
	RateProvider

	// InsertMut creates a mutation for inserting a new rate
	InsertMut(rate *domain.Rate) *spanner.Mutation

	// CloseMut creates a mutation that persists the end of a rate's window
	CloseMut(rate *domain.Rate) *spanner.Mutation

	// GetOpenRate returns the product's open-ended rate, or nil when there is none.
	// Pass the transaction that will carry the resulting mutations.
	GetOpenRate(ctx context.Context, r Reader, product domain.Product) (*domain.Rate, error)
}

// DiscountRuleRepository defines discount rule persistence for catalog administration.
type DiscountRuleRepository interface {
	DiscountRuleProvider

	// InsertMut creates a mutation for inserting a new rule
	InsertMut(rule *domain.DiscountRule) *spanner.Mutation

	// RetireMut creates a mutation that persists the end of a rule's validity
	RetireMut(rule *domain.DiscountRule) *spanner.Mutation

	// GetByID retrieves a rule, returning domain.ErrRuleNotFound when absent
	GetByID(ctx context.Context, ruleID string) (*domain.DiscountRule, error)
}
