// Package committer implements the Golden Mutation Pattern for Spanner transactions.
//
// Repositories build mutations without applying them, usecases collect those mutations
// into a CommitPlan, and the Committer applies the plan atomically:
//
//	rule, err := domain.NewDiscountRule(params)
//	if err != nil {
//	    return err
//	}
//
//	plan := committer.NewPlan()
//	plan.Add(ruleRepo.InsertMut(rule))
//
//	return committer.Apply(ctx, plan)
//
// When building the plan needs reads that must be consistent with the write (closing the
// currently open rate before publishing a new one), use ApplyInTransaction so the reads and
// the buffered plan share one read-write transaction.
package committer

import (
	"context"
	"fmt"

	"cloud.google.com/go/spanner"
)

// CommitPlan is a typed wrapper around Spanner mutations for the Golden Mutation Pattern.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// Mutations returns all collected mutations.
func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

// IsEmpty returns true if the plan has no mutations.
func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

// Count returns the number of mutations in the plan.
func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

// NewCommitter creates a new Committer.
func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// PlanFunc reads inside a transaction and returns the plan to commit with it.
type PlanFunc func(ctx context.Context, txn *spanner.ReadWriteTransaction) (*CommitPlan, error)

// ApplyInTransaction runs build inside a read-write transaction and buffers the plan it
// returns. Errors returned by build are passed through unwrapped so callers can match
// domain sentinels; Spanner may invoke build more than once on abort.
func (c *Committer) ApplyInTransaction(ctx context.Context, build PlanFunc) error {
	var buildErr error
	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		buildErr = nil
		plan, err := build(ctx, txn)
		if err != nil {
			buildErr = err
			return err
		}
		if plan.IsEmpty() {
			return nil
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if buildErr != nil {
		return buildErr
	}
	if err != nil {
		return fmt.Errorf("transaction failed: %w", err)
	}
	return nil
}
