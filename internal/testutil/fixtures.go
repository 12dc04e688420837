package testutil

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/adpricing-service/internal/models/m_discount_rule"
	"github.com/light-bringer/adpricing-service/internal/models/m_rate"
)

// CreateTestRate inserts a flat rate directly. A zero to leaves it open-ended.
func CreateTestRate(t *testing.T, client *spanner.Client, product string, unitAmount int64, from, to time.Time) string {
	t.Helper()

	rateID := uuid.New().String()
	data := &m_rate.Data{
		RateID:        rateID,
		Product:       product,
		UnitAmount:    unitAmount,
		Basis:         "flat",
		EffectiveFrom: from,
		EffectiveTo:   spanner.NullTime{Time: to, Valid: !to.IsZero()},
	}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{m_rate.NewModel().InsertMut(data)})
	require.NoError(t, err, "failed to create test rate")
	return rateID
}

// CreateTestPromoRule inserts an amount-off promo-code rule directly.
func CreateTestPromoRule(t *testing.T, client *spanner.Client, code string, amountOff int64, from, to time.Time) string {
	t.Helper()

	ruleID := uuid.New().String()
	data := &m_discount_rule.Data{
		RuleID:    ruleID,
		Product:   "any",
		Kind:      "promo-code",
		AmountOff: spanner.NullInt64{Int64: amountOff, Valid: true},
		Code:      spanner.NullString{StringVal: code, Valid: true},
		ValidFrom: from,
		ValidTo:   spanner.NullTime{Time: to, Valid: !to.IsZero()},
	}

	_, err := client.Apply(context.Background(), []*spanner.Mutation{m_discount_rule.NewModel().InsertMut(data)})
	require.NoError(t, err, "failed to create test promo rule")
	return ruleID
}
