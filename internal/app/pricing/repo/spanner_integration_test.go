//go:build integration

package repo

import (
	"context"
	"testing"
	"time"

	"cloud.google.com/go/spanner"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/testutil"
)

var (
	jan = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	jun = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	sep = time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)
)

func TestRateRepository_GetActiveRate(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	repository := NewRateRepo(client)

	spring := testutil.CreateTestRate(t, client, "service", 10000, jan, jun)
	summer := testutil.CreateTestRate(t, client, "service", 12000, jun, time.Time{})

	t.Run("inside a closed window", func(t *testing.T) {
		rate, err := repository.GetActiveRate(ctx, domain.ProductService, jan.AddDate(0, 2, 0))
		require.NoError(t, err)
		assert.Equal(t, spring, rate.ID())
		assert.Equal(t, domain.Money(10000), rate.UnitAmount())
	})

	t.Run("window end is exclusive", func(t *testing.T) {
		rate, err := repository.GetActiveRate(ctx, domain.ProductService, jun)
		require.NoError(t, err)
		assert.Equal(t, summer, rate.ID())
		assert.True(t, rate.Window().OpenEnded())
	})

	t.Run("before any rate", func(t *testing.T) {
		_, err := repository.GetActiveRate(ctx, domain.ProductService, jan.Add(-time.Second))
		assert.ErrorIs(t, err, domain.ErrRateNotFound)
	})

	t.Run("other product", func(t *testing.T) {
		_, err := repository.GetActiveRate(ctx, domain.ProductBoxAdvertising, jun)
		assert.ErrorIs(t, err, domain.ErrRateNotFound)
	})
}

func TestRateRepository_AmbiguousRate(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	repository := NewRateRepo(client)

	testutil.CreateTestRate(t, client, "service", 10000, jan, time.Time{})
	testutil.CreateTestRate(t, client, "service", 11000, jun, time.Time{})

	_, err := repository.GetActiveRate(context.Background(), domain.ProductService, sep)
	assert.ErrorIs(t, err, domain.ErrAmbiguousRate)
}

func TestRateRepository_InsertAndClose(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	repository := NewRateRepo(client)

	rate, err := domain.NewRate("rate-1", domain.ProductBoxAdvertising, 2500, domain.BasisPerDay, domain.OpenEndedFrom(jan))
	require.NoError(t, err)
	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(rate)})
	require.NoError(t, err)
	testutil.AssertRowCount(t, client, "rates", 1)

	open, err := repository.GetOpenRate(ctx, client.Single(), domain.ProductBoxAdvertising)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, domain.BasisPerDay, open.Basis())

	require.NoError(t, open.Close(jun))
	_, err = client.Apply(ctx, []*spanner.Mutation{repository.CloseMut(open)})
	require.NoError(t, err)

	open, err = repository.GetOpenRate(ctx, client.Single(), domain.ProductBoxAdvertising)
	require.NoError(t, err)
	assert.Nil(t, open)

	_, err = repository.GetActiveRate(ctx, domain.ProductBoxAdvertising, jun)
	assert.ErrorIs(t, err, domain.ErrRateNotFound)
}

func TestDiscountRuleRepository(t *testing.T) {
	client := testutil.SetupSpannerTest(t)
	ctx := context.Background()
	repository := NewDiscountRuleRepo(client)

	percent, err := domain.PercentOff(decimal.RequireFromString("12.5"))
	require.NoError(t, err)
	tier, err := domain.NewDiscountRule(domain.DiscountRuleParams{
		ID:        "tier",
		Product:   domain.ProductBoxAdvertising,
		Kind:      domain.KindQuantityTier,
		Threshold: 5,
		Effect:    percent,
		Window:    domain.OpenEndedFrom(jan),
	})
	require.NoError(t, err)

	_, err = client.Apply(ctx, []*spanner.Mutation{repository.InsertMut(tier)})
	require.NoError(t, err)
	promoID := testutil.CreateTestPromoRule(t, client, "SOMMER", 2000, jun, sep)

	t.Run("product and any scope inside the window", func(t *testing.T) {
		rules, err := repository.GetActiveRules(ctx, domain.ProductBoxAdvertising, jun)
		require.NoError(t, err)
		require.Len(t, rules, 2)

		ids := []string{rules[0].ID(), rules[1].ID()}
		assert.ElementsMatch(t, []string{"tier", promoID}, ids)
	})

	t.Run("percent survives the numeric column", func(t *testing.T) {
		rule, err := repository.GetByID(ctx, "tier")
		require.NoError(t, err)
		assert.True(t, rule.Effect().Percent().Equal(decimal.RequireFromString("12.5")))
	})

	t.Run("promo window end is exclusive", func(t *testing.T) {
		rules, err := repository.GetActiveRules(ctx, domain.ProductService, sep)
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("retire", func(t *testing.T) {
		rule, err := repository.GetByID(ctx, promoID)
		require.NoError(t, err)
		require.NoError(t, rule.Retire(jun.AddDate(0, 1, 0)))

		_, err = client.Apply(ctx, []*spanner.Mutation{repository.RetireMut(rule)})
		require.NoError(t, err)

		rules, err := repository.GetActiveRules(ctx, domain.ProductService, jun.AddDate(0, 2, 0))
		require.NoError(t, err)
		assert.Empty(t, rules)
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repository.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrRuleNotFound)
	})
}
