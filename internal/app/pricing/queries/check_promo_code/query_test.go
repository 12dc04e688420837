package check_promo_code

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/repo/memory"
	"github.com/light-bringer/adpricing-service/internal/pkg/clock"
)

const catalogYAML = `
discount_rules:
  - id: sommer
    product: any
    kind: promo-code
    code: SOMMER
    amount_off: 2000
    valid_from: 2025-06-01T00:00:00Z
    valid_to: 2025-09-01T00:00:00Z
  - id: boxonly
    product: box-advertising
    kind: promo-code
    code: BOX10
    percent_off: 10
    valid_from: 2025-01-01T00:00:00Z
  - id: q5
    product: any
    kind: quantity-tier
    threshold: 0
    percent_off: 10
    valid_from: 2025-01-01T00:00:00Z
`

func TestQuery_Execute(t *testing.T) {
	ctx := context.Background()
	cat, err := memory.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)
	q := NewQuery(cat, clock.NewMockClock(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)))

	t.Run("code valid for every product", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Code: "SOMMER"})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, "sommer", res.RuleID)
		assert.Equal(t, domain.Products(), res.Products)
	})

	t.Run("product scoped code", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Code: "BOX10"})
		require.NoError(t, err)
		assert.Equal(t, []domain.Product{domain.ProductBoxAdvertising}, res.Products)

		res, err = q.Execute(ctx, &Request{Code: "BOX10", Product: "service"})
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("match is case-sensitive", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Code: "sommer"})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Empty(t, res.RuleID)
	})

	t.Run("expired code is not valid", func(t *testing.T) {
		res, err := q.Execute(ctx, &Request{Code: "SOMMER", AsOf: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC)})
		require.NoError(t, err)
		assert.False(t, res.Valid)
	})

	t.Run("empty code is invalid", func(t *testing.T) {
		_, err := q.Execute(ctx, &Request{})
		assert.ErrorIs(t, err, domain.ErrInvalidRequest)
	})

	t.Run("unknown product is invalid", func(t *testing.T) {
		_, err := q.Execute(ctx, &Request{Code: "SOMMER", Product: "banner"})
		assert.ErrorIs(t, err, domain.ErrUnknownProduct)
	})
}
