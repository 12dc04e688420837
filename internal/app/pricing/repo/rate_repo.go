package repo

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/spanner"
	"google.golang.org/api/iterator"

	"github.com/light-bringer/adpricing-service/internal/app/pricing/contracts"
	"github.com/light-bringer/adpricing-service/internal/app/pricing/domain"
	"github.com/light-bringer/adpricing-service/internal/models/m_rate"
	"github.com/light-bringer/adpricing-service/internal/pkg/query"
)

// RateRepo implements RateRepository for Spanner.
type RateRepo struct {
	client *spanner.Client
	model  *m_rate.Model
}

// NewRateRepo creates a new RateRepo.
func NewRateRepo(client *spanner.Client) *RateRepo {
	return &RateRepo{
		client: client,
		model:  m_rate.NewModel(),
	}
}

var _ contracts.RateRepository = (*RateRepo)(nil)

// GetActiveRate returns the rate of a product whose window contains asOf.
func (r *RateRepo) GetActiveRate(ctx context.Context, product domain.Product, asOf time.Time) (*domain.Rate, error) {
	// Two rows are enough to detect a broken uniqueness invariant.
	stmt := query.From(m_rate.TableName).
		Select(m_rate.Columns...).
		Where(query.Eq(m_rate.Product, string(product))).
		Where(query.ActiveAt(m_rate.EffectiveFrom, m_rate.EffectiveTo, asOf.UTC())...).
		OrderBy(m_rate.EffectiveFrom, query.Desc).
		Limit(2).
		Build()

	rates, err := r.scan(r.client.Single().Query(ctx, stmt))
	if err != nil {
		return nil, err
	}

	switch len(rates) {
	case 0:
		return nil, fmt.Errorf("%w: %s at %s", domain.ErrRateNotFound, product, asOf.UTC().Format(time.RFC3339))
	case 1:
		return rates[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has rates %s and %s", domain.ErrAmbiguousRate, product, rates[0].ID(), rates[1].ID())
	}
}

// GetOpenRate returns the product's open-ended rate, or nil when there is none.
func (r *RateRepo) GetOpenRate(ctx context.Context, rd contracts.Reader, product domain.Product) (*domain.Rate, error) {
	stmt := query.From(m_rate.TableName).
		Select(m_rate.Columns...).
		Where(query.Eq(m_rate.Product, string(product))).
		Where(query.IsNull(m_rate.EffectiveTo)).
		OrderBy(m_rate.EffectiveFrom, query.Desc).
		Limit(2).
		Build()

	rates, err := r.scan(rd.Query(ctx, stmt))
	if err != nil {
		return nil, err
	}

	switch len(rates) {
	case 0:
		return nil, nil
	case 1:
		return rates[0], nil
	default:
		return nil, fmt.Errorf("%w: %s has more than one open rate", domain.ErrAmbiguousRate, product)
	}
}

// InsertMut creates a mutation for inserting a new rate.
func (r *RateRepo) InsertMut(rate *domain.Rate) *spanner.Mutation {
	return r.model.InsertMut(rateToData(rate))
}

// CloseMut creates a mutation that persists the end of a rate's window.
func (r *RateRepo) CloseMut(rate *domain.Rate) *spanner.Mutation {
	return r.model.CloseMut(rate.ID(), nullTime(rate.EffectiveTo()))
}

func (r *RateRepo) scan(iter *spanner.RowIterator) ([]*domain.Rate, error) {
	defer iter.Stop()

	var rates []*domain.Rate
	for {
		row, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate rates: %w", err)
		}

		var data m_rate.Data
		if err := row.ToStruct(&data); err != nil {
			return nil, fmt.Errorf("failed to parse rate: %w", err)
		}

		rate, err := dataToRate(&data)
		if err != nil {
			return nil, fmt.Errorf("invalid rate %s: %w", data.RateID, err)
		}
		rates = append(rates, rate)
	}
	return rates, nil
}

func rateToData(rate *domain.Rate) *m_rate.Data {
	return &m_rate.Data{
		RateID:        rate.ID(),
		Product:       string(rate.Product()),
		UnitAmount:    rate.UnitAmount().Int64(),
		Basis:         string(rate.Basis()),
		EffectiveFrom: rate.EffectiveFrom(),
		EffectiveTo:   nullTime(rate.EffectiveTo()),
	}
}

func dataToRate(data *m_rate.Data) (*domain.Rate, error) {
	window, err := domain.NewWindow(data.EffectiveFrom, timeOrZero(data.EffectiveTo))
	if err != nil {
		return nil, err
	}
	return domain.NewRate(
		data.RateID,
		domain.Product(data.Product),
		domain.Money(data.UnitAmount),
		domain.Basis(data.Basis),
		window,
	)
}

func nullTime(t time.Time) spanner.NullTime {
	if t.IsZero() {
		return spanner.NullTime{}
	}
	return spanner.NullTime{Time: t, Valid: true}
}

func timeOrZero(t spanner.NullTime) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}
