package m_rate

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the rates table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a rate.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{RateID, Product, UnitAmount, Basis, EffectiveFrom, EffectiveTo, CreatedAt, UpdatedAt},
		[]interface{}{
			data.RateID,
			data.Product,
			data.UnitAmount,
			data.Basis,
			data.EffectiveFrom,
			data.EffectiveTo,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// CloseMut creates a Spanner mutation that sets the end of a rate's window.
func (m *Model) CloseMut(rateID string, effectiveTo spanner.NullTime) *spanner.Mutation {
	return spanner.Update(
		TableName,
		[]string{RateID, EffectiveTo, UpdatedAt},
		[]interface{}{rateID, effectiveTo, spanner.CommitTimestamp},
	)
}
