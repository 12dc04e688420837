package m_discount_rule

import (
	"cloud.google.com/go/spanner"
)

// Model provides a facade for type-safe operations on the discount_rules table.
type Model struct{}

// NewModel creates a new Model instance.
func NewModel() *Model {
	return &Model{}
}

// InsertMut creates a Spanner mutation for inserting a discount rule.
func (m *Model) InsertMut(data *Data) *spanner.Mutation {
	return spanner.Insert(
		TableName,
		[]string{RuleID, Product, Kind, Threshold, PercentOff, AmountOff, Code, ValidFrom, ValidTo, CreatedAt, UpdatedAt},
		[]interface{}{
			data.RuleID,
			data.Product,
			data.Kind,
			data.Threshold,
			data.PercentOff,
			data.AmountOff,
			data.Code,
			data.ValidFrom,
			data.ValidTo,
			spanner.CommitTimestamp,
			spanner.CommitTimestamp,
		},
	)
}

// UpdateMut creates a Spanner mutation for updating specific rule fields.
func (m *Model) UpdateMut(ruleID string, updates map[string]interface{}) *spanner.Mutation {
	if len(updates) == 0 {
		return nil
	}

	updates[UpdatedAt] = spanner.CommitTimestamp

	columns := make([]string, 0, len(updates)+1)
	values := make([]interface{}, 0, len(updates)+1)

	columns = append(columns, RuleID)
	values = append(values, ruleID)

	for col, val := range updates {
		columns = append(columns, col)
		values = append(values, val)
	}

	return spanner.Update(TableName, columns, values)
}
