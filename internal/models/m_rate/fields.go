package m_rate

// Field name constants for the rates table.
const (
	TableName = "rates"

	RateID        = "rate_id"
	Product       = "product"
	UnitAmount    = "unit_amount"
	Basis         = "basis"
	EffectiveFrom = "effective_from"
	EffectiveTo   = "effective_to"
	CreatedAt     = "created_at"
	UpdatedAt     = "updated_at"
)

// Columns lists every column read back into Data.
var Columns = []string{
	RateID,
	Product,
	UnitAmount,
	Basis,
	EffectiveFrom,
	EffectiveTo,
}
