package m_rate

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the rates table.
type Data struct {
	RateID        string           `spanner:"rate_id"`
	Product       string           `spanner:"product"`
	UnitAmount    int64            `spanner:"unit_amount"`
	Basis         string           `spanner:"basis"`
	EffectiveFrom time.Time        `spanner:"effective_from"`
	EffectiveTo   spanner.NullTime `spanner:"effective_to"`
}
