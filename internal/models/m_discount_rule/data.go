package m_discount_rule

import (
	"time"

	"cloud.google.com/go/spanner"
)

// Data represents the database model for the discount_rules table.
// Exactly one of PercentOff and AmountOff is set; Code is set only for promo-code rules.
type Data struct {
	RuleID     string              `spanner:"rule_id"`
	Product    string              `spanner:"product"`
	Kind       string              `spanner:"kind"`
	Threshold  int64               `spanner:"threshold"`
	PercentOff spanner.NullNumeric `spanner:"percent_off"`
	AmountOff  spanner.NullInt64   `spanner:"amount_off"`
	Code       spanner.NullString  `spanner:"code"`
	ValidFrom  time.Time           `spanner:"valid_from"`
	ValidTo    spanner.NullTime    `spanner:"valid_to"`
}
