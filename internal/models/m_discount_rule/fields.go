package m_discount_rule

// Field name constants for the discount_rules table.
const (
	TableName = "discount_rules"

	RuleID     = "rule_id"
	Product    = "product"
	Kind       = "kind"
	Threshold  = "threshold"
	PercentOff = "percent_off"
	AmountOff  = "amount_off"
	Code       = "code"
	ValidFrom  = "valid_from"
	ValidTo    = "valid_to"
	CreatedAt  = "created_at"
	UpdatedAt  = "updated_at"
)

// Columns lists every column read back into Data.
var Columns = []string{
	RuleID,
	Product,
	Kind,
	Threshold,
	PercentOff,
	AmountOff,
	Code,
	ValidFrom,
	ValidTo,
}
