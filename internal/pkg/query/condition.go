package query

import (
	"fmt"
	"strings"
)

// Condition represents a WHERE clause condition.
// Implementations must generate SQL fragments and parameter maps
// using Spanner's named parameter format (@paramName).
type Condition interface {
	// SQL returns the SQL fragment and parameter map for this condition.
	// paramIndex is the first free parameter number (@p0, @p1, etc.);
	// a condition consumes one number per entry in the returned map.
	SQL(paramIndex int) (string, map[string]interface{})
}

// compareCondition implements a binary comparison (field <op> value).
type compareCondition struct {
	field string
	op    string
	value interface{}
}

// Eq creates a WHERE condition for equality comparison.
// Example: Eq("product", "service") generates "product = @p0"
func Eq(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Lte creates a WHERE condition for field <= value.
// Example: Lte("effective_from", t) generates "effective_from <= @p0"
func Lte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<=", value: value}
}

// Gt creates a WHERE condition for field > value.
func Gt(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: ">", value: value}
}

func (c *compareCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, paramName), map[string]interface{}{
		paramName: c.value,
	}
}

// inCondition implements membership in an array parameter.
type inCondition struct {
	field  string
	values []string
}

// In creates a WHERE condition matching any of the given values.
// Example: In("product", []string{"service", "any"}) generates "product IN UNNEST(@p0)"
func In(field string, values []string) Condition {
	return &inCondition{field: field, values: values}
}

func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName), map[string]interface{}{
		paramName: c.values,
	}
}

// IsNull creates a WHERE condition for NULL checks.
// Example: IsNull("effective_to") generates "effective_to IS NULL"
func IsNull(field string) Condition {
	return &nullCondition{field: field}
}

// IsNotNull creates a WHERE condition for NOT NULL checks.
func IsNotNull(field string) Condition {
	return &nullCondition{field: field, negate: true}
}

type nullCondition struct {
	field  string
	negate bool
}

func (c *nullCondition) SQL(int) (string, map[string]interface{}) {
	if c.negate {
		return c.field + " IS NOT NULL", map[string]interface{}{}
	}
	return c.field + " IS NULL", map[string]interface{}{}
}

// orCondition groups conditions with OR logic.
type orCondition struct {
	conditions []Condition
}

// Or creates a parenthesised disjunction of conditions.
// Example: Or(IsNull("valid_to"), Gt("valid_to", t)) generates "(valid_to IS NULL OR valid_to > @p0)"
func Or(conditions ...Condition) Condition {
	return &orCondition{conditions: conditions}
}

func (c *orCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	parts := make([]string, 0, len(c.conditions))
	params := make(map[string]interface{})
	for _, cond := range c.conditions {
		fragment, condParams := cond.SQL(paramIndex)
		parts = append(parts, fragment)
		for k, v := range condParams {
			params[k] = v
		}
		paramIndex += len(condParams)
	}
	return "(" + strings.Join(parts, " OR ") + ")", params
}

// ActiveAt matches rows whose half-open window [fromField, toField) contains t.
// A NULL toField means the window is open-ended.
func ActiveAt(fromField, toField string, t interface{}) []Condition {
	return []Condition{
		Lte(fromField, t),
		Or(IsNull(toField), Gt(toField, t)),
	}
}
