package query

import (
	"fmt"
	"strings"

	"cloud.google.com/go/spanner"
)

// Direction represents ORDER BY direction.
type Direction int

const (
	// Asc represents ascending order.
	Asc Direction = iota
	// Desc represents descending order.
	Desc
)

type orderTerm struct {
	column    string
	direction Direction
}

// Builder constructs SQL SELECT queries for Cloud Spanner.
// Every method returns a new Builder, so partially built queries can be shared.
// Parameter names are generated in the order conditions are added.
type Builder struct {
	table      string
	selectCols []string
	conditions []Condition
	order      []orderTerm
	limitVal   int64
}

// From creates a new Builder for the specified table.
func From(table string) *Builder {
	return &Builder{table: table}
}

// Select specifies the columns to retrieve.
func (b *Builder) Select(columns ...string) *Builder {
	nb := b.clone()
	nb.selectCols = append(nb.selectCols, columns...)
	return nb
}

// Where adds WHERE conditions. Multiple conditions are combined with AND logic.
func (b *Builder) Where(conditions ...Condition) *Builder {
	nb := b.clone()
	nb.conditions = append(nb.conditions, conditions...)
	return nb
}

// OrderBy appends a sort column. Earlier calls take precedence.
func (b *Builder) OrderBy(column string, direction Direction) *Builder {
	nb := b.clone()
	nb.order = append(nb.order, orderTerm{column: column, direction: direction})
	return nb
}

// Limit sets the maximum number of rows to return.
func (b *Builder) Limit(limit int64) *Builder {
	nb := b.clone()
	nb.limitVal = limit
	return nb
}

// Build constructs the final spanner.Statement with SQL and parameters.
func (b *Builder) Build() spanner.Statement {
	var sql strings.Builder
	params := make(map[string]interface{})

	sql.WriteString("SELECT ")
	if len(b.selectCols) == 0 {
		sql.WriteString("*")
	} else {
		sql.WriteString(strings.Join(b.selectCols, ", "))
	}
	sql.WriteString(" FROM ")
	sql.WriteString(b.table)

	if len(b.conditions) > 0 {
		parts := make([]string, 0, len(b.conditions))
		paramIndex := 0
		for _, cond := range b.conditions {
			fragment, condParams := cond.SQL(paramIndex)
			parts = append(parts, fragment)
			for k, v := range condParams {
				params[k] = v
			}
			paramIndex += len(condParams)
		}
		sql.WriteString(" WHERE ")
		sql.WriteString(strings.Join(parts, " AND "))
	}

	if len(b.order) > 0 {
		terms := make([]string, 0, len(b.order))
		for _, o := range b.order {
			if o.direction == Desc {
				terms = append(terms, o.column+" DESC")
			} else {
				terms = append(terms, o.column+" ASC")
			}
		}
		sql.WriteString(" ORDER BY ")
		sql.WriteString(strings.Join(terms, ", "))
	}

	if b.limitVal > 0 {
		sql.WriteString(" LIMIT @limit")
		params["limit"] = b.limitVal
	}

	return spanner.Statement{
		SQL:    sql.String(),
		Params: params,
	}
}

func (b *Builder) clone() *Builder {
	return &Builder{
		table:      b.table,
		selectCols: append([]string(nil), b.selectCols...),
		conditions: append([]Condition(nil), b.conditions...),
		order:      append([]orderTerm(nil), b.order...),
		limitVal:   b.limitVal,
	}
}

// String returns a human-readable representation for debug logs.
func (b *Builder) String() string {
	stmt := b.Build()
	return fmt.Sprintf("SQL: %s Params: %v", stmt.SQL, stmt.Params)
}
