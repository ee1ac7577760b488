package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// Condition is a null check on one column. The table stores only filter on
// deleted_at, so conditions never bind arguments.
type Condition struct {
	column string
	op     string
}

func IsNull(column string) Condition {
	return Condition{column: column, op: "IS NULL"}
}

func IsNotNull(column string) Condition {
	return Condition{column: column, op: "IS NOT NULL"}
}

func (c Condition) String() string {
	return c.column + " " + c.op
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) ToSQL() (string, error) {
	if len(b.columns) == 0 {
		return "", fmt.Errorf("select columns are required")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", fmt.Errorf("select table is required")
	}

	var buf strings.Builder
	buf.WriteString("SELECT ")
	buf.WriteString(strings.Join(b.columns, ", "))
	buf.WriteString(" FROM ")
	buf.WriteString(b.table)
	appendWhereClause(&buf, b.where)
	if len(b.orderBy) > 0 {
		buf.WriteString(" ORDER BY ")
		buf.WriteString(strings.Join(b.orderBy, ", "))
	}

	return buf.String(), nil
}

type setExpr struct {
	column string
	expr   string
}

// UpdateBuilder sets columns to SQL expressions such as NOW().
type UpdateBuilder struct {
	table string
	sets  []setExpr
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) SetExpr(column, expr string) *UpdateBuilder {
	b.sets = append(b.sets, setExpr{column: column, expr: expr})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", fmt.Errorf("update table is required")
	}
	if len(b.sets) == 0 {
		return "", fmt.Errorf("update sets are required")
	}

	var buf strings.Builder
	buf.WriteString("UPDATE ")
	buf.WriteString(b.table)
	buf.WriteString(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(s.column)
		buf.WriteString(" = ")
		buf.WriteString(s.expr)
	}
	appendWhereClause(&buf, b.where)

	return buf.String(), nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses to build an unfiltered DELETE.
func (b *DeleteBuilder) ToSQL() (string, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", fmt.Errorf("delete table is required")
	}
	if len(b.where) == 0 {
		return "", fmt.Errorf("delete on %s requires a where clause", b.table)
	}

	var buf strings.Builder
	buf.WriteString("DELETE FROM ")
	buf.WriteString(b.table)
	appendWhereClause(&buf, b.where)
	return buf.String(), nil
}

func appendWhereClause(buf *strings.Builder, conditions []Condition) {
	if len(conditions) == 0 {
		return
	}
	buf.WriteString(" WHERE ")
	for i, c := range conditions {
		if i > 0 {
			buf.WriteString(" AND ")
		}
		buf.WriteString(c.String())
	}
}

func placeholder(i int) string {
	return "$" + strconv.Itoa(i)
}
