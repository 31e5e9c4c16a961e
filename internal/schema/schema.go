//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package schema declares the sales column catalog and turns raw CSV cells
// into typed SQLite values.
package schema

import (
	"fmt"
	"strings"
)

// Type is a SQLite storage class used for declared columns.
type Type string

// Supported column types.
const (
	Text    Type = "TEXT"
	Integer Type = "INTEGER"
	Real    Type = "REAL"
)

// Column is a named, typed column.
type Column struct {
	Name string
	Type Type
}

// SalesColumns is the full catalog of sales CSV columns in canonical order.
var SalesColumns = []Column{
	{"order_id", Text},
	{"product_id", Text},
	{"product_name", Text},
	{"category", Text},
	{"branch_id", Text},
	{"branch_name", Text},
	{"date", Text},
	{"day_of_week", Integer},
	{"month", Integer},
	{"price", Real},
	{"total_sales", Real},
	{"online_sales", Real},
	{"offline_sales", Real},
	{"returns_count", Integer},
	{"promotion_flag", Integer},
	{"festival_flag", Integer},
	{"holiday_flag", Integer},
	{"seasonal_index", Real},
	{"cpi", Real},
	{"lag_1", Real},
	{"lag_7", Real},
	{"lag_30", Real},
	{"rolling_mean_7", Real},
	{"rolling_mean_30", Real},
}

var catalog = func() map[string]Type {
	m := make(map[string]Type, len(SalesColumns))
	for _, c := range SalesColumns {
		m[c.Name] = c.Type
	}
	return m
}()

// TypeOf returns the declared type of a catalog column.
func TypeOf(name string) (Type, bool) {
	t, ok := catalog[name]
	return t, ok
}

// ColumnNames returns the names of cols in order.
func ColumnNames(cols []Column) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = c.Name
	}
	return out
}

// QuoteIdent quotes a SQLite identifier.
func QuoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// CreateTableSQL renders a CREATE TABLE statement with no constraints.
func CreateTableSQL(table string, cols []Column) string {
	var b strings.Builder
	fmt.Fprintf(&b, "CREATE TABLE %s (\n", QuoteIdent(table))
	for i, c := range cols {
		fmt.Fprintf(&b, "    %s %s", QuoteIdent(c.Name), c.Type)
		if i < len(cols)-1 {
			b.WriteString(",")
		}
		b.WriteString("\n")
	}
	b.WriteString(")")
	return b.String()
}
