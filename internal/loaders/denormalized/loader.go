//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package denormalized loads every CSV column into one wide table, replacing
// it on each run, and verifies the result with a count and revenue query.
package denormalized

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgEdge/pgedge-salesload/internal/db"
	"github.com/pgEdge/pgedge-salesload/internal/loaders"
	"github.com/pgEdge/pgedge-salesload/internal/logging"
	"github.com/pgEdge/pgedge-salesload/internal/schema"
	"github.com/pgEdge/pgedge-salesload/internal/source"
)

// Name is the strategy name.
const Name = "denormalized"

// Table is the single table this strategy writes.
const Table = "sales_data"

const verifySQL = `SELECT COUNT(*) AS RowCount, SUM(total_sales) AS TotalRevenue FROM sales_data`

func init() {
	loaders.Register(New())
}

// Loader implements the denormalized strategy.
type Loader struct{}

// New creates a new denormalized loader.
func New() *Loader {
	return &Loader{}
}

// Name returns the strategy name.
func (l *Loader) Name() string {
	return Name
}

// Description returns a human-readable description.
func (l *Loader) Description() string {
	return "Every CSV column in one explicitly typed sales_data table, " +
		"replaced on each run and verified with a count/revenue query"
}

// Tables returns the strategy's table.
func (l *Loader) Tables() []string {
	return []string{Table}
}

// SchemaSQL returns the DDL for a CSV carrying exactly the catalog columns.
// Extra columns in a real CSV are appended with inferred types at load time.
func (l *Loader) SchemaSQL(opts loaders.Options) (string, error) {
	if opts.SchemaFile != "" {
		return "", fmt.Errorf("the %s strategy does not accept a schema file", Name)
	}
	return schema.CreateTableSQL(Table, schema.SalesColumns), nil
}

// DropSchema drops sales_data.
func (l *Loader) DropSchema(ctx context.Context, conn *sql.DB) error {
	_, err := conn.ExecContext(ctx, "DROP TABLE IF EXISTS "+schema.QuoteIdent(Table))
	return err
}

// ResolveColumns types every CSV column: catalog columns use their declared
// type, anything else is inferred from its values.
func ResolveColumns(tbl *source.Table) []schema.Column {
	cols := make([]schema.Column, len(tbl.Columns))
	for i, name := range tbl.Columns {
		if t, ok := schema.TypeOf(name); ok {
			cols[i] = schema.Column{Name: name, Type: t}
			continue
		}
		values, _ := tbl.Column(name)
		t := schema.Infer(values)
		logging.Warn().
			Str("column", name).
			Str("type", string(t)).
			Msg("Column not in sales catalog; type inferred from data")
		cols[i] = schema.Column{Name: name, Type: t}
	}
	return cols
}

// Write replaces sales_data with tbl in a single transaction, then runs the
// verification query and prints its result.
func (l *Loader) Write(ctx context.Context, conn *sql.DB, tbl *source.Table,
	opts loaders.Options, out *loaders.Reporter) (loaders.Result, error) {
	var res loaders.Result

	cols := ResolveColumns(tbl)
	types := make([]schema.Type, len(cols))
	for i, c := range cols {
		types[i] = c.Type
	}

	var n int64
	err := db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+schema.QuoteIdent(Table)); err != nil {
			return fmt.Errorf("drop %s: %w", Table, err)
		}
		if _, err := tx.ExecContext(ctx, schema.CreateTableSQL(Table, cols)); err != nil {
			return fmt.Errorf("create %s: %w", Table, err)
		}
		var err error
		n, err = loaders.Insert(ctx, tx, Table, tbl, types, opts.BatchSize)
		return err
	})
	if err != nil {
		return res, err
	}
	res.Tables = []loaders.TableCount{{Table: Table, Rows: n}}
	out.Printf("Wrote %d rows to %s.", n, Table)

	v, err := l.Verify(ctx, conn)
	if err != nil {
		return res, err
	}
	res.Verification = &v
	out.Verification(v)

	return res, nil
}

// Verify runs the count and revenue query against sales_data.
func (l *Loader) Verify(ctx context.Context, conn *sql.DB) (loaders.Verification, error) {
	var v loaders.Verification

	ok, err := db.TableExists(ctx, conn, Table)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, fmt.Errorf("table %s not found; run load first", Table)
	}

	var revenue sql.NullFloat64
	if err := conn.QueryRowContext(ctx, verifySQL).Scan(&v.RowCount, &revenue); err != nil {
		return v, fmt.Errorf("verification query failed: %w", err)
	}
	v.TotalRevenue = revenue.Float64
	v.Tables = []loaders.TableCount{{Table: Table, Rows: v.RowCount}}

	return v, nil
}
