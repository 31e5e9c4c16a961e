//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package loaders

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgEdge/pgedge-salesload/internal/db"
	"github.com/pgEdge/pgedge-salesload/internal/schema"
	"github.com/pgEdge/pgedge-salesload/internal/source"
)

// CatalogTypes returns the declared type of each column. Every column must
// be in the sales catalog.
func CatalogTypes(columns []string) ([]schema.Type, error) {
	types := make([]schema.Type, len(columns))
	for i, c := range columns {
		t, ok := schema.TypeOf(c)
		if !ok {
			return nil, fmt.Errorf("column %q is not a known sales column", c)
		}
		types[i] = t
	}
	return types, nil
}

// Insert coerces tbl to types and bulk inserts it into table using ex.
func Insert(ctx context.Context, ex db.Execer, table string, tbl *source.Table,
	types []schema.Type, batchSize int) (int64, error) {
	rows, err := schema.CoerceRows(tbl.Columns, types, tbl.Rows)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", table, err)
	}
	cfg := db.DefaultBatchConfig()
	if batchSize > 0 {
		cfg.BatchSize = batchSize
	}
	return db.BulkInsert(ctx, ex, table, tbl.Columns, rows, cfg)
}

// InsertTx runs Insert in its own transaction.
func InsertTx(ctx context.Context, conn *sql.DB, table string, tbl *source.Table,
	types []schema.Type, batchSize int) (int64, error) {
	var n int64
	err := db.WithTx(ctx, conn, func(tx *sql.Tx) error {
		var err error
		n, err = Insert(ctx, tx, table, tbl, types, batchSize)
		return err
	})
	return n, err
}
