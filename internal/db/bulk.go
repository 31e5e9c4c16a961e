//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/pgEdge/pgedge-salesload/internal/schema"
)

// maxVariables is SQLite's default bound-parameter limit per statement.
const maxVariables = 32766

// BatchInsertConfig configures batch insert behavior.
type BatchInsertConfig struct {
	// BatchSize is the number of rows per multi-row INSERT.
	BatchSize int

	// ProgressInterval is how often to log progress (in rows).
	ProgressInterval int64
}

// DefaultBatchConfig returns default batch insert configuration.
func DefaultBatchConfig() BatchInsertConfig {
	return BatchInsertConfig{
		BatchSize:        500,
		ProgressInterval: 100000,
	}
}

// BulkInsert writes rows into table with multi-row INSERT statements. Each
// row must have len(columns) values. The caller owns the transaction.
func BulkInsert(ctx context.Context, ex Execer, table string, columns []string,
	rows [][]any, cfg BatchInsertConfig) (int64, error) {
	if len(columns) == 0 {
		return 0, fmt.Errorf("bulk insert into %s: no columns", table)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	batch := cfg.BatchSize
	if batch < 1 {
		batch = DefaultBatchConfig().BatchSize
	}
	if limit := maxVariables / len(columns); batch > limit {
		batch = limit
	}
	interval := cfg.ProgressInterval
	if interval < 1 {
		interval = DefaultBatchConfig().ProgressInterval
	}

	prefix := insertPrefix(table, columns)
	placeholder := "(" + strings.TrimSuffix(strings.Repeat("?,", len(columns)), ",") + ")"
	progress := NewProgressReporter(table, int64(len(rows)), interval)

	for start := 0; start < len(rows); start += batch {
		if err := ctx.Err(); err != nil {
			return progress.Rows(), err
		}
		end := min(start+batch, len(rows))
		chunk := rows[start:end]

		var b strings.Builder
		b.WriteString(prefix)
		args := make([]any, 0, len(chunk)*len(columns))
		for i, row := range chunk {
			if len(row) != len(columns) {
				return progress.Rows(), fmt.Errorf("bulk insert into %s: row %d has %d values, want %d",
					table, start+i+1, len(row), len(columns))
			}
			if i > 0 {
				b.WriteString(",")
			}
			b.WriteString(placeholder)
			args = append(args, row...)
		}

		if _, err := ex.ExecContext(ctx, b.String(), args...); err != nil {
			return progress.Rows(), fmt.Errorf("insert into %s (rows %d-%d): %w", table, start+1, end, err)
		}
		progress.Update(int64(len(chunk)))
	}
	progress.Done()

	return progress.Rows(), nil
}

func insertPrefix(table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = schema.QuoteIdent(c)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES ", schema.QuoteIdent(table), strings.Join(quoted, ", "))
}
