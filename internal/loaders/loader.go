//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package loaders defines the loading strategy interface, the registry the
// strategies add themselves to, and the pipeline that drives a load.
package loaders

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pgEdge/pgedge-salesload/internal/source"
)

// Sentinel errors returned by Run.
var (
	// ErrIntegrityViolation wraps a constraint failure raised while writing.
	ErrIntegrityViolation = errors.New("integrity violation")

	// ErrLoadFailed wraps any other failure after the source was validated.
	ErrLoadFailed = errors.New("load failed")
)

// Options holds per-run settings shared by every strategy.
type Options struct {
	// CSVPath is the source file.
	CSVPath string

	// Database is the SQLite file to write.
	Database string

	// SchemaFile replaces the built-in DDL when the strategy supports it.
	SchemaFile string

	// DropExisting drops the strategy's tables before writing.
	DropExisting bool

	// BatchSize is the number of rows per multi-row INSERT.
	BatchSize int

	// RecordMetadata stores run metadata after a successful load.
	RecordMetadata bool
}

// TableCount is the number of rows written to or found in a table.
type TableCount struct {
	Table string
	Rows  int64
}

// Verification is the result of checking a loaded database.
type Verification struct {
	// RowCount is the number of fact rows.
	RowCount int64

	// TotalRevenue is SUM(total_sales), 0 when there are no rows.
	TotalRevenue float64

	// Tables holds per-table row counts.
	Tables []TableCount

	// Orphans counts fact rows whose references do not resolve. Always 0 for
	// strategies without references.
	Orphans int64
}

// Result describes a completed write.
type Result struct {
	Tables []TableCount

	// Verification is set when the strategy verifies as part of its write.
	Verification *Verification
}

// Loader is implemented by each loading strategy.
type Loader interface {
	// Name returns the strategy name used on the command line.
	Name() string

	// Description returns a human-readable description.
	Description() string

	// Tables returns the tables the strategy owns.
	Tables() []string

	// SchemaSQL returns the DDL the strategy executes for opts.
	SchemaSQL(opts Options) (string, error)

	// DropSchema drops the strategy's tables.
	DropSchema(ctx context.Context, conn *sql.DB) error

	// Write stores tbl, printing progress lines to out.
	Write(ctx context.Context, conn *sql.DB, tbl *source.Table, opts Options, out *Reporter) (Result, error)

	// Verify inspects an already loaded database.
	Verify(ctx context.Context, conn *sql.DB) (Verification, error)
}
