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
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pgEdge/pgedge-salesload/internal/db"
	"github.com/pgEdge/pgedge-salesload/internal/hashutil"
	"github.com/pgEdge/pgedge-salesload/internal/logging"
	"github.com/pgEdge/pgedge-salesload/internal/source"
)

// Summary describes a successful run.
type Summary struct {
	Strategy   string
	SourceRows int
	Tables     []TableCount

	// Verification is set for strategies that verify after writing.
	Verification *Verification

	// RunID is empty when metadata recording is off or failed.
	RunID    string
	Duration time.Duration
}

// Run validates the source, parses it, opens the database, and hands the
// rows to l. Nothing touches the database until the source has been found
// and parsed. The connection is closed on every path.
func Run(ctx context.Context, l Loader, opts Options, out io.Writer) (*Summary, error) {
	rep := NewReporter(out)
	start := time.Now()

	info, err := source.Validate(opts.CSVPath)
	if err != nil {
		if errors.Is(err, source.ErrSourceNotFound) {
			rep.Printf("Error: CSV file '%s' not found.", opts.CSVPath)
		} else {
			rep.Printf("Error: %v", err)
		}
		return nil, err
	}

	logging.Info().
		Str("strategy", l.Name()).
		Str("source", opts.CSVPath).
		Str("size", humanize.Bytes(uint64(info.Size()))).
		Msg("Starting load")

	tbl, err := source.ReadCSV(opts.CSVPath)
	if err != nil {
		rep.Printf("An error occurred: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	rep.Printf("Loaded %d rows from CSV.", tbl.Len())

	conn, err := db.Open(ctx, opts.Database)
	if err != nil {
		rep.Printf("An error occurred: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}
	defer func() {
		if err := conn.Close(); err != nil {
			logging.Warn().Err(err).Msg("Failed to close database")
		}
	}()

	res, err := l.Write(ctx, conn, tbl, opts, rep)
	if err != nil {
		if db.IsIntegrityViolation(err) {
			rep.Printf("Integrity Error (Duplicate Data?): %v", err)
			return nil, fmt.Errorf("%w: %w", ErrIntegrityViolation, err)
		}
		rep.Printf("An error occurred: %v", err)
		return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
	}

	summary := &Summary{
		Strategy:     l.Name(),
		SourceRows:   tbl.Len(),
		Tables:       res.Tables,
		Verification: res.Verification,
	}

	if opts.RecordMetadata {
		summary.RunID = recordRun(ctx, conn, l.Name(), opts.CSVPath, tbl.Len())
	}

	rep.Printf("Data loading complete!")

	summary.Duration = time.Since(start)
	logging.Info().
		Str("strategy", l.Name()).
		Str("rows", humanize.Comma(int64(tbl.Len()))).
		Dur("duration", summary.Duration).
		Msg("Load complete")

	return summary, nil
}

// recordRun stores run metadata. Failures are logged, never fatal.
func recordRun(ctx context.Context, conn *sql.DB, strategy, path string, rows int) string {
	sum, err := hashutil.HashFile(path)
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to hash source file")
	}
	runID, err := db.SaveMetadata(ctx, conn, db.RunInfo{
		Strategy:     strategy,
		SourcePath:   path,
		SourceSHA256: sum,
		SourceRows:   rows,
	})
	if err != nil {
		logging.Warn().Err(err).Msg("Failed to record run metadata")
		return ""
	}
	return runID
}
