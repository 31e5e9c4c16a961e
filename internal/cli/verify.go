package cli

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesload/internal/db"
	"github.com/pgEdge/pgedge-salesload/internal/loaders"
	"github.com/pgEdge/pgedge-salesload/internal/source"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify a loaded database",
	Long: `Run the selected strategy's verification against an existing
database: row count and total revenue, plus per-table counts and an
orphaned-reference check for the normalized strategy.

Example:
  pgedge-salesload verify --strategy denormalized --db sales_analysis.db`,
	RunE: runVerify,
}

func runVerify(cmd *cobra.Command, args []string) error {
	l, err := selectedLoader()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	conn, err := openExisting(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer conn.Close()

	v, err := l.Verify(ctx, conn)
	if err != nil {
		return err
	}
	loaders.NewReporter(cmd.OutOrStdout()).Verification(v)

	if v.Orphans > 0 {
		return fmt.Errorf("%d transactions reference missing products or branches", v.Orphans)
	}
	return nil
}

// openExisting opens a database that must already exist. db.Open would
// otherwise create an empty file.
func openExisting(ctx context.Context, path string) (*sql.DB, error) {
	if _, err := source.Validate(path); err != nil {
		return nil, fmt.Errorf("database %s not found; run 'pgedge-salesload load' first", path)
	}
	conn, err := db.Open(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return conn, nil
}
