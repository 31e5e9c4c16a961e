package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesload/internal/db"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the most recent load recorded in the database",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := signalContext()
		defer cancel()

		conn, err := openExisting(ctx, cfg.Database)
		if err != nil {
			return err
		}
		defer conn.Close()

		out := cmd.OutOrStdout()
		exists, err := db.MetadataExists(ctx, conn)
		if err != nil {
			return err
		}
		if !exists {
			fmt.Fprintf(out, "No load recorded in %s.\n", cfg.Database)
			return nil
		}

		meta, err := db.GetAllMetadata(ctx, conn)
		if err != nil {
			return fmt.Errorf("failed to read metadata: %w", err)
		}
		keys := make([]string, 0, len(meta))
		for k := range meta {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fmt.Fprintf(out, "Database: %s\n", cfg.Database)
		for _, k := range keys {
			fmt.Fprintf(out, "  %-14s %s\n", k, meta[k])
		}
		return nil
	},
}
