package cli

import (
	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesload/internal/loaders"
	"github.com/pgEdge/pgedge-salesload/internal/logging"
)

var (
	loadSchemaFile   string
	loadDropExisting bool
	loadBatchSize    int
	loadNoMetadata   bool
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the sales CSV into the database",
	Long: `Load the sales CSV into a SQLite database with the selected strategy.

The normalized strategy creates Product_Lookup, Branch_Lookup and
Sales_Transactions (or runs --schema-file verbatim instead) and appends to
them. Loading the same data twice fails with an integrity error unless
--drop-existing is given.

The denormalized strategy replaces sales_data on every run and prints a
RowCount/TotalRevenue verification.

Example:
  pgedge-salesload load --csv FINAL_DATASET.csv --db sales_analysis.db
  pgedge-salesload load --strategy denormalized
  pgedge-salesload load --schema-file queries.sql --drop-existing`,
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().StringVar(&loadSchemaFile, "schema-file", "",
		"DDL script to execute instead of the built-in normalized schema")
	loadCmd.Flags().BoolVar(&loadDropExisting, "drop-existing", false,
		"drop the strategy's tables before loading")
	loadCmd.Flags().IntVar(&loadBatchSize, "batch-size", 0,
		"rows per multi-row INSERT")
	loadCmd.Flags().BoolVar(&loadNoMetadata, "no-metadata", false,
		"do not record run metadata in the database")
}

func runLoad(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if loadSchemaFile != "" {
		cfg.Load.SchemaFile = loadSchemaFile
	}
	if loadDropExisting {
		cfg.Load.DropExisting = true
	}
	if loadBatchSize > 0 {
		cfg.Load.BatchSize = loadBatchSize
	}
	if loadNoMetadata {
		cfg.Load.RecordMetadata = false
	}

	// Validate configuration
	if err := cfg.ValidateLoad(); err != nil {
		return err
	}

	l, err := selectedLoader()
	if err != nil {
		return err
	}

	logging.Debug().
		Str("strategy", l.Name()).
		Str("csv", cfg.CSVPath).
		Str("database", cfg.Database).
		Int("batch_size", cfg.Load.BatchSize).
		Msg("Load configuration")

	ctx, cancel := signalContext()
	defer cancel()

	_, err = loaders.Run(ctx, l, loaders.Options{
		CSVPath:        cfg.CSVPath,
		Database:       cfg.Database,
		SchemaFile:     cfg.Load.SchemaFile,
		DropExisting:   cfg.Load.DropExisting,
		BatchSize:      cfg.Load.BatchSize,
		RecordMetadata: cfg.Load.RecordMetadata,
	}, cmd.OutOrStdout())
	return err
}
