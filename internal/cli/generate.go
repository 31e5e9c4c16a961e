package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesload/internal/datagen"
)

var (
	genOutput    string
	genRows      int
	genProducts  int
	genBranches  int
	genSeed      uint64
	genStartDate string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Write a sample sales CSV",
	Long: `Write a realistic sales CSV with the canonical header: products,
branches, calendar columns, sales split online/offline, promotion and
holiday flags, seasonal index, CPI, and lag/rolling-mean features per
product and branch.

Example:
  pgedge-salesload generate --output FINAL_DATASET.csv --rows 10000 --seed 42`,
	RunE: runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genOutput, "output", "",
		"CSV file to write (default: FINAL_DATASET.csv)")
	generateCmd.Flags().IntVar(&genRows, "rows", 0,
		"number of transaction rows")
	generateCmd.Flags().IntVar(&genProducts, "products", 0,
		"number of distinct products")
	generateCmd.Flags().IntVar(&genBranches, "branches", 0,
		"number of branches")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0,
		"random seed for reproducible output (0 = random)")
	generateCmd.Flags().StringVar(&genStartDate, "start-date", "",
		"first transaction date (YYYY-MM-DD)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	// Override config with CLI flags
	if genOutput != "" {
		cfg.Generate.Output = genOutput
	}
	if genRows > 0 {
		cfg.Generate.Rows = genRows
	}
	if genProducts > 0 {
		cfg.Generate.Products = genProducts
	}
	if genBranches > 0 {
		cfg.Generate.Branches = genBranches
	}
	if genSeed > 0 {
		cfg.Generate.Seed = genSeed
	}
	if genStartDate != "" {
		cfg.Generate.StartDate = genStartDate
	}

	if err := cfg.ValidateGenerate(); err != nil {
		return err
	}
	start, err := cfg.Generate.Start()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	n, err := datagen.WriteFile(ctx, cfg.Generate.Output, datagen.SalesConfig{
		Rows:     cfg.Generate.Rows,
		Products: cfg.Generate.Products,
		Branches: cfg.Generate.Branches,
		Seed:     cfg.Generate.Seed,
		Start:    start,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d rows to %s.\n", n, cfg.Generate.Output)
	return nil
}
