//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package cli implements the command-line interface for pgedge-salesload.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesload/internal/config"
	"github.com/pgEdge/pgedge-salesload/internal/loaders"
	"github.com/pgEdge/pgedge-salesload/internal/logging"
	"github.com/pgEdge/pgedge-salesload/pkg/version"
)

var (
	// Global flags
	cfgFile  string
	csvPath  string
	database string
	strategy string
	logLevel string

	// Global config
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "pgedge-salesload",
		Short: "Load a sales transactions CSV into SQLite",
		Long: `pgedge-salesload reads a sales transactions CSV and loads it into a
SQLite database using one of two strategies:

  normalized    Product_Lookup and Branch_Lookup hold deduplicated product
                and branch attributes; Sales_Transactions references them
                by foreign key.
  denormalized  Every column goes into one explicitly typed sales_data
                table that is replaced on each run and verified with a
                row count and revenue query.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ./pgedge-salesload.yaml)")
	rootCmd.PersistentFlags().StringVar(&csvPath, "csv", "",
		"sales CSV file (default: FINAL_DATASET.csv)")
	rootCmd.PersistentFlags().StringVar(&database, "db", "",
		"SQLite database file (default: sales_analysis.db)")
	rootCmd.PersistentFlags().StringVar(&strategy, "strategy", "",
		"loading strategy: normalized or denormalized (default: normalized)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"log level (debug, info, warn, error)")

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(strategiesCmd)
}

func initConfig() error {
	var err error
	cfg, err = config.Load(cfgFile)
	if err != nil {
		return err
	}

	// Override with CLI flags
	if csvPath != "" {
		cfg.CSVPath = csvPath
	}
	if database != "" {
		cfg.Database = database
	}
	if strategy != "" {
		cfg.Strategy = strings.ToLower(strategy)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	// Reinitialize logger with config
	logging.Init(logging.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	return nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigChan:
			logging.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(sigChan)
		cancel()
	}
}

// selectedLoader validates the global config and resolves the strategy.
func selectedLoader() (loaders.Loader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return loaders.Get(cfg.Strategy)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println(version.Info())
	},
}

var strategiesCmd = &cobra.Command{
	Use:   "strategies",
	Short: "List available loading strategies",
	Long: `List all registered loading strategies and the tables each one
writes.`,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Available strategies:")
		fmt.Fprintln(out)
		for _, l := range loaders.All() {
			fmt.Fprintf(out, "  %-13s - %s\n", l.Name(), l.Description())
			fmt.Fprintf(out, "  %-13s   tables: %s\n", "", strings.Join(l.Tables(), ", "))
		}
		fmt.Fprintln(out)
		fmt.Fprintf(out, "The default strategy is %s.\n", config.StrategyNormalized)
	},
}
