//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for pgedge-salesload.
// Values come from, in increasing order of precedence: built-in defaults,
// the config file, SALESLOAD_* environment variables (a .env file in the
// working directory is read first), and CLI flags applied by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment variable overrides.
const EnvPrefix = "SALESLOAD"

// Strategy names accepted by the load and verify commands.
const (
	StrategyNormalized   = "normalized"
	StrategyDenormalized = "denormalized"
)

// Config holds all configuration for pgedge-salesload.
type Config struct {
	// CSVPath is the sales CSV to ingest.
	CSVPath string `mapstructure:"csv_path"`

	// Database is the SQLite database file to write.
	Database string `mapstructure:"database"`

	// Strategy selects the loader (normalized, denormalized).
	Strategy string `mapstructure:"strategy"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Load holds configuration for the load subcommand.
	Load LoadConfig `mapstructure:"load"`

	// Generate holds configuration for the generate subcommand.
	Generate GenerateConfig `mapstructure:"generate"`
}

// LoadConfig holds configuration for loading a CSV.
type LoadConfig struct {
	// SchemaFile is an optional DDL script executed verbatim instead of the
	// built-in normalized schema.
	SchemaFile string `mapstructure:"schema_file"`

	// DropExisting drops the strategy's tables before loading.
	DropExisting bool `mapstructure:"drop_existing"`

	// BatchSize is the number of rows per multi-row INSERT.
	BatchSize int `mapstructure:"batch_size"`

	// RecordMetadata stores run metadata in the database after a load.
	RecordMetadata bool `mapstructure:"record_metadata"`
}

// GenerateConfig holds configuration for sample CSV generation.
type GenerateConfig struct {
	// Output is the CSV file to write.
	Output string `mapstructure:"output"`

	// Rows is the number of transaction rows.
	Rows int `mapstructure:"rows"`

	// Products is the size of the product catalog.
	Products int `mapstructure:"products"`

	// Branches is the number of branches.
	Branches int `mapstructure:"branches"`

	// Seed makes generation reproducible; 0 picks a random seed.
	Seed uint64 `mapstructure:"seed"`

	// StartDate is the first transaction date (YYYY-MM-DD).
	StartDate string `mapstructure:"start_date"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		CSVPath:  "FINAL_DATASET.csv",
		Database: "sales_analysis.db",
		Strategy: StrategyNormalized,
		LogLevel: "info",
		Load: LoadConfig{
			BatchSize:      500,
			RecordMetadata: true,
		},
		Generate: GenerateConfig{
			Output:    "FINAL_DATASET.csv",
			Rows:      5000,
			Products:  50,
			Branches:  8,
			StartDate: "2023-01-01",
		},
	}
}

// Load reads configuration from config files and the environment.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./pgedge-salesload.yaml
// 3. ~/.config/pgedge-salesload/config.yaml
func Load(configFile string) (*Config, error) {
	// A missing .env is the common case.
	_ = godotenv.Load()

	v := viper.New()

	v.SetConfigName("pgedge-salesload")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "pgedge-salesload"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Environment overrides only resolve for keys viper knows about, so
	// every default is registered up front.
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("csv_path", d.CSVPath)
	v.SetDefault("database", d.Database)
	v.SetDefault("strategy", d.Strategy)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("load.schema_file", d.Load.SchemaFile)
	v.SetDefault("load.drop_existing", d.Load.DropExisting)
	v.SetDefault("load.batch_size", d.Load.BatchSize)
	v.SetDefault("load.record_metadata", d.Load.RecordMetadata)
	v.SetDefault("generate.output", d.Generate.Output)
	v.SetDefault("generate.rows", d.Generate.Rows)
	v.SetDefault("generate.products", d.Generate.Products)
	v.SetDefault("generate.branches", d.Generate.Branches)
	v.SetDefault("generate.seed", d.Generate.Seed)
	v.SetDefault("generate.start_date", d.Generate.StartDate)
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database) == "" {
		return fmt.Errorf("database path is required")
	}
	switch c.Strategy {
	case StrategyNormalized, StrategyDenormalized:
	case "":
		return fmt.Errorf("strategy is required")
	default:
		return fmt.Errorf("unknown strategy %q (expected %s or %s)",
			c.Strategy, StrategyNormalized, StrategyDenormalized)
	}
	return nil
}

// ValidateLoad checks configuration required for the load command.
func (c *Config) ValidateLoad() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.CSVPath) == "" {
		return fmt.Errorf("csv path is required")
	}
	if c.Load.BatchSize < 1 {
		return fmt.Errorf("batch_size must be at least 1")
	}
	if c.Load.SchemaFile != "" && c.Strategy != StrategyNormalized {
		return fmt.Errorf("schema_file only applies to the %s strategy", StrategyNormalized)
	}
	return nil
}

// ValidateGenerate checks configuration required for the generate command.
func (c *Config) ValidateGenerate() error {
	if strings.TrimSpace(c.Generate.Output) == "" {
		return fmt.Errorf("generate output path is required")
	}
	if c.Generate.Rows < 1 {
		return fmt.Errorf("rows must be at least 1")
	}
	if c.Generate.Products < 1 {
		return fmt.Errorf("products must be at least 1")
	}
	if c.Generate.Branches < 1 {
		return fmt.Errorf("branches must be at least 1")
	}
	if _, err := c.Generate.Start(); err != nil {
		return err
	}
	return nil
}

// Start parses StartDate.
func (g GenerateConfig) Start() (time.Time, error) {
	t, err := time.Parse("2006-01-02", g.StartDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid start_date %q: expected YYYY-MM-DD", g.StartDate)
	}
	return t, nil
}
