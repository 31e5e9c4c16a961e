package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pgEdge/pgedge-salesload/internal/loaders"
)

var schemaFile string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the DDL a strategy executes",
	Long: `Print the DDL the selected strategy executes when loading. For the
normalized strategy --schema-file prints that file instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		l, err := selectedLoader()
		if err != nil {
			return err
		}
		if schemaFile != "" {
			cfg.Load.SchemaFile = schemaFile
		}

		ddl, err := l.SchemaSQL(loaders.Options{SchemaFile: cfg.Load.SchemaFile})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(ddl))
		return nil
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFile, "schema-file", "",
		"DDL script to print instead of the built-in normalized schema")
}
