// Package main is the entry point for pgedge-salesload.
package main

import (
	"fmt"
	"os"

	"github.com/pgEdge/pgedge-salesload/internal/cli"

	// Register loading strategies
	_ "github.com/pgEdge/pgedge-salesload/internal/loaders/denormalized"
	_ "github.com/pgEdge/pgedge-salesload/internal/loaders/normalized"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
