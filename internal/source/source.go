//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package source locates and parses the sales CSV a load reads from.
package source

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// ErrSourceNotFound is returned when the CSV path does not exist.
var ErrSourceNotFound = errors.New("source file not found")

// Validate confirms the source file exists and is a regular file. It never
// touches the database, so a failure here ends a run before any connection
// is opened.
func Validate(path string) (os.FileInfo, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("%w: empty path", ErrSourceNotFound)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory, not a CSV file", path)
	}
	return info, nil
}
