//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package version identifies the loader build. The short form is stamped
// into each database's run metadata so a loaded file records which release
// wrote it.
package version

import (
	"fmt"
	"runtime"
)

// Name is the program name shown by the version command.
const Name = "pgedge-salesload"

// Version, Commit and BuildDate are overridden with -ldflags -X at release.
var (
	Version   = "0.1.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns the one-line banner printed by the version command.
func Info() string {
	return fmt.Sprintf("%s %s (commit: %s, built: %s, go: %s)",
		Name, Version, Commit, BuildDate, runtime.Version())
}

// Short returns the release recorded in run metadata. Development builds
// carry the commit as a suffix.
func Short() string {
	if Commit == "unknown" || Commit == "" {
		return Version
	}
	return Version + "+" + Commit
}
