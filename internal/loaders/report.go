//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package loaders

import (
	"fmt"
	"io"
)

// Reporter writes the plain-text progress lines an operator reads. It is
// separate from the structured log on stderr.
type Reporter struct {
	w io.Writer
}

// NewReporter returns a Reporter writing to w. A nil w discards output.
func NewReporter(w io.Writer) *Reporter {
	if w == nil {
		w = io.Discard
	}
	return &Reporter{w: w}
}

// Printf writes a formatted line. A trailing newline is added.
func (r *Reporter) Printf(format string, args ...any) {
	fmt.Fprintf(r.w, format+"\n", args...)
}

// Verification prints a verification result as a single-row table.
func (r *Reporter) Verification(v Verification) {
	r.Printf("Verification:")
	r.Printf("%10s %14s", "RowCount", "TotalRevenue")
	r.Printf("%10d %14.2f", v.RowCount, v.TotalRevenue)
	if len(v.Tables) > 1 {
		for _, tc := range v.Tables {
			r.Printf("  %-20s %d", tc.Table, tc.Rows)
		}
		r.Printf("  %-20s %d", "orphaned rows", v.Orphans)
	}
}
