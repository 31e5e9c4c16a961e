//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package schema

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// missingTokens are the cell values read as NULL, matching the default
// missing-value markers of common dataframe exporters.
var missingTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {},
	"-1.#QNAN": {}, "-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {},
	"<NA>": {}, "N/A": {}, "NA": {}, "NULL": {}, "NaN": {}, "None": {},
	"n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a cell is empty or a missing-value marker.
func IsMissing(raw string) bool {
	_, ok := missingTokens[strings.TrimSpace(raw)]
	return ok
}

// Coerce converts a raw cell to a value for a column of type t. Empty cells
// and missing-value markers ("NA", "null", "nan", ...) become nil (NULL).
func Coerce(t Type, raw string) (any, error) {
	if IsMissing(raw) {
		return nil, nil
	}
	s := strings.TrimSpace(raw)
	switch t {
	case Integer:
		return parseInteger(s)
	case Real:
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid REAL %q", raw)
		}
		return f, nil
	case Text:
		return raw, nil
	default:
		return nil, fmt.Errorf("unsupported type %q", t)
	}
}

// parseInteger accepts plain integers, boolean words used for flag columns,
// and floats with no fractional part ("3.0").
func parseInteger(s string) (int64, error) {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n, nil
	}
	switch strings.ToLower(s) {
	case "true", "yes":
		return 1, nil
	case "false", "no":
		return 0, nil
	}
	// float64(math.MaxInt64) rounds up to 2^63, so the upper bound is exclusive.
	f, err := strconv.ParseFloat(s, 64)
	if err == nil && f == math.Trunc(f) && !math.IsInf(f, 0) &&
		f >= math.MinInt64 && f < math.MaxInt64 {
		return int64(f), nil
	}
	return 0, fmt.Errorf("invalid INTEGER %q", s)
}

// Infer picks the narrowest type that every non-empty value coerces to:
// INTEGER, then REAL, then TEXT. Missing cells are skipped; an all-missing
// column is TEXT.
func Infer(values []string) Type {
	seen := false
	isInt, isReal := true, true
	for _, v := range values {
		if IsMissing(v) {
			continue
		}
		s := strings.TrimSpace(v)
		seen = true
		if isInt {
			if _, err := strconv.ParseInt(s, 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt {
			if _, err := strconv.ParseFloat(s, 64); err != nil {
				isReal = false
				break
			}
		}
	}
	switch {
	case !seen:
		return Text
	case isInt:
		return Integer
	case isReal:
		return Real
	default:
		return Text
	}
}

// CoerceRows converts every row using the per-column types. The error names
// the 1-based data row and the column.
func CoerceRows(columns []string, types []Type, rows [][]string) ([][]any, error) {
	if len(columns) != len(types) {
		return nil, fmt.Errorf("have %d columns but %d types", len(columns), len(types))
	}
	out := make([][]any, len(rows))
	for r, row := range rows {
		vals := make([]any, len(row))
		for i, cell := range row {
			v, err := Coerce(types[i], cell)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %s: %w", r+1, columns[i], err)
			}
			vals[i] = v
		}
		out[r] = vals
	}
	return out, nil
}
