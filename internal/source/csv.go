//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/pgEdge/pgedge-salesload/internal/logging"
)

const utf8BOM = "\uFEFF"

// ReadCSV opens path and parses it with ParseCSV.
func ReadCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	t, err := ParseCSV(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	if info, err := f.Stat(); err == nil {
		logging.Debug().
			Str("path", path).
			Str("size", humanize.Bytes(uint64(info.Size()))).
			Str("rows", humanize.Comma(int64(t.Len()))).
			Int("columns", len(t.Columns)).
			Msg("Parsed CSV")
	}
	return t, nil
}

// ParseCSV reads a header row and all data rows. Header cells are trimmed, a
// UTF-8 BOM on the first cell is removed, and repeated names are renamed
// name.1, name.2 and so on. Cell values are kept verbatim.
func ParseCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	// Ragged rows are reported with our own line-numbered error below.
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("empty CSV: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = stripHeaderBOM(header)
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	header = renameDuplicates(header)

	var rows [][]string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) != len(header) {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d fields, got %d",
				line, len(header), len(rec))
		}
		rows = append(rows, rec)
	}

	return NewTable(header, rows), nil
}

func stripHeaderBOM(headers []string) []string {
	if len(headers) > 0 {
		headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	}
	return headers
}

// renameDuplicates suffixes repeated header names with ".N" in header order.
// A generated name that collides with an earlier column is suffixed again.
func renameDuplicates(headers []string) []string {
	counts := make(map[string]int, len(headers))
	for i, h := range headers {
		name := h
		for n := counts[name]; n > 0; n = counts[name] {
			counts[name] = n + 1
			name = fmt.Sprintf("%s.%d", name, n)
		}
		counts[name]++
		if name != h {
			logging.Warn().
				Str("column", h).
				Str("renamed", name).
				Msg("Renamed duplicate CSV column")
			headers[i] = name
		}
	}
	return headers
}
