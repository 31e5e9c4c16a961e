//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package testutil provides helpers for tests that load CSVs into temporary
// SQLite databases.
package testutil

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pgEdge/pgedge-salesload/internal/datagen"
	"github.com/pgEdge/pgedge-salesload/internal/db"
)

// TestDBName is the database file name used inside a test's temp dir.
const TestDBName = "sales_test.db"

// TestDBPath returns a database path in a fresh temp dir. The file is not
// created.
func TestDBPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), TestDBName)
}

// ConnectTestDB opens the database at path and closes it when the test ends.
func ConnectTestDB(t *testing.T, path string) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.Open(ctx, path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

// WriteCSV writes header and rows to name in a temp dir and returns the path.
func WriteCSV(t *testing.T, name string, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create CSV: %v", err)
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		t.Fatalf("Failed to write CSV header: %v", err)
	}
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("Failed to write CSV rows: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close CSV: %v", err)
	}
	return path
}

// SampleCSV generates a deterministic sales CSV and returns its path.
func SampleCSV(t *testing.T, rows, products, branches int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "FINAL_DATASET.csv")
	_, err := datagen.WriteFile(context.Background(), path, datagen.SalesConfig{
		Rows:     rows,
		Products: products,
		Branches: branches,
		Seed:     20240101,
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Failed to generate sample CSV: %v", err)
	}
	return path
}

// CountRows returns the row count of table, failing the test on error.
func CountRows(t *testing.T, conn *sql.DB, table string) int64 {
	t.Helper()

	n, err := db.CountRows(context.Background(), conn, table)
	if err != nil {
		t.Fatalf("Failed to count %s: %v", table, err)
	}
	return n
}

// TableExists reports whether table exists, failing the test on error.
func TableExists(t *testing.T, conn *sql.DB, table string) bool {
	t.Helper()

	ok, err := db.TableExists(context.Background(), conn, table)
	if err != nil {
		t.Fatalf("Failed to check table %s: %v", table, err)
	}
	return ok
}

// FileExists reports whether path exists.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}

// defaultSalesValues fills columns a test does not care about.
var defaultSalesValues = map[string]string{
	"order_id":        "ORD0000001",
	"product_id":      "P0001",
	"product_name":    "Green Tea",
	"category":        "Beverages",
	"branch_id":       "B001",
	"branch_name":     "Springfield Branch",
	"date":            "2024-01-01",
	"day_of_week":     "0",
	"month":           "1",
	"price":           "4.50",
	"total_sales":     "9.00",
	"online_sales":    "3.00",
	"offline_sales":   "6.00",
	"returns_count":   "0",
	"promotion_flag":  "0",
	"festival_flag":   "0",
	"holiday_flag":    "1",
	"seasonal_index":  "1.0043",
	"cpi":             "100.12",
	"lag_1":           "",
	"lag_7":           "",
	"lag_30":          "",
	"rolling_mean_7":  "",
	"rolling_mean_30": "",
}

// SalesHeader returns the canonical sales CSV header.
func SalesHeader() []string {
	return datagen.Header()
}

// SalesRow returns a full sales row in header order, with overrides applied
// on top of fixed defaults.
func SalesRow(overrides map[string]string) []string {
	header := SalesHeader()
	row := make([]string, len(header))
	for i, col := range header {
		if v, ok := overrides[col]; ok {
			row[i] = v
			continue
		}
		row[i] = defaultSalesValues[col]
	}
	return row
}
