package denormalized_test

import (
	"bytes"
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-salesload/internal/loaders"
	"github.com/pgEdge/pgedge-salesload/internal/loaders/denormalized"
	"github.com/pgEdge/pgedge-salesload/internal/schema"
	"github.com/pgEdge/pgedge-salesload/internal/source"
	"github.com/pgEdge/pgedge-salesload/internal/testutil"
)

func rowsWithTotals(totals ...string) [][]string {
	rows := make([][]string, len(totals))
	for i, total := range totals {
		rows[i] = testutil.SalesRow(map[string]string{"total_sales": total})
	}
	return rows
}

func options(csvPath, dbPath string) loaders.Options {
	return loaders.Options{
		CSVPath:   csvPath,
		Database:  dbPath,
		BatchSize: 3,
	}
}

func columnTypes(t *testing.T, conn *sql.DB) map[string]string {
	t.Helper()
	rows, err := conn.Query(`SELECT name, type FROM pragma_table_info('sales_data')`)
	require.NoError(t, err)
	defer rows.Close()

	types := make(map[string]string)
	for rows.Next() {
		var name, typ string
		require.NoError(t, rows.Scan(&name, &typ))
		types[name] = typ
	}
	require.NoError(t, rows.Err())
	return types
}

func TestRegistered(t *testing.T) {
	l, err := loaders.Get(denormalized.Name)
	require.NoError(t, err)
	assert.Equal(t, []string{"sales_data"}, l.Tables())
}

func TestLoadVerifies(t *testing.T) {
	csvPath := testutil.WriteCSV(t, "sales.csv", testutil.SalesHeader(),
		rowsWithTotals("10.00", "2.50", "", "7.25"))
	dbPath := testutil.TestDBPath(t)

	var out bytes.Buffer
	summary, err := loaders.Run(context.Background(), denormalized.New(), options(csvPath, dbPath), &out)
	require.NoError(t, err)

	require.NotNil(t, summary.Verification)
	assert.Equal(t, int64(4), summary.Verification.RowCount)
	assert.InDelta(t, 19.75, summary.Verification.TotalRevenue, 1e-9)

	text := out.String()
	assert.Contains(t, text, "Loaded 4 rows from CSV.")
	assert.Contains(t, text, "RowCount")
	assert.Contains(t, text, "TotalRevenue")
	assert.Contains(t, text, "19.75")
	assert.Contains(t, text, "Data loading complete!")
}

func TestRunTwiceReplaces(t *testing.T) {
	ctx := context.Background()
	dbPath := testutil.TestDBPath(t)

	first := testutil.WriteCSV(t, "first.csv", testutil.SalesHeader(),
		rowsWithTotals("1", "2", "3", "4", "5", "6"))
	_, err := loaders.Run(ctx, denormalized.New(), options(first, dbPath), nil)
	require.NoError(t, err)

	second := testutil.WriteCSV(t, "second.csv", testutil.SalesHeader(),
		rowsWithTotals("10", "20", "30"))
	summary, err := loaders.Run(ctx, denormalized.New(), options(second, dbPath), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Verification.RowCount)
	assert.InDelta(t, 60.0, summary.Verification.TotalRevenue, 1e-9)

	conn := testutil.ConnectTestDB(t, dbPath)
	assert.Equal(t, int64(3), testutil.CountRows(t, conn, denormalized.Table))

	var tables int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'sales_data'`).Scan(&tables))
	assert.Equal(t, 1, tables)
}

func TestExplicitColumnTypes(t *testing.T) {
	csvPath := testutil.WriteCSV(t, "sales.csv", testutil.SalesHeader(), rowsWithTotals("1"))
	dbPath := testutil.TestDBPath(t)

	_, err := loaders.Run(context.Background(), denormalized.New(), options(csvPath, dbPath), nil)
	require.NoError(t, err)

	conn := testutil.ConnectTestDB(t, dbPath)
	types := columnTypes(t, conn)
	require.Len(t, types, len(schema.SalesColumns))
	for _, c := range schema.SalesColumns {
		assert.Equal(t, string(c.Type), types[c.Name], c.Name)
	}
}

func TestUnknownColumnsInferred(t *testing.T) {
	header := append(testutil.SalesHeader(), "store_rating", "manager_note", "weather_score")
	rows := [][]string{
		append(testutil.SalesRow(nil), "4", "busy", "0.5"),
		append(testutil.SalesRow(nil), "5", "", "1"),
	}
	csvPath := testutil.WriteCSV(t, "sales.csv", header, rows)
	dbPath := testutil.TestDBPath(t)

	_, err := loaders.Run(context.Background(), denormalized.New(), options(csvPath, dbPath), nil)
	require.NoError(t, err)

	conn := testutil.ConnectTestDB(t, dbPath)
	types := columnTypes(t, conn)
	assert.Equal(t, "INTEGER", types["store_rating"])
	assert.Equal(t, "TEXT", types["manager_note"])
	assert.Equal(t, "REAL", types["weather_score"])
}

func TestDuplicateHeadersRenamed(t *testing.T) {
	header := append(testutil.SalesHeader(), "store_rating", "store_rating")
	rows := [][]string{append(testutil.SalesRow(nil), "4", "2.5")}
	csvPath := testutil.WriteCSV(t, "sales.csv", header, rows)
	dbPath := testutil.TestDBPath(t)

	_, err := loaders.Run(context.Background(), denormalized.New(), options(csvPath, dbPath), nil)
	require.NoError(t, err)

	conn := testutil.ConnectTestDB(t, dbPath)
	types := columnTypes(t, conn)
	assert.Equal(t, "INTEGER", types["store_rating"])
	assert.Equal(t, "REAL", types["store_rating.1"])
}

func TestMissingMarkersLoadAsNull(t *testing.T) {
	csvPath := testutil.WriteCSV(t, "sales.csv", testutil.SalesHeader(),
		rowsWithTotals("10", "NA", "nan", "5"))
	dbPath := testutil.TestDBPath(t)

	summary, err := loaders.Run(context.Background(), denormalized.New(), options(csvPath, dbPath), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.Verification.RowCount)
	assert.InDelta(t, 15.0, summary.Verification.TotalRevenue, 1e-9)

	conn := testutil.ConnectTestDB(t, dbPath)
	var nulls int
	require.NoError(t, conn.QueryRow(
		`SELECT COUNT(*) FROM sales_data WHERE total_sales IS NULL`).Scan(&nulls))
	assert.Equal(t, 2, nulls)
}

func TestResolveColumns(t *testing.T) {
	tbl := source.NewTable(
		[]string{"price", "extra"},
		[][]string{{"1.5", "x"}, {"2", "y"}},
	)
	cols := denormalized.ResolveColumns(tbl)
	assert.Equal(t, []schema.Column{{Name: "price", Type: schema.Real}, {Name: "extra", Type: schema.Text}}, cols)
}

func TestMissingSourceTouchesNoDatabase(t *testing.T) {
	dbPath := testutil.TestDBPath(t)
	_, err := loaders.Run(context.Background(), denormalized.New(),
		options(filepath.Join(t.TempDir(), "missing.csv"), dbPath), nil)
	assert.ErrorIs(t, err, source.ErrSourceNotFound)
	assert.False(t, testutil.FileExists(dbPath))
}

func TestFailedLoadKeepsPreviousTable(t *testing.T) {
	ctx := context.Background()
	dbPath := testutil.TestDBPath(t)

	good := testutil.WriteCSV(t, "good.csv", testutil.SalesHeader(), rowsWithTotals("1", "2"))
	_, err := loaders.Run(ctx, denormalized.New(), options(good, dbPath), nil)
	require.NoError(t, err)

	bad := testutil.WriteCSV(t, "bad.csv", testutil.SalesHeader(),
		[][]string{testutil.SalesRow(map[string]string{"month": "March"})})
	var out bytes.Buffer
	_, err = loaders.Run(ctx, denormalized.New(), options(bad, dbPath), &out)
	assert.ErrorIs(t, err, loaders.ErrLoadFailed)
	assert.Contains(t, out.String(), "An error occurred:")

	// Drop, create, and insert share one transaction.
	conn := testutil.ConnectTestDB(t, dbPath)
	assert.Equal(t, int64(2), testutil.CountRows(t, conn, denormalized.Table))
}

func TestVerifyEmptyDatabase(t *testing.T) {
	conn := testutil.ConnectTestDB(t, testutil.TestDBPath(t))
	_, err := denormalized.New().Verify(context.Background(), conn)
	assert.Error(t, err)
}

func TestSchemaSQL(t *testing.T) {
	l := denormalized.New()

	ddl, err := l.SchemaSQL(loaders.Options{})
	require.NoError(t, err)
	assert.Contains(t, ddl, `CREATE TABLE "sales_data"`)
	assert.Contains(t, ddl, `"total_sales" REAL`)

	_, err = l.SchemaSQL(loaders.Options{SchemaFile: "queries.sql"})
	assert.Error(t, err)
}

func TestGeneratedSample(t *testing.T) {
	ctx := context.Background()
	csvPath := testutil.SampleCSV(t, 300, 10, 3)
	dbPath := testutil.TestDBPath(t)

	tbl, err := source.ReadCSV(csvPath)
	require.NoError(t, err)
	totals, err := tbl.Column("total_sales")
	require.NoError(t, err)
	var want float64
	for _, v := range totals {
		f, err := schema.Coerce(schema.Real, v)
		require.NoError(t, err)
		want += f.(float64)
	}

	summary, err := loaders.Run(ctx, denormalized.New(), options(csvPath, dbPath), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(300), summary.Verification.RowCount)
	assert.InDelta(t, want, summary.Verification.TotalRevenue, 1e-6)
}
