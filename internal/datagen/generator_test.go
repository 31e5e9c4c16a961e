package datagen

import (
	"bytes"
	"context"
	"encoding/csv"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pgEdge/pgedge-salesload/internal/schema"
	"github.com/pgEdge/pgedge-salesload/internal/source"
)

func testConfig() SalesConfig {
	return SalesConfig{
		Rows:     200,
		Products: 6,
		Branches: 3,
		Seed:     42,
		Start:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func generate(t *testing.T, cfg SalesConfig) []byte {
	t.Helper()
	var buf bytes.Buffer
	n, err := NewSalesGenerator(cfg).Write(context.Background(), &buf)
	require.NoError(t, err)
	require.Equal(t, cfg.Rows, n)
	return buf.Bytes()
}

func TestSalesGeneratorShape(t *testing.T) {
	cfg := testConfig()
	tbl, err := source.ParseCSV(bytes.NewReader(generate(t, cfg)))
	require.NoError(t, err)

	assert.Equal(t, schema.ColumnNames(schema.SalesColumns), tbl.Columns)
	assert.Equal(t, cfg.Rows, tbl.Len())

	products, err := tbl.Project("product_id", "product_name", "category")
	require.NoError(t, err)
	assert.LessOrEqual(t, products.DropDuplicates().Len(), cfg.Products)

	branches, err := tbl.Project("branch_id", "branch_name")
	require.NoError(t, err)
	assert.LessOrEqual(t, branches.DropDuplicates().Len(), cfg.Branches)
}

func TestSalesGeneratorValuesCoerce(t *testing.T) {
	cfg := testConfig()
	tbl, err := source.ParseCSV(bytes.NewReader(generate(t, cfg)))
	require.NoError(t, err)

	types := make([]schema.Type, len(schema.SalesColumns))
	for i, c := range schema.SalesColumns {
		types[i] = c.Type
	}
	_, err = schema.CoerceRows(tbl.Columns, types, tbl.Rows)
	require.NoError(t, err)
}

func TestSalesGeneratorRowInvariants(t *testing.T) {
	cfg := testConfig()
	r := csv.NewReader(bytes.NewReader(generate(t, cfg)))
	records, err := r.ReadAll()
	require.NoError(t, err)

	header := records[0]
	col := func(name string) int {
		for i, h := range header {
			if h == name {
				return i
			}
		}
		t.Fatalf("missing column %s", name)
		return -1
	}

	for _, rec := range records[1:] {
		day, err := time.Parse("2006-01-02", rec[col("date")])
		require.NoError(t, err)

		dow, _ := strconv.Atoi(rec[col("day_of_week")])
		assert.Equal(t, (int(day.Weekday())+6)%7, dow)

		month, _ := strconv.Atoi(rec[col("month")])
		assert.Equal(t, int(day.Month()), month)

		total, _ := strconv.ParseFloat(rec[col("total_sales")], 64)
		online, _ := strconv.ParseFloat(rec[col("online_sales")], 64)
		offline, _ := strconv.ParseFloat(rec[col("offline_sales")], 64)
		assert.InDelta(t, total, online+offline, 0.011)

		for _, f := range []string{"promotion_flag", "festival_flag", "holiday_flag"} {
			assert.Contains(t, []string{"0", "1"}, rec[col(f)])
		}
	}

	// The first observation of any series has no lag history.
	first := records[1]
	assert.Empty(t, first[col("lag_1")])
	assert.Empty(t, first[col("rolling_mean_30")])
}

func TestSalesGeneratorDeterministic(t *testing.T) {
	cfg := testConfig()
	assert.Equal(t, generate(t, cfg), generate(t, cfg))

	other := cfg
	other.Seed = 43
	assert.NotEqual(t, generate(t, cfg), generate(t, other))
}

func TestSalesGeneratorPopularity(t *testing.T) {
	cfg := testConfig()
	g := NewSalesGenerator(cfg)
	require.Len(t, g.Products(), cfg.Products)
	require.Len(t, g.Branches(), cfg.Branches)

	// Only the third product can be picked.
	g.popularity = make([]int, cfg.Products)
	g.popularity[2] = 1

	var buf bytes.Buffer
	_, err := g.Write(context.Background(), &buf)
	require.NoError(t, err)

	tbl, err := source.ParseCSV(&buf)
	require.NoError(t, err)
	ids, err := tbl.Column("product_id")
	require.NoError(t, err)
	for _, id := range ids {
		assert.Equal(t, g.Products()[2].ID, id)
	}
}

func TestSalesGeneratorCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	_, err := NewSalesGenerator(testConfig()).Write(ctx, &buf)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLagAndRollingMean(t *testing.T) {
	hist := []float64{1, 2, 3, 4, 5, 6, 7}

	assert.Equal(t, "7.00", lag(hist, 1))
	assert.Equal(t, "1.00", lag(hist, 7))
	assert.Equal(t, "", lag(hist, 30))
	assert.Equal(t, "4.00", rollingMean(hist, 7))
	assert.Equal(t, "", rollingMean(hist, 30))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "FINAL_DATASET.csv")
	n, err := WriteFile(context.Background(), path, testConfig())
	require.NoError(t, err)
	assert.Equal(t, 200, n)

	tbl, err := source.ReadCSV(path)
	require.NoError(t, err)
	assert.Equal(t, 200, tbl.Len())
}
