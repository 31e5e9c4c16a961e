//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package datagen

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/pgEdge/pgedge-salesload/internal/logging"
	"github.com/pgEdge/pgedge-salesload/internal/schema"
)

// SalesConfig configures sample generation.
type SalesConfig struct {
	Rows     int
	Products int
	Branches int

	// Seed makes output reproducible; 0 picks a random seed.
	Seed  uint64
	Start time.Time
}

// Product is a generated catalog entry.
type Product struct {
	ID       string
	Name     string
	Category string
	Price    float64
}

// Branch is a generated store location.
type Branch struct {
	ID   string
	Name string
}

// SalesGenerator produces sales rows with the canonical header.
type SalesGenerator struct {
	cfg      SalesConfig
	faker    *Faker
	products []Product
	branches []Branch

	// relative sales weight per product, same order as products
	popularity []int

	// total_sales history per product|branch series, oldest first
	history map[string][]float64
}

// NewSalesGenerator builds the product and branch catalogs up front.
func NewSalesGenerator(cfg SalesConfig) *SalesGenerator {
	f := NewFaker()
	if cfg.Seed != 0 {
		f = NewFakerWithSeed(cfg.Seed)
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC)
	}

	g := &SalesGenerator{
		cfg:     cfg,
		faker:   f,
		history: make(map[string][]float64),
	}

	for i := 0; i < cfg.Products; i++ {
		g.products = append(g.products, Product{
			ID:       fmt.Sprintf("P%04d", i+1),
			Name:     f.ProductName(),
			Category: f.ProductCategory(),
			Price:    f.Price(2, 500),
		})
		g.popularity = append(g.popularity, f.Int(1, 10))
	}
	for i := 0; i < cfg.Branches; i++ {
		g.branches = append(g.branches, Branch{
			ID:   fmt.Sprintf("B%03d", i+1),
			Name: f.City() + " Branch",
		})
	}
	return g
}

// Products returns the generated product catalog.
func (g *SalesGenerator) Products() []Product {
	return g.products
}

// Branches returns the generated branches.
func (g *SalesGenerator) Branches() []Branch {
	return g.branches
}

// Header returns the CSV header.
func Header() []string {
	return schema.ColumnNames(schema.SalesColumns)
}

// Write emits the header and cfg.Rows data rows as CSV.
func (g *SalesGenerator) Write(ctx context.Context, w io.Writer) (int, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header()); err != nil {
		return 0, err
	}

	perDay := max(1, g.cfg.Branches*2)
	for i := 0; i < g.cfg.Rows; i++ {
		if i%10000 == 0 {
			if err := ctx.Err(); err != nil {
				return i, err
			}
		}
		day := g.cfg.Start.AddDate(0, 0, i/perDay)
		if err := cw.Write(g.row(i, day, i/perDay)); err != nil {
			return i, err
		}
	}

	cw.Flush()
	return g.cfg.Rows, cw.Error()
}

func (g *SalesGenerator) row(i int, day time.Time, dayIndex int) []string {
	f := g.faker
	p := ChooseWeighted(f, g.products, g.popularity)
	b := Choose(f, g.branches)

	promotion := f.Chance(0.15)
	festival := (day.Month() == time.October || day.Month() == time.November) && f.Chance(0.2)
	holiday := isHoliday(day) || f.Chance(0.02)
	seasonal := Round(1+0.25*math.Sin(2*math.Pi*float64(day.YearDay())/365.25), 4)
	cpi := Round(100+0.01*float64(dayIndex)+f.Float64(-0.5, 0.5), 2)

	qty := float64(f.Int(1, 20)) * seasonal
	if promotion {
		qty *= 1.2
	}
	if festival || holiday {
		qty *= 1.1
	}
	total := Round(p.Price*qty, 2)
	online := Round(total*f.Float64(0.2, 0.6), 2)
	offline := Round(total-online, 2)
	returns := f.Int(0, max(0, int(qty)/5))

	key := p.ID + "|" + b.ID
	hist := g.history[key]
	lag1, lag7, lag30 := lag(hist, 1), lag(hist, 7), lag(hist, 30)
	mean7, mean30 := rollingMean(hist, 7), rollingMean(hist, 30)
	g.history[key] = append(hist, total)

	return []string{
		fmt.Sprintf("ORD%07d", i+1),
		p.ID,
		p.Name,
		p.Category,
		b.ID,
		b.Name,
		day.Format("2006-01-02"),
		strconv.Itoa((int(day.Weekday()) + 6) % 7),
		strconv.Itoa(int(day.Month())),
		formatFloat(p.Price),
		formatFloat(total),
		formatFloat(online),
		formatFloat(offline),
		strconv.Itoa(returns),
		flag(promotion),
		flag(festival),
		flag(holiday),
		strconv.FormatFloat(seasonal, 'f', 4, 64),
		formatFloat(cpi),
		lag1, lag7, lag30,
		mean7, mean30,
	}
}

// WriteFile generates a CSV at path.
func WriteFile(ctx context.Context, path string, cfg SalesConfig) (int, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("ensure output dir: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create %s: %w", path, err)
	}

	g := NewSalesGenerator(cfg)
	n, err := g.Write(ctx, file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return n, fmt.Errorf("write %s: %w", path, err)
	}

	logging.Info().
		Str("path", path).
		Str("rows", humanize.Comma(int64(n))).
		Int("products", len(g.Products())).
		Int("branches", len(g.Branches())).
		Msg("Generated sample data")
	return n, nil
}

func isHoliday(d time.Time) bool {
	switch {
	case d.Month() == time.January && d.Day() == 1:
		return true
	case d.Month() == time.July && d.Day() == 4:
		return true
	case d.Month() == time.December && (d.Day() == 24 || d.Day() == 25 || d.Day() == 31):
		return true
	}
	return false
}

// lag returns the value k observations back, or "" without enough history.
func lag(hist []float64, k int) string {
	if len(hist) < k {
		return ""
	}
	return formatFloat(hist[len(hist)-k])
}

// rollingMean returns the mean of the last k observations, or "" without
// enough history.
func rollingMean(hist []float64, k int) string {
	if len(hist) < k {
		return ""
	}
	var sum float64
	for _, v := range hist[len(hist)-k:] {
		sum += v
	}
	return formatFloat(Round(sum/float64(k), 2))
}

func flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
