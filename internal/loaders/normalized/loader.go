//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package normalized loads sales rows into product and branch lookup tables
// plus a transactions table that references them.
package normalized

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pgEdge/pgedge-salesload/internal/db"
	"github.com/pgEdge/pgedge-salesload/internal/loaders"
	"github.com/pgEdge/pgedge-salesload/internal/logging"
	"github.com/pgEdge/pgedge-salesload/internal/source"
)

// Name is the strategy name.
const Name = "normalized"

func init() {
	loaders.Register(New())
}

// Loader implements the normalized strategy.
type Loader struct{}

// New creates a new normalized loader.
func New() *Loader {
	return &Loader{}
}

// Name returns the strategy name.
func (l *Loader) Name() string {
	return Name
}

// Description returns a human-readable description.
func (l *Loader) Description() string {
	return "Deduplicated Product_Lookup and Branch_Lookup tables plus a " +
		"Sales_Transactions fact table referencing them by foreign key"
}

// Tables returns the tables in creation order.
func (l *Loader) Tables() []string {
	return []string{ProductTable, BranchTable, TransactionTable}
}

// SchemaSQL returns the DDL the load executes.
func (l *Loader) SchemaSQL(opts loaders.Options) (string, error) {
	return SchemaSQL(opts.SchemaFile)
}

// DropSchema drops the strategy's tables.
func (l *Loader) DropSchema(ctx context.Context, conn *sql.DB) error {
	return DropSchema(ctx, conn)
}

// Write creates the schema and populates products, branches, then
// transactions. Each stage commits on its own; a failure leaves earlier
// stages in place.
func (l *Loader) Write(ctx context.Context, conn *sql.DB, tbl *source.Table,
	opts loaders.Options, out *loaders.Reporter) (loaders.Result, error) {
	var res loaders.Result

	if opts.DropExisting {
		logging.Info().Msg("Dropping existing normalized tables")
		if err := DropSchema(ctx, conn); err != nil {
			return res, err
		}
	}

	ddl, err := SchemaSQL(opts.SchemaFile)
	if err != nil {
		return res, err
	}
	if err := CreateSchema(ctx, conn, ddl); err != nil {
		return res, err
	}
	out.Printf("Schema created successfully.")

	products, err := tbl.Project(ProductColumns...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", ProductTable, err)
	}
	n, err := insert(ctx, conn, ProductTable, products.DropDuplicates(), opts.BatchSize)
	if err != nil {
		return res, err
	}
	res.Tables = append(res.Tables, loaders.TableCount{Table: ProductTable, Rows: n})
	out.Printf("Populated %s with %d unique products.", ProductTable, n)

	branches, err := tbl.Project(BranchColumns...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", BranchTable, err)
	}
	n, err = insert(ctx, conn, BranchTable, branches.DropDuplicates(), opts.BatchSize)
	if err != nil {
		return res, err
	}
	res.Tables = append(res.Tables, loaders.TableCount{Table: BranchTable, Rows: n})
	out.Printf("Populated %s with %d unique branches.", BranchTable, n)

	transactions, err := tbl.Project(TransactionColumns...)
	if err != nil {
		return res, fmt.Errorf("%s: %w", TransactionTable, err)
	}
	n, err = insert(ctx, conn, TransactionTable, transactions, opts.BatchSize)
	if err != nil {
		return res, err
	}
	res.Tables = append(res.Tables, loaders.TableCount{Table: TransactionTable, Rows: n})
	out.Printf("Populated %s with %d rows.", TransactionTable, n)

	return res, nil
}

func insert(ctx context.Context, conn *sql.DB, table string, tbl *source.Table, batchSize int) (int64, error) {
	types, err := loaders.CatalogTypes(tbl.Columns)
	if err != nil {
		return 0, err
	}
	n, err := loaders.InsertTx(ctx, conn, table, tbl, types, batchSize)
	if err != nil {
		return n, err
	}
	logging.Debug().Str("table", table).Int64("rows", n).Msg("Populated table")
	return n, nil
}

// Verify reports table counts, total revenue, and transactions whose
// product or branch is missing from the lookups.
func (l *Loader) Verify(ctx context.Context, conn *sql.DB) (loaders.Verification, error) {
	var v loaders.Verification

	for _, table := range l.Tables() {
		ok, err := db.TableExists(ctx, conn, table)
		if err != nil {
			return v, err
		}
		if !ok {
			return v, fmt.Errorf("table %s not found; run load first", table)
		}
		n, err := db.CountRows(ctx, conn, table)
		if err != nil {
			return v, err
		}
		v.Tables = append(v.Tables, loaders.TableCount{Table: table, Rows: n})
	}

	var revenue sql.NullFloat64
	err := conn.QueryRowContext(ctx, `
        SELECT COUNT(*) AS RowCount, SUM(total_sales) AS TotalRevenue
        FROM Sales_Transactions
    `).Scan(&v.RowCount, &revenue)
	if err != nil {
		return v, fmt.Errorf("verification query failed: %w", err)
	}
	v.TotalRevenue = revenue.Float64

	err = conn.QueryRowContext(ctx, `
        SELECT COUNT(*)
        FROM Sales_Transactions s
        LEFT JOIN Product_Lookup p ON p.product_id = s.product_id
        LEFT JOIN Branch_Lookup b ON b.branch_id = s.branch_id
        WHERE p.product_id IS NULL OR b.branch_id IS NULL
    `).Scan(&v.Orphans)
	if err != nil {
		return v, fmt.Errorf("orphan check failed: %w", err)
	}

	return v, nil
}
