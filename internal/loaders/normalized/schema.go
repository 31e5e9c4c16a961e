//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package normalized

import (
	"context"
	"database/sql"
	"fmt"
	"os"
)

// Table names.
const (
	ProductTable     = "Product_Lookup"
	BranchTable      = "Branch_Lookup"
	TransactionTable = "Sales_Transactions"
)

// ProductColumns is the product lookup projection.
var ProductColumns = []string{"product_id", "product_name", "category"}

// BranchColumns is the branch lookup projection.
var BranchColumns = []string{"branch_id", "branch_name"}

// TransactionColumns is the fixed fact table projection.
var TransactionColumns = []string{
	"order_id", "product_id", "branch_id", "date", "day_of_week", "month",
	"price", "total_sales", "online_sales", "offline_sales", "returns_count",
	"promotion_flag", "festival_flag", "holiday_flag", "seasonal_index", "cpi",
	"lag_1", "lag_7", "lag_30", "rolling_mean_7", "rolling_mean_30",
}

// Schema SQL for the lookup and fact tables. Lookups are keyed by their
// natural identifiers; transactions reference them and get a surrogate key.
const createSchemaSQL = `
-- Products
CREATE TABLE IF NOT EXISTS Product_Lookup (
    product_id   TEXT NOT NULL PRIMARY KEY,
    product_name TEXT,
    category     TEXT
);

-- Branches
CREATE TABLE IF NOT EXISTS Branch_Lookup (
    branch_id   TEXT NOT NULL PRIMARY KEY,
    branch_name TEXT
);

-- Transactions
CREATE TABLE IF NOT EXISTS Sales_Transactions (
    transaction_id  INTEGER PRIMARY KEY AUTOINCREMENT,
    order_id        TEXT,
    product_id      TEXT NOT NULL REFERENCES Product_Lookup (product_id),
    branch_id       TEXT NOT NULL REFERENCES Branch_Lookup (branch_id),
    date            TEXT,
    day_of_week     INTEGER,
    month           INTEGER,
    price           REAL,
    total_sales     REAL,
    online_sales    REAL,
    offline_sales   REAL,
    returns_count   INTEGER,
    promotion_flag  INTEGER,
    festival_flag   INTEGER,
    holiday_flag    INTEGER,
    seasonal_index  REAL,
    cpi             REAL,
    lag_1           REAL,
    lag_7           REAL,
    lag_30          REAL,
    rolling_mean_7  REAL,
    rolling_mean_30 REAL
);

CREATE INDEX IF NOT EXISTS idx_sales_transactions_product ON Sales_Transactions (product_id);
CREATE INDEX IF NOT EXISTS idx_sales_transactions_branch ON Sales_Transactions (branch_id);
CREATE INDEX IF NOT EXISTS idx_sales_transactions_date ON Sales_Transactions (date);
`

// Children first so foreign keys never block the drop.
const dropSchemaSQL = `
DROP TABLE IF EXISTS Sales_Transactions;
DROP TABLE IF EXISTS Branch_Lookup;
DROP TABLE IF EXISTS Product_Lookup;
`

// SchemaSQL returns the built-in DDL, or the contents of schemaFile when set.
func SchemaSQL(schemaFile string) (string, error) {
	if schemaFile == "" {
		return createSchemaSQL, nil
	}
	b, err := os.ReadFile(schemaFile)
	if err != nil {
		return "", fmt.Errorf("failed to read schema file: %w", err)
	}
	return string(b), nil
}

// CreateSchema executes the DDL script.
func CreateSchema(ctx context.Context, conn *sql.DB, ddl string) error {
	if _, err := conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

// DropSchema drops the three tables.
func DropSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, dropSchemaSQL); err != nil {
		return fmt.Errorf("failed to drop schema: %w", err)
	}
	return nil
}
