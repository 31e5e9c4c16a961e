//-------------------------------------------------------------------------
//
// pgEdge Sales Loader
//
// Portions copyright (c) 2025 - 2026, pgEdge, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package db

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/pgEdge/pgedge-salesload/internal/logging"
	"github.com/pgEdge/pgedge-salesload/pkg/version"
)

// MetadataTable records the most recent successful load.
const MetadataTable = "salesload_metadata"

const createMetadataTableSQL = `
CREATE TABLE IF NOT EXISTS salesload_metadata (
    key   TEXT PRIMARY KEY,
    value TEXT NOT NULL
)`

// RunInfo describes a completed load.
type RunInfo struct {
	Strategy     string
	SourcePath   string
	SourceSHA256 string
	SourceRows   int
}

// SaveMetadata records run metadata, replacing values from earlier runs.
// It returns the generated run id.
func SaveMetadata(ctx context.Context, conn *sql.DB, info RunInfo) (string, error) {
	if _, err := conn.ExecContext(ctx, createMetadataTableSQL); err != nil {
		return "", fmt.Errorf("failed to create metadata table: %w", err)
	}

	runID := uuid.NewString()
	metadata := map[string]string{
		"strategy":      info.Strategy,
		"version":       version.Short(),
		"loaded_at":     time.Now().UTC().Format(time.RFC3339),
		"run_id":        runID,
		"source_path":   info.SourcePath,
		"source_sha256": info.SourceSHA256,
		"source_rows":   strconv.Itoa(info.SourceRows),
	}

	err := WithTx(ctx, conn, func(tx *sql.Tx) error {
		for key, value := range metadata {
			_, err := tx.ExecContext(ctx, `
                INSERT INTO salesload_metadata (key, value) VALUES (?, ?)
                ON CONFLICT (key) DO UPDATE SET value = excluded.value
            `, key, value)
			if err != nil {
				return fmt.Errorf("failed to save metadata %s: %w", key, err)
			}
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	logging.Debug().
		Str("strategy", info.Strategy).
		Str("run_id", runID).
		Msg("Saved metadata")

	return runID, nil
}

// GetMetadataValue retrieves a single metadata value by key.
func GetMetadataValue(ctx context.Context, q Querier, key string) (string, error) {
	var value string
	err := q.QueryRowContext(ctx, `
        SELECT value FROM salesload_metadata WHERE key = ?
    `, key).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAllMetadata retrieves all metadata as a map.
func GetAllMetadata(ctx context.Context, q Querier) (map[string]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT key, value FROM salesload_metadata`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metadata := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		metadata[key] = value
	}

	return metadata, rows.Err()
}

// DropMetadata drops the metadata table.
func DropMetadata(ctx context.Context, ex Execer) error {
	_, err := ex.ExecContext(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s", MetadataTable))
	return err
}

// MetadataExists checks if the metadata table exists.
func MetadataExists(ctx context.Context, q Querier) (bool, error) {
	return TableExists(ctx, q, MetadataTable)
}
