// Package store provides trajectory persistence and export.
package store

import (
	"context"
	"database/sql"
	"fmt"
)

// schemaStatements creates the runs and samples tables. Concentration and
// flux maps are stored as JSON blobs per sample; queries always read whole
// trajectories, so per-metabolite columns would buy nothing.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		pathway_id TEXT NOT NULL,
		pathway_name TEXT NOT NULL DEFAULT '',
		metabolite_order TEXT NOT NULL,
		time_step REAL NOT NULL,
		duration REAL NOT NULL,
		profile_digest TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS samples (
		run_id INTEGER NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
		time_s REAL NOT NULL,
		concentrations TEXT NOT NULL,
		fluxes TEXT,
		PRIMARY KEY (run_id, time_s)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_samples_run ON samples(run_id, time_s)`,
}

// InitSchema creates the database schema if it does not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("initializing schema: %w", err)
		}
	}
	return nil
}
