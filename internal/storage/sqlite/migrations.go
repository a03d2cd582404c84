package sqlite

import (
	"context"
	"database/sql"
)

// Migrate runs all database migrations. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	migrations := []string{
		// Runs table
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			workflow TEXT NOT NULL,
			job_id TEXT NOT NULL,
			trigger TEXT NOT NULL,
			commit_ref TEXT,
			state INTEGER NOT NULL DEFAULT 10,
			failure_summary TEXT,
			created_at DATETIME NOT NULL,
			started_at DATETIME,
			finished_at DATETIME,
			updated_at DATETIME NOT NULL,
			version INTEGER NOT NULL DEFAULT 1
		)`,

		// Step results table
		`CREATE TABLE IF NOT EXISTS step_results (
			run_id TEXT NOT NULL,
			idx INTEGER NOT NULL,
			name TEXT NOT NULL,
			command TEXT,
			state INTEGER NOT NULL DEFAULT 10,
			exit_code INTEGER NOT NULL DEFAULT 0,
			output TEXT,
			started_at DATETIME,
			finished_at DATETIME,
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL,
			PRIMARY KEY (run_id, idx),
			FOREIGN KEY (run_id) REFERENCES runs(id) ON DELETE CASCADE
		)`,

		// Indexes for efficient queries
		`CREATE INDEX IF NOT EXISTS idx_runs_state ON runs(state, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_steps_run ON step_results(run_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.ExecContext(ctx, migration); err != nil {
			return err
		}
	}

	return nil
}
