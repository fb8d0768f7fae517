package history

import (
	"context"
	"database/sql"
	"fmt"
)

// Migration represents a database schema migration
type Migration struct {
	Version     int
	Description string
	SQL         string
}

// migrations is the ordered list of all database migrations
var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema with sweeps and file_results",
		SQL: `
CREATE TABLE IF NOT EXISTS sweeps (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id TEXT NOT NULL UNIQUE,
    root TEXT NOT NULL,
    output_file TEXT NOT NULL,
    files INTEGER NOT NULL,
    defects INTEGER NOT NULL,
    suppressed INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    started_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sweeps_started_at ON sweeps(started_at DESC);
CREATE INDEX IF NOT EXISTS idx_sweeps_root ON sweeps(root);

CREATE TABLE IF NOT EXISTS file_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    sweep_id INTEGER NOT NULL,
    path TEXT NOT NULL,
    defects INTEGER NOT NULL,
    suppressed INTEGER NOT NULL,
    duration_ms INTEGER NOT NULL,
    error_message TEXT,
    FOREIGN KEY (sweep_id) REFERENCES sweeps(id) ON DELETE CASCADE
);

CREATE INDEX IF NOT EXISTS idx_file_results_sweep ON file_results(sweep_id);
CREATE INDEX IF NOT EXISTS idx_file_results_path ON file_results(path);
`,
	},
	{
		Version:     2,
		Description: "Record linter exit status per file",
		SQL:         `ALTER TABLE file_results ADD COLUMN exit_code INTEGER NOT NULL DEFAULT 0;`,
	},
}

// ApplyMigrations applies every pending migration in a single transaction.
func (s *Store) ApplyMigrations() error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("begin exclusive transaction: %w", err)
	}
	defer tx.Rollback() // no-op if committed

	if _, err := tx.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS schema_version (
    version INTEGER PRIMARY KEY,
    applied_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
);
`); err != nil {
		return fmt.Errorf("create schema_version table: %w", err)
	}

	var current int
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&current); err != nil {
		return fmt.Errorf("query latest version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= current {
			continue
		}

		if _, err := tx.ExecContext(ctx, migration.SQL); err != nil {
			return fmt.Errorf("apply migration %d (%s): %w", migration.Version, migration.Description, err)
		}

		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO schema_version (version) VALUES (?)`, migration.Version); err != nil {
			return fmt.Errorf("record migration %d: %w", migration.Version, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migrations: %w", err)
	}

	return nil
}
