package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/harrison/lintsweep/internal/models"
)

// Run is a recorded sweep
type Run struct {
	ID         int64
	RunID      string
	Root       string
	OutputFile string
	Files      int
	Defects    int
	Suppressed int
	Failed     int
	Duration   time.Duration
	StartedAt  time.Time
}

// FileRecord is one file's outcome within a recorded sweep
type FileRecord struct {
	Path         string
	Defects      int
	Suppressed   int
	ExitCode     int
	Duration     time.Duration
	ErrorMessage string
}

// RecordSweep stores a sweep and its per-file results atomically.
func (s *Store) RecordSweep(ctx context.Context, result models.SweepResult) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `INSERT INTO sweeps
		(run_id, root, output_file, files, defects, suppressed, failed, duration_ms, started_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Root,
		result.OutputFile,
		result.TotalFiles(),
		result.Defects,
		result.Suppressed,
		result.Failed,
		result.Duration.Milliseconds(),
		result.StartedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert sweep: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO file_results
		(sweep_id, path, defects, suppressed, exit_code, duration_ms, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare file insert: %w", err)
	}
	defer stmt.Close()

	for _, f := range result.Files {
		var errMsg sql.NullString
		if f.Err != nil {
			errMsg = sql.NullString{String: f.Err.Error(), Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, id, f.Path, f.Defects, f.Suppressed, f.ExitCode, f.Duration.Milliseconds(), errMsg); err != nil {
			return 0, fmt.Errorf("insert file result %s: %w", f.Path, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit sweep: %w", err)
	}

	return id, nil
}

// RecentRuns returns up to limit sweeps, most recent first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, run_id, root, output_file, files, defects, suppressed, failed, duration_ms, started_at
		FROM sweeps
		ORDER BY started_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query sweeps: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var durationMs int64
		if err := rows.Scan(&r.ID, &r.RunID, &r.Root, &r.OutputFile, &r.Files, &r.Defects, &r.Suppressed, &r.Failed, &durationMs, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("scan sweep row: %w", err)
		}
		r.Duration = time.Duration(durationMs) * time.Millisecond
		runs = append(runs, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sweep rows: %w", err)
	}

	return runs, nil
}

// FileResults returns the per-file records of a sweep ordered by path.
func (s *Store) FileResults(ctx context.Context, runID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT f.path, f.defects, f.suppressed, f.exit_code, f.duration_ms, f.error_message
		FROM file_results f
		JOIN sweeps s ON s.id = f.sweep_id
		WHERE s.run_id = ?
		ORDER BY f.path ASC`, runID)
	if err != nil {
		return nil, fmt.Errorf("query file results: %w", err)
	}
	defer rows.Close()

	var records []FileRecord
	for rows.Next() {
		var rec FileRecord
		var durationMs int64
		var errMsg sql.NullString
		if err := rows.Scan(&rec.Path, &rec.Defects, &rec.Suppressed, &rec.ExitCode, &durationMs, &errMsg); err != nil {
			return nil, fmt.Errorf("scan file result row: %w", err)
		}
		rec.Duration = time.Duration(durationMs) * time.Millisecond
		if errMsg.Valid {
			rec.ErrorMessage = errMsg.String
		}
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate file result rows: %w", err)
	}

	return records, nil
}
