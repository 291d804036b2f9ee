// ABOUTME: SQLite index over build runs for fast history listings.
// ABOUTME: The index is a cache: it can always be rebuilt from the run log directories.
package webbuild

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const sqliteTime = "2006-01-02T15:04:05.000Z07:00"

// HistoryIndex is a SQLite-backed mirror of the run log.
type HistoryIndex struct {
	db *sql.DB
}

// OpenHistory opens or creates the index database at path.
func OpenHistory(path string) (*HistoryIndex, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS runs (
			run_id TEXT PRIMARY KEY,
			crate TEXT NOT NULL,
			status TEXT NOT NULL,
			skip_setup INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			failed_step TEXT NOT NULL DEFAULT '',
			exit_code INTEGER NOT NULL DEFAULT 0,
			error TEXT NOT NULL DEFAULT ''
		);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &HistoryIndex{db: db}, nil
}

// Close closes the database connection.
func (h *HistoryIndex) Close() error {
	return h.db.Close()
}

// Record upserts a run.
func (h *HistoryIndex) Record(rec RunRecord) error {
	if err := upsertRun(h.db, rec); err != nil {
		return fmt.Errorf("upsert run: %w", err)
	}
	return nil
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func upsertRun(db execer, rec RunRecord) error {
	var finished *string
	if rec.FinishedAt != nil {
		s := rec.FinishedAt.UTC().Format(sqliteTime)
		finished = &s
	}
	_, err := db.Exec(
		`INSERT INTO runs (run_id, crate, status, skip_setup, started_at, finished_at, failed_step, exit_code, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(run_id) DO UPDATE SET
			crate = excluded.crate,
			status = excluded.status,
			skip_setup = excluded.skip_setup,
			started_at = excluded.started_at,
			finished_at = excluded.finished_at,
			failed_step = excluded.failed_step,
			exit_code = excluded.exit_code,
			error = excluded.error`,
		rec.RunID, rec.Crate, rec.Status, rec.SkipSetup,
		rec.StartedAt.UTC().Format(sqliteTime), finished,
		string(rec.FailedStep), rec.ExitCode, rec.Error,
	)
	return err
}

// List returns up to limit runs, newest first. limit <= 0 means all.
func (h *HistoryIndex) List(limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := h.db.Query(
		`SELECT run_id, crate, status, skip_setup, started_at, finished_at, failed_step, exit_code, error
		 FROM runs ORDER BY run_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var recs []RunRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, rows.Err()
}

// Get returns one run, or ErrRunNotFound.
func (h *HistoryIndex) Get(runID string) (*RunRecord, error) {
	row := h.db.QueryRow(
		`SELECT run_id, crate, status, skip_setup, started_at, finished_at, failed_step, exit_code, error
		 FROM runs WHERE run_id = ?`, runID)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return rec, err
}

// Rebuild clears the index and reloads it from the run log.
func (h *HistoryIndex) Rebuild(log *RunLog) (int, error) {
	recs, err := log.List()
	if err != nil {
		return 0, err
	}
	tx, err := h.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin rebuild: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM runs"); err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	for _, rec := range recs {
		if err := upsertRun(tx, rec); err != nil {
			return 0, fmt.Errorf("rebuild run %s: %w", rec.RunID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rebuild: %w", err)
	}
	return len(recs), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*RunRecord, error) {
	var (
		rec                RunRecord
		started            string
		finished           sql.NullString
		failedStep, errMsg string
	)
	err := row.Scan(&rec.RunID, &rec.Crate, &rec.Status, &rec.SkipSetup, &started, &finished, &failedStep, &rec.ExitCode, &errMsg)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan run row: %w", err)
	}
	rec.FailedStep = Step(failedStep)
	rec.Error = errMsg
	if rec.StartedAt, err = time.Parse(sqliteTime, started); err != nil {
		return nil, fmt.Errorf("parse started_at for %s: %w", rec.RunID, err)
	}
	if finished.Valid {
		t, err := time.Parse(sqliteTime, finished.String)
		if err != nil {
			return nil, fmt.Errorf("parse finished_at for %s: %w", rec.RunID, err)
		}
		rec.FinishedAt = &t
	}
	return &rec, nil
}
