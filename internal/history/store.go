// Package history keeps an append-only record of build runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Kind distinguishes a build from a test-harness build.
type Kind string

const (
	KindBuild Kind = "build"
	KindTest  Kind = "test"
)

// Run is one recorded invocation.
type Run struct {
	ID        string        `json:"id"`
	Project   string        `json:"project"`
	Root      string        `json:"root"`
	Kind      Kind          `json:"kind"`
	DryRun    bool          `json:"dry_run"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Compiled  int           `json:"compiled"`
	UpToDate  int           `json:"up_to_date"`
	Linked    int           `json:"linked"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// Store persists runs in a SQLite database.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initialize history schema: %w", err)
	}
	return s, nil
}

func (s *Store) initialize() error {
	_, err := s.db.Exec(`
	CREATE TABLE IF NOT EXISTS runs (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		id TEXT NOT NULL UNIQUE,
		project TEXT NOT NULL,
		root TEXT NOT NULL,
		kind TEXT NOT NULL,
		dry_run INTEGER NOT NULL,
		started_at INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		compiled INTEGER NOT NULL,
		up_to_date INTEGER NOT NULL,
		linked INTEGER NOT NULL,
		success INTEGER NOT NULL,
		error TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_runs_project ON runs(project);
	`)
	return err
}

// Close releases the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends a run.
func (s *Store) Record(ctx context.Context, r Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = NewRunID()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, project, root, kind, dry_run, started_at, duration_ms, compiled, up_to_date, linked, success, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Project, r.Root, string(r.Kind), r.DryRun, r.StartedAt.UnixMilli(), r.Duration.Milliseconds(),
		r.Compiled, r.UpToDate, r.Linked, r.Success, r.Error,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// Recent returns up to limit runs, newest first. limit <= 0 means all.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q := `SELECT id, project, root, kind, dry_run, started_at, duration_ms, compiled, up_to_date, linked, success, error
		FROM runs ORDER BY seq DESC`
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r          Run
			kind       string
			startedMS  int64
			durationMS int64
			errText    sql.NullString
		)
		if err := rows.Scan(&r.ID, &r.Project, &r.Root, &kind, &r.DryRun, &startedMS, &durationMS,
			&r.Compiled, &r.UpToDate, &r.Linked, &r.Success, &errText); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		r.Kind = Kind(kind)
		r.StartedAt = time.UnixMilli(startedMS).UTC()
		r.Duration = time.Duration(durationMS) * time.Millisecond
		r.Error = errText.String
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
