// Package store records scrape runs in a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"hackinsight/internal/model"
)

// Run is one completed top-level scrape.
type Run struct {
	ID           string
	URL          string
	Kind         string
	Success      bool
	ProjectCount int
	Error        string
	OutputPath   string
	ReportPath   string
	CompletedAt  time.Time
}

// RunFromResult summarizes a result envelope.
func RunFromResult(kind string, r model.ScrapeResult, outputPath, reportPath string) Run {
	run := Run{
		URL:         r.URL,
		Kind:        kind,
		Success:     r.Success,
		Error:       r.ErrorMessage,
		OutputPath:  outputPath,
		ReportPath:  reportPath,
		CompletedAt: r.ScrapedAt,
	}
	if r.Hackathon != nil {
		run.ProjectCount = len(r.Hackathon.Projects)
	}
	return run
}

// timeLayout is fixed-width so completed_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is the run history.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." && path != ":memory:" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, eris.Wrap(err, "store: create dir")
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "store: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close() //nolint:errcheck
			return nil, eris.Wrapf(err, "store: exec %s", pragma)
		}
	}
	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close() //nolint:errcheck
		return nil, err
	}
	return s, nil
}

const migration = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	url           TEXT NOT NULL,
	kind          TEXT NOT NULL,
	success       INTEGER NOT NULL,
	project_count INTEGER NOT NULL DEFAULT 0,
	error         TEXT NOT NULL DEFAULT '',
	output_path   TEXT NOT NULL DEFAULT '',
	report_path   TEXT NOT NULL DEFAULT '',
	completed_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_completed_at ON runs(completed_at);
`

func (s *Store) migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, migration)
	return eris.Wrap(err, "store: migrate")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts run, assigning an ID and completion time when unset.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.CompletedAt.IsZero() {
		run.CompletedAt = time.Now()
	}
	run.CompletedAt = run.CompletedAt.UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, url, kind, success, project_count, error, output_path, report_path, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.URL, run.Kind, run.Success, run.ProjectCount, run.Error,
		run.OutputPath, run.ReportPath, run.CompletedAt.Format(timeLayout),
	)
	if err != nil {
		return Run{}, eris.Wrap(err, "store: insert run")
	}
	return run, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, kind, success, project_count, error, output_path, report_path, completed_at
		 FROM runs ORDER BY completed_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "store: list runs")
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			completed string
		)
		if err := rows.Scan(&r.ID, &r.URL, &r.Kind, &r.Success, &r.ProjectCount, &r.Error,
			&r.OutputPath, &r.ReportPath, &completed); err != nil {
			return nil, eris.Wrap(err, "store: scan run")
		}
		if r.CompletedAt, err = time.Parse(timeLayout, completed); err != nil {
			return nil, eris.Wrapf(err, "store: parse completed_at for %s", r.ID)
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "store: list runs iterate")
}
