// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records collection runs in a SQLite database so repeated
// collections against the same output files can be audited later.
package ledger

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/newsriver/internal/registry"
	"github.com/pdiddy/newsriver/pkg/types"
)

// Run is one recorded collection run.
type Run struct {
	ID          int64
	Command     string
	Filters     registry.Query
	OutputPath  string
	Records     int
	ResumedFrom string
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Ledger manages the run history SQLite database.
type Ledger struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the ledger database at cfg.Path, creating parent
// directories and the schema as needed.
func Open(cfg types.LedgerConfig) (*Ledger, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("ledger path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	l := &Ledger{db: db, maxResults: maxResults}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			command TEXT NOT NULL,
			filters TEXT NOT NULL,
			output_path TEXT,
			records INTEGER NOT NULL,
			resumed_from TEXT,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_command ON runs(command)`,
	}
	for _, stmt := range statements {
		if _, err := l.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// RecordRun stores one finished run.
func (l *Ledger) RecordRun(ctx context.Context, run Run) error {
	filtersJSON, err := json.Marshal(run.Filters)
	if err != nil {
		return fmt.Errorf("marshaling filters: %w", err)
	}
	_, err = l.db.ExecContext(ctx,
		`INSERT INTO runs (command, filters, output_path, records, resumed_from, started_at, finished_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Command, string(filtersJSON), run.OutputPath, run.Records, run.ResumedFrom,
		run.StartedAt.UTC().Format(time.RFC3339Nano),
		run.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first, capped at the
// configured result limit. An empty command lists runs of every command.
func (l *Ledger) ListRuns(ctx context.Context, command string) ([]Run, error) {
	query := `SELECT id, command, filters, output_path, records, resumed_from, started_at, finished_at
		FROM runs`
	args := []any{}
	if command != "" {
		query += ` WHERE command = ?`
		args = append(args, command)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, l.maxResults)

	rows, err := l.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r                    Run
			filtersJSON          string
			startedAt, finishedAt string
		)
		if err := rows.Scan(&r.ID, &r.Command, &filtersJSON, &r.OutputPath, &r.Records, &r.ResumedFrom, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if err := json.Unmarshal([]byte(filtersJSON), &r.Filters); err != nil {
			return nil, fmt.Errorf("parsing filters for run %d: %w", r.ID, err)
		}
		if r.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt); err != nil {
			return nil, fmt.Errorf("parsing started_at for run %d: %w", r.ID, err)
		}
		if r.FinishedAt, err = time.Parse(time.RFC3339Nano, finishedAt); err != nil {
			return nil, fmt.Errorf("parsing finished_at for run %d: %w", r.ID, err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
