// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a record of past pipeline runs in SQLite.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/meshint/postcraft/pkg/types"
)

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Entry is one recorded run.
type Entry struct {
	RunID        string    `json:"run_id"`
	Mode         string    `json:"mode"`
	Status       string    `json:"status"`
	StartedAt    time.Time `json:"started_at"`
	EndedAt      time.Time `json:"ended_at"`
	QualityScore int       `json:"quality_score"`
	PackagePath  string    `json:"package_path"`
	Error        string    `json:"error,omitempty"`
}

// NewStore opens or creates the run history database at dbPath, creating
// the schema when missing.
func NewStore(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	stmt := `CREATE TABLE IF NOT EXISTS runs (
		run_id TEXT PRIMARY KEY,
		mode TEXT NOT NULL,
		status TEXT NOT NULL,
		started_at TEXT NOT NULL,
		ended_at TEXT NOT NULL,
		quality_score INTEGER,
		package_path TEXT,
		error TEXT,
		stages TEXT
	)`
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts or replaces the record for a run. The full stage map is
// stored as JSON alongside the summary columns.
func (s *Store) Record(ctx context.Context, result *types.RunResult) error {
	qualityScore := 0
	if payload, ok := result.Stages.Get("quality_control").(types.QualityResult); ok {
		qualityScore = payload.QualityScore
	}
	packagePath := ""
	if result.Outputs != nil {
		packagePath = result.Outputs.PackagePath
	}

	stagesJSON, err := json.Marshal(result.Stages)
	if err != nil {
		return fmt.Errorf("encoding stages: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs
			(run_id, mode, status, started_at, ended_at, quality_score, package_path, error, stages)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		result.RunID,
		result.Mode,
		string(result.Status),
		result.StartedAt.Format(time.RFC3339),
		result.EndedAt.Format(time.RFC3339),
		qualityScore,
		packagePath,
		result.Error,
		string(stagesJSON),
	)
	if err != nil {
		return fmt.Errorf("recording run %s: %w", result.RunID, err)
	}
	return nil
}

// List returns the most recent runs, newest first. A limit of 0 means the
// default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, mode, status, started_at, ended_at, quality_score, package_path, error
		 FROM runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var started, ended string
		if err := rows.Scan(&e.RunID, &e.Mode, &e.Status, &started, &ended, &e.QualityScore, &e.PackagePath, &e.Error); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		e.StartedAt, _ = time.Parse(time.RFC3339, started)
		e.EndedAt, _ = time.Parse(time.RFC3339, ended)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
