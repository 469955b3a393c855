// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists conversion attempts in a local SQLite database so
// past runs can be inspected after the UI session is gone. The store is
// optional: the frontend runs fine without it.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"
)

const dbFile = "history.db"

// Mode marks whether an entry came from a single or a bulk conversion.
type Mode string

const (
	ModeSingle Mode = "single"
	ModeBulk   Mode = "bulk"
)

// Entry is one recorded conversion attempt for one file.
type Entry struct {
	Filename  string        `yaml:"filename"`
	Mode      Mode          `yaml:"mode"`
	Preset    string        `yaml:"preset,omitempty"`
	Success   bool          `yaml:"success"`
	Error     string        `yaml:"error,omitempty"`
	Duration  time.Duration `yaml:"duration"`
	CreatedAt time.Time     `yaml:"created_at"`
}

// Store manages the conversion history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the history database at dir/history.db, creating
// the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
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
	statements := []string{
		`CREATE TABLE IF NOT EXISTS conversions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			filename TEXT NOT NULL,
			mode TEXT NOT NULL,
			preset TEXT,
			success INTEGER NOT NULL,
			error TEXT,
			duration_ms INTEGER NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a batch of entries in one transaction. Entries without a
// timestamp get the current time.
func (s *Store) Record(ctx context.Context, entries []Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO conversions (filename, mode, preset, success, error, duration_ms, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, e := range entries {
		created := e.CreatedAt
		if created.IsZero() {
			created = time.Now().UTC()
		}
		_, err := stmt.ExecContext(ctx,
			e.Filename, string(e.Mode), e.Preset, e.Success, e.Error,
			e.Duration.Milliseconds(), created.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			return fmt.Errorf("inserting entry for %s: %w", e.Filename, err)
		}
	}

	return tx.Commit()
}

// Recent returns up to limit entries, newest first. A limit of zero or less
// means 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT filename, mode, preset, success, error, duration_ms, created_at
		 FROM conversions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			preset     sql.NullString
			errText    sql.NullString
			durationMS int64
			created    string
		)
		if err := rows.Scan(&e.Filename, &e.Mode, &preset, &e.Success, &errText, &durationMS, &created); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		e.Preset = preset.String
		e.Error = errText.String
		e.Duration = time.Duration(durationMS) * time.Millisecond
		if ts, err := time.Parse(time.RFC3339Nano, created); err == nil {
			e.CreatedAt = ts
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Summary holds aggregate counts over the whole history.
type Summary struct {
	Total     int `yaml:"total"`
	Succeeded int `yaml:"succeeded"`
	Failed    int `yaml:"failed"`
}

// Summary returns counts of recorded attempts.
func (s *Store) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(CASE WHEN success THEN 1 ELSE 0 END), 0),
		        COALESCE(SUM(CASE WHEN success THEN 0 ELSE 1 END), 0)
		 FROM conversions`,
	).Scan(&sum.Total, &sum.Succeeded, &sum.Failed)
	if err != nil {
		return Summary{}, fmt.Errorf("querying summary: %w", err)
	}
	return sum, nil
}

// exportFile is the YAML shape written by ExportYAML.
type exportFile struct {
	Summary Summary `yaml:"summary"`
	Entries []Entry `yaml:"entries"`
}

// ExportYAML writes the newest limit entries and the aggregate summary to a
// YAML file at path.
func (s *Store) ExportYAML(ctx context.Context, path string, limit int) error {
	entries, err := s.Recent(ctx, limit)
	if err != nil {
		return err
	}
	sum, err := s.Summary(ctx)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(&exportFile{Summary: sum, Entries: entries})
	if err != nil {
		return fmt.Errorf("marshalling export: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
