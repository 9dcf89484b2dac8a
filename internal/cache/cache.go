// Package cache persists check results between runs. The analysis itself
// is state-free; the cache lives entirely at the driver layer and is keyed
// by the project fingerprint, so an unchanged project replays its stored
// diagnostics without re-analysis.
package cache

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/ferrite-lang/ferrite/internal/diagnostics"
	"github.com/ferrite-lang/ferrite/internal/token"
)

// Store is the SQLite-backed result cache.
type Store struct {
	db *sql.DB
}

// Open initializes the cache database at the given path, creating parent
// directories and tables as needed.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create cache directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}

	store := &Store{db: db}
	if err := store.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *Store) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS check_runs (
		fingerprint TEXT PRIMARY KEY,
		package     TEXT NOT NULL,
		created_at  DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	CREATE TABLE IF NOT EXISTS check_diagnostics (
		fingerprint TEXT NOT NULL,
		idx         INTEGER NOT NULL,
		code        TEXT NOT NULL,
		file        TEXT NOT NULL,
		line        INTEGER NOT NULL,
		col         INTEGER NOT NULL,
		message     TEXT NOT NULL,
		PRIMARY KEY (fingerprint, idx)
	);`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create cache tables: %w", err)
	}
	return nil
}

func (s *Store) Close() error { return s.db.Close() }

// Lookup returns the stored diagnostics for a fingerprint. The second
// result is false when the fingerprint has never been recorded.
func (s *Store) Lookup(fingerprint string) ([]*diagnostics.DiagnosticError, bool, error) {
	var pkg string
	err := s.db.QueryRow(
		`SELECT package FROM check_runs WHERE fingerprint = ?`, fingerprint,
	).Scan(&pkg)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	rows, err := s.db.Query(
		`SELECT code, file, line, col, message
		 FROM check_diagnostics WHERE fingerprint = ? ORDER BY idx`, fingerprint)
	if err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}
	defer rows.Close()

	var diags []*diagnostics.DiagnosticError
	for rows.Next() {
		var code, file, message string
		var line, col int
		if err := rows.Scan(&code, &file, &line, &col, &message); err != nil {
			return nil, false, fmt.Errorf("cache lookup: %w", err)
		}
		diags = append(diags, &diagnostics.DiagnosticError{
			Code:    diagnostics.ErrorCode(code),
			Token:   token.Token{Line: line, Column: col},
			Message: message,
			File:    file,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("cache lookup: %w", err)
	}

	return diags, true, nil
}

// Record stores a check run's diagnostics, replacing any previous entry
// for the same fingerprint.
func (s *Store) Record(fingerprint, pkg string, diags []*diagnostics.DiagnosticError) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(
		`DELETE FROM check_diagnostics WHERE fingerprint = ?`, fingerprint); err != nil {
		return fmt.Errorf("cache record: %w", err)
	}
	if _, err := tx.Exec(
		`INSERT OR REPLACE INTO check_runs (fingerprint, package) VALUES (?, ?)`,
		fingerprint, pkg); err != nil {
		return fmt.Errorf("cache record: %w", err)
	}

	for i, d := range diags {
		if _, err := tx.Exec(
			`INSERT INTO check_diagnostics (fingerprint, idx, code, file, line, col, message)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			fingerprint, i, string(d.Code), d.File, d.Token.Line, d.Token.Column, d.Message); err != nil {
			return fmt.Errorf("cache record: %w", err)
		}
	}

	return tx.Commit()
}
