package policy

import (
	"database/sql"
	"errors"
	"fmt"
	"os"

	_ "modernc.org/sqlite"
)

// ErrLoad marks a failed policy load. Callers are expected to recover by
// falling back to a synthesized default table.
var ErrLoad = errors.New("policy load failed")

// Load reads a persisted decision table from a SQLite file written by
// Save. Missing or unreadable files and mis-shaped databases fail with an
// error wrapping ErrLoad.
func Load(path string) (*Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrLoad, path, err)
	}
	defer db.Close()

	rows, err := db.Query(`SELECT node_level, primary_level, reset FROM policy`)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", ErrLoad, path, err)
	}
	defer rows.Close()

	t := NewTable()
	for rows.Next() {
		var s State
		var reset bool
		if err := rows.Scan(&s.NodeLevel, &s.PrimaryLevel, &reset); err != nil {
			return nil, fmt.Errorf("%w: scan %s: %v", ErrLoad, path, err)
		}
		t.Set(s, reset)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", ErrLoad, path, err)
	}
	return t, nil
}

// Save persists a decision table to a SQLite file, replacing any previous
// contents. Save-then-Load round-trips to identical decisions.
func Save(path string, t *Table) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer db.Close()

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`CREATE TABLE IF NOT EXISTS policy (
		node_level INTEGER NOT NULL,
		primary_level INTEGER NOT NULL,
		reset BOOLEAN NOT NULL,
		PRIMARY KEY (node_level, primary_level)
	)`); err != nil {
		return fmt.Errorf("create policy table: %w", err)
	}
	if _, err := tx.Exec(`DELETE FROM policy`); err != nil {
		return fmt.Errorf("clear policy table: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT INTO policy (node_level, primary_level, reset) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for s, reset := range t.Entries() {
		if _, err := stmt.Exec(s.NodeLevel, s.PrimaryLevel, reset); err != nil {
			return fmt.Errorf("insert decision (%d,%d): %w", s.NodeLevel, s.PrimaryLevel, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
