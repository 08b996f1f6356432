// Package store keeps the selection history and the preview fetch ledger in
// a local SQLite database.
package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"romcat/internal/errors"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// Selection is one remembered launch.
type Selection struct {
	Path       string
	Label      string
	Core       string
	Station    string
	Count      int
	SelectedAt time.Time
}

// FetchRecord is one online preview attempt.
type FetchRecord struct {
	Name     string
	Station  string
	Category string
	Status   string
	At       time.Time
}

// DB wraps the SQLite connection.
type DB struct {
	conn *sql.DB
	now  func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(d *DB) { d.now = now }
}

// Open initializes the database connection and schema
func Open(dbPath string, opts ...Option) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, errors.NewFileError("failed to create database directory", dbPath, errors.IOFailure, err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to open database", err).WithOperation("open")
	}

	// WAL mode allows simultaneous readers and writers
	if _, err := conn.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		conn.Close()
		return nil, errors.NewDatabaseError("failed to set journal mode", err).WithOperation("open")
	}
	if _, err := conn.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		conn.Close()
		return nil, errors.NewDatabaseError("failed to set synchronous mode", err).WithOperation("open")
	}

	schema := `
	CREATE TABLE IF NOT EXISTS selections (
		path TEXT PRIMARY KEY,
		label TEXT NOT NULL,
		core TEXT NOT NULL DEFAULT '',
		station TEXT NOT NULL DEFAULT '',
		count INTEGER NOT NULL DEFAULT 1,
		selected_at INTEGER NOT NULL
	);
	CREATE TABLE IF NOT EXISTS fetches (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		station TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	`
	if _, err := conn.Exec(schema); err != nil {
		conn.Close()
		return nil, errors.NewDatabaseError("failed to create schema", err).WithOperation("open")
	}

	d := &DB{conn: conn, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Close closes the connection.
func (d *DB) Close() error {
	return d.conn.Close()
}

// RecordSelection remembers that sel was launched, bumping its count.
func (d *DB) RecordSelection(ctx context.Context, sel Selection) error {
	if sel.Path == "" {
		return errors.NewInvalidInputError("selection path is empty", nil)
	}
	_, err := d.conn.ExecContext(ctx, `
		INSERT INTO selections (path, label, core, station, count, selected_at)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT(path) DO UPDATE SET
			label = excluded.label,
			core = excluded.core,
			station = excluded.station,
			count = selections.count + 1,
			selected_at = excluded.selected_at`,
		sel.Path, sel.Label, sel.Core, sel.Station, d.now().UnixNano())
	if err != nil {
		return errors.NewDatabaseError("failed to record selection", err).
			WithOperation("record_selection").
			WithContext("path", sel.Path)
	}
	return nil
}

// Recent returns up to limit selections, most recent first.
func (d *DB) Recent(ctx context.Context, limit int) ([]Selection, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := d.conn.QueryContext(ctx, `
		SELECT path, label, core, station, count, selected_at
		FROM selections ORDER BY selected_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query selections", err).WithOperation("recent")
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		var s Selection
		var at int64
		if err := rows.Scan(&s.Path, &s.Label, &s.Core, &s.Station, &s.Count, &at); err != nil {
			return nil, errors.NewDatabaseError("failed to scan selection", err).WithOperation("recent")
		}
		s.SelectedAt = time.Unix(0, at)
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDatabaseError("failed to read selections", err).WithOperation("recent")
	}
	return out, nil
}

// RecordFetch appends one preview fetch outcome.
func (d *DB) RecordFetch(ctx context.Context, rec FetchRecord) error {
	at := rec.At
	if at.IsZero() {
		at = d.now()
	}
	_, err := d.conn.ExecContext(ctx,
		"INSERT INTO fetches (name, station, category, status, fetched_at) VALUES (?, ?, ?, ?, ?)",
		rec.Name, rec.Station, rec.Category, rec.Status, at.UnixNano())
	if err != nil {
		return errors.NewDatabaseError("failed to record fetch", err).
			WithOperation("record_fetch").
			WithContext("name", rec.Name)
	}
	return nil
}

// FetchStats counts recorded fetches per status, optionally for one station.
func (d *DB) FetchStats(ctx context.Context, station string) (map[string]int, error) {
	query := "SELECT status, COUNT(*) FROM fetches GROUP BY status"
	args := []any{}
	if station != "" {
		query = "SELECT status, COUNT(*) FROM fetches WHERE station = ? GROUP BY status"
		args = append(args, station)
	}

	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.NewDatabaseError("failed to query fetches", err).WithOperation("fetch_stats")
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var status string
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return nil, errors.NewDatabaseError("failed to scan fetch stats", err).WithOperation("fetch_stats")
		}
		stats[status] = n
	}
	return stats, rows.Err()
}

// ClearFetches forgets the fetch ledger, e.g. after the cache was purged.
func (d *DB) ClearFetches(ctx context.Context, station string) error {
	var err error
	if station == "" {
		_, err = d.conn.ExecContext(ctx, "DELETE FROM fetches")
	} else {
		_, err = d.conn.ExecContext(ctx, "DELETE FROM fetches WHERE station = ?", station)
	}
	if err != nil {
		return errors.NewDatabaseError("failed to clear fetches", err).WithOperation("clear_fetches")
	}
	return nil
}
