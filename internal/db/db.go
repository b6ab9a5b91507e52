// Package db manages the SQLite index of past export runs.
package db

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver with database/sql
)

// DB wraps a *sql.DB with the path it was opened from.
type DB struct {
	db   *sql.DB
	path string
}

// Run is one recorded export.
type Run struct {
	ID             int64
	CreatedAt      time.Time
	WorkDir        string
	Artifact       string
	FileCount      int
	DuplicateCount int
	LogAttached    bool
}

// Open opens (or creates) the SQLite database at path and initialises the schema.
func Open(path string) (*DB, error) {
	sqldb, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("db.Open: %w", err)
	}
	d := &DB{db: sqldb, path: path}
	if err := d.createSchema(); err != nil {
		_ = sqldb.Close()
		return nil, fmt.Errorf("db.Open createSchema: %w", err)
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) createSchema() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at      TEXT NOT NULL,
			workdir         TEXT NOT NULL,
			artifact        TEXT NOT NULL,
			file_count      INTEGER NOT NULL,
			duplicate_count INTEGER NOT NULL DEFAULT 0,
			log_attached    INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE INDEX IF NOT EXISTS runs_created_at ON runs(created_at)`,
	}
	for _, s := range stmts {
		if _, err := d.db.Exec(s); err != nil {
			return fmt.Errorf("createSchema exec: %w\nSQL: %s", err, s)
		}
	}
	return nil
}

// RecordRun inserts a run and returns its row id. CreatedAt defaults to now
// when unset.
func (d *DB) RecordRun(r *Run) (int64, error) {
	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}
	res, err := d.db.Exec(
		`INSERT INTO runs (created_at, workdir, artifact, file_count, duplicate_count, log_attached)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		created.Format(time.RFC3339), r.WorkDir, r.Artifact,
		r.FileCount, r.DuplicateCount, boolInt(r.LogAttached),
	)
	if err != nil {
		return 0, fmt.Errorf("db.RecordRun: %w", err)
	}
	return res.LastInsertId()
}

// RecentRuns returns up to limit runs, newest first.
func (d *DB) RecentRuns(limit int) ([]Run, error) {
	rows, err := d.db.Query(
		`SELECT id, created_at, workdir, artifact, file_count, duplicate_count, log_attached
		 FROM runs ORDER BY created_at DESC, id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("db.RecentRuns: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var created string
		var logAttached int
		if err := rows.Scan(&r.ID, &created, &r.WorkDir, &r.Artifact,
			&r.FileCount, &r.DuplicateCount, &logAttached); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, created)
		r.LogAttached = logAttached != 0
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
