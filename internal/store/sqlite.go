package store

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pbaille/exoplot/internal/domain"
)

//go:embed schema.sql
var schema string

// Store is the fetch journal: one row per request sent to the TAP service.
// Catalog rows are never stored here.
type Store struct {
	db *sql.DB
}

// New opens or creates the journal at dbPath
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Initialize schema
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// RecordFetch stores run, assigning an ID and timestamp when unset
func (s *Store) RecordFetch(run *domain.FetchRun) error {
	if run.ID == "" {
		run.ID = uuid.New().String()
	}
	if run.FetchedAt.IsZero() {
		run.FetchedAt = time.Now()
	}

	_, err := s.db.Exec(
		`INSERT INTO fetch_runs (id, command, query, url, path, bytes, row_count, column_count, duration_ms, fetched_at, error)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Command, run.Query, run.URL, run.Path, run.Bytes, run.Rows, run.Columns,
		run.Duration.Milliseconds(), run.FetchedAt, run.Error,
	)
	if err != nil {
		return fmt.Errorf("insert fetch run: %w", err)
	}
	return nil
}

// ListFetches returns the most recent runs first
func (s *Store) ListFetches(limit int) ([]domain.FetchRun, error) {
	rows, err := s.db.Query(
		`SELECT id, command, query, url, path, bytes, row_count, column_count, duration_ms, fetched_at, error
		 FROM fetch_runs ORDER BY fetched_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list fetch runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.FetchRun
	for rows.Next() {
		var r domain.FetchRun
		var ms int64
		if err := rows.Scan(&r.ID, &r.Command, &r.Query, &r.URL, &r.Path, &r.Bytes, &r.Rows, &r.Columns, &ms, &r.FetchedAt, &r.Error); err != nil {
			return nil, fmt.Errorf("scan fetch run: %w", err)
		}
		r.Duration = time.Duration(ms) * time.Millisecond
		runs = append(runs, r)
	}

	return runs, rows.Err()
}
