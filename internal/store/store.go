// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists fetched datasets and generated emails so the
// fetch, compose, and export stages can run as separate invocations.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/outreach-engine/pkg/types"
)

// Store manages the run database.
type Store struct {
	db *sql.DB
}

// RunInfo summarizes one stored run.
type RunInfo struct {
	ID        string
	Filter    string
	CreatedAt time.Time
	Works     int
}

// NewStore opens or creates the sqlite database at cfg.Path, creating the
// schema and parent directory if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = filepath.Join("data", "outreach.db")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
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
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			filter TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS works (
			run_id TEXT NOT NULL REFERENCES runs(id),
			id TEXT NOT NULL,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			journal TEXT NOT NULL,
			publication_year INTEGER,
			publication_date TEXT,
			abstract TEXT NOT NULL,
			authors TEXT NOT NULL,
			PRIMARY KEY (run_id, id)
		)`,
		`CREATE TABLE IF NOT EXISTS emails (
			run_id TEXT NOT NULL,
			work_id TEXT NOT NULL,
			variant TEXT NOT NULL,
			body TEXT NOT NULL,
			PRIMARY KEY (run_id, work_id, variant)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_works_run ON works(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_emails_run ON emails(run_id, work_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// CreateRun registers a new run for the given filter and returns its ID.
func (s *Store) CreateRun(ctx context.Context, filter string) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, filter, created_at) VALUES (?, ?, ?)`,
		id, filter, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}
	return id, nil
}

// SaveWorks upserts the fetched records for a run, preserving fetch order.
func (s *Store) SaveWorks(ctx context.Context, runID string, records []types.WorkRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO works
			(run_id, id, position, title, journal, publication_year, publication_date, abstract, authors)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		authorsJSON, err := json.Marshal(rec.Authors)
		if err != nil {
			return fmt.Errorf("marshaling authors for %s: %w", rec.ID, err)
		}
		_, err = stmt.ExecContext(ctx,
			runID, rec.ID, i, rec.Title, rec.Journal,
			rec.PublicationYear, rec.PublicationDate, rec.Abstract, string(authorsJSON),
		)
		if err != nil {
			return fmt.Errorf("inserting work %s: %w", rec.ID, err)
		}
	}

	return tx.Commit()
}

// SaveEmails upserts the generated variant bodies for every record in a run.
func (s *Store) SaveEmails(ctx context.Context, runID string, records []types.WorkRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO emails (run_id, work_id, variant, body) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		for kind, body := range rec.Emails {
			if _, err := stmt.ExecContext(ctx, runID, rec.ID, string(kind), body); err != nil {
				return fmt.Errorf("inserting email %s/%s: %w", rec.ID, kind, err)
			}
		}
	}

	return tx.Commit()
}

// LoadRun returns the records of a run in fetch order with any generated
// emails attached.
func (s *Store) LoadRun(ctx context.Context, runID string) ([]types.WorkRecord, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM runs WHERE id = ?`, runID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("checking run: %w", err)
	}
	if exists == 0 {
		return nil, fmt.Errorf("run %s not found", runID)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, journal, publication_year, publication_date, abstract, authors
		 FROM works WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying works: %w", err)
	}
	defer rows.Close()

	var records []types.WorkRecord
	for rows.Next() {
		var rec types.WorkRecord
		var authorsJSON string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Journal,
			&rec.PublicationYear, &rec.PublicationDate, &rec.Abstract, &authorsJSON); err != nil {
			return nil, fmt.Errorf("scanning work: %w", err)
		}
		if err := json.Unmarshal([]byte(authorsJSON), &rec.Authors); err != nil {
			return nil, fmt.Errorf("unmarshaling authors for %s: %w", rec.ID, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating works: %w", err)
	}

	for i := range records {
		if err := s.loadEmails(ctx, runID, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) loadEmails(ctx context.Context, runID string, rec *types.WorkRecord) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT variant, body FROM emails WHERE run_id = ? AND work_id = ?`, runID, rec.ID)
	if err != nil {
		return fmt.Errorf("querying emails for %s: %w", rec.ID, err)
	}
	defer rows.Close()

	for rows.Next() {
		var variant, body string
		if err := rows.Scan(&variant, &body); err != nil {
			return fmt.Errorf("scanning email: %w", err)
		}
		rec.SetEmail(types.VariantKind(variant), body)
	}
	return rows.Err()
}

// GetRun returns the stored metadata for one run.
func (s *Store) GetRun(ctx context.Context, runID string) (RunInfo, error) {
	var info RunInfo
	var created string
	err := s.db.QueryRowContext(ctx,
		`SELECT r.id, r.filter, r.created_at, count(w.id)
		 FROM runs r LEFT JOIN works w ON w.run_id = r.id
		 WHERE r.id = ? GROUP BY r.id`, runID).
		Scan(&info.ID, &info.Filter, &created, &info.Works)
	if err == sql.ErrNoRows {
		return RunInfo{}, fmt.Errorf("run %s not found", runID)
	}
	if err != nil {
		return RunInfo{}, fmt.Errorf("querying run: %w", err)
	}
	if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
		info.CreatedAt = t
	}
	return info, nil
}

// ListRuns returns all stored runs, most recent first.
func (s *Store) ListRuns(ctx context.Context) ([]RunInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT r.id, r.filter, r.created_at, count(w.id)
		 FROM runs r LEFT JOIN works w ON w.run_id = r.id
		 GROUP BY r.id ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []RunInfo
	for rows.Next() {
		var info RunInfo
		var created string
		if err := rows.Scan(&info.ID, &info.Filter, &created, &info.Works); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, created); parseErr == nil {
			info.CreatedAt = t
		}
		runs = append(runs, info)
	}
	return runs, rows.Err()
}
