// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history archives completed research cycles in a SQLite database so
// that speech and chat can pick up the latest cycle after a restart.
// Intermediate pipeline state is never stored.
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

	"github.com/scholarmind/scholarmind/pkg/types"
)

const dbFile = "history.db"

const defaultListLimit = 20

// Store manages the run archive SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the archive database at dir/history.db, creating
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic TEXT NOT NULL,
			language TEXT NOT NULL,
			report TEXT NOT NULL,
			slides TEXT NOT NULL,
			sources TEXT NOT NULL,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Append archives one completed cycle.
func (s *Store) Append(ctx context.Context, rec types.GenerationRecord) error {
	slidesJSON, err := json.Marshal(rec.Slides)
	if err != nil {
		return fmt.Errorf("serializing slides: %w", err)
	}
	sourcesJSON, err := json.Marshal(rec.Sources)
	if err != nil {
		return fmt.Errorf("serializing sources: %w", err)
	}

	created := rec.Created
	if created.IsZero() {
		created = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO runs (topic, language, report, slides, sources, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.Topic, rec.Language, rec.Report,
		string(slidesJSON), string(sourcesJSON),
		created.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Latest returns the most recently archived run. ok is false when the
// archive is empty.
func (s *Store) Latest(ctx context.Context) (types.GenerationRecord, bool, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT topic, language, report, slides, sources, created_at
		 FROM runs ORDER BY id DESC LIMIT 1`)

	rec, err := scanRun(row)
	if err == sql.ErrNoRows {
		return types.GenerationRecord{}, false, nil
	}
	if err != nil {
		return types.GenerationRecord{}, false, err
	}
	return rec, true, nil
}

// List returns up to n archived runs, most recent first. n <= 0 applies the
// default limit.
func (s *Store) List(ctx context.Context, n int) ([]types.GenerationRecord, error) {
	if n <= 0 {
		n = defaultListLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT topic, language, report, slides, sources, created_at
		 FROM runs ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var recs []types.GenerationRecord
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (types.GenerationRecord, error) {
	var rec types.GenerationRecord
	var slidesJSON, sourcesJSON, createdAt string

	if err := row.Scan(&rec.Topic, &rec.Language, &rec.Report, &slidesJSON, &sourcesJSON, &createdAt); err != nil {
		return types.GenerationRecord{}, err
	}

	if err := json.Unmarshal([]byte(slidesJSON), &rec.Slides); err != nil {
		return types.GenerationRecord{}, fmt.Errorf("parsing slides: %w", err)
	}
	if err := json.Unmarshal([]byte(sourcesJSON), &rec.Sources); err != nil {
		return types.GenerationRecord{}, fmt.Errorf("parsing sources: %w", err)
	}

	created, err := time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return types.GenerationRecord{}, fmt.Errorf("parsing created_at: %w", err)
	}
	rec.Created = created

	return rec, nil
}
