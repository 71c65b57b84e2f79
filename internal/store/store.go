package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spigell/jobscout/internal/jobs"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when no stored search matches the requested id.
var ErrNotFound = errors.New("search result not found")

const schema = `
CREATE TABLE IF NOT EXISTS searches (
	id TEXT PRIMARY KEY,
	created_at TIMESTAMP NOT NULL,
	total_after INTEGER NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_searches_created_at ON searches (created_at DESC);
`

// Store persists search results in a local sqlite database.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	// sqlite handles one writer at a time.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply store schema: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save writes one search result. The full result is stored as JSON; the id
// and creation time are lifted into columns for lookups.
func (s *Store) Save(ctx context.Context, result *jobs.SearchResult) error {
	if result == nil || result.ID == "" {
		return errors.New("a search result with an id is required")
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshal search result: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO searches (id, created_at, total_after, payload) VALUES (?, ?, ?, ?)`,
		result.ID, result.CreatedAt.UTC().Format(time.RFC3339Nano), result.TotalAfter, string(payload),
	)
	if err != nil {
		return fmt.Errorf("save search result: %w", err)
	}
	return nil
}

// Get loads one stored search result by id.
func (s *Store) Get(ctx context.Context, id string) (*jobs.SearchResult, error) {
	var payload string
	err := s.db.QueryRowContext(ctx, `SELECT payload FROM searches WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get search result: %w", err)
	}

	var result jobs.SearchResult
	if err := json.Unmarshal([]byte(payload), &result); err != nil {
		return nil, fmt.Errorf("unmarshal search result: %w", err)
	}
	return &result, nil
}

// Summary is one row of search history.
type Summary struct {
	ID        string
	CreatedAt time.Time
	Jobs      int
}

// Recent returns summaries of the latest searches, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Summary, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, total_after FROM searches ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list searches: %w", err)
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var (
			summary   Summary
			createdAt string
		)
		if err := rows.Scan(&summary.ID, &createdAt, &summary.Jobs); err != nil {
			return nil, fmt.Errorf("scan search row: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			summary.CreatedAt = t
		}
		out = append(out, summary)
	}
	return out, rows.Err()
}
