// Package history keeps a small local record of dashboard refreshes so
// the trend sparkline survives restarts. It is strictly best-effort: the
// dashboard never fails because of a store error.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Sample is the aggregate total of one dashboard refresh.
type Sample struct {
	TakenAt  time.Time
	Window   string
	Quota    float64
	Tokens   float64
	Requests float64
}

func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.db")
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS refresh_samples (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at TEXT NOT NULL,
			window TEXT NOT NULL,
			quota REAL NOT NULL,
			tokens REAL NOT NULL,
			requests REAL NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_refresh_samples_taken_at ON refresh_samples(taken_at);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: initializing schema: %w", err)
		}
	}
	return nil
}

func (s *Store) Append(ctx context.Context, sample Sample) error {
	takenAt := sample.TakenAt
	if takenAt.IsZero() {
		takenAt = s.now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO refresh_samples (taken_at, window, quota, tokens, requests)
		 VALUES (?, ?, ?, ?, ?)`,
		takenAt.UTC().Format(time.RFC3339), sample.Window,
		sample.Quota, sample.Tokens, sample.Requests,
	)
	if err != nil {
		return fmt.Errorf("history: appending sample: %w", err)
	}
	return nil
}

// Recent returns up to n samples, oldest first.
func (s *Store) Recent(ctx context.Context, n int) ([]Sample, error) {
	if n < 1 {
		n = 1
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT taken_at, window, quota, tokens, requests
		 FROM refresh_samples ORDER BY id DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("history: querying samples: %w", err)
	}
	defer rows.Close()

	var samples []Sample
	for rows.Next() {
		var sample Sample
		var takenAt string
		if err := rows.Scan(&takenAt, &sample.Window, &sample.Quota, &sample.Tokens, &sample.Requests); err != nil {
			return nil, fmt.Errorf("history: scanning sample: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, takenAt); err == nil {
			sample.TakenAt = parsed
		}
		samples = append(samples, sample)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: reading samples: %w", err)
	}

	// Reverse into chronological order.
	for i, j := 0, len(samples)-1; i < j; i, j = i+1, j-1 {
		samples[i], samples[j] = samples[j], samples[i]
	}
	return samples, nil
}

// Prune drops samples older than the retention cutoff.
func (s *Store) Prune(ctx context.Context, retain time.Duration) error {
	cutoff := s.now().Add(-retain).UTC().Format(time.RFC3339)
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM refresh_samples WHERE taken_at < ?`, cutoff); err != nil {
		return fmt.Errorf("history: pruning samples: %w", err)
	}
	return nil
}
