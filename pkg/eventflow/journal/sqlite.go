package journal

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// SQLiteStore persists journal entries to SQLite.
// It is suitable for single-process production use.
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// NewSQLiteStore creates a new SQLite journal store at the given
// file path (e.g., "./journal.db").
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Enable WAL mode for better concurrent read performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable WAL mode: %w", err)
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS lifecycle_entries (
			context_id TEXT NOT NULL,
			event_id TEXT NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			sequence INTEGER NOT NULL,
			PRIMARY KEY (context_id, sequence)
		)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	if _, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_lifecycle_entries_context_id
		ON lifecycle_entries(context_id)
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Append implements Store.
func (s *SQLiteStore) Append(ctx context.Context, entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO lifecycle_entries (context_id, event_id, kind, detail, timestamp, sequence)
		VALUES (
			?, ?, ?, ?, ?,
			COALESCE((SELECT MAX(sequence) FROM lifecycle_entries WHERE context_id = ?), 0) + 1
		)
	`, entry.ContextID, entry.EventID, string(entry.Kind), entry.Detail,
		entry.Timestamp.Format(time.RFC3339Nano), entry.ContextID)

	if err != nil {
		return fmt.Errorf("append entry: %w", err)
	}
	return nil
}

// List implements Store.
func (s *SQLiteStore) List(ctx context.Context, contextID string) ([]Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT event_id, kind, detail, timestamp, sequence
		FROM lifecycle_entries
		WHERE context_id = ?
		ORDER BY sequence
	`, contextID)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var entry Entry
		var kind, timestamp string
		if err := rows.Scan(&entry.EventID, &kind, &entry.Detail, &timestamp, &entry.Sequence); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entry.ContextID = contextID
		entry.Kind = Kind(kind)
		entry.Timestamp, _ = time.Parse(time.RFC3339Nano, timestamp)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	return entries, nil
}

// DeleteContext implements Store.
func (s *SQLiteStore) DeleteContext(ctx context.Context, contextID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.db.ExecContext(ctx, `
		DELETE FROM lifecycle_entries WHERE context_id = ?
	`, contextID); err != nil {
		return fmt.Errorf("delete context entries: %w", err)
	}
	return nil
}

// Close implements Store.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
