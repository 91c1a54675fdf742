// Package visitlog persists a plain request log (route, client IP,
// user-agent) to a local SQLite database, separate from the content store.
package visitlog

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// recentCap bounds how many entries a Recent query may return.
const recentCap = 500

// Entry is one logged request.
type Entry struct {
	ID        int64
	Method    string
	Path      string
	IP        string
	UserAgent string
	Timestamp time.Time
}

// Store wraps the request-log database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the log database at path, ensures the data
// directory exists, and runs schema setup.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open visit log: %w", err)
	}
	// WAL so the logging middleware never blocks readers, and a busy
	// timeout so concurrent request-time writers wait instead of failing.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure visit log schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS requests (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    method TEXT NOT NULL,
    path TEXT NOT NULL,
    ip TEXT NOT NULL,
    user_agent TEXT NOT NULL,
    timestamp DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_requests_timestamp ON requests(timestamp);
`)
	return err
}

// Add records one request.
func (s *Store) Add(method, path, ip, userAgent string) error {
	_, err := s.db.Exec(
		`INSERT INTO requests (method, path, ip, user_agent, timestamp) VALUES (?, ?, ?, ?, ?)`,
		method, path, ip, userAgent, time.Now().UTC(),
	)
	return err
}

// Recent returns the newest entries, newest first. The limit is clamped to
// 500 regardless of what the caller asks for.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 || limit > recentCap {
		limit = recentCap
	}
	rows, err := s.db.Query(
		`SELECT id, method, path, ip, user_agent, timestamp FROM requests ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.Method, &e.Path, &e.IP, &e.UserAgent, &e.Timestamp); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Cleanup removes entries older than the retention period.
func (s *Store) Cleanup(retentionDays int) error {
	cutoff := time.Now().UTC().AddDate(0, 0, -retentionDays)
	if _, err := s.db.Exec(`DELETE FROM requests WHERE timestamp < ?`, cutoff); err != nil {
		return fmt.Errorf("cleanup requests: %w", err)
	}
	return nil
}

// StartCleanupScheduler runs periodic cleanup of old entries. Returns a
// stop function.
func (s *Store) StartCleanupScheduler(retentionDays int, interval time.Duration) func() {
	ticker := time.NewTicker(interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.C:
				if err := s.Cleanup(retentionDays); err != nil {
					fmt.Fprintf(os.Stderr, "visitlog cleanup error: %v\n", err)
				}
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() { close(done) }
}
