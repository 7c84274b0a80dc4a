// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package crossref

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Cache stores raw provider responses keyed by request URL in a local
// SQLite database. It caches HTTP bodies only, never engine results, so
// repeated passes over the same batch (the two-pass selection workflow)
// do not re-query the provider within the TTL.
type Cache struct {
	db  *sql.DB
	ttl time.Duration
}

// OpenCache opens or creates the response cache at path and bootstraps
// the schema. A non-positive ttl defaults to 24h.
func OpenCache(path string, ttl time.Duration) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS responses (
		url TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		fetched_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating cache schema: %w", err)
	}

	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Cache{db: db, ttl: ttl}, nil
}

// Close releases the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the cached body for url if present and fresh. Stale rows
// are evicted on read.
func (c *Cache) Get(url string) ([]byte, bool) {
	var body []byte
	var fetchedAt string
	err := c.db.QueryRow(
		`SELECT body, fetched_at FROM responses WHERE url = ?`, url,
	).Scan(&body, &fetchedAt)
	if err != nil {
		return nil, false
	}

	ts, err := time.Parse(time.RFC3339, fetchedAt)
	if err != nil || time.Since(ts) > c.ttl {
		c.db.Exec(`DELETE FROM responses WHERE url = ?`, url)
		return nil, false
	}
	return body, true
}

// Put stores body for url, replacing any previous entry.
func (c *Cache) Put(url string, body []byte) {
	c.db.Exec(
		`INSERT OR REPLACE INTO responses (url, body, fetched_at) VALUES (?, ?, ?)`,
		url, body, time.Now().UTC().Format(time.RFC3339),
	)
}
