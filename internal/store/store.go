// Package store persists aggregated results between sessions so a page load
// inside the freshness window never touches the network.
package store

import (
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/newsdeckapp/newsdeck/internal/feed"
)

// DefaultTTL is how long a cached record is served without revalidation.
const DefaultTTL = 3 * time.Hour

// Freshness is the lifecycle state of one cached record.
type Freshness int

const (
	Empty Freshness = iota
	Fresh
	Stale
)

func (f Freshness) String() string {
	switch f {
	case Fresh:
		return "fresh"
	case Stale:
		return "stale"
	default:
		return "empty"
	}
}

// Record is one cached result: the items, the conditional-request validator,
// and the time the record was last known good.
type Record struct {
	Items     []feed.Article
	ETag      string
	FetchedAt time.Time
}

// Store is a durable key-value cache backed by SQLite. Each logical feed
// identity owns three keys: its item list, its validator token, and its
// freshness timestamp.
type Store struct {
	db *sql.DB
}

// KeyFor derives the logical feed identity for a source URL.
func KeyFor(url string) string {
	sum := sha256.Sum256([]byte(url))
	return fmt.Sprintf("%x", sum[:8])
}

// Open creates or opens the cache database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (
		key   TEXT PRIMARY KEY,
		value BLOB NOT NULL
	)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func itemsKey(id string) string { return "items/" + id }
func etagKey(id string) string  { return "etag/" + id }
func stampKey(id string) string { return "stamp/" + id }

func (s *Store) get(key string) ([]byte, bool) {
	var value []byte
	err := s.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err != nil {
		return nil, false
	}
	return value, true
}

// Snapshot returns the cached record for id. A missing or unparsable item
// payload reads as a miss, never as an error.
func (s *Store) Snapshot(id string) (Record, bool) {
	raw, ok := s.get(itemsKey(id))
	if !ok {
		return Record{}, false
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec.Items); err != nil {
		return Record{}, false
	}

	if raw, ok := s.get(etagKey(id)); ok {
		rec.ETag = string(raw)
	}
	if raw, ok := s.get(stampKey(id)); ok {
		if t, err := time.Parse(time.RFC3339Nano, string(raw)); err == nil {
			rec.FetchedAt = t
		}
	}
	return rec, true
}

// State classifies the record for id against the TTL.
func (s *Store) State(id string, ttl time.Duration, now time.Time) Freshness {
	rec, ok := s.Snapshot(id)
	if !ok {
		return Empty
	}
	if rec.FetchedAt.IsZero() || now.Sub(rec.FetchedAt) >= ttl {
		return Stale
	}
	return Fresh
}

// Put overwrites the record for id. A write failure clears the whole cache
// as recovery, so the next read behaves as a cold start; the original write
// error is still returned.
func (s *Store) Put(id string, items []feed.Article, etag string, now time.Time) error {
	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}

	err = s.setAll(map[string][]byte{
		itemsKey(id): payload,
		etagKey(id):  []byte(etag),
		stampKey(id): []byte(now.Format(time.RFC3339Nano)),
	})
	if err != nil {
		_ = s.Clear()
		return fmt.Errorf("writing record %s: %w", id, err)
	}
	return nil
}

// Touch advances only the freshness timestamp: the validated items and etag
// stay exactly as stored.
func (s *Store) Touch(id string, now time.Time) error {
	err := s.setAll(map[string][]byte{
		stampKey(id): []byte(now.Format(time.RFC3339Nano)),
	})
	if err != nil {
		_ = s.Clear()
		return fmt.Errorf("touching record %s: %w", id, err)
	}
	return nil
}

// Clear drops every cached record.
func (s *Store) Clear() error {
	if _, err := s.db.Exec("DELETE FROM kv"); err != nil {
		return fmt.Errorf("clearing cache: %w", err)
	}
	return nil
}

func (s *Store) setAll(entries map[string][]byte) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for key, value := range entries {
		if _, err := tx.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value); err != nil {
			return err
		}
	}
	return tx.Commit()
}
