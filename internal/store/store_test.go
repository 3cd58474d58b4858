package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/newsdeckapp/newsdeck/internal/feed"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleItems() []feed.Article {
	return []feed.Article{
		{Title: "A", Link: "http://example.com/a", Excerpt: "x", Source: "Wire", Category: "General", Published: time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)},
		{Title: "B", Link: "http://example.com/b", Excerpt: "y", Source: "Wire", Category: "General", Published: time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)},
	}
}

func TestStore_RoundTrip(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()
	items := sampleItems()

	require.NoError(t, s.Put("feed1", items, `"v1"`, now))

	rec, ok := s.Snapshot("feed1")
	require.True(t, ok)
	assert.Equal(t, items, rec.Items)
	assert.Equal(t, `"v1"`, rec.ETag)
	assert.WithinDuration(t, now, rec.FetchedAt, time.Second)
}

func TestStore_StateTransitions(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	assert.Equal(t, Empty, s.State("feed1", DefaultTTL, now))

	require.NoError(t, s.Put("feed1", sampleItems(), "", now))
	assert.Equal(t, Fresh, s.State("feed1", DefaultTTL, now))
	assert.Equal(t, Fresh, s.State("feed1", DefaultTTL, now.Add(DefaultTTL-time.Minute)))
	assert.Equal(t, Stale, s.State("feed1", DefaultTTL, now.Add(DefaultTTL)))
}

func TestStore_TouchKeepsItemsAndETag(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()
	items := sampleItems()

	require.NoError(t, s.Put("feed1", items, `"v1"`, now))

	later := now.Add(4 * time.Hour)
	require.NoError(t, s.Touch("feed1", later))

	rec, ok := s.Snapshot("feed1")
	require.True(t, ok)
	assert.Equal(t, items, rec.Items, "revalidation must not alter stored items")
	assert.Equal(t, `"v1"`, rec.ETag)
	assert.WithinDuration(t, later, rec.FetchedAt, time.Second)
	assert.Equal(t, Fresh, s.State("feed1", DefaultTTL, later))
}

func TestStore_WriteFailureClearsCache(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.Put("feed1", sampleItems(), `"v1"`, now))

	// Block inserts so writes fail while the recovery delete still works.
	_, err := s.db.Exec(`CREATE TRIGGER block_writes BEFORE INSERT ON kv
		BEGIN SELECT RAISE(ABORT, 'disk full'); END`)
	require.NoError(t, err)

	require.Error(t, s.Put("feed2", sampleItems(), "", now))

	// Recovery dropped every record, so reads behave as a cold start.
	assert.Equal(t, Empty, s.State("feed1", DefaultTTL, now))
	_, ok := s.Snapshot("feed1")
	assert.False(t, ok)

	require.Error(t, s.Touch("feed1", now), "touch is a write and fails the same way")
	assert.Equal(t, Empty, s.State("feed1", DefaultTTL, now))
}

func TestStore_CorruptPayloadReadsAsMiss(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.setAll(map[string][]byte{
		itemsKey("feed1"): []byte("{not json"),
	}))

	_, ok := s.Snapshot("feed1")
	assert.False(t, ok)
	assert.Equal(t, Empty, s.State("feed1", DefaultTTL, time.Now()))
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t)
	now := time.Now().UTC()

	require.NoError(t, s.Put("feed1", sampleItems(), "", now))
	require.NoError(t, s.Put("feed2", sampleItems(), "", now))
	require.NoError(t, s.Clear())

	_, ok := s.Snapshot("feed1")
	assert.False(t, ok)
	_, ok = s.Snapshot("feed2")
	assert.False(t, ok)
}

func TestKeyFor_StablePerURL(t *testing.T) {
	a := KeyFor("http://example.com/feed")
	b := KeyFor("http://example.com/feed")
	c := KeyFor("http://example.com/other")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
