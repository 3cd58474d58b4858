package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndFirstRunSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Feeds)
	assert.Equal(t, "3h", cfg.CacheTTL)
	assert.Equal(t, 5, cfg.Overscan)
	assert.Equal(t, "k", cfg.KeyMap.Up)
	assert.Equal(t, "tab", cfg.KeyMap.Filter)

	// First run persists the defaults.
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestLoad_ReadsYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `feeds:
  - https://example.com/feed.xml
cache_ttl: 90m
overscan: 2
keymap:
  up: w
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, []string{"https://example.com/feed.xml"}, cfg.Feeds)
	assert.Equal(t, 90*time.Minute, cfg.TTL())
	assert.Equal(t, 2, cfg.Overscan)
	assert.Equal(t, "w", cfg.KeyMap.Up)
	assert.Equal(t, "j", cfg.KeyMap.Down, "unset keys keep their defaults")
}

func TestLoad_RejectsBadScheme(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("feeds:\n  - ftp://example.com/feed\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsBadTTL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("cache_ttl: never\n"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSources_NamedByHost(t *testing.T) {
	cfg := &Config{Feeds: []string{"https://hnrss.org/newest?q=AI"}}

	sources := cfg.Sources()
	require.Len(t, sources, 1)
	assert.Equal(t, "hnrss.org", sources[0].Name)
	assert.Equal(t, "https://hnrss.org/newest?q=AI", sources[0].URL)
}

func TestTTL_FallsBackOnGarbage(t *testing.T) {
	cfg := &Config{CacheTTL: "bogus"}
	assert.Equal(t, 3*time.Hour, cfg.TTL())
}
