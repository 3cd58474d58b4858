// Package config handles configuration loading and saving.
package config

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/alecthomas/kong"
	"gopkg.in/yaml.v3"

	"github.com/newsdeckapp/newsdeck/internal/feed"
	"github.com/newsdeckapp/newsdeck/internal/store"
)

// KeyMapConfig defines the configuration for keybindings.
type KeyMapConfig struct {
	Up       string `yaml:"up" kong:"help='Scroll up key',default='k'"`
	Down     string `yaml:"down" kong:"help='Scroll down key',default='j'"`
	UpPage   string `yaml:"up_page" kong:"help='Page up key',default='ctrl+u'"`
	DownPage string `yaml:"down_page" kong:"help='Page down key',default='ctrl+d'"`
	Top      string `yaml:"top" kong:"help='Jump to top key',default='g'"`
	Bottom   string `yaml:"bottom" kong:"help='Jump to bottom key',default='G'"`
	Filter   string `yaml:"filter" kong:"help='Cycle category filter key',default='tab'"`
	Refresh  string `yaml:"refresh" kong:"help='Refresh key',default='r'"`
	Quit     string `yaml:"quit" kong:"help='Quit key',default='q'"`
}

// ThemeConfig defines the color theme configuration.
type ThemeConfig struct {
	Accent   string `yaml:"accent" kong:"help='Accent color',default='205'"`
	Category string `yaml:"category" kong:"help='Category tag color',default='111'"`
	Dim      string `yaml:"dim" kong:"help='Muted text color',default='244'"`
}

// Config represents the application configuration.
type Config struct {
	Feeds    []string     `yaml:"feeds" kong:"help='Feed URLs',default='https://news.google.com/rss/search?q=artificial+intelligence,https://hnrss.org/newest?q=AI'"`
	CacheTTL string       `yaml:"cache_ttl" kong:"help='How long cached results stay fresh',default='3h'"`
	Overscan int          `yaml:"overscan" kong:"help='Extra rendered rows above and below the viewport',default='5'"`
	KeyMap   KeyMapConfig `yaml:"keymap" kong:"embed,prefix='keymap.'"`
	Theme    ThemeConfig  `yaml:"theme" kong:"embed,prefix='theme.'"`

	// Internal
	configPath string `yaml:"-" kong:"-"`
}

// Load loads the configuration from the specified path or default location,
// writing defaults on first run.
func Load(customPath ...string) (*Config, error) {
	var configPath string
	if len(customPath) > 0 && customPath[0] != "" {
		configPath = customPath[0]
	} else {
		configPath = filepath.Join(xdg.ConfigHome, "newsdeck", "config.yaml")
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	var cfg Config
	cfg.configPath = configPath

	var options []kong.Option
	if _, err := os.Stat(configPath); err == nil {
		options = append(options, kong.Configuration(yamlResolver, configPath))
	}

	parser, err := kong.New(&cfg, options...)
	if err != nil {
		return nil, err
	}
	if _, err := parser.Parse([]string{}); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	// Save defaults if new file
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		if err := cfg.Save(); err != nil {
			return nil, fmt.Errorf("failed to save default config: %w", err)
		}
	}

	return &cfg, nil
}

// yamlResolver turns the YAML config file into a kong resolver. Flag names
// match top-level keys, with dashes tolerated as underscores (cache-ttl reads
// cache_ttl); prefixed flags like keymap.up resolve through nested mappings.
func yamlResolver(r io.Reader) (kong.Resolver, error) {
	var values map[string]any
	if err := yaml.NewDecoder(r).Decode(&values); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, err
	}

	lookup := func(name string) (any, bool) {
		if v, ok := values[name]; ok {
			return v, true
		}
		curr := values
		parts := strings.Split(name, ".")
		for _, part := range parts[:len(parts)-1] {
			next, ok := curr[part].(map[string]any)
			if !ok {
				return nil, false
			}
			curr = next
		}
		v, ok := curr[parts[len(parts)-1]]
		return v, ok
	}

	return kong.ResolverFunc(func(_ *kong.Context, _ *kong.Path, flag *kong.Flag) (any, error) {
		if v, ok := lookup(flag.Name); ok {
			return v, nil
		}
		if v, ok := lookup(strings.ReplaceAll(flag.Name, "-", "_")); ok {
			return v, nil
		}
		return nil, nil
	}), nil
}

func (c *Config) validate() error {
	for _, raw := range c.Feeds {
		u, err := url.Parse(raw)
		if err != nil {
			return fmt.Errorf("feed %q: invalid url: %w", raw, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("feed %q: url scheme must be http or https, got %q", raw, u.Scheme)
		}
	}
	if c.CacheTTL != "" {
		if _, err := time.ParseDuration(c.CacheTTL); err != nil {
			return fmt.Errorf("cache_ttl %q: %w", c.CacheTTL, err)
		}
	}
	return nil
}

// Sources resolves the configured feed URLs into fetchable sources, named
// after their host.
func (c *Config) Sources() []feed.Source {
	sources := make([]feed.Source, 0, len(c.Feeds))
	for _, raw := range c.Feeds {
		name := raw
		if u, err := url.Parse(raw); err == nil && u.Host != "" {
			name = u.Host
		}
		sources = append(sources, feed.Source{Name: name, URL: raw})
	}
	return sources
}

// TTL returns the freshness window.
func (c *Config) TTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return store.DefaultTTL
	}
	return d
}

// CachePath returns where the freshness cache database lives.
func CachePath() string {
	return filepath.Join(xdg.CacheHome, "newsdeck", "cache.db")
}

// Save writes the current configuration to the config file.
func (c *Config) Save() error {
	f, err := os.Create(c.configPath)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	return yaml.NewEncoder(f).Encode(c)
}
