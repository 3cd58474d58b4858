// Command newsdeck aggregates syndication feeds into a ranked, categorized
// headline list and browses it in the terminal.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/newsdeckapp/newsdeck/internal/classify"
	"github.com/newsdeckapp/newsdeck/internal/config"
	"github.com/newsdeckapp/newsdeck/internal/feed"
	"github.com/newsdeckapp/newsdeck/internal/headlines"
	"github.com/newsdeckapp/newsdeck/internal/store"
	"github.com/newsdeckapp/newsdeck/internal/tui"
)

const fetchTimeout = 10 * time.Second

// CLI defines the command line interface.
type CLI struct {
	Config string `help:"Path to the config file." type:"path"`
	Debug  bool   `help:"Write debug logs to newsdeck-debug.log."`

	Browse     BrowseCmd     `cmd:"" default:"1" help:"Browse aggregated headlines."`
	Fetch      FetchCmd      `cmd:"" help:"Run one aggregation cycle and print the JSON envelope."`
	ClearCache ClearCacheCmd `cmd:"" name:"clear-cache" help:"Drop the freshness cache."`
}

type app struct {
	cfg    *config.Config
	cache  *store.Store
	loader *headlines.Loader
}

func newApp(cli *CLI) (*app, error) {
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	cache, err := store.Open(config.CachePath())
	if err != nil {
		return nil, err
	}

	fetcher := feed.NewFetcher(fetchTimeout)
	loader := headlines.New(fetcher, cache, classify.Default(), cfg.TTL(), nil)

	return &app{cfg: cfg, cache: cache, loader: loader}, nil
}

func (a *app) close() {
	_ = a.cache.Close()
}

// BrowseCmd opens the TUI.
type BrowseCmd struct{}

// Run starts the browse view.
func (c *BrowseCmd) Run(cli *CLI) error {
	if cli.Debug {
		f, err := tea.LogToFile("newsdeck-debug.log", "debug")
		if err != nil {
			return err
		}
		defer func() { _ = f.Close() }()
	}

	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.close()

	model := tui.New(a.cfg, a.loader, classify.Default())
	_, err = tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion()).Run()
	return err
}

// FetchCmd runs one cycle and prints the envelope.
type FetchCmd struct{}

// Run executes a single aggregation cycle.
func (c *FetchCmd) Run(cli *CLI) error {
	a, err := newApp(cli)
	if err != nil {
		return err
	}
	defer a.close()

	res := a.loader.Load(context.Background(), a.cfg.Sources())
	for _, st := range res.Statuses {
		if st.Reason != "" {
			fmt.Fprintf(os.Stderr, "warning: %s: %s\n", st.Source.Name, st.Reason)
		}
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res.Envelope)
}

// ClearCacheCmd drops all cached records.
type ClearCacheCmd struct{}

// Run clears the cache.
func (c *ClearCacheCmd) Run(cli *CLI) error {
	cache, err := store.Open(config.CachePath())
	if err != nil {
		return err
	}
	defer func() { _ = cache.Close() }()
	return cache.Clear()
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("newsdeck"),
		kong.Description("Aggregated, categorized news headlines in the terminal."),
		kong.UsageOnError(),
	)
	ctx.FatalIfErrorf(ctx.Run(&cli))
}
