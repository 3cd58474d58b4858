// Package tui renders the ranked article list through a bounded pool of
// recycled rows, so scrolling stays cheap no matter how many articles the
// aggregator produced.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/time/rate"

	"github.com/newsdeckapp/newsdeck/internal/classify"
	"github.com/newsdeckapp/newsdeck/internal/config"
	"github.com/newsdeckapp/newsdeck/internal/feed"
	"github.com/newsdeckapp/newsdeck/internal/headlines"
	"github.com/newsdeckapp/newsdeck/internal/tui/virtual"
)

const (
	// itemHeight is the display lines per article: title plus meta.
	itemHeight = 2
	// chromeLines is header plus footer.
	chromeLines = 4
	// FilterAll is the filter label that shows the unfiltered ranking.
	FilterAll = "all"
)

// Loader runs one aggregation cycle.
type Loader interface {
	Load(ctx context.Context, sources []feed.Source) headlines.Result
}

// rowItem adapts an article for the slot pool; the link is the stable
// display identity.
type rowItem struct {
	feed.Article
}

func (r rowItem) Key() string { return r.Link }

// Model is the browse view. Scroll handling is a pure function of the
// current offset and item list, so repeated recomputes are idempotent.
type Model struct {
	loader   Loader
	sources  []feed.Source
	taxonomy classify.Taxonomy

	articles []feed.Article
	visible  []rowItem
	filter   string

	pool     *virtual.Pool
	window   virtual.Window
	offset   int
	overscan int

	width  int
	height int
	rows   int

	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	styles  Styles

	loading  bool
	degraded bool
	err      error

	fetchedAt time.Time

	// limiter bounds how often scrolling rebinds the pool; a queued tick
	// applies the trailing event.
	limiter      *rate.Limiter
	rebindQueued bool
}

// New creates the browse model.
func New(cfg *config.Config, loader Loader, taxonomy classify.Taxonomy) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.MiniDot

	overscan := cfg.Overscan
	if overscan < 0 {
		overscan = 0
	}

	return &Model{
		loader:   loader,
		sources:  cfg.Sources(),
		taxonomy: taxonomy,
		filter:   FilterAll,
		pool:     virtual.NewPool(virtual.PoolSize(1, overscan)),
		overscan: overscan,
		rows:     1,
		keys:     NewKeyMap(cfg.KeyMap),
		help:     help.New(),
		spinner:  sp,
		styles:   NewStyles(cfg.Theme),
		loading:  true,
		limiter:  rate.NewLimiter(rate.Limit(60), 1),
	}
}

// Init starts the first load cycle.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(), redrawTick())
}

// redrawTick schedules the periodic re-render that keeps relative timestamps
// current on an idle screen.
func redrawTick() tea.Cmd {
	return tea.Tick(time.Minute, func(time.Time) tea.Msg { return redrawTickMsg{} })
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{res: m.loader.Load(context.Background(), m.sources)}
	}
}

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case loadedMsg:
		m.applyResult(msg.res)
		return m, nil

	case rebindTickMsg:
		m.rebindQueued = false
		m.rebind()
		return m, nil

	case redrawTickMsg:
		m.pool.Reset()
		m.rebind()
		return m, redrawTick()

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.MouseMsg:
		switch msg.Button {
		case tea.MouseButtonWheelUp:
			return m, m.scrollBy(-3 * itemHeight)
		case tea.MouseButtonWheelDown:
			return m, m.scrollBy(3 * itemHeight)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case key.Matches(msg, m.keys.Filter):
		m.FilterByCategory(m.nextFilter())
		return m, nil

	case key.Matches(msg, m.keys.Up):
		return m, m.scrollBy(-itemHeight)

	case key.Matches(msg, m.keys.Down):
		return m, m.scrollBy(itemHeight)

	case key.Matches(msg, m.keys.UpPage):
		return m, m.scrollBy(-m.rows * itemHeight)

	case key.Matches(msg, m.keys.DownPage):
		return m, m.scrollBy(m.rows * itemHeight)

	case key.Matches(msg, m.keys.Top):
		return m, m.scrollTo(0)

	case key.Matches(msg, m.keys.Bottom):
		return m, m.scrollTo(m.maxOffset())
	}
	return m, nil
}

func (m *Model) resize(width, height int) {
	if width != m.width {
		// Slot content bakes in the row width, so a new width invalidates
		// every binding even when the row count stays the same.
		m.pool.Reset()
	}
	m.width = width
	m.height = height

	rows := (height - chromeLines) / itemHeight
	if rows < 1 {
		rows = 1
	}
	if rows != m.rows {
		m.rows = rows
		// The arena follows the viewport, never the item count.
		m.pool = virtual.NewPool(virtual.PoolSize(rows, m.overscan))
	}
	m.offset = clamp(m.offset, 0, m.maxOffset())
	m.rebind()
}

// applyResult replaces the whole render with the new cycle's output; a retry
// never patches the previous state.
func (m *Model) applyResult(res headlines.Result) {
	m.loading = false
	m.degraded = res.Degraded
	m.fetchedAt = res.Envelope.Timestamp

	if !res.Envelope.Success && len(res.Envelope.Articles) == 0 {
		m.err = fmt.Errorf("%d of %d sources succeeded", res.Envelope.FeedsProcessed, res.Envelope.TotalFeeds)
		m.articles = nil
		m.visible = nil
		m.pool.Reset()
		return
	}

	m.err = nil
	m.articles = res.Envelope.Articles
	m.pool.Reset()
	m.applyFilter()
}

// FilterByCategory restricts the list to a case-insensitive exact category
// match; FilterAll shows the full ranking again.
func (m *Model) FilterByCategory(label string) {
	if label == "" || strings.EqualFold(label, FilterAll) {
		label = FilterAll
	}
	m.filter = label
	m.offset = 0
	m.applyFilter()
}

func (m *Model) applyFilter() {
	m.visible = m.visible[:0]
	for _, a := range m.articles {
		if m.filter == FilterAll || strings.EqualFold(a.Category, m.filter) {
			m.visible = append(m.visible, rowItem{a})
		}
	}
	m.offset = clamp(m.offset, 0, m.maxOffset())
	m.rebind()
}

func (m *Model) filterLabels() []string {
	return append([]string{FilterAll}, m.taxonomy.Labels()...)
}

func (m *Model) nextFilter() string {
	labels := m.filterLabels()
	for i, l := range labels {
		if strings.EqualFold(l, m.filter) {
			return labels[(i+1)%len(labels)]
		}
	}
	return FilterAll
}

// TotalHeight is the scrollable height for the current filter.
func (m *Model) TotalHeight() int {
	return virtual.TotalHeight(len(m.visible), itemHeight)
}

func (m *Model) maxOffset() int {
	return virtual.MaxOffset(len(m.visible), itemHeight, m.rows*itemHeight)
}

func (m *Model) scrollBy(delta int) tea.Cmd {
	return m.scrollTo(m.offset + delta)
}

func (m *Model) scrollTo(offset int) tea.Cmd {
	m.offset = clamp(offset, 0, m.maxOffset())
	if m.limiter.Allow() {
		m.rebind()
		return nil
	}
	if m.rebindQueued {
		return nil
	}
	// Trailing edge: the last scroll event always lands.
	m.rebindQueued = true
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg { return rebindTickMsg{} })
}

func (m *Model) rebind() {
	m.window = virtual.WindowFor(m.offset, itemHeight, m.overscan)
	virtual.Bind(m.pool, m.window, m.visible, m.renderRow)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func relativeTime(t, now time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}
