package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/newsdeckapp/newsdeck/internal/config"
)

// KeyMap defines the keybindings for the browse view.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	UpPage   key.Binding
	DownPage key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Filter   key.Binding
	Refresh  key.Binding
	Quit     key.Binding
}

// ShortHelp returns the keybindings shown in the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Filter, k.Refresh, k.Quit}
}

// FullHelp returns all keybindings.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.UpPage, k.DownPage},
		{k.Top, k.Bottom},
		{k.Filter, k.Refresh, k.Quit},
	}
}

// NewKeyMap creates a KeyMap from the configuration.
func NewKeyMap(cfg config.KeyMapConfig) KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys(cfg.Up, "up"),
			key.WithHelp(cfg.Up, "up"),
		),
		Down: key.NewBinding(
			key.WithKeys(cfg.Down, "down"),
			key.WithHelp(cfg.Down, "down"),
		),
		UpPage: key.NewBinding(
			key.WithKeys(cfg.UpPage, "pgup"),
			key.WithHelp(cfg.UpPage, "pgup"),
		),
		DownPage: key.NewBinding(
			key.WithKeys(cfg.DownPage, "pgdown"),
			key.WithHelp(cfg.DownPage, "pgdn"),
		),
		Top: key.NewBinding(
			key.WithKeys(cfg.Top, "home"),
			key.WithHelp(cfg.Top, "top"),
		),
		Bottom: key.NewBinding(
			key.WithKeys(cfg.Bottom, "end"),
			key.WithHelp(cfg.Bottom, "bottom"),
		),
		Filter: key.NewBinding(
			key.WithKeys(cfg.Filter),
			key.WithHelp(cfg.Filter, "category"),
		),
		Refresh: key.NewBinding(
			key.WithKeys(cfg.Refresh),
			key.WithHelp(cfg.Refresh, "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys(cfg.Quit, "ctrl+c"),
			key.WithHelp(cfg.Quit, "quit"),
		),
	}
}
