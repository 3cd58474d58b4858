package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/newsdeckapp/newsdeck/internal/config"
)

// Styles holds the lipgloss styles for the browse view.
type Styles struct {
	Header   lipgloss.Style
	Title    lipgloss.Style
	Selected lipgloss.Style
	Category lipgloss.Style
	Meta     lipgloss.Style
	Filter   lipgloss.Style
	Degraded lipgloss.Style
	Error    lipgloss.Style
	Empty    lipgloss.Style
	Help     lipgloss.Style
}

// NewStyles builds the style set from the configured theme.
func NewStyles(theme config.ThemeConfig) Styles {
	accent := lipgloss.Color(theme.Accent)
	category := lipgloss.Color(theme.Category)
	dim := lipgloss.Color(theme.Dim)

	return Styles{
		Header:   lipgloss.NewStyle().Bold(true).Foreground(accent).PaddingLeft(1),
		Title:    lipgloss.NewStyle(),
		Selected: lipgloss.NewStyle().Bold(true).Foreground(accent),
		Category: lipgloss.NewStyle().Foreground(category),
		Meta:     lipgloss.NewStyle().Foreground(dim),
		Filter:   lipgloss.NewStyle().Foreground(accent),
		Degraded: lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#B8860B", Dark: "#D7AF5F"}),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#C53030", Dark: "#F56565"}),
		Empty:    lipgloss.NewStyle().Foreground(dim).Italic(true),
		Help:     lipgloss.NewStyle().Foreground(dim),
	}
}
