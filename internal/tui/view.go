package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
)

// fitLine collapses text onto a single line and trims it to the row width,
// marking the cut with an ellipsis.
func fitLine(text string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(strings.Join(strings.Fields(text), " "), width, "...")
}

// renderRow draws one article as a title line and a meta line, both bounded
// by the current terminal width. It only runs when a slot's bound identity
// changes or the pool was reset.
func (m *Model) renderRow(item rowItem, _ int) string {
	width := m.width
	if width < 20 {
		width = 80
	}

	title := fitLine(item.Title, width-2)
	meta := fmt.Sprintf("%s %s %s",
		m.styles.Category.Render("["+item.Category+"]"),
		item.Source,
		m.styles.Meta.Render("· "+relativeTime(item.Published, time.Now())),
	)
	meta = ansi.Truncate(meta, width-4, "...")

	return " " + m.styles.Title.Render(title) + "\n   " + meta
}

// View renders the browse screen.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.header())
	b.WriteString("\n")

	switch {
	case m.err != nil:
		b.WriteString("\n")
		b.WriteString(m.styles.Error.Render("  Could not load headlines: " + m.err.Error()))
		b.WriteString("\n\n")
		b.WriteString(m.styles.Empty.Render("  Press " + m.keys.Refresh.Help().Key + " to retry."))
	case !m.loading && len(m.visible) == 0:
		b.WriteString("\n")
		if m.filter != FilterAll {
			b.WriteString(m.styles.Empty.Render("  No articles in " + m.filter + "."))
		} else {
			b.WriteString(m.styles.Empty.Render("  No articles yet."))
		}
	default:
		b.WriteString(m.list())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help.View(m.keys)))
	return b.String()
}

func (m *Model) header() string {
	title := m.styles.Header.Render("newsdeck")
	filter := m.styles.Filter.Render("category: " + m.filter)

	status := ""
	switch {
	case m.loading:
		status = m.spinner.View() + " fetching"
	case m.degraded:
		status = m.styles.Degraded.Render("degraded")
	case !m.fetchedAt.IsZero():
		status = m.styles.Meta.Render("updated " + relativeTime(m.fetchedAt, time.Now()))
	}

	line := title + "  " + filter
	if status != "" {
		line += "  " + status
	}
	return line + "\n" + m.styles.Meta.Render(fmt.Sprintf(" %d articles", len(m.visible)))
}

// list draws the viewport portion of the slot arena. Overscan slots hold
// pre-rendered content but stay off screen.
func (m *Model) list() string {
	lastVisible := m.window.FirstVisible + m.rows

	var rows []string
	for _, slot := range m.pool.Slots() {
		if !slot.Visible || slot.Index < m.window.FirstVisible || slot.Index >= lastVisible {
			continue
		}
		rows = append(rows, slot.Content)
	}
	return strings.Join(rows, "\n")
}
