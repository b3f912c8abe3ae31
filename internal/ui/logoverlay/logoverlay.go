// Package logoverlay provides an in-app log viewer overlay that shows
// recent log entries without leaving the TUI.
package logoverlay

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/ui/overlay"
	"github.com/zjrosen/flowgen/internal/ui/styles"
)

const (
	maxEntries        = 500
	viewportMaxHeight = 25
	viewportMinHeight = 5
	boxMaxWidth       = 160
	boxMinWidth       = 40
)

// Model is the log overlay component state. Entries arrive as
// log.LogEvent messages from the listener started by New.
type Model struct {
	visible  bool
	minLevel log.Level
	width    int
	height   int
	entries  []string
	viewport viewport.Model
	listener *log.LogListener
}

// New creates a hidden overlay subscribed to the global logger. The
// subscription ends with ctx. If logging is disabled the overlay stays empty.
func New(ctx context.Context) Model {
	return Model{
		minLevel: log.LevelDebug,
		listener: log.NewListener(ctx),
	}
}

// Listen returns the command that waits for the next log entry.
func (m Model) Listen() tea.Cmd {
	if m.listener == nil {
		return nil
	}
	return m.listener.Listen()
}

// Update handles log events always and keys while visible.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case log.LogEvent:
		m.entries = append(m.entries, strings.TrimSuffix(msg.Payload, "\n"))
		if over := len(m.entries) - maxEntries; over > 0 {
			m.entries = append([]string(nil), m.entries[over:]...)
		}
		if m.visible {
			m.refresh()
		}
		return m, m.Listen()

	case tea.KeyMsg:
		if !m.visible {
			return m, nil
		}
		switch msg.String() {
		case "c":
			m.entries = nil
		case "d":
			m.minLevel = log.LevelDebug
		case "i":
			m.minLevel = log.LevelInfo
		case "w":
			m.minLevel = log.LevelWarn
		case "e":
			m.minLevel = log.LevelError
		case "j", "down":
			m.viewport.ScrollDown(1)
			return m, nil
		case "k", "up":
			m.viewport.ScrollUp(1)
			return m, nil
		case "g":
			m.viewport.GotoTop()
			return m, nil
		case "G":
			m.viewport.GotoBottom()
			return m, nil
		case "ctrl+x", "esc":
			m.visible = false
			return m, nil
		default:
			return m, nil
		}
		m.refresh()
	}
	return m, nil
}

// Entries returns the buffered entries, oldest first.
func (m Model) Entries() []string {
	return m.entries
}

// Visible reports whether the overlay is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Toggle shows or hides the overlay.
func (m Model) Toggle() Model {
	m.visible = !m.visible
	if m.visible {
		m.refresh()
	}
	return m
}

// SetSize updates the screen size the overlay is centered in.
func (m Model) SetSize(width, height int) Model {
	m.width = width
	m.height = height
	if m.visible {
		m.refresh()
	}
	return m
}

// View renders the log box.
func (m Model) View() string {
	if !m.visible {
		return ""
	}
	w := m.boxWidth()
	divider := lipgloss.NewStyle().Foreground(styles.BorderDefaultColor).Render(strings.Repeat("─", w))

	body := strings.Join([]string{
		styles.TitleStyle.PaddingLeft(1).Render("Logs"),
		divider,
		m.viewport.View(),
		divider,
		m.filterHint(),
	}, "\n")

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(styles.BorderFocusColor).
		Width(w).
		Render(body)
}

// Overlay renders the log box centered on bg.
func (m Model) Overlay(bg string) string {
	if !m.visible {
		return bg
	}
	return overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.View(), bg)
}

func (m *Model) refresh() {
	if m.width == 0 || m.height == 0 {
		return
	}
	// header and footer are two lines each, plus the border
	h := max(min(viewportMaxHeight, m.height-6), viewportMinHeight)
	m.viewport = viewport.New(m.boxWidth()-2, h)
	m.viewport.SetContent(m.content(m.boxWidth() - 2))
	m.viewport.GotoBottom()
}

func (m Model) boxWidth() int {
	return max(min(m.width-4, boxMaxWidth), boxMinWidth)
}

func (m Model) content(width int) string {
	var lines []string
	for _, entry := range m.entries {
		level, ok := levelOf(entry)
		if ok && level < m.minLevel {
			continue
		}
		lines = append(lines, colorize(entry, level, ok, width))
	}
	if len(lines) == 0 {
		return lipgloss.NewStyle().Foreground(styles.TextMutedColor).Italic(true).Render("No logs to display")
	}
	return strings.Join(lines, "\n")
}

// levelOf reads the "[LEVEL]" tag written by the log package.
func levelOf(entry string) (log.Level, bool) {
	for _, l := range []log.Level{log.LevelError, log.LevelWarn, log.LevelInfo, log.LevelDebug} {
		if strings.Contains(entry, "["+l.String()+"]") {
			return l, true
		}
	}
	return log.LevelDebug, false
}

func colorize(entry string, level log.Level, known bool, width int) string {
	if ansi.StringWidth(entry) > width {
		entry = ansi.Truncate(entry, width-3, "...")
	}
	color := styles.TextPrimaryColor
	if known {
		switch level {
		case log.LevelError:
			color = styles.StatusErrorColor
		case log.LevelWarn:
			color = styles.StatusWarningColor
		case log.LevelInfo:
			color = styles.StatusInfoColor
		default:
			color = styles.TextMutedColor
		}
	}
	return lipgloss.NewStyle().Foreground(color).Render(entry)
}

func (m Model) filterHint() string {
	hint := lipgloss.NewStyle().Foreground(styles.TextMutedColor)
	active := lipgloss.NewStyle().Foreground(styles.TextPrimaryColor).Bold(true)

	parts := []string{hint.Render("[c] Clear")}
	for _, f := range []struct {
		label string
		level log.Level
	}{
		{"[d] Debug", log.LevelDebug},
		{"[i] Info", log.LevelInfo},
		{"[w] Warn", log.LevelWarn},
		{"[e] Error", log.LevelError},
	} {
		style := hint
		if m.minLevel == f.level {
			style = active
		}
		parts = append(parts, style.Render(f.label))
	}
	return strings.Join(parts, "  ")
}
