// Package toaster provides a notification toast overlay component.
package toaster

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/flowgen/internal/ui/overlay"
	"github.com/zjrosen/flowgen/internal/ui/styles"
)

// DefaultDuration is how long a toast stays up.
const DefaultDuration = 3 * time.Second

// Style determines the visual appearance of the toast.
type Style int

const (
	StyleSuccess Style = iota
	StyleError
	StyleInfo
	StyleWarn
)

// Model holds the toaster state. Every Show bumps seq so a dismissal
// scheduled for an earlier toast does not hide a newer one.
type Model struct {
	message string
	style   Style
	visible bool
	seq     int
}

// New creates a hidden toaster.
func New() Model {
	return Model{}
}

// Show displays message and returns the command that dismisses it after d.
func (m Model) Show(message string, style Style, d time.Duration) (Model, tea.Cmd) {
	m.seq++
	m.message = message
	m.style = style
	m.visible = true
	return m, scheduleDismiss(m.seq, d)
}

// Update handles DismissMsg. Other messages are ignored.
func (m Model) Update(msg tea.Msg) Model {
	if d, ok := msg.(DismissMsg); ok && d.seq == m.seq {
		return m.Hide()
	}
	return m
}

// Hide dismisses the toast.
func (m Model) Hide() Model {
	m.visible = false
	m.message = ""
	return m
}

// Visible reports whether a toast is showing.
func (m Model) Visible() bool {
	return m.visible
}

// Message returns the current toast text.
func (m Model) Message() string {
	return m.message
}

// View renders the toast box.
func (m Model) View() string {
	if !m.visible || m.message == "" {
		return ""
	}

	style := lipgloss.NewStyle().
		Padding(0, 1).
		Border(lipgloss.RoundedBorder())

	var icon string
	switch m.style {
	case StyleError:
		style = style.BorderForeground(styles.StatusErrorColor)
		icon = "✗"
	case StyleInfo:
		style = style.BorderForeground(styles.StatusInfoColor)
		icon = "i"
	case StyleWarn:
		style = style.BorderForeground(styles.StatusWarningColor)
		icon = "!"
	default:
		style = style.BorderForeground(styles.StatusSuccessColor)
		icon = "✓"
	}

	return style.Render(icon + " " + m.message)
}

// Overlay renders the toast in the bottom right corner of bg.
func (m Model) Overlay(bg string, width, height int) string {
	if !m.visible || m.message == "" {
		return bg
	}
	return overlay.Place(overlay.Config{
		Width:    width,
		Height:   height,
		Position: overlay.BottomRight,
		PadX:     1,
		PadY:     1,
	}, m.View(), bg)
}

// DismissMsg hides the toast it was scheduled for.
type DismissMsg struct {
	seq int
}

func scheduleDismiss(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return DismissMsg{seq: seq}
	})
}
