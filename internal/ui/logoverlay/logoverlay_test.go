package logoverlay

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/pubsub"
)

func entry(level, msg string) log.LogEvent {
	return log.LogEvent{Type: pubsub.CreatedEvent, Payload: fmt.Sprintf("2026-01-02T10:00:00 [%s] [gen] %s\n", level, msg)}
}

func feed(m Model, events ...log.LogEvent) Model {
	for _, ev := range events {
		m, _ = m.Update(ev)
	}
	return m
}

func TestBuffersEntriesWhileHidden(t *testing.T) {
	m := feed(Model{minLevel: log.LevelDebug}, entry("INFO", "started"), entry("ERROR", "boom"))

	require.False(t, m.Visible())
	require.Equal(t, []string{
		"2026-01-02T10:00:00 [INFO] [gen] started",
		"2026-01-02T10:00:00 [ERROR] [gen] boom",
	}, m.Entries())
}

func TestBufferIsBounded(t *testing.T) {
	m := Model{}
	for i := 0; i < maxEntries+10; i++ {
		m = feed(m, entry("DEBUG", fmt.Sprintf("n=%d", i)))
	}
	require.Len(t, m.Entries(), maxEntries)
	require.True(t, strings.HasSuffix(m.Entries()[0], "n=10"))
}

func TestFilterLevels(t *testing.T) {
	m := Model{minLevel: log.LevelDebug}.SetSize(120, 40)
	m = feed(m, entry("DEBUG", "dbg"), entry("INFO", "inf"), entry("WARN", "wrn"), entry("ERROR", "err"))
	m = m.Toggle()
	require.True(t, m.Visible())

	view := m.View()
	for _, s := range []string{"dbg", "inf", "wrn", "err"} {
		require.Contains(t, view, s)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}})
	view = m.View()
	require.NotContains(t, view, "dbg")
	require.NotContains(t, view, "inf")
	require.Contains(t, view, "wrn")
	require.Contains(t, view, "err")

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'c'}})
	require.Empty(t, m.Entries())
	require.Contains(t, m.View(), "No logs to display")
}

func TestCloseKeys(t *testing.T) {
	m := Model{}.SetSize(80, 30).Toggle()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.False(t, m.Visible())

	m = m.Toggle()
	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlX})
	require.False(t, m.Visible())
}

func TestOverlay(t *testing.T) {
	bg := strings.TrimSuffix(strings.Repeat(strings.Repeat(".", 80)+"\n", 30), "\n")
	m := Model{}.SetSize(80, 30)
	require.Equal(t, bg, m.Overlay(bg))

	m = feed(m.Toggle(), entry("INFO", "hello overlay"))
	out := m.Overlay(bg)
	require.Contains(t, out, "hello overlay")
	require.Len(t, strings.Split(out, "\n"), 30)
}

func TestLevelOf(t *testing.T) {
	l, ok := levelOf("x [WARN] [ui] y")
	require.True(t, ok)
	require.Equal(t, log.LevelWarn, l)

	_, ok = levelOf("plain text")
	require.False(t, ok)
}

func TestListenerReceivesLogLines(t *testing.T) {
	log.InitWriter(io.Discard)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := New(ctx)
	cmd := m.Listen()
	require.NotNil(t, cmd)

	go func() {
		time.Sleep(10 * time.Millisecond)
		log.Info(log.CatUI, "from the logger")
	}()

	m, next := m.Update(cmd())
	require.NotNil(t, next)
	require.Len(t, m.Entries(), 1)
	require.Contains(t, m.Entries()[0], "[INFO] [ui] from the logger")
}
