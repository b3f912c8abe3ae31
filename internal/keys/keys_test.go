package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_Assignments(t *testing.T) {
	k := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{"Generate", k.Generate, []string{"ctrl+g"}},
		{"Complexity", k.Complexity, []string{"ctrl+l"}},
		{"ToggleView", k.ToggleView, []string{"ctrl+t"}},
		{"Copy", k.Copy, []string{"ctrl+y"}},
		{"Download", k.Download, []string{"ctrl+o"}},
		{"SaveSVG", k.SaveSVG, []string{"ctrl+e"}},
		{"Help", k.Help, []string{"f1"}},
		{"Quit", k.Quit, []string{"ctrl+c"}},
		{"Logs", k.Logs, []string{"ctrl+x"}},
		{"ScrollDown", k.ScrollDown, []string{"pgdown", "ctrl+d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
			require.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestDefaultKeyMap_NoDuplicateKeys(t *testing.T) {
	seen := map[string]string{}
	for _, group := range DefaultKeyMap().FullHelp() {
		for _, b := range group {
			for _, k := range b.Keys() {
				prev, dup := seen[k]
				require.False(t, dup, "%q bound to both %q and %q", k, prev, b.Help().Desc)
				seen[k] = b.Help().Desc
			}
		}
	}
}

func TestSetExportEnabled(t *testing.T) {
	k := DefaultKeyMap()
	msg := tea.KeyMsg{Type: tea.KeyCtrlY}

	k.SetExportEnabled(false)
	require.False(t, key.Matches(msg, k.Copy))
	require.False(t, k.Download.Enabled())
	require.False(t, k.SaveSVG.Enabled())

	k.SetExportEnabled(true)
	require.True(t, key.Matches(msg, k.Copy))
}

func TestShortHelpIsSubsetOfFullHelp(t *testing.T) {
	k := DefaultKeyMap()
	full := map[string]bool{}
	for _, group := range k.FullHelp() {
		for _, b := range group {
			full[b.Help().Key] = true
		}
	}
	for _, b := range k.ShortHelp() {
		require.True(t, full[b.Help().Key], b.Help().Key)
	}
}

func TestLogsDisabledByDefault(t *testing.T) {
	require.False(t, DefaultKeyMap().Logs.Enabled())
}
