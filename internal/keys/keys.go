// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the application. The prompt textarea
// swallows plain letters, so every action sits on a control or function key.
type KeyMap struct {
	// Generation
	Generate   key.Binding
	Complexity key.Binding
	Example1   key.Binding
	Example2   key.Binding
	Example3   key.Binding

	// Output
	ToggleView key.Binding
	Focus      key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding

	// Export
	Copy     key.Binding
	Download key.Binding
	SaveSVG  key.Binding

	// General
	Help   key.Binding
	Logs   key.Binding
	Escape key.Binding
	Quit   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Generate: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "generate"),
		),
		Complexity: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "cycle complexity"),
		),
		Example1: key.NewBinding(
			key.WithKeys("alt+1"),
			key.WithHelp("alt+1", "example 1"),
		),
		Example2: key.NewBinding(
			key.WithKeys("alt+2"),
			key.WithHelp("alt+2", "example 2"),
		),
		Example3: key.NewBinding(
			key.WithKeys("alt+3"),
			key.WithHelp("alt+3", "example 3"),
		),

		ToggleView: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "visual/json"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch pane"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "scroll down"),
		),

		Copy: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy json"),
		),
		Download: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "download json"),
		),
		SaveSVG: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "save svg"),
		),

		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "help"),
		),
		Logs: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "debug logs"),
			key.WithDisabled(),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp returns keybindings for the footer.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Generate, k.Complexity, k.ToggleView, k.Copy, k.Help, k.Quit}
}

// FullHelp returns keybindings for the help overlay.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Generate, k.Complexity, k.Example1, k.Example2, k.Example3}, // Generation
		{k.ToggleView, k.Focus, k.ScrollUp, k.ScrollDown},              // Output
		{k.Copy, k.Download, k.SaveSVG},                                // Export
		{k.Help, k.Logs, k.Escape, k.Quit},                             // General
	}
}

// SetExportEnabled enables or disables the export bindings together.
func (k *KeyMap) SetExportEnabled(enabled bool) {
	k.Copy.SetEnabled(enabled)
	k.Download.SetEnabled(enabled)
	k.SaveSVG.SetEnabled(enabled)
}
