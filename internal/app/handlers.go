package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"

	"github.com/zjrosen/flowgen/internal/config"
	"github.com/zjrosen/flowgen/internal/diagram"
	"github.com/zjrosen/flowgen/internal/export"
	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/session"
)

// Mouse zones.
const (
	zoneGenerate  = "generate"
	zoneTabVisual = "tab-visual"
	zoneTabJSON   = "tab-json"
	zoneCopy      = "copy"
	zoneDownload  = "download"
	zoneSaveSVG   = "save-svg"
	zonePrompt    = "prompt"
	zoneOutput    = "output"
)

func zoneComplexity(c generator.Complexity) string {
	return "complexity-" + string(c)
}

func zoneExample(i int) string {
	return fmt.Sprintf("example-%d", i)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, tea.Quit
	}

	if key.Matches(msg, m.keys.Logs) {
		m.logs = m.logs.Toggle()
		return m, nil
	}
	if m.logs.Visible() {
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Escape) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil
	case key.Matches(msg, m.keys.Generate):
		return m.generate()
	case key.Matches(msg, m.keys.Complexity):
		return m.setComplexity(m.complexity.Next())
	case key.Matches(msg, m.keys.Example1):
		return m.useExample(0), nil
	case key.Matches(msg, m.keys.Example2):
		return m.useExample(1), nil
	case key.Matches(msg, m.keys.Example3):
		return m.useExample(2), nil
	case key.Matches(msg, m.keys.ToggleView):
		return m.toggleView()
	case key.Matches(msg, m.keys.Focus):
		if m.focus == focusPrompt {
			return m.setFocus(focusOutput), nil
		}
		return m.setFocus(focusPrompt), nil
	case key.Matches(msg, m.keys.Copy):
		return m, m.copyCmd()
	case key.Matches(msg, m.keys.Download):
		return m, m.downloadCmd()
	case key.Matches(msg, m.keys.SaveSVG):
		return m, m.saveSVGCmd()
	case key.Matches(msg, m.keys.Escape):
		return m.setFocus(focusPrompt), nil
	case key.Matches(msg, m.keys.ScrollUp, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusPrompt {
		m.prompt, cmd = m.prompt.Update(msg)
	} else {
		m.output, cmd = m.output.Update(msg)
	}
	return m, cmd
}

func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		var cmd tea.Cmd
		m.output, cmd = m.output.Update(msg)
		return m, cmd
	}
	if msg.Action != tea.MouseActionRelease || msg.Button != tea.MouseButtonLeft || m.showHelp {
		return m, nil
	}

	inBounds := func(id string) bool {
		z := zone.Get(id)
		return z != nil && z.InBounds(msg)
	}

	switch {
	case inBounds(zoneGenerate):
		return m.generate()
	case inBounds(zoneTabVisual):
		return m.setView(config.ViewVisual)
	case inBounds(zoneTabJSON):
		return m.setView(config.ViewJSON)
	case inBounds(zoneCopy):
		return m, m.copyCmd()
	case inBounds(zoneDownload):
		return m, m.downloadCmd()
	case inBounds(zoneSaveSVG):
		return m, m.saveSVGCmd()
	case inBounds(zonePrompt):
		return m.setFocus(focusPrompt), nil
	case inBounds(zoneOutput):
		return m.setFocus(focusOutput), nil
	}
	for _, c := range generator.Complexities {
		if inBounds(zoneComplexity(c)) {
			return m.setComplexity(c)
		}
	}
	for i := range ExamplePrompts {
		if inBounds(zoneExample(i)) {
			return m.useExample(i), nil
		}
	}
	return m, nil
}

func (m Model) useExample(i int) Model {
	if i < 0 || i >= len(ExamplePrompts) {
		return m
	}
	m.prompt.SetValue(ExamplePrompts[i])
	return m.setFocus(focusPrompt)
}

// copyCmd copies the formatted document. Nil unless the session completed.
func (m Model) copyCmd() tea.Cmd {
	exp, err := m.controller.Export()
	if err != nil {
		return nil
	}
	clip := m.clipboard
	return func() tea.Msg {
		if err := clip.Copy(exp.Text); err != nil {
			return exportDoneMsg{action: "copy", err: fmt.Errorf("copy failed: %w", err)}
		}
		return exportDoneMsg{action: "copy", message: "Copied to clipboard"}
	}
}

func (m Model) downloadCmd() tea.Cmd {
	exp, err := m.controller.Export()
	if err != nil {
		return nil
	}
	dir := export.ExpandHome(m.cfg.Generation.OutputDir)
	return func() tea.Msg {
		path, err := export.Download(dir, exp.FileName, exp.Text)
		if err != nil {
			return exportDoneMsg{action: "download", err: err}
		}
		return exportDoneMsg{action: "download", message: "Saved " + path}
	}
}

func (m Model) saveSVGCmd() tea.Cmd {
	exp, err := m.controller.Export()
	if err != nil {
		return nil
	}
	res := m.diagrams.Build(exp.Text)
	dir := export.ExpandHome(m.cfg.Generation.OutputDir)
	name := strings.TrimSuffix(exp.FileName, ".json") + ".svg"
	return func() tea.Msg {
		svg, err := diagram.RenderSVG(res)
		if err != nil {
			return exportDoneMsg{action: "svg", err: err}
		}
		path, err := export.Download(dir, name, svg)
		if err != nil {
			return exportDoneMsg{action: "svg", err: err}
		}
		return exportDoneMsg{action: "svg", message: "Saved " + path}
	}
}

// exportEnabled reports whether the export actions apply.
func (m Model) exportEnabled() bool {
	return m.controller.State() == session.Complete
}
