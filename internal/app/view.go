package app

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/reflow/wordwrap"

	"github.com/zjrosen/flowgen/internal/config"
	"github.com/zjrosen/flowgen/internal/diagram"
	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/session"
	"github.com/zjrosen/flowgen/internal/ui/jsonview"
	"github.com/zjrosen/flowgen/internal/ui/overlay"
	"github.com/zjrosen/flowgen/internal/ui/styles"
)

const (
	appTitle         = "n8n Workflow Generator"
	idleMessage      = "Your generated workflow will appear here."
	partialHeader    = "Partial output:"
	partialHint      = "Switch to the JSON view to see the partial output."
	minPromptHeight  = 3
	minLeftWidth     = 32
	maxLeftWidth     = 64
	panelChrome      = 2 // border rows or columns
	outputChromeRows = 2 // tabs and action row
)

// layout is the size of each region, derived from the window size.
type layout struct {
	leftW, rightW int // outer widths
	bodyH         int // outer height of both panels
	innerLeftW    int
	innerRightW   int
	contentH      int // output viewport height
	examples      string
	promptH       int
}

func (m Model) layout() layout {
	var l layout
	l.bodyH = max(m.height-2, 0) // title and help rows
	l.leftW = min(max(m.width*2/5, minLeftWidth), maxLeftWidth)
	if l.leftW > m.width {
		l.leftW = m.width
	}
	l.rightW = max(m.width-l.leftW, 0)
	l.innerLeftW = max(l.leftW-panelChrome, 1)
	l.innerRightW = max(l.rightW-panelChrome, 1)
	l.contentH = max(l.bodyH-panelChrome-outputChromeRows, 1)

	// title, blank, complexity label, options, description, blank, button
	fixed := 7
	avail := l.bodyH - panelChrome - fixed
	if m.cfg.UI.ShowExamples {
		l.examples = m.renderExamples(l.innerLeftW)
		if avail-lipgloss.Height(l.examples)-1 >= minPromptHeight {
			avail -= lipgloss.Height(l.examples) + 1
		} else {
			l.examples = ""
		}
	}
	l.promptH = max(avail, minPromptHeight)
	return l
}

func (m Model) resize() Model {
	l := m.layout()
	m.prompt.SetWidth(l.innerLeftW)
	m.prompt.SetHeight(l.promptH)
	m.output.Width = l.innerRightW
	m.output.Height = l.contentH
	m.help.Width = m.width

	r, err := jsonview.New(l.innerRightW, m.cfg.UI.MarkdownStyle)
	if err != nil {
		log.ErrorErr(log.CatUI, "Failed to create json renderer", err)
	}
	m.json = r
	return m.refreshOutput()
}

// refreshOutput re-renders the output pane from the controller state.
func (m Model) refreshOutput() Model {
	m.output.SetContent(m.outputContent(m.output.Width, m.output.Height))
	return m
}

func (m Model) outputContent(width, height int) string {
	snap := m.controller.Snapshot()
	switch snap.State {
	case session.Idle:
		return styles.MutedStyle.Render(idleMessage)
	case session.Failed:
		return m.failedContent(snap, width)
	}

	text := m.controller.DisplayText()
	if m.view == config.ViewJSON {
		if snap.State == session.Complete && m.json != nil {
			return m.json.Render(text)
		}
		return jsonview.Raw(text, width)
	}
	return styles.DiagramStyle.Render(m.diagrams.Text(text, width, height))
}

// failedContent shows the error panel followed by whatever text arrived
// before the failure.
func (m Model) failedContent(snap session.Snapshot, width int) string {
	panel := styles.ErrorStyle.Width(max(width-panelChrome, 1)).Render("Error: " + snap.Error)
	if snap.Accumulated == "" {
		return panel
	}
	if m.view != config.ViewJSON {
		return panel + "\n\n" + styles.MutedStyle.Render(partialHint)
	}
	return panel + "\n\n" + styles.MutedStyle.Render(partialHeader) + "\n" + jsonview.Raw(snap.Accumulated, width)
}

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	l := m.layout()

	title := styles.TitleStyle.Render(appTitle)
	if m.cfg.Gemini.Model != "" {
		title += styles.MutedStyle.Render("  " + m.cfg.Gemini.Model)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, m.viewPromptPanel(l), m.viewOutputPanel(l))
	footer := m.help.View(m.keys)

	view := zone.Scan(lipgloss.JoinVertical(lipgloss.Left, title, body, footer))

	if m.toaster.Visible() {
		view = m.toaster.Overlay(view, m.width, m.height)
	}
	if m.logs.Visible() {
		view = m.logs.Overlay(view)
	}
	if m.showHelp {
		view = overlay.Place(overlay.Config{Width: m.width, Height: m.height, Position: overlay.Center}, m.viewHelp(), view)
	}
	return view
}

func (m Model) viewPromptPanel(l layout) string {
	var b strings.Builder
	b.WriteString(styles.TitleStyle.Render("Describe your n8n workflow"))
	b.WriteString("\n")
	b.WriteString(zone.Mark(zonePrompt, m.prompt.View()))
	b.WriteString("\n\n")

	b.WriteString(styles.MutedStyle.Render("Complexity"))
	b.WriteString("\n")
	options := make([]string, 0, len(generator.Complexities))
	for _, c := range generator.Complexities {
		style := styles.OptionStyle
		if c == m.complexity {
			style = styles.SelectedOptionStyle
		}
		options = append(options, zone.Mark(zoneComplexity(c), style.Render(c.Label())))
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, options...))
	b.WriteString("\n")
	b.WriteString(styles.MutedStyle.Render(m.complexity.Description()))
	b.WriteString("\n\n")
	b.WriteString(zone.Mark(zoneGenerate, m.viewGenerateButton()))

	if l.examples != "" {
		b.WriteString("\n\n")
		b.WriteString(l.examples)
	}

	style := styles.PanelStyle
	if m.focus == focusPrompt {
		style = styles.PanelFocusedStyle
	}
	return style.Width(l.innerLeftW).Height(l.bodyH - panelChrome).Render(b.String())
}

func (m Model) viewGenerateButton() string {
	if m.controller.Snapshot().Active() {
		return styles.PrimaryButtonStyle.Render(m.spinner.View() + " Generating...")
	}
	if strings.TrimSpace(m.prompt.Value()) == "" {
		return styles.DisabledButtonStyle.Render("Generate Workflow")
	}
	return styles.PrimaryButtonStyle.Render("Generate Workflow")
}

func (m Model) renderExamples(width int) string {
	lines := []string{styles.MutedStyle.Render("Or try an example:")}
	for i, p := range ExamplePrompts {
		wrapped := wordwrap.String(fmt.Sprintf("%d. %s", i+1, p), width)
		lines = append(lines, zone.Mark(zoneExample(i), lipgloss.NewStyle().Foreground(styles.AccentColor).Render(wrapped)))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewOutputPanel(l layout) string {
	tabs := lipgloss.JoinHorizontal(lipgloss.Top,
		zone.Mark(zoneTabVisual, m.tabStyle(config.ViewVisual).Render("Visual")),
		zone.Mark(zoneTabJSON, m.tabStyle(config.ViewJSON).Render("JSON")),
	)
	status := m.viewStatus()
	gap := max(l.innerRightW-lipgloss.Width(tabs)-lipgloss.Width(status), 1)
	header := tabs + strings.Repeat(" ", gap) + status

	content := zone.Mark(zoneOutput, m.output.View())

	actions := lipgloss.JoinHorizontal(lipgloss.Top,
		zone.Mark(zoneCopy, m.actionStyle().Render("Copy")), " ",
		zone.Mark(zoneDownload, m.actionStyle().Render("Download")), " ",
		zone.Mark(zoneSaveSVG, m.actionStyle().Render("Save SVG")),
	)

	style := styles.PanelStyle
	if m.focus == focusOutput {
		style = styles.PanelFocusedStyle
	}
	return style.Width(l.innerRightW).Height(l.bodyH - panelChrome).
		Render(lipgloss.JoinVertical(lipgloss.Left, header, content, actions))
}

func (m Model) tabStyle(view string) lipgloss.Style {
	if m.view == view {
		return styles.TabActiveStyle
	}
	return styles.TabStyle
}

func (m Model) actionStyle() lipgloss.Style {
	if m.exportEnabled() {
		return styles.SecondaryButtonStyle
	}
	return styles.DisabledButtonStyle
}

func (m Model) viewStatus() string {
	snap := m.controller.Snapshot()
	switch snap.State {
	case session.Streaming:
		return m.spinner.View() + styles.MutedStyle.Render(fmt.Sprintf(" streaming (%d)", snap.Fragments))
	case session.Complete:
		res := m.diagrams.Build(snap.Final)
		status := fmt.Sprintf("%d nodes · %s", len(res.Nodes), snap.Elapsed().Round(100*time.Millisecond))
		if res.State != diagram.Ready {
			status = snap.Elapsed().Round(100 * time.Millisecond).String()
		}
		return lipgloss.NewStyle().Foreground(styles.StatusSuccessColor).Render(status)
	case session.Failed:
		return lipgloss.NewStyle().Foreground(styles.StatusErrorColor).Render("failed")
	}
	return ""
}

func (m Model) viewHelp() string {
	h := m.help
	h.ShowAll = true
	content := styles.TitleStyle.Render("Keyboard shortcuts") + "\n\n" + h.View(m.keys)
	return styles.PanelFocusedStyle.Padding(0, 1).Render(content)
}
