// Package app contains the root application model.
package app

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.opentelemetry.io/otel/trace"

	"github.com/zjrosen/flowgen/internal/config"
	"github.com/zjrosen/flowgen/internal/diagram"
	"github.com/zjrosen/flowgen/internal/export"
	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/keys"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/pubsub"
	"github.com/zjrosen/flowgen/internal/session"
	"github.com/zjrosen/flowgen/internal/ui/jsonview"
	"github.com/zjrosen/flowgen/internal/ui/logoverlay"
	"github.com/zjrosen/flowgen/internal/ui/styles"
	"github.com/zjrosen/flowgen/internal/ui/toaster"
)

// ExamplePrompts are offered below the prompt box.
var ExamplePrompts = []string{
	"A workflow that gets a new user from a webhook, enriches the user data with Clearbit, and then adds them to a Mailchimp list.",
	"Create a workflow that listens for a new row in a Google Sheet, sends the data to an OpenAI prompt, and saves the result back to the same row in a different column.",
	"A simple cron job that runs every morning at 9 AM, fetches the weather for New York from an API, and sends a summary to a Discord channel.",
}

const promptPlaceholder = "e.g., When a new Stripe payment succeeds, send a custom thank you email via SendGrid..."

type focus int

const (
	focusPrompt focus = iota
	focusOutput
)

// Options configures a new Model.
type Options struct {
	Config     config.Config
	ConfigPath string // empty disables saving preferences
	Generator  session.Generator
	Clipboard  export.Clipboard
	Clock      session.Clock
	Tracer     trace.Tracer
	Debug      bool // enables the ctrl+x log overlay
}

// Model is the root application state.
type Model struct {
	cfg        config.Config
	configPath string

	keys       keys.KeyMap
	help       help.Model
	showHelp   bool
	prompt     textarea.Model
	spinner    spinner.Model
	output     viewport.Model
	toaster    toaster.Model
	toastFor   time.Duration
	logs       logoverlay.Model
	debug      bool
	focus      focus
	complexity generator.Complexity
	view       string

	width  int
	height int

	controller *session.Controller
	runner     *session.Runner
	events     *pubsub.Broker[session.Event]
	listener   *pubsub.ContinuousListener[session.Event]
	ctx        context.Context
	cancel     context.CancelFunc
	runCancel  context.CancelFunc

	diagrams  *diagram.Cache
	json      *jsonview.Renderer
	clipboard export.Clipboard
}

// New creates the application model.
func New(opts Options) Model {
	ta := textarea.New()
	ta.Placeholder = promptPlaceholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	clip := opts.Clipboard
	if clip == nil {
		clip = export.SystemClipboard{}
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := pubsub.NewBroker[session.Event]()

	view := opts.Config.UI.View
	if view != config.ViewJSON {
		view = config.ViewVisual
	}

	k := keys.DefaultKeyMap()
	k.SetExportEnabled(false)
	k.Logs.SetEnabled(opts.Debug)

	var logs logoverlay.Model
	if opts.Debug {
		logs = logoverlay.New(ctx)
	}

	return Model{
		cfg:        opts.Config,
		configPath: opts.ConfigPath,
		keys:       k,
		help:       help.New(),
		prompt:     ta,
		spinner:    sp,
		output:     viewport.New(0, 0),
		toaster:    toaster.New(),
		toastFor:   toaster.DefaultDuration,
		logs:       logs,
		debug:      opts.Debug,
		complexity: opts.Config.Complexity(),
		view:       view,
		controller: session.NewController(opts.Clock),
		runner:     session.NewRunner(opts.Generator, events, opts.Tracer),
		events:     events,
		listener:   pubsub.NewContinuousListener[session.Event](ctx, events),
		ctx:        ctx,
		cancel:     cancel,
		diagrams:   diagram.NewCache(),
		clipboard:  clip,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.listener.Listen(), m.logs.Listen())
}

// Close cancels any running generation and releases the event broker.
func (m *Model) Close() error {
	if m.runCancel != nil {
		m.runCancel()
	}
	m.listener.Stop()
	m.cancel()
	m.events.Close()
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m = m.resize()
		m.logs = m.logs.SetSize(msg.Width, msg.Height)
		return m, nil

	case log.LogEvent:
		var cmd tea.Cmd
		m.logs, cmd = m.logs.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case pubsub.Event[session.Event]:
		return m.handleSessionEvent(msg.Payload)

	case runDoneMsg:
		if msg.err != nil && m.controller.Token() == msg.token {
			log.Debug(log.CatSession, "Run finished with error", "session", msg.token.ID, "error", msg.err)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatExport, "Export failed", msg.err, "action", msg.action)
			return m.showToast(msg.err.Error(), toaster.StyleError)
		}
		log.Info(log.CatExport, "Export finished", "action", msg.action, "detail", msg.message)
		return m.showToast(msg.message, toaster.StyleSuccess)

	case prefsSavedMsg:
		if msg.err != nil {
			log.Warn(log.CatConfig, "Failed to save preferences", "error", msg.err)
		}
		return m, nil

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case spinner.TickMsg:
		if !m.controller.Snapshot().Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	if m.focus == focusPrompt {
		m.prompt, cmd = m.prompt.Update(msg)
	}
	return m, cmd
}

// generate starts a new session for the current prompt, superseding any
// generation still in flight.
func (m Model) generate() (Model, tea.Cmd) {
	prompt := strings.TrimSpace(m.prompt.Value())
	if prompt == "" {
		return m, nil
	}

	if m.runCancel != nil {
		m.runCancel()
	}
	runCtx, runCancel := context.WithCancel(m.ctx)
	m.runCancel = runCancel

	tok := m.controller.Begin(prompt, m.complexity)
	m.diagrams.Reset()
	m.keys.SetExportEnabled(false)
	m.output.GotoTop()
	m = m.refreshOutput()

	runner, complexity := m.runner, m.complexity
	run := func() tea.Msg {
		return runDoneMsg{token: tok, err: runner.Run(runCtx, tok, prompt, complexity)}
	}
	return m, tea.Batch(run, m.spinner.Tick)
}

func (m Model) handleSessionEvent(ev session.Event) (tea.Model, tea.Cmd) {
	applied := m.controller.Apply(ev)
	if !applied {
		log.Debug(log.CatSession, "Dropped stale event", "session", ev.Token.ID, "kind", ev.Kind)
		return m, m.listener.Listen()
	}

	switch ev.Kind {
	case session.EventCompleted:
		m.keys.SetExportEnabled(true)
		snap := m.controller.Snapshot()
		res := m.diagrams.Build(snap.Final)
		log.Info(log.CatRender, "Workflow ready", "nodes", len(res.Nodes), "edges", len(res.Edges), "skipped", res.Skipped)
	case session.EventFailed:
		m.keys.SetExportEnabled(false)
	}
	m = m.refreshOutput()
	return m, m.listener.Listen()
}

func (m Model) setComplexity(c generator.Complexity) (Model, tea.Cmd) {
	if c == m.complexity {
		return m, nil
	}
	m.complexity = c
	return m, m.savePreferences()
}

func (m Model) toggleView() (Model, tea.Cmd) {
	if m.view == config.ViewVisual {
		return m.setView(config.ViewJSON)
	}
	return m.setView(config.ViewVisual)
}

func (m Model) setView(view string) (Model, tea.Cmd) {
	if view == m.view {
		return m, nil
	}
	m.view = view
	m.output.GotoTop()
	m = m.refreshOutput()
	return m, m.savePreferences()
}

func (m Model) savePreferences() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	path := m.configPath
	prefs := config.Preferences{Complexity: string(m.complexity), View: m.view}
	return func() tea.Msg {
		return prefsSavedMsg{err: config.SavePreferences(path, prefs)}
	}
}

func (m Model) setFocus(f focus) Model {
	m.focus = f
	if f == focusPrompt {
		m.prompt.Focus()
	} else {
		m.prompt.Blur()
	}
	return m
}

func (m Model) showToast(message string, style toaster.Style) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.toaster, cmd = m.toaster.Show(message, style, m.toastFor)
	return m, cmd
}
