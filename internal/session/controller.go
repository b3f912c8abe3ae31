package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zjrosen/flowgen/internal/generator"
	"github.com/zjrosen/flowgen/internal/log"
	"github.com/zjrosen/flowgen/internal/workflow"
)

// ErrNotComplete is returned by Export unless the session completed.
var ErrNotComplete = errors.New("no completed workflow to export")

// Snapshot is a copy of the controller state.
type Snapshot struct {
	Token       Token
	State       State
	Prompt      string
	Complexity  generator.Complexity
	Accumulated string
	Final       string
	Error       string
	Fragments   int
	StartedAt   time.Time
	FinishedAt  time.Time
}

// Active reports whether a generation is in flight.
func (s Snapshot) Active() bool {
	return s.State == Streaming
}

// Elapsed returns the generation time, or zero while streaming.
func (s Snapshot) Elapsed() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}
	return s.FinishedAt.Sub(s.StartedAt)
}

// Export is the formatted final document and its download name.
type Export struct {
	Text     string
	FileName string
}

// Controller holds the state of the latest generate action. Every mutation
// carries the Token returned by Begin; mutations with any other token belong
// to a superseded session and are ignored.
type Controller struct {
	mu    sync.Mutex
	clock Clock

	seq        uint64
	token      Token
	state      State
	prompt     string
	complexity generator.Complexity
	acc        strings.Builder
	final      string
	errMsg     string
	fragments  int
	startedAt  time.Time
	finishedAt time.Time
}

// NewController creates an idle controller. A nil clock uses RealClock.
func NewController(clock Clock) *Controller {
	if clock == nil {
		clock = RealClock{}
	}
	return &Controller{clock: clock}
}

// Begin starts a new session, abandoning whatever came before it. The prior
// final text, error and accumulated text are cleared before it returns.
func (c *Controller) Begin(prompt string, complexity generator.Complexity) Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	prev := c.token
	c.seq++
	c.token = Token{Seq: c.seq, ID: uuid.NewString()}
	c.state = Streaming
	c.prompt = prompt
	c.complexity = complexity
	c.acc.Reset()
	c.final = ""
	c.errMsg = ""
	c.fragments = 0
	c.startedAt = c.clock.Now()
	c.finishedAt = time.Time{}

	if !prev.IsZero() {
		log.Debug(log.CatSession, "Session superseded", "previous", prev.ID, "next", c.token.ID)
	}
	log.Info(log.CatSession, "Session started", "session", c.token.ID, "seq", c.token.Seq, "complexity", complexity)
	return c.token
}

func (c *Controller) current(tok Token) bool {
	return !tok.IsZero() && tok == c.token && c.state == Streaming
}

// Append adds a fragment to the accumulated text. Returns false if tok is
// stale or the session is no longer streaming.
func (c *Controller) Append(tok Token, fragment string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(tok) {
		log.Debug(log.CatSession, "Dropped stale fragment", "session", tok.ID, "bytes", len(fragment))
		return false
	}
	c.acc.WriteString(fragment)
	c.fragments++
	return true
}

// Complete stores text as the final document.
func (c *Controller) Complete(tok Token, text string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(tok) {
		log.Debug(log.CatSession, "Dropped stale completion", "session", tok.ID)
		return false
	}
	c.final = text
	c.state = Complete
	c.finishedAt = c.clock.Now()
	log.Info(log.CatSession, "Session complete", "session", tok.ID, "fragments", c.fragments, "bytes", len(text))
	return true
}

// Fail records err's message. The accumulated text is left as it was.
func (c *Controller) Fail(tok Token, err error) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.current(tok) {
		log.Debug(log.CatSession, "Dropped stale failure", "session", tok.ID)
		return false
	}
	c.errMsg = "unknown error"
	if err != nil {
		c.errMsg = err.Error()
	}
	c.state = Failed
	c.finishedAt = c.clock.Now()
	log.Warn(log.CatSession, "Session failed", "session", tok.ID, "error", c.errMsg)
	return true
}

// Apply routes a runner event to Append, Complete or Fail.
func (c *Controller) Apply(ev Event) bool {
	switch ev.Kind {
	case EventFragment:
		return c.Append(ev.Token, ev.Fragment)
	case EventCompleted:
		return c.Complete(ev.Token, ev.Text)
	case EventFailed:
		return c.Fail(ev.Token, ev.Err)
	default:
		return false
	}
}

// Token returns the active token, zero before the first Begin.
func (c *Controller) Token() Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		Token:       c.token,
		State:       c.state,
		Prompt:      c.prompt,
		Complexity:  c.complexity,
		Accumulated: c.acc.String(),
		Final:       c.final,
		Error:       c.errMsg,
		Fragments:   c.fragments,
		StartedAt:   c.startedAt,
		FinishedAt:  c.finishedAt,
	}
}

// DisplayText is the text the renderer should draw: the final document once
// complete, otherwise whatever has been accumulated.
func (c *Controller) DisplayText() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == Complete {
		return c.final
	}
	return c.acc.String()
}

// Export returns the final document re-serialized with 2-space indentation
// and the file name derived from its name field.
func (c *Controller) Export() (Export, error) {
	c.mu.Lock()
	final, state := c.final, c.state
	c.mu.Unlock()

	if state != Complete {
		return Export{}, ErrNotComplete
	}
	text, err := workflow.Format(final)
	if err != nil {
		return Export{}, err
	}
	return Export{Text: text, FileName: workflow.FileName(final)}, nil
}
