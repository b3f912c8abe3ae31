package session

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/zjrosen/flowgen/internal/generator"
)

type stepClock struct {
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.now = c.now.Add(c.step)
	return c.now
}

func newTestController() *Controller {
	return NewController(&stepClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), step: time.Second})
}

func TestController_InitiallyIdle(t *testing.T) {
	c := newTestController()

	snap := c.Snapshot()
	require.Equal(t, Idle, snap.State)
	require.False(t, snap.Active())
	require.True(t, snap.Token.IsZero())
	require.Empty(t, c.DisplayText())

	_, err := c.Export()
	require.ErrorIs(t, err, ErrNotComplete)
}

func TestController_HappyPath(t *testing.T) {
	c := newTestController()
	tok := c.Begin("send Slack message on new row", generator.Simple)

	require.Equal(t, Streaming, c.State())
	require.NotEmpty(t, tok.ID)
	require.EqualValues(t, 1, tok.Seq)

	require.True(t, c.Append(tok, `{"nam`))
	require.True(t, c.Append(tok, `e":"X","nodes":[],"connections":{}}`))
	require.Equal(t, `{"name":"X","nodes":[],"connections":{}}`, c.DisplayText())

	_, err := c.Export()
	require.ErrorIs(t, err, ErrNotComplete, "export is unavailable while streaming")

	require.True(t, c.Complete(tok, `{"name":"X","nodes":[],"connections":{}}`))

	snap := c.Snapshot()
	require.Equal(t, Complete, snap.State)
	require.False(t, snap.Active())
	require.Equal(t, 2, snap.Fragments)
	require.Equal(t, time.Second, snap.Elapsed())
	require.Equal(t, generator.Simple, snap.Complexity)

	exp, err := c.Export()
	require.NoError(t, err)
	require.Equal(t, "X.json", exp.FileName)
	require.Equal(t, "{\n  \"name\": \"X\",\n  \"nodes\": [],\n  \"connections\": {}\n}", exp.Text)
}

func TestController_DisplayTextPrefersFinal(t *testing.T) {
	c := newTestController()
	tok := c.Begin("p", generator.Intermediate)
	c.Append(tok, "```json\n{}")
	c.Complete(tok, "{}")

	require.Equal(t, "{}", c.DisplayText())
}

func TestController_FailKeepsAccumulated(t *testing.T) {
	c := newTestController()
	tok := c.Begin("p", generator.Intermediate)
	c.Append(tok, `{"name": "partial`)

	require.True(t, c.Fail(tok, errors.New("failed to generate workflow: boom")))

	snap := c.Snapshot()
	require.Equal(t, Failed, snap.State)
	require.Equal(t, "failed to generate workflow: boom", snap.Error)
	require.Equal(t, `{"name": "partial`, snap.Accumulated)
	require.Empty(t, snap.Final)

	_, err := c.Export()
	require.ErrorIs(t, err, ErrNotComplete)
}

func TestController_NilFailureError(t *testing.T) {
	c := newTestController()
	tok := c.Begin("p", generator.Simple)
	require.True(t, c.Fail(tok, nil))
	require.Equal(t, "unknown error", c.Snapshot().Error)
}

func TestController_BeginClearsPreviousSession(t *testing.T) {
	c := newTestController()
	first := c.Begin("one", generator.Simple)
	c.Append(first, "abc")
	c.Fail(first, errors.New("boom"))

	second := c.Begin("two", generator.Advanced)
	require.Greater(t, second.Seq, first.Seq)
	require.NotEqual(t, first.ID, second.ID)

	snap := c.Snapshot()
	require.Equal(t, Streaming, snap.State)
	require.Empty(t, snap.Accumulated)
	require.Empty(t, snap.Error)
	require.Empty(t, snap.Final)
	require.Zero(t, snap.Fragments)
	require.Equal(t, "two", snap.Prompt)
}

func TestController_IgnoresStaleToken(t *testing.T) {
	c := newTestController()
	old := c.Begin("one", generator.Simple)
	cur := c.Begin("two", generator.Simple)

	require.False(t, c.Append(old, "late"))
	require.False(t, c.Complete(old, "{}"))
	require.False(t, c.Fail(old, errors.New("late")))

	snap := c.Snapshot()
	require.Equal(t, cur, snap.Token)
	require.Equal(t, Streaming, snap.State)
	require.Empty(t, snap.Accumulated)
}

func TestController_IgnoresZeroToken(t *testing.T) {
	c := newTestController()
	c.Begin("p", generator.Simple)
	require.False(t, c.Append(Token{}, "x"))
}

func TestController_FinalSetOnce(t *testing.T) {
	c := newTestController()
	tok := c.Begin("p", generator.Simple)

	require.True(t, c.Complete(tok, `{"a":1}`))
	require.False(t, c.Complete(tok, `{"a":2}`))
	require.False(t, c.Fail(tok, errors.New("late")))
	require.False(t, c.Append(tok, "more"))

	require.Equal(t, `{"a":1}`, c.Snapshot().Final)
	require.Equal(t, Complete, c.State())
}

func TestController_Apply(t *testing.T) {
	c := newTestController()
	tok := c.Begin("p", generator.Simple)

	require.True(t, c.Apply(Event{Token: tok, Kind: EventFragment, Fragment: "{}"}))
	require.True(t, c.Apply(Event{Token: tok, Kind: EventCompleted, Text: "{}"}))
	require.False(t, c.Apply(Event{Token: tok, Kind: EventKind(99)}))
	require.Equal(t, Complete, c.State())
}

func TestController_ExportUnnamedDocument(t *testing.T) {
	c := newTestController()
	tok := c.Begin("p", generator.Simple)
	c.Complete(tok, `{"nodes":[],"connections":{}}`)

	exp, err := c.Export()
	require.NoError(t, err)
	require.Equal(t, "workflow.json", exp.FileName)
}

// Only mutations carrying the latest token may change what is displayed,
// whatever the interleaving of sessions.
func TestController_StaleTokensNeverMutate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		c := NewController(nil)
		var tokens []Token
		var want string
		wantState := Idle

		steps := rapid.IntRange(1, 40).Draw(t, "steps")
		for i := 0; i < steps; i++ {
			switch op := rapid.IntRange(0, 3).Draw(t, "op"); {
			case op == 0 || len(tokens) == 0:
				tokens = append(tokens, c.Begin("p", generator.Simple))
				want, wantState = "", Streaming
			default:
				tok := rapid.SampledFrom(tokens).Draw(t, "token")
				latest := tok == tokens[len(tokens)-1]
				frag := rapid.StringMatching(`[a-z{}":]{1,5}`).Draw(t, "fragment")

				var applied bool
				switch op {
				case 1:
					applied = c.Append(tok, frag)
					if latest && wantState == Streaming {
						want += frag
					}
				case 2:
					applied = c.Complete(tok, frag)
					if latest && wantState == Streaming {
						want, wantState = frag, Complete
					}
				case 3:
					applied = c.Fail(tok, errors.New(frag))
					if latest && wantState == Streaming {
						wantState = Failed
					}
				}
				if applied && !latest {
					t.Fatalf("stale token %v was applied", tok)
				}
			}

			if got := c.State(); got != wantState {
				t.Fatalf("state = %v, want %v", got, wantState)
			}
			if got := c.DisplayText(); got != want {
				t.Fatalf("display = %q, want %q", got, want)
			}
		}
	})
}
