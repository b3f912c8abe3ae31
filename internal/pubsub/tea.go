package pubsub

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// ListenCmd creates a Bubble Tea command that waits for the next event on ch
// and returns it as a tea.Msg. Returns nil if ctx is cancelled or ch is closed.
func ListenCmd[T any](ctx context.Context, ch <-chan Event[T]) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			return event
		}
	}
}

// ContinuousListener keeps one broker subscription alive across Update calls.
// Each handled event must be followed by another Listen to keep receiving.
type ContinuousListener[T any] struct {
	ctx    context.Context
	cancel context.CancelFunc
	ch     <-chan Event[T]
}

// NewContinuousListener subscribes to broker. The subscription ends when ctx
// is cancelled or Stop is called.
func NewContinuousListener[T any](ctx context.Context, broker Subscriber[T]) *ContinuousListener[T] {
	ctx, cancel := context.WithCancel(ctx)
	return &ContinuousListener[T]{
		ctx:    ctx,
		cancel: cancel,
		ch:     broker.Subscribe(ctx),
	}
}

// Listen returns a tea.Cmd that waits for the next event.
func (l *ContinuousListener[T]) Listen() tea.Cmd {
	return ListenCmd(l.ctx, l.ch)
}

// Stop ends the subscription.
func (l *ContinuousListener[T]) Stop() {
	l.cancel()
}
