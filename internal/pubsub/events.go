// Package pubsub provides a generic publish/subscribe event system used to
// carry log lines and generation progress into the Bubble Tea update loop.
package pubsub

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by PublishWait once the broker has been closed.
var ErrClosed = errors.New("pubsub: broker closed")

// EventType represents the type of event being published.
type EventType string

const (
	CreatedEvent   EventType = "created"
	UpdatedEvent   EventType = "updated"
	CompletedEvent EventType = "completed"
	FailedEvent    EventType = "failed"
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
	PublishWait(ctx context.Context, eventType EventType, payload T) error
}
