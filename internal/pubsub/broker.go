package pubsub

import (
	"context"
	"sync"
	"time"
)

const defaultBufferSize = 64

// Broker is a generic pub/sub event broker.
// It allows multiple subscribers to receive events published by publishers.
//
// Publish is lossy (drops on a full subscriber buffer) and suits telemetry
// such as log lines. PublishWait is lossless and suits ordered streams such as
// generation fragments, where a dropped event would corrupt the consumer.
type Broker[T any] struct {
	subs       map[chan Event[T]]chan struct{} // subscriber channel -> its done signal
	mu         sync.RWMutex
	done       chan struct{}
	closeOnce  sync.Once
	bufferSize int
}

// NewBroker creates a new broker with the default buffer size (64).
func NewBroker[T any]() *Broker[T] {
	return NewBrokerWithBuffer[T](defaultBufferSize)
}

// NewBrokerWithBuffer creates a new broker with a custom buffer size.
func NewBrokerWithBuffer[T any](size int) *Broker[T] {
	return &Broker[T]{
		subs:       make(map[chan Event[T]]chan struct{}),
		done:       make(chan struct{}),
		bufferSize: size,
	}
}

// Subscribe creates a new subscription channel.
// The channel is automatically closed when ctx is cancelled.
func (b *Broker[T]) Subscribe(ctx context.Context) <-chan Event[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	select {
	case <-b.done:
		ch := make(chan Event[T])
		close(ch)
		return ch
	default:
	}

	sub := make(chan Event[T], b.bufferSize)
	subDone := make(chan struct{})
	b.subs[sub] = subDone

	go func() {
		select {
		case <-ctx.Done():
		case <-b.done:
			return // Close owns the channel now
		}

		// Unblock any PublishWait parked on this subscriber before taking the
		// write lock, otherwise the two would wait on each other.
		close(subDone)

		b.mu.Lock()
		defer b.mu.Unlock()

		select {
		case <-b.done:
			return
		default:
		}

		delete(b.subs, sub)
		close(sub)
	}()

	return sub
}

func (b *Broker[T]) event(eventType EventType, payload T) Event[T] {
	return Event[T]{
		Type:      eventType,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// Publish sends an event to all subscribers.
// Non-blocking: drops events if subscriber channel is full.
func (b *Broker[T]) Publish(eventType EventType, payload T) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return
	default:
	}

	event := b.event(eventType, payload)
	for sub := range b.subs {
		select {
		case sub <- event:
		default:
		}
	}
}

// PublishWait sends an event to all subscribers, blocking until each one has
// accepted it, unsubscribed, or ctx is done. Returns ctx.Err() if ctx ended
// before every subscriber was served and ErrClosed if the broker was closed.
func (b *Broker[T]) PublishWait(ctx context.Context, eventType EventType, payload T) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	select {
	case <-b.done:
		return ErrClosed
	default:
	}

	event := b.event(eventType, payload)
	for sub, subDone := range b.subs {
		select {
		case sub <- event:
		case <-subDone:
		case <-b.done:
			return ErrClosed
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Close shuts down the broker and all subscriber channels.
func (b *Broker[T]) Close() {
	first := false
	b.closeOnce.Do(func() {
		close(b.done)
		first = true
	})
	if !first {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	for sub := range b.subs {
		close(sub)
	}
	b.subs = nil
}

// SubscriberCount returns the number of active subscribers.
func (b *Broker[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
