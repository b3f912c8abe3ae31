package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenCmd_ReceivesEvent(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := broker.Subscribe(ctx)
	broker.Publish(UpdatedEvent, "hello world")

	msg := ListenCmd(ctx, ch)()

	event, ok := msg.(Event[string])
	require.True(t, ok, "msg should be Event[string]")
	require.Equal(t, "hello world", event.Payload)
	require.Equal(t, UpdatedEvent, event.Type)
}

func TestListenCmd_ContextCancelled(t *testing.T) {
	broker := NewBroker[string]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	ch := broker.Subscribe(ctx)

	cancel()
	time.Sleep(20 * time.Millisecond)

	require.Nil(t, ListenCmd(ctx, ch)(), "should return nil when context cancelled")
}

func TestListenCmd_ChannelClosed(t *testing.T) {
	ch := make(chan Event[string])
	close(ch)

	require.Nil(t, ListenCmd(context.Background(), ch)(), "should return nil when channel closed")
}

func TestContinuousListener_PreservesOrder(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	listener := NewContinuousListener[int](context.Background(), broker)
	defer listener.Stop()

	ctx := context.Background()
	require.NoError(t, broker.PublishWait(ctx, CreatedEvent, 1))
	require.NoError(t, broker.PublishWait(ctx, UpdatedEvent, 2))
	require.NoError(t, broker.PublishWait(ctx, CompletedEvent, 3))

	for i, want := range []EventType{CreatedEvent, UpdatedEvent, CompletedEvent} {
		event, ok := listener.Listen()().(Event[int])
		require.True(t, ok, "msg %d should be Event[int]", i)
		require.Equal(t, i+1, event.Payload)
		require.Equal(t, want, event.Type)
	}
}

func TestContinuousListener_Stop(t *testing.T) {
	broker := NewBroker[int]()
	defer broker.Close()

	listener := NewContinuousListener[int](context.Background(), broker)
	require.Equal(t, 1, broker.SubscriberCount())

	listener.Stop()
	require.Eventually(t, func() bool { return broker.SubscriberCount() == 0 }, time.Second, 5*time.Millisecond)
	require.Nil(t, listener.Listen()())
}
