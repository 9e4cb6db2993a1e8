package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestPublishThenPoll(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	var got []Event
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "test-group",
		Consumer:      "test-consumer",
		BlockDuration: 10 * time.Millisecond,
		Handler: func(_ context.Context, e Event) error {
			got = append(got, e)
			return nil
		},
	})
	require.NoError(t, client.XGroupCreateMkStream(ctx, AccountEventsStream, "test-group", "0").Err())

	pub := NewPublisher(client, 0)
	require.NoError(t, pub.Publish(ctx, AccountEventsStream, AccountCreated, AccountCreatedEvent{ID: 1, Balance: "100", Type: "SAVINGS"}))
	require.NoError(t, pub.Publish(ctx, AccountEventsStream, AccountDeleted, AccountDeletedEvent{ID: 1}))

	n, err := sub.Poll(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, n)
	require.Len(t, got, 2)
	require.Equal(t, AccountCreated, got[0].Type)
	require.Equal(t, AccountDeleted, got[1].Type)

	data, ok := got[0].Data.(map[string]any)
	require.True(t, ok)
	require.Equal(t, "SAVINGS", data["type"])
}

func TestPollLeavesRejectedEventsPending(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "g",
		Consumer:      "c",
		BlockDuration: 10 * time.Millisecond,
		Handler:       func(context.Context, Event) error { return context.DeadlineExceeded },
	})
	require.NoError(t, client.XGroupCreateMkStream(ctx, AccountEventsStream, "g", "0").Err())
	require.NoError(t, NewPublisher(client, 0).Publish(ctx, AccountEventsStream, AccountUpdated, AccountUpdatedEvent{ID: 2}))

	n, err := sub.Poll(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	pending, err := client.XPending(ctx, AccountEventsStream, "g").Result()
	require.NoError(t, err)
	require.EqualValues(t, 1, pending.Count)
}

func TestRedeliverRetriesRejectedEvents(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	reject := true
	var accepted []Event
	sub := NewSubscriber(client, SubscriberConfig{
		Group:         "g",
		Consumer:      "c",
		BlockDuration: 10 * time.Millisecond,
		Handler: func(_ context.Context, e Event) error {
			if reject {
				return errors.New("downstream unavailable")
			}
			accepted = append(accepted, e)
			return nil
		},
	})
	require.NoError(t, client.XGroupCreateMkStream(ctx, AccountEventsStream, "g", "0").Err())
	require.NoError(t, NewPublisher(client, 0).Publish(ctx, AccountEventsStream, AccountDeleted, AccountDeletedEvent{ID: 4}))

	n, err := sub.Poll(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	// New reads never see the rejected entry again.
	reject = false
	n, err = sub.Poll(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	n, err = sub.Redeliver(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Len(t, accepted, 1)
	require.Equal(t, AccountDeleted, accepted[0].Type)

	pending, err := client.XPending(ctx, AccountEventsStream, "g").Result()
	require.NoError(t, err)
	require.Zero(t, pending.Count)

	n, err = sub.Redeliver(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestStartRetriesPendingAndStopsOnCancel(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	require.NoError(t, client.XGroupCreateMkStream(ctx, AccountEventsStream, "g", "0").Err())
	require.NoError(t, NewPublisher(client, 0).Publish(ctx, AccountEventsStream, AccountCreated, AccountCreatedEvent{ID: 9}))

	// Leave the event pending for consumer c, as a crashed run would.
	first := NewSubscriber(client, SubscriberConfig{
		Group:         "g",
		Consumer:      "c",
		BlockDuration: 10 * time.Millisecond,
		Handler:       func(context.Context, Event) error { return errors.New("crash") },
	})
	_, err := first.Poll(ctx)
	require.NoError(t, err)

	handled := make(chan Event, 1)
	restarted := NewSubscriber(client, SubscriberConfig{
		Group:         "g",
		Consumer:      "c",
		BlockDuration: 10 * time.Millisecond,
		Handler: func(_ context.Context, e Event) error {
			handled <- e
			return nil
		},
	})

	runCtx, cancel := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- restarted.Start(runCtx) }()

	select {
	case e := <-handled:
		require.Equal(t, AccountCreated, e.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("pending event was not redelivered")
	}

	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop after cancel")
	}
}

func TestNopPublisher(t *testing.T) {
	require.NoError(t, NopPublisher{}.Publish(context.Background(), AccountEventsStream, AccountCreated, nil))
}
