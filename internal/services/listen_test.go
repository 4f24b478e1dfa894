package services

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/falak-club/apiserver/internal/mq"
	"github.com/stretchr/testify/require"
)

type fakeSubscriber struct {
	channel  string
	messages []mq.Message
	results  []error
	err      error
}

func (f *fakeSubscriber) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	if f.err != nil {
		return f.err
	}
	f.channel = channel
	for _, msg := range f.messages {
		f.results = append(f.results, handler(ctx, msg))
	}
	return nil
}

func TestListenerLogsPublishedNotification(t *testing.T) {
	publisher := &fakePublisher{}
	notifier := NewNotifier(publisher, "club.events", nil)
	notifier.MembershipChanged(context.Background(), "id-1", "approved")
	require.Len(t, publisher.payloads, 1)

	var logs bytes.Buffer
	subscriber := &fakeSubscriber{
		messages: []mq.Message{{ID: "msg-1", Data: publisher.payloads[0]}},
	}
	listener := NewListener(subscriber, "club.events", slog.New(slog.NewTextHandler(&logs, nil)))

	require.NoError(t, listener.Run(context.Background()))
	require.Equal(t, "club.events", subscriber.channel)
	require.Equal(t, []error{nil}, subscriber.results)
	require.Contains(t, logs.String(), "membership.status_changed")
	require.Contains(t, logs.String(), "id-1")
}

func TestListenerAcksMalformedNotification(t *testing.T) {
	var logs bytes.Buffer
	subscriber := &fakeSubscriber{
		messages: []mq.Message{{ID: "msg-1", Data: []byte("not json")}},
	}
	listener := NewListener(subscriber, "club.events", slog.New(slog.NewTextHandler(&logs, nil)))

	require.NoError(t, listener.Run(context.Background()))
	require.Equal(t, []error{nil}, subscriber.results)
	require.Contains(t, logs.String(), "dropping malformed notification")
}

func TestListenerSurfacesSubscriptionFailure(t *testing.T) {
	subscriber := &fakeSubscriber{err: errors.New("broker down")}
	listener := NewListener(subscriber, "club.events", slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))

	require.EqualError(t, listener.Run(context.Background()), "broker down")
}
