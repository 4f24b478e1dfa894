package services

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/falak-club/apiserver/internal/mq"
)

// Subscriber consumes messages from a named channel. Satisfied by *mq.MQ.
type Subscriber interface {
	Subscribe(ctx context.Context, channel string, handler mq.Handler) error
}

// Listener is the consuming counterpart of Notifier. It drains club
// notifications from the broker and logs them, and runs in its own
// process so the API server itself stays free of background work.
type Listener struct {
	subscriber Subscriber
	channel    string
	logger     *slog.Logger
}

func NewListener(subscriber Subscriber, channel string, logger *slog.Logger) *Listener {
	if logger == nil {
		logger = slog.Default()
	}
	return &Listener{
		subscriber: subscriber,
		channel:    channel,
		logger:     logger,
	}
}

// Run blocks consuming notifications until ctx is cancelled or the
// subscription fails.
func (l *Listener) Run(ctx context.Context) error {
	l.logger.Info("listening for club notifications", "channel", l.channel)
	return l.subscriber.Subscribe(ctx, l.channel, l.handle)
}

func (l *Listener) handle(ctx context.Context, msg mq.Message) error {
	var note notification
	if err := json.Unmarshal(msg.Data, &note); err != nil {
		// Returning the error would requeue a message that can never
		// decode; log it and move on instead.
		l.logger.Warn("dropping malformed notification", "id", msg.ID, "error", err)
		return nil
	}

	l.logger.Info("club notification",
		"kind", note.Kind,
		"occurred_at", note.OccurredAt,
		"payload", note.Payload,
	)
	return nil
}
