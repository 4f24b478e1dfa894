package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

// Publisher sends a payload to a named channel. Satisfied by *mq.MQ.
type Publisher interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// Notifier publishes club notifications for downstream consumers (mail
// digests, Discord bots). Publishing is strictly best effort and happens
// inline with the request: a broker failure is logged and dropped, never
// retried, and never fails the triggering operation. A nil Notifier is
// valid and publishes nothing.
type Notifier struct {
	publisher Publisher
	channel   string
	logger    *slog.Logger
}

func NewNotifier(publisher Publisher, channel string, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		publisher: publisher,
		channel:   channel,
		logger:    logger,
	}
}

type notification struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

func (n *Notifier) publish(ctx context.Context, kind string, payload any) {
	if n == nil || n.publisher == nil {
		return
	}

	data, err := json.Marshal(notification{
		Kind:       kind,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	})
	if err != nil {
		n.logger.Error("encode notification failed", "kind", kind, "error", err)
		return
	}

	if _, err := n.publisher.Publish(ctx, n.channel, data, map[string]string{"kind": kind}); err != nil {
		n.logger.Error("publish notification failed", "kind", kind, "error", err)
	}
}

// MembershipChanged announces a user status transition.
func (n *Notifier) MembershipChanged(ctx context.Context, userID string, status string) {
	n.publish(ctx, "membership.status_changed", map[string]string{
		"user_id": userID,
		"status":  status,
	})
}

// ProjectStatusChanged announces a project review decision.
func (n *Notifier) ProjectStatusChanged(ctx context.Context, projectID int, status string) {
	n.publish(ctx, "project.status_changed", map[string]any{
		"project_id": projectID,
		"status":     status,
	})
}
