package mq

import "context"

// Message is one delivery from the broker. The server publishes club
// notifications as Data with the notification kind mirrored in
// Attributes.
type Message struct {
	ID         string
	Data       []byte
	Attributes map[string]string
}

// Handler processes one delivery. A non-nil error requeues the message
// for another attempt; return nil to acknowledge it.
type Handler func(ctx context.Context, msg Message) error

// Backend defines the broker operations the club needs: the server
// publishes, the notifications command subscribes.
type Backend interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
	Subscribe(ctx context.Context, channel string, handler Handler) error
	Close() error
}

// MQ wraps a backend with a stable API.
type MQ struct {
	backend Backend
}

// New constructs an MQ wrapper for the provided backend.
func New(backend Backend) *MQ {
	return &MQ{backend: backend}
}

// Publish sends a message to the named channel.
func (m *MQ) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	return m.backend.Publish(ctx, channel, data, attrs)
}

// Subscribe delivers messages from the named channel to handler until
// ctx ends or the subscription fails.
func (m *MQ) Subscribe(ctx context.Context, channel string, handler Handler) error {
	return m.backend.Subscribe(ctx, channel, handler)
}

// Close closes the underlying backend.
func (m *MQ) Close() error {
	return m.backend.Close()
}
