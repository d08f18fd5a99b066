// Package events publishes authentication events for other services.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectUserCreated  = "auth.user.created"
	SubjectUserLoggedIn = "auth.user.login"
)

// UserEvent is the payload of every auth event.
type UserEvent struct {
	UserID string    `json:"user_id"`
	Email  string    `json:"email"`
	Flow   string    `json:"flow"`
	At     time.Time `json:"at"`
}

// Publisher delivers events. Delivery is best effort; callers log errors
// and carry on.
type Publisher interface {
	Publish(ctx context.Context, subject string, ev UserEvent) error
	Close()
}

// NATSPublisher publishes JSON events on a NATS connection it owns.
type NATSPublisher struct {
	nc *nats.Conn
}

// Connect dials url and returns a publisher owning the connection.
func Connect(url string) (*NATSPublisher, error) {
	nc, err := nats.Connect(url, nats.Name("skill-auth-service"))
	if err != nil {
		return nil, fmt.Errorf("events: connect nats: %w", err)
	}
	return &NATSPublisher{nc: nc}, nil
}

func (p *NATSPublisher) Publish(ctx context.Context, subject string, ev UserEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !p.nc.IsConnected() {
		return nats.ErrConnectionClosed
	}

	data, err := encode(ev)
	if err != nil {
		return err
	}
	return p.nc.Publish(subject, data)
}

// Close drains pending messages and closes the connection.
func (p *NATSPublisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		_ = p.nc.Drain()
	}
}

func encode(ev UserEvent) ([]byte, error) {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("events: marshal: %w", err)
	}
	return data, nil
}

// Nop drops every event.
type Nop struct{}

func (Nop) Publish(context.Context, string, UserEvent) error { return nil }
func (Nop) Close()                                           {}

var (
	_ Publisher = (*NATSPublisher)(nil)
	_ Publisher = Nop{}
)
