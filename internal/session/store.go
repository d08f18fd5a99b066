package session

import (
	"context"
	"time"
)

// Session records the most recently issued token for a user.
// It is bookkeeping only; authorization never reads it.
type Session struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store keeps at most one session per user.
type Store interface {
	// Upsert creates the user's session or overwrites the existing one.
	Upsert(ctx context.Context, s Session) error
	// Get returns nil, nil when the user has no live session.
	Get(ctx context.Context, userID string) (*Session, error)
	// Delete removes the user's session only while it still holds token.
	// A session already overwritten by a newer login is left alone.
	Delete(ctx context.Context, userID string, token string) error
}
