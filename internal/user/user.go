package user

import (
	"context"
	"time"
)

// User is a registered identity. PasswordHash is empty for accounts
// created through federated login.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// HasPassword reports whether the user can sign in with a password.
func (u *User) HasPassword() bool {
	return u.PasswordHash != ""
}

// Store persists users. Email equality is exact.
type Store interface {
	// FindByEmail returns nil, nil when no user has the email.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// Create inserts u and fills in ID and timestamps. A duplicate email
	// yields auth.ErrDuplicateEmail.
	Create(ctx context.Context, u *User) error
}
