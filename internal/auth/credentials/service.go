package credentials

import (
	"context"
	"errors"
	"fmt"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/user"
)

type Service struct {
	users  user.Store
	hasher *Hasher
}

func NewService(users user.Store, hasher *Hasher) *Service {
	return &Service{users: users, hasher: hasher}
}

// Registration is the input of Register. All fields are required.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Register creates a password user. The password is stored only as a
// bcrypt hash.
func (s *Service) Register(ctx context.Context, r Registration) (*user.User, error) {
	// 1. Reject taken emails before paying for a hash
	existing, err := s.users.FindByEmail(ctx, r.Email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrStore, err)
	}
	if existing != nil {
		return nil, auth.ErrDuplicateEmail
	}

	// 2. Hash password
	hash, err := s.hasher.Hash(r.Password)
	if err != nil {
		return nil, err
	}

	// 3. Insert, the unique constraint settles concurrent signups
	u := &user.User{
		Email:        r.Email,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, auth.ErrDuplicateEmail) {
			return nil, auth.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("%w: %w", auth.ErrStore, err)
	}

	return u, nil
}

// Authenticate returns the user matching email and password. Unknown
// emails, federated-only accounts and wrong passwords all yield
// auth.ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, email string, password string) (*user.User, error) {
	// 1. Find user
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", auth.ErrStore, err)
	}

	// hide whether user exists or not
	if u == nil || !u.HasPassword() {
		s.hasher.burn(password)
		return nil, auth.ErrInvalidCredentials
	}

	// 2. Verify password
	if err := s.hasher.Verify(u.PasswordHash, password); err != nil {
		return nil, auth.ErrInvalidCredentials
	}

	return u, nil
}
