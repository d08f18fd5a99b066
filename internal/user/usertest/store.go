// Package usertest provides an in-memory user.Store for tests.
package usertest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/user"
)

type Store struct {
	mu      sync.Mutex
	byEmail map[string]user.User

	// FindErr and CreateErr, when set, are returned by the matching call.
	FindErr   error
	CreateErr error
	// BeforeCreate runs inside Create before the uniqueness check.
	BeforeCreate func(u *user.User)
}

func NewStore() *Store {
	return &Store{byEmail: make(map[string]user.User)}
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.FindErr != nil {
		return nil, s.FindErr
	}
	u, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *Store) Create(ctx context.Context, u *user.User) error {
	if s.BeforeCreate != nil {
		s.BeforeCreate(u)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.CreateErr != nil {
		return s.CreateErr
	}
	if _, ok := s.byEmail[u.Email]; ok {
		return auth.ErrDuplicateEmail
	}

	now := time.Now()
	u.ID = uuid.NewString()
	u.CreatedAt = now
	u.UpdatedAt = now
	s.byEmail[u.Email] = *u
	return nil
}

// Put inserts u directly, bypassing Create hooks and errors.
func (s *Store) Put(u user.User) user.User {
	s.mu.Lock()
	defer s.mu.Unlock()

	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	s.byEmail[u.Email] = u
	return u
}

// Count returns the number of users with email.
func (s *Store) Count(email string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[email]; ok {
		return 1
	}
	return 0
}

// Len returns the total number of users.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byEmail)
}

var _ user.Store = (*Store)(nil)
