// Package sessiontest provides in-memory session stores for tests.
package sessiontest

import (
	"context"
	"sync"
	"time"

	"skill-auth-service/internal/session"
)

type Store struct {
	mu       sync.Mutex
	sessions map[string]session.Session
	upserts  int

	UpsertErr error
	DeleteErr error
}

func NewStore() *Store {
	return &Store{sessions: make(map[string]session.Session)}
}

func (s *Store) Upsert(ctx context.Context, sess session.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.UpsertErr != nil {
		return s.UpsertErr
	}
	sess.UpdatedAt = time.Now()
	s.sessions[sess.UserID] = sess
	s.upserts++
	return nil
}

func (s *Store) Get(ctx context.Context, userID string) (*session.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (s *Store) Delete(ctx context.Context, userID string, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DeleteErr != nil {
		return s.DeleteErr
	}
	if sess, ok := s.sessions[userID]; ok && sess.Token == token {
		delete(s.sessions, userID)
	}
	return nil
}

// Upserts returns how many upserts succeeded.
func (s *Store) Upserts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.upserts
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Denylist is an in-memory session.Denylist.
type Denylist struct {
	mu      sync.Mutex
	revoked map[string]time.Time

	Err error
}

func NewDenylist() *Denylist {
	return &Denylist{revoked: make(map[string]time.Time)}
}

func (d *Denylist) Revoke(ctx context.Context, tokenID string, until time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return d.Err
	}
	d.revoked[tokenID] = until
	return nil
}

func (d *Denylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.Err != nil {
		return false, d.Err
	}
	_, ok := d.revoked[tokenID]
	return ok, nil
}

var (
	_ session.Store    = (*Store)(nil)
	_ session.Denylist = (*Denylist)(nil)
)
