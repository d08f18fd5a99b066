package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore creates a Redis-backed session store. Keys expire with
// the session.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "session:user:",
		now:    time.Now,
	}
}

func (r *RedisStore) key(userID string) string {
	return r.prefix + userID
}

func (r *RedisStore) Upsert(ctx context.Context, s Session) error {
	if s.UserID == "" || s.Token == "" {
		return errors.New("session: missing user_id or token")
	}

	ttl := s.ExpiresAt.Sub(r.now())
	if ttl <= 0 {
		return errors.New("session: expires_at must be in the future")
	}

	if s.UpdatedAt.IsZero() {
		s.UpdatedAt = r.now()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session: failed to marshal: %w", err)
	}

	return r.client.Set(ctx, r.key(s.UserID), data, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, userID string) (*Session, error) {
	val, err := r.client.Get(ctx, r.key(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s Session
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, fmt.Errorf("session: failed to unmarshal: %w", err)
	}

	return &s, nil
}

func (r *RedisStore) Delete(ctx context.Context, userID string, token string) error {
	key := r.key(userID)

	// WATCH aborts the delete if a concurrent login rewrites the key
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return nil
		}
		if err != nil {
			return err
		}

		var s Session
		if err := json.Unmarshal(val, &s); err != nil {
			return fmt.Errorf("session: failed to unmarshal: %w", err)
		}
		if s.Token != token {
			return nil
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, key)
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		// the session changed underneath us, so it is no longer token's
		return nil
	}
	return err
}

var _ Store = (*RedisStore)(nil)
