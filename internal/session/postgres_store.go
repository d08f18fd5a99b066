package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"skill-auth-service/internal/db"
)

// PostgresStore keeps sessions in the sessions table, keyed by user_id.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Upsert(ctx context.Context, s Session) error {
	if s.UserID == "" || s.Token == "" {
		return errors.New("session: missing user_id or token")
	}

	_, err := p.db.ExecContext(ctx, `
		INSERT INTO sessions (user_id, token, expires_at, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (user_id) DO UPDATE
		SET token = EXCLUDED.token,
		    expires_at = EXCLUDED.expires_at,
		    updated_at = NOW()
	`, s.UserID, s.Token, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("session: upsert: %w", err)
	}

	return nil
}

func (p *PostgresStore) Get(ctx context.Context, userID string) (*Session, error) {
	var s Session
	err := p.db.QueryRowContext(ctx, `
		SELECT user_id, token, expires_at, updated_at
		FROM sessions
		WHERE user_id = $1 AND expires_at > NOW()
	`, userID).Scan(&s.UserID, &s.Token, &s.ExpiresAt, &s.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: get: %w", err)
	}

	return &s, nil
}

func (p *PostgresStore) Delete(ctx context.Context, userID string, token string) error {
	_, err := p.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = $1 AND token = $2`, userID, token)
	if err != nil {
		return fmt.Errorf("session: delete: %w", err)
	}
	return nil
}

var _ Store = (*PostgresStore)(nil)
