package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/db"
)

const uniqueViolation = pq.ErrorCode("23505")

// PostgresStore is the users table backed Store.
type PostgresStore struct {
	db *db.DB
}

func NewPostgresStore(db *db.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	var (
		u    User
		hash sql.NullString
	)

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, first_name, last_name, password_hash, created_at, updated_at
		FROM users
		WHERE email = $1
	`, email).Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &hash, &u.CreatedAt, &u.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("user: find by email: %w", err)
	}

	u.PasswordHash = hash.String
	return &u, nil
}

func (s *PostgresStore) Create(ctx context.Context, u *User) error {
	if u == nil {
		return errors.New("user: nil user")
	}

	hash := sql.NullString{String: u.PasswordHash, Valid: u.PasswordHash != ""}

	err := s.db.QueryRowContext(ctx, `
		INSERT INTO users (email, first_name, last_name, password_hash)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`, u.Email, u.FirstName, u.LastName, hash).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return auth.ErrDuplicateEmail
		}
		return fmt.Errorf("user: insert: %w", err)
	}

	return nil
}

var _ Store = (*PostgresStore)(nil)
