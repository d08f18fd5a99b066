package resolver

import (
	"context"
	"errors"
	"fmt"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/user"
)

// StoreResolver links identities to users by verified email.
type StoreResolver struct {
	users user.Store
}

func NewStoreResolver(users user.Store) *StoreResolver {
	return &StoreResolver{users: users}
}

func (r *StoreResolver) Resolve(ctx context.Context, identity *auth.Identity) (*user.User, bool, error) {
	if identity == nil {
		return nil, false, errors.New("identity is nil")
	}
	if !identity.EmailVerified {
		return nil, false, auth.ErrEmailNotVerified
	}

	// 1. Existing user with this email
	u, err := r.users.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", auth.ErrStore, err)
	}
	if u != nil {
		return u, false, nil
	}

	// 2. Create new user, no password
	u = &user.User{
		Email:     identity.Email,
		FirstName: identity.Name,
	}
	err = r.users.Create(ctx, u)
	if err == nil {
		return u, true, nil
	}
	if !errors.Is(err, auth.ErrDuplicateEmail) {
		return nil, false, fmt.Errorf("%w: %w", auth.ErrStore, err)
	}

	// 3. Lost a race with a concurrent first login, use the winner
	u, err = r.users.FindByEmail(ctx, identity.Email)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", auth.ErrStore, err)
	}
	if u == nil {
		return nil, false, fmt.Errorf("%w: user vanished after duplicate insert", auth.ErrStore)
	}
	return u, false, nil
}

var _ Resolver = (*StoreResolver)(nil)
