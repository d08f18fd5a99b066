package resolver

import (
	"context"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/user"
)

// Resolver determines which internal user a verified external identity
// belongs to. It is the ONLY place where identity-to-user mapping logic lives.
type Resolver interface {
	// Resolve returns the user for identity, creating one when none
	// exists. created reports whether a user was inserted.
	Resolve(ctx context.Context, identity *auth.Identity) (u *user.User, created bool, err error)
}
