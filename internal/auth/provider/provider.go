package provider

import (
	"context"

	"skill-auth-service/internal/auth"
)

// Verifier validates a raw identity assertion (an OIDC id_token) issued
// by an external provider. Implementations return identity facts only
// and must not create users or sessions.
type Verifier interface {
	// Name returns the provider identifier (e.g. "google", "keycloak").
	Name() string

	// VerifyAssertion checks signature, issuer, audience and expiry
	// before trusting any claim. Failures wrap auth.ErrInvalidAssertion.
	VerifyAssertion(ctx context.Context, rawAssertion string) (*auth.Identity, error)
}

// OAuthProvider is a Verifier that can also drive the authorization code
// flow.
type OAuthProvider interface {
	Verifier

	// AuthCodeURL returns the OAuth authorization URL.
	// State and PKCE parameters are provided by the caller.
	AuthCodeURL(state string, codeChallenge string) string

	// ExchangeCode exchanges the authorization code and verifies the
	// returned id_token like VerifyAssertion.
	ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error)
}
