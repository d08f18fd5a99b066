package auth

import "time"

// Identity represents a normalized external authentication identity
// returned by an identity provider. It contains facts only, no decisions.
type Identity struct {
	Provider      string // e.g. "google", "keycloak"
	Subject       string // provider-scoped unique user identifier (sub)
	Email         string // email asserted by the provider
	Name          string // display name, may be empty
	EmailVerified bool   // whether provider asserts email ownership
}

// Principal is the identity attached to a request after its bearer
// token has been verified.
type Principal struct {
	UserID    string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}
