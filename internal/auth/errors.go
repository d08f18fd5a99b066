package auth

import "errors"

var (
	// ErrValidation is returned for missing or malformed caller input.
	ErrValidation = errors.New("validation failed")

	ErrDuplicateEmail = errors.New("email already exists")

	// ErrInvalidCredentials is identical for an unknown email and a
	// wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrEmailNotVerified = errors.New("email not verified")
	ErrInvalidAssertion = errors.New("invalid identity assertion")

	// ErrUnauthorized means no token was presented.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means a token was presented but could not be trusted.
	ErrForbidden = errors.New("forbidden")

	// ErrStore wraps failures of the backing user or session store.
	ErrStore = errors.New("store failure")
)
