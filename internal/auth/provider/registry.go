package provider

import (
	"fmt"

	"skill-auth-service/internal/auth"
)

// ErrUnknownProvider is returned for names no provider is registered under.
var ErrUnknownProvider = fmt.Errorf("%w: unknown identity provider", auth.ErrValidation)

// Registry holds all configured identity providers and allows
// lookup by provider name. It performs no auth logic itself.
type Registry struct {
	providers map[string]Verifier
}

// NewRegistry registers the given providers by name.
// Provider names must be unique.
func NewRegistry(list ...Verifier) *Registry {
	m := make(map[string]Verifier)
	for _, p := range list {
		m[p.Name()] = p
	}
	return &Registry{providers: m}
}

// Get returns the provider by name or ErrUnknownProvider if not registered.
func (r *Registry) Get(name string) (Verifier, error) {
	p, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownProvider, name)
	}
	return p, nil
}

// OAuth returns the provider by name if it supports the code flow.
func (r *Registry) OAuth(name string) (OAuthProvider, error) {
	p, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	op, ok := p.(OAuthProvider)
	if !ok {
		return nil, fmt.Errorf("%w: provider %q has no code flow", auth.ErrValidation, name)
	}
	if e, ok := p.(interface{ CodeFlowEnabled() bool }); ok && !e.CodeFlowEnabled() {
		return nil, fmt.Errorf("%w: provider %q has no code flow", auth.ErrValidation, name)
	}
	return op, nil
}
