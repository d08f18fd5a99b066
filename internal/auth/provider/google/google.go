package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"skill-auth-service/internal/auth/provider"
)

const (
	providerName = "google"
	issuer       = "https://accounts.google.com"
)

// Config identifies the application to Google. ClientID is the audience
// every assertion must carry. ClientSecret and RedirectURL enable the
// authorization code flow.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// New discovers Google's OIDC configuration and returns a provider that
// verifies id_tokens against Google's published keys.
func New(ctx context.Context, cfg Config) (*provider.OIDCProvider, error) {
	if cfg.ClientID == "" {
		return nil, errors.New("google oidc config missing client id")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	return provider.NewOIDC(providerName, verifier, oauthConfig(cfg, oidcProvider.Endpoint())), nil
}

func oauthConfig(cfg Config, endpoint oauth2.Endpoint) *oauth2.Config {
	if cfg.ClientSecret == "" || cfg.RedirectURL == "" {
		return nil
	}

	return &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		RedirectURL:  cfg.RedirectURL,
		Endpoint:     endpoint,
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}
}
