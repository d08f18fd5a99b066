package keycloak

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"skill-auth-service/internal/auth/provider"
)

const providerName = "keycloak"

// Config for a Keycloak realm. Issuer must be the realm issuer URL, e.g.
// http://localhost:8081/realms/skill.
type Config struct {
	Issuer      string
	ClientID    string
	RedirectURL string
	// PublicBaseURL replaces the issuer host in the browser-facing
	// authorization URL when Keycloak is reached through a different
	// address internally.
	PublicBaseURL string
}

// Enabled reports whether enough is configured to build the provider.
func (c Config) Enabled() bool {
	return c.Issuer != "" && c.ClientID != ""
}

// New initializes a Keycloak OIDC provider using discovery.
func New(ctx context.Context, cfg Config) (*provider.OIDCProvider, error) {
	if !cfg.Enabled() {
		return nil, errors.New("keycloak oidc config missing issuer or client id")
	}

	oidcProvider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init keycloak oidc provider: %w", err)
	}

	verifier := oidcProvider.Verifier(&oidc.Config{
		ClientID: cfg.ClientID,
	})

	var oauthCfg *oauth2.Config
	if cfg.RedirectURL != "" {
		ep := oidcProvider.Endpoint()
		if cfg.PublicBaseURL != "" {
			ep.AuthURL, err = publicAuthURL(ep.AuthURL, cfg.PublicBaseURL)
			if err != nil {
				return nil, err
			}
		}

		// public client, PKCE replaces the secret
		oauthCfg = &oauth2.Config{
			ClientID:    cfg.ClientID,
			RedirectURL: cfg.RedirectURL,
			Endpoint:    ep,
			Scopes: []string{
				oidc.ScopeOpenID,
				"email",
				"profile",
			},
		}
	}

	return provider.NewOIDC(providerName, verifier, oauthCfg), nil
}

// publicAuthURL keeps the path of authURL and swaps in the public base.
func publicAuthURL(authURL string, publicBase string) (string, error) {
	u, err := url.Parse(authURL)
	if err != nil {
		return "", fmt.Errorf("keycloak auth url: %w", err)
	}
	return strings.TrimRight(publicBase, "/") + u.Path, nil
}
