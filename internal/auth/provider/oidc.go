package provider

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/logger"
)

// OIDCProvider verifies id_tokens for one issuer and audience. The code
// flow is available only when an oauth2 config is supplied.
type OIDCProvider struct {
	name        string
	verifier    *oidc.IDTokenVerifier
	oauthConfig *oauth2.Config
}

// NewOIDC wraps a verifier built for the expected audience. oauthCfg may
// be nil.
func NewOIDC(name string, verifier *oidc.IDTokenVerifier, oauthCfg *oauth2.Config) *OIDCProvider {
	return &OIDCProvider{
		name:        name,
		verifier:    verifier,
		oauthConfig: oauthCfg,
	}
}

// Name returns the provider identifier used by the registry.
func (p *OIDCProvider) Name() string {
	return p.name
}

// CodeFlowEnabled reports whether AuthCodeURL and ExchangeCode may be used.
func (p *OIDCProvider) CodeFlowEnabled() bool {
	return p.oauthConfig != nil
}

type idTokenClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	EmailVerified     bool   `json:"email_verified"`
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
}

func (p *OIDCProvider) VerifyAssertion(ctx context.Context, rawAssertion string) (*auth.Identity, error) {
	if rawAssertion == "" {
		return nil, fmt.Errorf("%w: empty assertion", auth.ErrInvalidAssertion)
	}

	idToken, err := p.verifier.Verify(ctx, rawAssertion)
	if err != nil {
		return nil, fmt.Errorf("%w: %s id_token verification failed: %v", auth.ErrInvalidAssertion, p.name, err)
	}

	var claims idTokenClaims
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("%w: %s id_token claims parse failed: %v", auth.ErrInvalidAssertion, p.name, err)
	}

	if claims.Subject == "" || claims.Email == "" {
		return nil, fmt.Errorf("%w: %s id_token missing required claims", auth.ErrInvalidAssertion, p.name)
	}

	name := claims.Name
	if name == "" {
		name = claims.PreferredUsername
	}

	logger.Info("oidc assertion verified", map[string]any{
		"provider":       p.name,
		"issuer":         idToken.Issuer,
		"email_verified": claims.EmailVerified,
		"expiry_unix":    idToken.Expiry.Unix(),
	})

	return &auth.Identity{
		Provider:      p.name,
		Subject:       claims.Subject,
		Email:         claims.Email,
		Name:          name,
		EmailVerified: claims.EmailVerified,
	}, nil
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *OIDCProvider) AuthCodeURL(state string, codeChallenge string) string {
	if p.oauthConfig == nil {
		return ""
	}
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

func (p *OIDCProvider) ExchangeCode(ctx context.Context, code string, codeVerifier string) (*auth.Identity, error) {
	if p.oauthConfig == nil {
		return nil, fmt.Errorf("%w: %s code flow is not configured", auth.ErrInvalidAssertion, p.name)
	}

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %s token exchange failed: %v", auth.ErrInvalidAssertion, p.name, err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, fmt.Errorf("%w: %s did not return id_token", auth.ErrInvalidAssertion, p.name)
	}

	return p.VerifyAssertion(ctx, rawIDToken)
}

var _ OAuthProvider = (*OIDCProvider)(nil)
