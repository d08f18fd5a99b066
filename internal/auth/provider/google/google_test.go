package google

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/oauth2"
)

func TestNew_RequiresClientID(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestOAuthConfig(t *testing.T) {
	ep := oauth2.Endpoint{AuthURL: "https://example.test/auth", TokenURL: "https://example.test/token"}

	assert.Nil(t, oauthConfig(Config{ClientID: "id"}, ep), "code flow needs secret and redirect")
	assert.Nil(t, oauthConfig(Config{ClientID: "id", ClientSecret: "s"}, ep))

	cfg := oauthConfig(Config{ClientID: "id", ClientSecret: "s", RedirectURL: "http://localhost/cb"}, ep)
	if assert.NotNil(t, cfg) {
		assert.Equal(t, "id", cfg.ClientID)
		assert.Equal(t, ep, cfg.Endpoint)
		assert.Contains(t, cfg.Scopes, "email")
	}
}
