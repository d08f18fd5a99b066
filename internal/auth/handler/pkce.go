package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/oauth2"
)

const (
	pkceCookieName = "__oauth_pkce"
	pkceTTL        = 5 * time.Minute
)

// generatePKCE stores a fresh verifier in a cookie and returns its S256
// challenge.
func (h *Handler) generatePKCE(c *gin.Context) (challenge string) {
	verifier := oauth2.GenerateVerifier()
	h.cookies.set(c, pkceCookieName, verifier, pkceTTL)
	return oauth2.S256ChallengeFromVerifier(verifier)
}

func (h *Handler) popPKCEVerifier(c *gin.Context) string {
	v := readCookie(c, pkceCookieName)
	h.cookies.clear(c, pkceCookieName)
	return v
}
