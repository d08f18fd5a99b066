package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"skill-auth-service/internal/auth/flow"
	"skill-auth-service/internal/logger"
)

// oauthLogin starts the authorization code flow with PKCE.
func (h *Handler) oauthLogin(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.OAuth(providerName)
	if err != nil {
		writeError(c, flow.FlowFederated, err)
		return
	}

	state, err := h.generateState(c)
	if err != nil {
		writeError(c, flow.FlowFederated, err)
		return
	}
	challenge := h.generatePKCE(c)

	c.Redirect(http.StatusFound, p.AuthCodeURL(state, challenge))
}

// oauthCallback finishes the code flow and logs the user in exactly like
// a posted federated assertion would.
func (h *Handler) oauthCallback(c *gin.Context) {
	providerName := c.Param("provider")

	p, err := h.providers.OAuth(providerName)
	if err != nil {
		writeError(c, flow.FlowFederated, err)
		return
	}

	if !h.validateState(c) {
		h.popPKCEVerifier(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid state"})
		return
	}

	if errParam := c.Query("error"); errParam != "" {
		h.popPKCEVerifier(c)
		logger.Warn("oidc callback returned error", map[string]any{
			"provider": providerName,
			"error":    errParam,
			"desc":     c.Query("error_description"),
		})
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication error"})
		return
	}

	code := c.Query("code")
	if code == "" {
		h.popPKCEVerifier(c)
		logger.Error("oidc callback missing code and error", map[string]any{
			"provider": providerName,
		})
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Missing authorization code"})
		return
	}

	codeVerifier := h.popPKCEVerifier(c)
	if codeVerifier == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing PKCE verifier"})
		return
	}

	identity, err := p.ExchangeCode(c.Request.Context(), code, codeVerifier)
	if err != nil {
		writeError(c, flow.FlowFederated, err)
		return
	}

	res, err := h.flows.CompleteFederated(c.Request.Context(), identity)
	if err != nil {
		writeError(c, flow.FlowFederated, err)
		return
	}

	logger.Info("oauth login completed", map[string]any{
		"provider": providerName,
		"user_id":  res.User.ID,
		"ip":       c.ClientIP(),
	})

	writeResult(c, res)
}
