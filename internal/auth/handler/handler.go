package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/auth/flow"
	"skill-auth-service/internal/auth/provider"
	"skill-auth-service/internal/logger"
	"skill-auth-service/internal/middleware"
	"skill-auth-service/internal/user"
)

// Flows is the authentication surface the handlers drive.
type Flows interface {
	Signup(ctx context.Context, in flow.SignupInput) (*user.User, error)
	Login(ctx context.Context, in flow.LoginInput) (*flow.Result, error)
	FederatedLogin(ctx context.Context, providerName string, rawAssertion string) (*flow.Result, error)
	CompleteFederated(ctx context.Context, identity *auth.Identity) (*flow.Result, error)
	Logout(ctx context.Context, rawToken string) error
}

type Handler struct {
	flows     Flows
	providers *provider.Registry
	cookies   CookieOptions
}

func NewHandler(flows Flows, registry *provider.Registry, cookies CookieOptions) *Handler {
	return &Handler{
		flows:     flows,
		providers: registry,
		cookies:   cookies,
	}
}

// RegisterRoutes mounts the public authentication routes on r.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/signup", h.Signup)
	r.POST("/login", h.Login)
	r.POST("/federated-login", h.FederatedLogin)
	r.POST("/google-login", h.FederatedLogin)
	r.POST("/logout", h.Logout)

	r.GET("/oauth/login/:provider", h.oauthLogin)
	r.GET("/oauth/callback/:provider", h.oauthCallback)
}

// Me returns the authenticated caller. It must sit behind
// middleware.GinRequireAuth.
func (h *Handler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString(middleware.ContextUserID),
		"email": c.GetString(middleware.ContextEmail),
	})
}

// Logout tears down the session of the presented token, if any.
func (h *Handler) Logout(c *gin.Context) {
	raw := c.GetHeader("Authorization")
	if err := h.flows.Logout(c.Request.Context(), middleware.BearerToken(raw)); err != nil {
		writeError(c, flow.FlowLogout, err)
		return
	}

	logger.Info("logout handled", map[string]any{
		"ip": c.ClientIP(),
	})

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func writeResult(c *gin.Context, res *flow.Result) {
	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"message": res.Message,
		"token":   res.Token,
	})
}
