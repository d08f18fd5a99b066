package app

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"skill-auth-service/internal/auth/credentials"
	"skill-auth-service/internal/auth/flow"
	"skill-auth-service/internal/auth/handler"
	"skill-auth-service/internal/auth/provider"
	"skill-auth-service/internal/auth/provider/google"
	"skill-auth-service/internal/auth/provider/keycloak"
	"skill-auth-service/internal/auth/resolver"
	"skill-auth-service/internal/auth/token"
	"skill-auth-service/internal/config"
	"skill-auth-service/internal/events"
	"skill-auth-service/internal/logger"
	"skill-auth-service/internal/metrics"
	"skill-auth-service/internal/middleware"
	"skill-auth-service/internal/session"
	"skill-auth-service/internal/user"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {
	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	googleProvider, err := google.New(ctx, google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	})
	if err != nil {
		infra.Close()
		return nil, nil, err
	}
	providers := []provider.Verifier{googleProvider}

	kcCfg := keycloak.Config{
		Issuer:        cfg.KeycloakIssuer,
		ClientID:      cfg.KeycloakClientID,
		RedirectURL:   cfg.KeycloakRedirectURL,
		PublicBaseURL: cfg.KeycloakPublicBaseURL,
	}
	if kcCfg.Enabled() {
		keycloakProvider, err := keycloak.New(ctx, kcCfg)
		if err != nil {
			infra.Close()
			return nil, nil, err
		}
		providers = append(providers, keycloakProvider)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	router, err := newRouter(cfg, Deps{
		Users:     user.NewPostgresStore(infra.DB),
		Sessions:  sessionStore(cfg, infra),
		Denylist:  denylist(cfg, infra),
		Providers: provider.NewRegistry(providers...),
		Events:    infra.Events,
		Registry:  reg,
	})
	if err != nil {
		infra.Close()
		return nil, nil, err
	}

	return router, infra.Close, nil
}

func sessionStore(cfg config.Config, infra *Infra) session.Store {
	if cfg.SessionBackend == config.SessionBackendRedis {
		return session.NewRedisStore(infra.Redis.Client)
	}
	return session.NewPostgresStore(infra.DB)
}

func denylist(cfg config.Config, infra *Infra) session.Denylist {
	if !cfg.RevocationEnabled() || infra.Redis == nil {
		logger.Warn("token revocation disabled; logout cannot invalidate issued tokens", nil)
		return nil
	}
	return session.NewRedisDenylist(infra.Redis.Client)
}

// Deps are the stores and clients the router is built from.
type Deps struct {
	Users     user.Store
	Sessions  session.Store
	Denylist  session.Denylist
	Providers *provider.Registry
	Events    events.Publisher
	Registry  *prometheus.Registry
}

func newRouter(cfg config.Config, d Deps) (*gin.Engine, error) {
	tokens, err := token.New([]byte(cfg.JWTSecret), token.WithTTL(cfg.TokenTTL))
	if err != nil {
		return nil, err
	}

	recorder := metrics.NewCollector(d.Registry)

	flows := flow.NewService(flow.Deps{
		Credentials: credentials.NewService(d.Users, credentials.NewHasher(cfg.BcryptCost)),
		Resolver:    resolver.NewStoreResolver(d.Users),
		Providers:   d.Providers,
		Tokens:      tokens,
		Sessions:    d.Sessions,
		Denylist:    d.Denylist,
		Metrics:     recorder,
		Events:      d.Events,
	})

	authHandler := handler.NewHandler(flows, d.Providers, handler.CookieOptions{
		Secure:   cfg.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	authMiddleware := middleware.NewAuthMiddleware(tokens, d.Denylist, recorder)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSAllowedOrigin))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler(d.Registry)))

	api := router.Group("/api")

	public := api.Group("", middleware.NewRateLimiter(cfg.RateLimitPerMinute).Gin())
	authHandler.RegisterRoutes(public)

	protected := api.Group("", middleware.GinRequireAuth(authMiddleware))
	protected.GET("/me", authHandler.Me)

	for _, route := range router.Routes() {
		logger.Info("route registered", map[string]any{
			"method": route.Method,
			"path":   route.Path,
		})
	}

	return router, nil
}
