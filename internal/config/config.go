package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"skill-auth-service/internal/auth/token"
)

// Session store backends.
const (
	SessionBackendPostgres = "postgres"
	SessionBackendRedis    = "redis"
)

type Config struct {
	AppPort string

	JWTSecret string
	TokenTTL  time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	KeycloakIssuer        string
	KeycloakClientID      string
	KeycloakRedirectURL   string
	KeycloakPublicBaseURL string

	RedisAddr     string
	RedisPassword string

	DatabaseDSN string

	SessionBackend  string
	TokenRevocation bool

	NATSURL string

	CORSAllowedOrigin  string
	RateLimitPerMinute int
	BcryptCost         int
	CookieSecure       bool
}

// Load reads .env when present, then the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("config: load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (Config, error) {
	var errs []error

	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}
	required := func(key string) string {
		v := get(key, "")
		if v == "" {
			errs = append(errs, fmt.Errorf("%s is required", key))
		}
		return v
	}
	duration := func(key string, def time.Duration) time.Duration {
		v := get(key, "")
		if v == "" {
			return def
		}
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, v))
			return def
		}
		return d
	}
	integer := func(key string, def int) int {
		v := get(key, "")
		if v == "" {
			return def
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
			return def
		}
		return n
	}
	boolean := func(key string, def bool) bool {
		v := get(key, "")
		if v == "" {
			return def
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: invalid boolean %q", key, v))
			return def
		}
		return b
	}

	cfg := Config{
		AppPort: get("APP_PORT", "5000"),

		JWTSecret: required("JWT_SECRET"),
		TokenTTL:  duration("TOKEN_TTL", token.DefaultTTL),

		GoogleClientID:     required("GOOGLE_CLIENT_ID"),
		GoogleClientSecret: get("GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  get("GOOGLE_REDIRECT_URL", ""),

		KeycloakIssuer:        get("KEYCLOAK_ISSUER", ""),
		KeycloakClientID:      get("KEYCLOAK_CLIENT_ID", ""),
		KeycloakRedirectURL:   get("KEYCLOAK_REDIRECT_URL", ""),
		KeycloakPublicBaseURL: get("KEYCLOAK_PUBLIC_BASE_URL", ""),

		RedisAddr:     get("REDIS_ADDR", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),

		DatabaseDSN: required("DATABASE_DSN"),

		SessionBackend:  strings.ToLower(get("SESSION_BACKEND", SessionBackendPostgres)),
		TokenRevocation: boolean("TOKEN_REVOCATION", true),

		NATSURL: get("NATS_URL", ""),

		CORSAllowedOrigin:  get("CORS_ALLOWED_ORIGIN", "http://localhost:5173"),
		RateLimitPerMinute: integer("RATE_LIMIT_PER_MINUTE", 30),
		BcryptCost:         integer("BCRYPT_COST", bcrypt.DefaultCost),
		CookieSecure:       boolean("COOKIE_SECURE", true),
	}

	if cfg.JWTSecret != "" && len(cfg.JWTSecret) < token.MinSecretLength {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", token.MinSecretLength))
	}

	if cfg.DatabaseDSN != "" {
		if err := checkDatabaseURL(cfg.DatabaseDSN); err != nil {
			errs = append(errs, err)
		}
	}

	switch cfg.SessionBackend {
	case SessionBackendPostgres:
	case SessionBackendRedis:
		if cfg.RedisAddr == "" {
			errs = append(errs, errors.New("SESSION_BACKEND=redis requires REDIS_ADDR"))
		}
	default:
		errs = append(errs, fmt.Errorf("SESSION_BACKEND: unknown backend %q", cfg.SessionBackend))
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// checkDatabaseURL requires the postgres:// URL form; migrations cannot
// use keyword/value DSNs.
func checkDatabaseURL(dsn string) error {
	u, err := url.Parse(dsn)
	if err != nil || (u.Scheme != "postgres" && u.Scheme != "postgresql") || u.Host == "" {
		return errors.New("DATABASE_DSN must be a postgres:// URL")
	}
	return nil
}

// RevocationEnabled reports whether logout revokes tokens in Redis.
func (c Config) RevocationEnabled() bool {
	return c.TokenRevocation && c.RedisAddr != ""
}
