package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/auth/token"
	"skill-auth-service/internal/logger"
	"skill-auth-service/internal/metrics"
	"skill-auth-service/internal/session"
)

// unexported, collision-proof context key
type principalContextKeyType struct{}

var principalKey = principalContextKeyType{}

// PrincipalFromContext extracts the authenticated caller from context.
func PrincipalFromContext(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}

// AuthMiddleware accepts a request on the strength of its bearer token
// alone. The session store is never consulted.
type AuthMiddleware struct {
	tokens   *token.Service
	denylist session.Denylist
	metrics  metrics.Recorder
}

// NewAuthMiddleware builds the middleware. denylist and rec may be nil.
func NewAuthMiddleware(tokens *token.Service, denylist session.Denylist, rec metrics.Recorder) *AuthMiddleware {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &AuthMiddleware{
		tokens:   tokens,
		denylist: denylist,
		metrics:  rec,
	}
}

func (a *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p, outcome, err := a.Authorize(r.Context(), r.Header.Get("Authorization"))
		if outcome != "" {
			a.metrics.RecordAuthorization(outcome)
		}
		if err != nil {
			a.reject(w, r, err)
			return
		}

		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Authorize decides on an Authorization header value. Errors wrap
// auth.ErrUnauthorized (no credential), auth.ErrForbidden (credential not
// trusted) or auth.ErrStore (denylist unavailable). outcome is the metrics
// label, empty when no decision was reached.
func (a *AuthMiddleware) Authorize(ctx context.Context, header string) (p auth.Principal, outcome string, err error) {
	raw := BearerToken(header)
	if raw == "" {
		return p, metrics.OutcomeUnauthorized, auth.ErrUnauthorized
	}

	claims, err := a.tokens.Verify(raw)
	if err != nil {
		return p, metrics.OutcomeForbidden, fmt.Errorf("%w: %w", auth.ErrForbidden, err)
	}

	if a.denylist != nil {
		revoked, err := a.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return p, "", fmt.Errorf("%w: denylist lookup: %w", auth.ErrStore, err)
		}
		if revoked {
			return p, metrics.OutcomeRevoked, fmt.Errorf("%w: token revoked", auth.ErrForbidden)
		}
	}

	return claims.Principal(), metrics.OutcomeAllowed, nil
}

func (a *AuthMiddleware) reject(w http.ResponseWriter, r *http.Request, err error) {
	fields := map[string]any{
		"path":  r.URL.Path,
		"error": err.Error(),
	}

	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		writeJSONError(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, auth.ErrForbidden):
		logger.Warn("token rejected", fields)
		writeJSONError(w, http.StatusForbidden, "Forbidden")
	default:
		logger.Error("authorization failed", fields)
		writeJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// BearerToken returns the header value as the token, with an optional
// "Bearer " prefix removed.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		header = strings.TrimSpace(header[7:])
	}
	return header
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
