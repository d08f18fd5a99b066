package token_test

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-auth-service/internal/auth/token"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newService(t *testing.T, c *clock) *token.Service {
	t.Helper()
	svc, err := token.New(testSecret, token.WithClock(c.Now))
	require.NoError(t, err)
	return svc
}

func TestNew(t *testing.T) {
	t.Run("rejects empty secret", func(t *testing.T) {
		_, err := token.New(nil)
		assert.Error(t, err)
	})

	t.Run("rejects short secret", func(t *testing.T) {
		_, err := token.New([]byte("too-short"))
		assert.Error(t, err)
	})

	t.Run("defaults ttl to 24h", func(t *testing.T) {
		svc, err := token.New(testSecret)
		require.NoError(t, err)
		assert.Equal(t, 24*time.Hour, svc.TTL())
	})

	t.Run("custom ttl", func(t *testing.T) {
		svc, err := token.New(testSecret, token.WithTTL(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, time.Hour, svc.TTL())
	})
}

func TestService_IssueAndVerify(t *testing.T) {
	c := &clock{t: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	svc := newService(t, c)

	raw, issued, err := svc.Issue(token.Subject{ID: "user-1", Email: "ada@example.com"})
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	assert.True(t, c.t.Add(24*time.Hour).Equal(issued.ExpiresAt.Time))
	assert.NotEmpty(t, issued.ID)

	claims, err := svc.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "ada@example.com", claims.Email)

	p := claims.Principal()
	assert.Equal(t, "user-1", p.UserID)
	assert.Equal(t, "ada@example.com", p.Email)
	assert.Equal(t, issued.ID, p.TokenID)
	assert.True(t, c.t.Add(24*time.Hour).Equal(p.ExpiresAt), "expires at %s", p.ExpiresAt)
}

func TestService_IssueRequiresIDAndEmail(t *testing.T) {
	svc := newService(t, &clock{t: time.Now()})

	_, _, err := svc.Issue(token.Subject{ID: "user-1"})
	assert.Error(t, err)

	_, _, err = svc.Issue(token.Subject{Email: "ada@example.com"})
	assert.Error(t, err)
}

func TestService_ExpiryWindow(t *testing.T) {
	start := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	c := &clock{t: start}
	svc := newService(t, c)

	raw, _, err := svc.Issue(token.Subject{ID: "user-1", Email: "ada@example.com"})
	require.NoError(t, err)

	c.t = start.Add(23*time.Hour + 59*time.Minute)
	_, err = svc.Verify(raw)
	assert.NoError(t, err)

	c.t = start.Add(24*time.Hour + time.Minute)
	_, err = svc.Verify(raw)
	assert.ErrorIs(t, err, token.ErrExpired)
}

func TestService_DifferentSecretFails(t *testing.T) {
	c := &clock{t: time.Now()}
	issuer, err := token.New([]byte("ffffffffffffffffffffffffffffffff"), token.WithClock(c.Now))
	require.NoError(t, err)
	verifier := newService(t, c)

	raw, _, err := issuer.Issue(token.Subject{ID: "user-1", Email: "ada@example.com"})
	require.NoError(t, err)

	_, err = verifier.Verify(raw)
	assert.ErrorIs(t, err, token.ErrInvalidSignature)
}

func TestService_RejectsForeignTokens(t *testing.T) {
	c := &clock{t: time.Now()}
	svc := newService(t, c)

	t.Run("alg none", func(t *testing.T) {
		claims := jwt.MapClaims{
			"id":    "user-1",
			"email": "ada@example.com",
			"exp":   c.t.Add(time.Hour).Unix(),
		}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = svc.Verify(raw)
		assert.ErrorIs(t, err, token.ErrInvalidSignature)
	})

	t.Run("tampered payload", func(t *testing.T) {
		raw, _, err := svc.Issue(token.Subject{ID: "user-1", Email: "ada@example.com"})
		require.NoError(t, err)

		other, _, err := svc.Issue(token.Subject{ID: "user-2", Email: "eve@example.com"})
		require.NoError(t, err)

		parts := strings.Split(raw, ".")
		otherParts := strings.Split(other, ".")
		forged := parts[0] + "." + otherParts[1] + "." + parts[2]

		_, err = svc.Verify(forged)
		assert.ErrorIs(t, err, token.ErrInvalidSignature)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Verify("not-a-token")
		assert.ErrorIs(t, err, token.ErrMalformed)
	})

	t.Run("missing exp", func(t *testing.T) {
		claims := jwt.MapClaims{"id": "user-1", "email": "ada@example.com"}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)

		_, err = svc.Verify(raw)
		assert.ErrorIs(t, err, token.ErrMalformed)
	})

	t.Run("missing identity claims", func(t *testing.T) {
		claims := jwt.MapClaims{"exp": c.t.Add(time.Hour).Unix()}
		raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
		require.NoError(t, err)

		_, err = svc.Verify(raw)
		assert.ErrorIs(t, err, token.ErrMalformed)
	})
}
