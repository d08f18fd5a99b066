package credentials_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"skill-auth-service/internal/auth"
	"skill-auth-service/internal/auth/credentials"
	"skill-auth-service/internal/user"
	"skill-auth-service/internal/user/usertest"
)

func newService(t *testing.T) (*credentials.Service, *usertest.Store) {
	t.Helper()
	users := usertest.NewStore()
	return credentials.NewService(users, credentials.NewHasher(bcrypt.MinCost)), users
}

func registration(email string) credentials.Registration {
	return credentials.Registration{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "correct horse",
	}
}

func TestHasher(t *testing.T) {
	h := credentials.NewHasher(bcrypt.MinCost)

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, strings.HasPrefix(hash, "$2"))

	assert.NoError(t, h.Verify(hash, "s3cret"))
	assert.ErrorIs(t, h.Verify(hash, "wrong"), auth.ErrInvalidCredentials)

	other, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")
}

func TestHasher_Validation(t *testing.T) {
	h := credentials.NewHasher(bcrypt.MinCost)

	_, err := h.Hash("")
	assert.ErrorIs(t, err, auth.ErrValidation)

	_, err = h.Hash(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, auth.ErrValidation)
	assert.ErrorIs(t, err, credentials.ErrPasswordTooLong)
}

func TestNewHasher_OutOfRangeCost(t *testing.T) {
	for _, cost := range []int{-1, 0, bcrypt.MaxCost + 1} {
		assert.NotPanics(t, func() {
			h := credentials.NewHasher(cost)
			_, err := h.Hash("s3cret")
			assert.NoError(t, err)
		})
	}
}

func TestService_Register(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	u, err := svc.Register(ctx, registration("ada@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.NotEqual(t, "correct horse", u.PasswordHash)

	stored, err := users.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Lovelace", stored.LastName)
}

func TestService_RegisterDuplicate(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	_, err := svc.Register(ctx, registration("ada@example.com"))
	require.NoError(t, err)

	_, err = svc.Register(ctx, registration("ada@example.com"))
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
	assert.Equal(t, 1, users.Count("ada@example.com"))
}

func TestService_RegisterRaceLoser(t *testing.T) {
	svc, users := newService(t)
	users.BeforeCreate = func(u *user.User) {
		users.Put(user.User{Email: u.Email})
	}

	_, err := svc.Register(context.Background(), registration("ada@example.com"))
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
}

func TestService_RegisterStoreFailure(t *testing.T) {
	svc, users := newService(t)
	users.FindErr = errors.New("connection refused")

	_, err := svc.Register(context.Background(), registration("ada@example.com"))
	assert.ErrorIs(t, err, auth.ErrStore)
}

func TestService_Authenticate(t *testing.T) {
	svc, users := newService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, registration("ada@example.com"))
	require.NoError(t, err)

	t.Run("correct password", func(t *testing.T) {
		u, err := svc.Authenticate(ctx, "ada@example.com", "correct horse")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, u.ID)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "ada@example.com", "battery staple")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Authenticate(ctx, "nobody@example.com", "correct horse")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})

	t.Run("federated account without password", func(t *testing.T) {
		users.Put(user.User{Email: "fed@example.com"})
		_, err := svc.Authenticate(ctx, "fed@example.com", "")
		assert.ErrorIs(t, err, auth.ErrInvalidCredentials)
	})
}
