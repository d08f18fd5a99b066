package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skill-auth-service/internal/session"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisStore_UpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	store := session.NewRedisStore(client)

	exp := time.Now().Add(24 * time.Hour)
	require.NoError(t, store.Upsert(ctx, session.Session{UserID: "u1", Token: "first", ExpiresAt: exp}))
	require.NoError(t, store.Upsert(ctx, session.Session{UserID: "u1", Token: "second", ExpiresAt: exp}))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "second", got.Token)
	assert.WithinDuration(t, exp, got.ExpiresAt, time.Second)

	keys, err := client.Keys(ctx, "session:user:*").Result()
	require.NoError(t, err)
	assert.Len(t, keys, 1)
}

func TestRedisStore_ExpiresWithSession(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := session.NewRedisStore(client)

	require.NoError(t, store.Upsert(ctx, session.Session{
		UserID:    "u1",
		Token:     "tok",
		ExpiresAt: time.Now().Add(time.Hour),
	}))

	ttl := mr.TTL("session:user:u1")
	assert.True(t, ttl > 59*time.Minute && ttl <= time.Hour, "ttl = %s", ttl)

	mr.FastForward(2 * time.Hour)

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_Validation(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	store := session.NewRedisStore(client)

	assert.Error(t, store.Upsert(ctx, session.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, store.Upsert(ctx, session.Session{UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))
	assert.Error(t, store.Upsert(ctx, session.Session{UserID: "u1", Token: "tok", ExpiresAt: time.Now().Add(-time.Minute)}))
}

func TestRedisStore_GetMissingAndDelete(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	store := session.NewRedisStore(client)

	got, err := store.Get(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, store.Upsert(ctx, session.Session{UserID: "u1", Token: "tok", ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, store.Delete(ctx, "u1", "tok"))

	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)

	assert.NoError(t, store.Delete(ctx, "u1", "tok"))
}

func TestRedisStore_DeleteKeepsNewerSession(t *testing.T) {
	ctx := context.Background()
	_, client := newRedis(t)
	store := session.NewRedisStore(client)

	exp := time.Now().Add(time.Hour)
	require.NoError(t, store.Upsert(ctx, session.Session{UserID: "u1", Token: "older", ExpiresAt: exp}))
	require.NoError(t, store.Upsert(ctx, session.Session{UserID: "u1", Token: "newer", ExpiresAt: exp}))

	require.NoError(t, store.Delete(ctx, "u1", "older"))

	got, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "newer", got.Token)

	require.NoError(t, store.Delete(ctx, "u1", "newer"))
	got, err = store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisStore_ConnectionFailure(t *testing.T) {
	ctx := context.Background()
	mr, client := newRedis(t)
	store := session.NewRedisStore(client)
	mr.Close()

	_, err := store.Get(ctx, "u1")
	assert.Error(t, err)
}
