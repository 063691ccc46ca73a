package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redislib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/tasktracker/domain"
	"github.com/fastygo/tasktracker/repository"
	redisRepo "github.com/fastygo/tasktracker/repository/redis"
)

func newCache(t *testing.T, ttl time.Duration) (repository.SessionCache, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redislib.NewClient(&redislib.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return redisRepo.NewSessionCache(client, ttl), srv
}

func TestSessionCache_PutGet(t *testing.T) {
	cache, srv := newCache(t, time.Minute)
	ctx := context.Background()

	session := &domain.Session{ID: "s1", UserID: "u1", Token: "tok", Active: true, ExpiresAt: time.Now().Add(time.Hour), UserRole: "admin"}
	require.NoError(t, cache.Put(ctx, session))

	got, err := cache.Get(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "u1", got.UserID)
	assert.Equal(t, "admin", got.UserRole)

	ttl := srv.TTL("session:tok")
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl capped by cache ttl, got %s", ttl)
}

func TestSessionCache_TTLBoundedBySessionExpiry(t *testing.T) {
	cache, srv := newCache(t, time.Hour)

	session := &domain.Session{Token: "tok", Active: true, ExpiresAt: time.Now().Add(10 * time.Second)}
	require.NoError(t, cache.Put(context.Background(), session))

	assert.LessOrEqual(t, srv.TTL("session:tok"), 10*time.Second)
}

func TestSessionCache_Miss(t *testing.T) {
	cache, _ := newCache(t, time.Minute)

	_, err := cache.Get(context.Background(), "unknown")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionCache_InactiveOrExpiredIsEvicted(t *testing.T) {
	cache, srv := newCache(t, time.Minute)
	ctx := context.Background()

	live := &domain.Session{Token: "tok", Active: true, ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, cache.Put(ctx, live))
	require.True(t, srv.Exists("session:tok"))

	live.Active = false
	require.NoError(t, cache.Put(ctx, live))
	assert.False(t, srv.Exists("session:tok"))

	expired := &domain.Session{Token: "old", Active: true, ExpiresAt: time.Now().Add(-time.Second)}
	require.NoError(t, cache.Put(ctx, expired))
	assert.False(t, srv.Exists("session:old"))
}

func TestSessionCache_Delete(t *testing.T) {
	cache, srv := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, cache.Put(ctx, &domain.Session{Token: "tok", Active: true, ExpiresAt: time.Now().Add(time.Hour)}))
	require.NoError(t, cache.Delete(ctx, "tok"))
	require.NoError(t, cache.Delete(ctx, "tok"))
	assert.False(t, srv.Exists("session:tok"))
}
