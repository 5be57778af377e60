package session

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRevoker(t *testing.T) {
	r := NewMemoryRevoker()

	revoked, err := r.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke("jti-1", time.Minute))
	revoked, err = r.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, r.Revoke("jti-2", -time.Second))
	revoked, err = r.IsRevoked("jti-2")
	require.NoError(t, err)
	assert.False(t, revoked, "non-positive ttl is a no-op")
}

func TestMemoryRevokerExpires(t *testing.T) {
	r := NewMemoryRevoker()
	require.NoError(t, r.Revoke("jti-1", time.Millisecond))
	time.Sleep(5 * time.Millisecond)

	revoked, err := r.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevoker(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRedisRevoker(client)

	require.NoError(t, r.Revoke("jti-1", time.Minute))
	revoked, err := r.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	srv.FastForward(2 * time.Minute)
	revoked, err = r.IsRevoked("jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevokerReportsErrors(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	r := NewRedisRevoker(client)
	srv.Close()

	_, err := r.IsRevoked("jti-1")
	assert.Error(t, err)
}
