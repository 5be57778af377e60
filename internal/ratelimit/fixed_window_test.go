package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQuota(t *testing.T, limit int) (*Quota, *miniredis.Miniredis) {
	t.Helper()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	q, err := NewQuota(client, "test:ratelimit", limit, time.Minute)
	require.NoError(t, err)
	return q, srv
}

func TestQuotaTake(t *testing.T) {
	q, _ := newQuota(t, 2)
	ctx := context.Background()

	d, err := q.Take(ctx, "10.0.0.1:/api/auth/signin")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, 1, d.Remaining)
	assert.Greater(t, d.ResetIn, time.Duration(0))
	assert.LessOrEqual(t, d.ResetIn, time.Minute)

	d, err = q.Take(ctx, "10.0.0.1:/api/auth/signin")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Zero(t, d.Remaining)

	d, err = q.Take(ctx, "10.0.0.1:/api/auth/signin")
	require.NoError(t, err)
	assert.False(t, d.Allowed, "third request is over quota")
	assert.Zero(t, d.Remaining)

	d, err = q.Take(ctx, "10.0.0.1:/api/auth/signup")
	require.NoError(t, err)
	assert.True(t, d.Allowed, "each key has its own counter")
}

func TestQuotaResetsAfterWindow(t *testing.T) {
	q, srv := newQuota(t, 1)
	ctx := context.Background()

	d, err := q.Take(ctx, "ip")
	require.NoError(t, err)
	require.True(t, d.Allowed)

	srv.FastForward(2 * time.Minute)
	assert.Empty(t, srv.Keys(), "counter expires with its window")
}

func TestQuotaReportsRedisErrors(t *testing.T) {
	q, srv := newQuota(t, 1)
	srv.Close()

	_, err := q.Take(context.Background(), "ip")
	assert.Error(t, err)
}

func TestNewQuotaValidation(t *testing.T) {
	_, err := NewQuota(nil, "", 1, time.Second)
	assert.Error(t, err)

	client := redis.NewClient(&redis.Options{Addr: "localhost:0"})
	defer client.Close()
	_, err = NewQuota(client, "", 0, time.Second)
	assert.Error(t, err)
	_, err = NewQuota(client, "", 1, 0)
	assert.Error(t, err)
}
