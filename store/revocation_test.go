package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRevocationList(t *testing.T) (*RedisRevocationList, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewRedisRevocationList(rdb), mr
}

func TestRedisRevocationList(t *testing.T) {
	ctx := context.Background()
	list, mr := newRevocationList(t)

	revoked, err := list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, list.Revoke(ctx, "abc", time.Now().Add(time.Minute)))
	revoked, err = list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, revoked)
	assert.True(t, mr.Exists("auth:revoked:abc"))

	mr.FastForward(2 * time.Minute)
	revoked, err = list.IsRevoked(ctx, "abc")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisRevocationListSkipsExpiredTokens(t *testing.T) {
	ctx := context.Background()
	list, mr := newRevocationList(t)

	require.NoError(t, list.Revoke(ctx, "old", time.Now().Add(-time.Second)))
	assert.False(t, mr.Exists("auth:revoked:old"))
}

func TestRedisRevocationListUnavailable(t *testing.T) {
	ctx := context.Background()
	list, mr := newRevocationList(t)
	mr.Close()

	_, err := list.IsRevoked(ctx, "abc")
	assert.Error(t, err)
}
