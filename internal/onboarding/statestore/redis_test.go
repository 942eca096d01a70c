package statestore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, opts ...RedisOption) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisStore(client, opts...), mini
}

func TestRedisReadMissing(t *testing.T) {
	store, _ := newRedisStore(t)

	value, ok, err := store.Read(context.Background(), "client-1", "step")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, value)
}

func TestRedisWriteReadClear(t *testing.T) {
	store, _ := newRedisStore(t)

	require.NoError(t, store.Write(context.Background(), "client-1", "step", []byte("4")))
	require.NoError(t, store.Write(context.Background(), "client-1", "customer_type", []byte("new-customer-full")))

	value, ok, err := store.Read(context.Background(), "client-1", "step")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("4"), value)

	require.NoError(t, store.Clear(context.Background(), "client-1"))
	_, ok, err = store.Read(context.Background(), "client-1", "step")
	require.NoError(t, err)
	assert.False(t, ok)
	_, ok, err = store.Read(context.Background(), "client-1", "customer_type")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisWriteRefreshesTTL(t *testing.T) {
	store, mini := newRedisStore(t, WithTTL(time.Hour))

	require.NoError(t, store.Write(context.Background(), "client-1", "step", []byte("2")))
	assert.Greater(t, mini.TTL("engage:wizard:client-1"), time.Duration(0))

	mini.FastForward(30 * time.Minute)
	require.NoError(t, store.Write(context.Background(), "client-1", "step", []byte("3")))
	assert.Equal(t, time.Hour, mini.TTL("engage:wizard:client-1"))
}

func TestRedisKeysIsolatePerClient(t *testing.T) {
	store, _ := newRedisStore(t)

	require.NoError(t, store.Write(context.Background(), "client-1", "step", []byte("2")))
	_, ok, err := store.Read(context.Background(), "client-2", "step")
	require.NoError(t, err)
	assert.False(t, ok)
}
