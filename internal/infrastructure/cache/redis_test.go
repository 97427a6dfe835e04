package cache

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedis_GetSetExpire(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	r := NewRedisWithClient(client, "dash:", time.Minute)

	_, ok, err := r.Get(ctx, "kpis")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, r.Set(ctx, "kpis", []byte(`{"a":1}`), 0))
	assert.True(t, mr.Exists("dash:kpis"))
	assert.Equal(t, time.Minute, mr.TTL("dash:kpis"))

	v, ok, err := r.Get(ctx, "kpis")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(v))

	mr.FastForward(2 * time.Minute)
	_, ok, err = r.Get(ctx, "kpis")
	require.NoError(t, err)
	assert.False(t, ok)

	stats := r.Stats()
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(2), stats.Misses)
}

func TestRedis_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	r := NewRedisWithClient(client, "dash:", 0)

	for i := 0; i < 250; i++ {
		require.NoError(t, r.Set(ctx, "warehouse:q"+strconv.Itoa(i), []byte("x"), 0))
	}
	require.NoError(t, r.Set(ctx, "predictions:months", []byte("y"), 0))
	require.NoError(t, mr.Set("other:key", "z"))

	require.NoError(t, r.DeletePrefix(ctx, "warehouse:"))
	assert.Len(t, mr.Keys(), 2)
	assert.True(t, mr.Exists("dash:predictions:months"))

	require.NoError(t, r.Delete(ctx, "predictions:months"))
	assert.False(t, mr.Exists("dash:predictions:months"))
	assert.NoError(t, r.Delete(ctx))
}

func TestNewRedis_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	port, _ := strconv.Atoi(mr.Port())
	mr.Close()

	_, err := NewRedis(context.Background(), RedisConfig{Host: mr.Host(), Port: port}, "", 0)
	assert.Error(t, err)
}
