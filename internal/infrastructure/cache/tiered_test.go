package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTiered_ReadThrough(t *testing.T) {
	ctx := context.Background()
	_, client := newTestRedis(t)
	l2 := NewRedisWithClient(client, "dash:", time.Minute)
	tc := NewTiered(NewMemory(), l2, 30*time.Second, nil, nil)
	defer tc.Close()

	require.NoError(t, l2.Set(ctx, "kpis", []byte("v1"), 0))

	v, ok, err := tc.Get(ctx, "kpis")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []byte("v1"), v)

	// second read is served by L1 even after L2 changes
	require.NoError(t, l2.Set(ctx, "kpis", []byte("v2"), 0))
	v, _, _ = tc.Get(ctx, "kpis")
	assert.Equal(t, []byte("v1"), v)

	require.NoError(t, tc.DeletePrefix(ctx, ""))
	v, _, _ = tc.Get(ctx, "kpis")
	assert.Nil(t, v)

	stats := tc.Stats()
	assert.Equal(t, int64(2), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
}

func TestTiered_PeerInvalidation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	_, client := newTestRedis(t)

	newNode := func() *Tiered {
		return NewTiered(NewMemory(), NewRedisWithClient(client, "dash:", time.Minute), time.Minute,
			NewInvalidator(client, "test:invalidate", nil), nil)
	}
	a, b := newNode(), newNode()

	go func() { _ = b.Listen(ctx) }()
	require.Eventually(t, func() bool {
		b.invalidator.mu.Lock()
		defer b.invalidator.mu.Unlock()
		return b.invalidator.running
	}, time.Second, 10*time.Millisecond)
	// the subscription is confirmed shortly after running flips
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, b.Set(ctx, "warehouse:kpis", []byte("cached"), 0))
	require.NoError(t, a.DeletePrefix(ctx, "warehouse:"))

	assert.Eventually(t, func() bool {
		return b.l1.Stats().Entries == 0
	}, 2*time.Second, 10*time.Millisecond)

	// own messages are ignored
	b.handleInvalidation(InvalidationMessage{Prefix: "", Origin: b.instanceID})

	cancel()
	require.NoError(t, b.invalidator.Close())
}
