package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Tiered reads through a local L1 to a shared L2.
// Writes go to both; prefix deletes are broadcast so peers drop their L1.
type Tiered struct {
	l1          *Memory
	l2          Cache
	l1TTL       time.Duration
	invalidator *Invalidator
	instanceID  string
	logger      *zap.Logger

	l1Hits atomic.Int64
	l2Hits atomic.Int64
	misses atomic.Int64
}

// NewTiered builds a tiered cache. invalidator may be nil for a single instance.
func NewTiered(l1 *Memory, l2 Cache, l1TTL time.Duration, invalidator *Invalidator, logger *zap.Logger) *Tiered {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tiered{
		l1:          l1,
		l2:          l2,
		l1TTL:       l1TTL,
		invalidator: invalidator,
		instanceID:  uuid.NewString(),
		logger:      logger,
	}
}

// Listen applies peer invalidations to L1 until ctx ends
func (t *Tiered) Listen(ctx context.Context) error {
	if t.invalidator == nil {
		return nil
	}
	return t.invalidator.Subscribe(ctx, t.handleInvalidation)
}

func (t *Tiered) handleInvalidation(msg InvalidationMessage) {
	if msg.Origin == t.instanceID {
		return
	}
	if err := t.l1.DeletePrefix(context.Background(), msg.Prefix); err != nil {
		t.logger.Warn("Failed to apply peer invalidation", zap.String("prefix", msg.Prefix), zap.Error(err))
		return
	}
	t.logger.Debug("Applied peer invalidation", zap.String("prefix", msg.Prefix), zap.String("origin", msg.Origin))
}

// Get implements Cache
func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if v, ok, _ := t.l1.Get(ctx, key); ok {
		t.l1Hits.Add(1)
		return v, true, nil
	}
	v, ok, err := t.l2.Get(ctx, key)
	if err != nil {
		return nil, false, err
	}
	if !ok {
		t.misses.Add(1)
		return nil, false, nil
	}
	t.l2Hits.Add(1)
	if err := t.l1.Set(ctx, key, v, t.l1TTL); err != nil {
		t.logger.Warn("Failed to populate L1 cache", zap.String("key", key), zap.Error(err))
	}
	return v, true, nil
}

// Set implements Cache. L1 never outlives the L2 entry.
func (t *Tiered) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := t.l2.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	l1TTL := t.l1TTL
	if ttl > 0 && ttl < l1TTL {
		l1TTL = ttl
	}
	return t.l1.Set(ctx, key, value, l1TTL)
}

// Delete implements Cache
func (t *Tiered) Delete(ctx context.Context, keys ...string) error {
	if err := t.l2.Delete(ctx, keys...); err != nil {
		return err
	}
	return t.l1.Delete(ctx, keys...)
}

// DeletePrefix implements Cache
func (t *Tiered) DeletePrefix(ctx context.Context, prefix string) error {
	if err := t.l2.DeletePrefix(ctx, prefix); err != nil {
		return err
	}
	if err := t.l1.DeletePrefix(ctx, prefix); err != nil {
		return err
	}
	if t.invalidator != nil {
		msg := InvalidationMessage{Prefix: prefix, Origin: t.instanceID}
		if err := t.invalidator.Publish(ctx, msg); err != nil {
			t.logger.Warn("Failed to publish invalidation", zap.String("prefix", prefix), zap.Error(err))
		}
	}
	return nil
}

// Stats implements Cache. Hits counts both tiers.
func (t *Tiered) Stats() Stats {
	return Stats{
		Backend: "tiered",
		Hits:    t.l1Hits.Load() + t.l2Hits.Load(),
		Misses:  t.misses.Load(),
		Entries: t.l1.Stats().Entries,
	}
}

// Close releases both tiers
func (t *Tiered) Close() error {
	if t.invalidator != nil {
		_ = t.invalidator.Close()
	}
	_ = t.l1.Close()
	return t.l2.Close()
}
