package cache

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// LoadTimeout bounds a shared load once it no longer follows a caller's context
var LoadTimeout = 2 * time.Minute

// Loader computes a value on a cache miss
type Loader[T any] func(ctx context.Context) (T, error)

// Remember returns the cached value for key or loads, stores and returns it.
// Concurrent misses on the same key share one load through group.
// A caller whose context ends stops waiting without cancelling the load for
// the others. Cache failures degrade to a direct load; load errors are never cached.
func Remember[T any](ctx context.Context, c Cache, group *singleflight.Group, key string, ttl time.Duration, load Loader[T]) (T, error) {
	log := zap.L().Named("cache")

	if raw, ok, err := c.Get(ctx, key); err != nil {
		log.Warn("Cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		var v T
		if err := json.Unmarshal(raw, &v); err == nil {
			return v, nil
		}
		log.Warn("Discarding undecodable cache entry", zap.String("key", key))
	}

	ch := group.DoChan(key, func() (any, error) {
		// the shared load outlives any single caller
		lctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), LoadTimeout)
		defer cancel()

		v, err := load(lctx)
		if err != nil {
			return v, err
		}
		if raw, err := json.Marshal(v); err != nil {
			log.Warn("Cache entry not encodable", zap.String("key", key), zap.Error(err))
		} else if err := c.Set(lctx, key, raw, ttl); err != nil {
			log.Warn("Cache write failed", zap.String("key", key), zap.Error(err))
		}
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}
