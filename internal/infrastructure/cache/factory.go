package cache

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Options selects and tunes a cache backend
type Options struct {
	Backend         string // memory, redis, tiered, none
	Redis           RedisConfig
	KeyPrefix       string
	DefaultTTL      time.Duration
	L1TTL           time.Duration
	CleanupInterval time.Duration
	// FallbackToMemory uses a memory cache when Redis cannot be reached
	FallbackToMemory bool
}

// New builds the configured cache. A tiered cache must have Listen started by the caller.
func New(ctx context.Context, opts Options, logger *zap.Logger) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	memory := func(ttl time.Duration) *Memory {
		return NewMemory(
			WithDefaultTTL(ttl),
			WithCleanupInterval(opts.CleanupInterval),
			WithMemoryLogger(logger.Named("cache.memory")),
		)
	}

	switch opts.Backend {
	case "", "memory":
		return memory(opts.DefaultTTL), nil
	case "none":
		return Noop{}, nil
	case "redis", "tiered":
		r, err := NewRedis(ctx, opts.Redis, opts.KeyPrefix, opts.DefaultTTL)
		if err != nil {
			if !opts.FallbackToMemory {
				return nil, err
			}
			logger.Warn("Redis unavailable, falling back to in-memory cache. "+
				"Instances will not share cached results.", zap.Error(err))
			return memory(opts.DefaultTTL), nil
		}
		if opts.Backend == "redis" {
			logger.Info("Using Redis cache", zap.String("addr", r.Client().Options().Addr))
			return r, nil
		}
		inv := NewInvalidator(r.Client(), "", logger.Named("cache.invalidator"))
		logger.Info("Using tiered cache", zap.String("addr", r.Client().Options().Addr))
		return NewTiered(memory(opts.L1TTL), r, opts.L1TTL, inv, logger.Named("cache.tiered")), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}
