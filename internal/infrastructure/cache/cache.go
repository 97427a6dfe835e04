// Package cache stores serialized query results for the dashboard.
//
// Values are opaque byte slices; the typed Remember helper handles JSON
// encoding and collapses concurrent loads of the same key.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by a cache after Close
var ErrClosed = errors.New("cache closed")

// Cache is a TTL key/value store
type Cache interface {
	// Get returns the value and true on a hit
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores value; a zero ttl means the backend default
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key starting with prefix. An empty prefix clears the cache.
	DeletePrefix(ctx context.Context, prefix string) error
	Stats() Stats
	Close() error
}

// Stats counts lookups
type Stats struct {
	Backend string `json:"backend"`
	Hits    int64  `json:"hits"`
	Misses  int64  `json:"misses"`
	Entries int64  `json:"entries"`
}

// HitRatio returns hits / lookups, or 0 before any lookup
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// Noop never stores anything
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Noop) Delete(context.Context, ...string) error { return nil }
func (Noop) DeletePrefix(context.Context, string) error { return nil }
func (Noop) Stats() Stats { return Stats{Backend: "none"} }
func (Noop) Close() error { return nil }
