package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

const (
	defaultMemoryTTL       = time.Minute
	defaultCleanupInterval = 30 * time.Second
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

func (e *memoryEntry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// Memory is a process-local cache with a background sweeper
type Memory struct {
	entries         sync.Map // map[string]*memoryEntry
	defaultTTL      time.Duration
	cleanupInterval time.Duration
	logger          *zap.Logger
	now             func() time.Time

	stopCh   chan struct{}
	stopOnce sync.Once
	closed   atomic.Bool

	hits   atomic.Int64
	misses atomic.Int64
}

// MemoryOption configures a Memory cache
type MemoryOption func(*Memory)

// WithDefaultTTL sets the TTL used when Set is called with zero
func WithDefaultTTL(ttl time.Duration) MemoryOption {
	return func(m *Memory) {
		if ttl > 0 {
			m.defaultTTL = ttl
		}
	}
}

// WithCleanupInterval sets how often expired entries are swept
func WithCleanupInterval(d time.Duration) MemoryOption {
	return func(m *Memory) {
		if d > 0 {
			m.cleanupInterval = d
		}
	}
}

// WithMemoryLogger sets the logger
func WithMemoryLogger(l *zap.Logger) MemoryOption {
	return func(m *Memory) {
		m.logger = l
	}
}

// withClock overrides time for tests
func withClock(now func() time.Time) MemoryOption {
	return func(m *Memory) {
		m.now = now
	}
}

// NewMemory creates a memory cache and starts its sweeper
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{
		defaultTTL:      defaultMemoryTTL,
		cleanupInterval: defaultCleanupInterval,
		logger:          zap.NewNop(),
		now:             time.Now,
		stopCh:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	go m.sweep()
	return m
}

// Get implements Cache
func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	if m.closed.Load() {
		return nil, false, ErrClosed
	}
	if v, ok := m.entries.Load(key); ok {
		e := v.(*memoryEntry)
		if !e.expired(m.now()) {
			m.hits.Add(1)
			return e.value, true, nil
		}
		m.entries.Delete(key)
	}
	m.misses.Add(1)
	return nil, false, nil
}

// Set implements Cache
func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if m.closed.Load() {
		return ErrClosed
	}
	if ttl <= 0 {
		ttl = m.defaultTTL
	}
	m.entries.Store(key, &memoryEntry{value: value, expiresAt: m.now().Add(ttl)})
	return nil
}

// Delete implements Cache
func (m *Memory) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		m.entries.Delete(k)
	}
	return nil
}

// DeletePrefix implements Cache
func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.entries.Range(func(k, _ any) bool {
		if strings.HasPrefix(k.(string), prefix) {
			m.entries.Delete(k)
		}
		return true
	})
	return nil
}

// Stats implements Cache
func (m *Memory) Stats() Stats {
	var n int64
	m.entries.Range(func(_, _ any) bool {
		n++
		return true
	})
	return Stats{Backend: "memory", Hits: m.hits.Load(), Misses: m.misses.Load(), Entries: n}
}

// Close stops the sweeper
func (m *Memory) Close() error {
	m.stopOnce.Do(func() {
		m.closed.Store(true)
		close(m.stopCh)
	})
	return nil
}

func (m *Memory) sweep() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.removeExpired()
		}
	}
}

func (m *Memory) removeExpired() {
	now := m.now()
	removed := 0
	m.entries.Range(func(k, v any) bool {
		if v.(*memoryEntry).expired(now) {
			m.entries.Delete(k)
			removed++
		}
		return true
	})
	if removed > 0 {
		m.logger.Debug("Swept expired cache entries", zap.Int("removed", removed))
	}
}
