package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

// sweepInterval is how often expired entries are purged in the background.
const sweepInterval = time.Minute

// MemoryCache keeps entries in process memory. It backs single-instance
// deployments where no Redis is provisioned; dashboard snapshots are the
// only payloads stored through it, so the map stays small.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]entry
	stop    chan struct{}
}

type entry struct {
	payload   []byte
	expiresAt time.Time
}

func (e entry) expired(now time.Time) bool {
	return now.After(e.expiresAt)
}

// NewMemoryCache creates the cache and starts its background sweeper.
func NewMemoryCache() *MemoryCache {
	m := &MemoryCache{
		entries: make(map[string]entry),
		stop:    make(chan struct{}),
	}
	go m.sweep()
	return m
}

func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	if !ok || e.expired(time.Now()) {
		return nil, ErrCacheMiss
	}
	return e.payload, nil
}

func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries[key] = entry{payload: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.entries, key)
	return nil
}

func (m *MemoryCache) Exists(_ context.Context, key string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.entries[key]
	return ok && !e.expired(time.Now()), nil
}

// Clear drops every key matching the pattern. Only the trailing-* form is
// supported, which covers the hospital:<section>* invalidations the
// services issue.
func (m *MemoryCache) Clear(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.entries {
		if matchKey(key, pattern) {
			delete(m.entries, key)
		}
	}
	return nil
}

// Close stops the sweeper. Entries are left for the GC.
func (m *MemoryCache) Close() error {
	close(m.stop)
	return nil
}

func (m *MemoryCache) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, e := range m.entries {
				if e.expired(now) {
					delete(m.entries, key)
				}
			}
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}

func matchKey(key, pattern string) bool {
	if pattern == "*" {
		return true
	}
	if prefix, ok := strings.CutSuffix(pattern, "*"); ok {
		return strings.HasPrefix(key, prefix)
	}
	return key == pattern
}
