// Package localstore is a small TTL key-value store for ephemeral
// client-local state: cached geocoding results, trip geometries, recent
// searches. It is injected where needed rather than accessed as ambient
// global state.
package localstore

import (
	"sync"
	"time"
)

// Store is the key-value interface consumers depend on.
type Store interface {
	Get(key string) (any, bool)
	Set(key string, value any)
	SetTTL(key string, value any, ttl time.Duration)
	Delete(key string)
}

type entry struct {
	value     any
	expiresAt int64 // unix nanoseconds; zero means no expiry
}

// Memory is a thread-safe in-memory Store with per-entry TTL and a
// janitor goroutine that sweeps expired entries.
type Memory struct {
	mu         sync.RWMutex
	items      map[string]entry
	defaultTTL time.Duration
	stop       chan struct{}
	stopOnce   sync.Once
}

// NewMemory creates a store whose Set uses defaultTTL and whose janitor
// sweeps every cleanupInterval. A zero defaultTTL means entries written
// with Set never expire.
func NewMemory(defaultTTL, cleanupInterval time.Duration) *Memory {
	m := &Memory{
		items:      make(map[string]entry),
		defaultTTL: defaultTTL,
		stop:       make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go m.janitor(cleanupInterval)
	}
	return m
}

func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if e.expiresAt > 0 && time.Now().UnixNano() > e.expiresAt {
		m.Delete(key)
		return nil, false
	}
	return e.value, true
}

func (m *Memory) Set(key string, value any) {
	m.SetTTL(key, value, m.defaultTTL)
}

func (m *Memory) SetTTL(key string, value any, ttl time.Duration) {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	m.mu.Lock()
	m.items[key] = entry{value: value, expiresAt: expiresAt}
	m.mu.Unlock()
}

func (m *Memory) Delete(key string) {
	m.mu.Lock()
	delete(m.items, key)
	m.mu.Unlock()
}

// Close stops the janitor.
func (m *Memory) Close() {
	m.stopOnce.Do(func() { close(m.stop) })
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			now := time.Now().UnixNano()
			m.mu.Lock()
			for k, e := range m.items {
				if e.expiresAt > 0 && now > e.expiresAt {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		case <-m.stop:
			return
		}
	}
}
