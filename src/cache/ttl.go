package cache

import (
	"sync"
	"time"
)

// TTLMap is a mutex-guarded map whose entries expire a fixed duration after
// being set, regardless of access. Expiry is checked lazily on lookup; no
// background sweeper is required for correctness.
type TTLMap struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]entry
}

type entry struct {
	value     any
	expiresAt time.Time
}

// NewTTLMap creates an empty map with the given entry lifetime.
func NewTTLMap(ttl time.Duration) *TTLMap {
	return &TTLMap{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the live value for key. Expired entries are evicted on the spot.
func (m *TTLMap) Get(key string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		delete(m.entries, key)
		return nil, false
	}
	return e.value, true
}

// Set stores value under key with a fresh TTL.
func (m *TTLMap) Set(key string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = entry{value: value, expiresAt: time.Now().Add(m.ttl)}
}

// Sweep drops every expired entry. Optional housekeeping; Get already evicts
// lazily.
func (m *TTLMap) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	for key, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, key)
		}
	}
}

// Len reports the number of stored entries, expired or not.
func (m *TTLMap) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

// Inflight tracks keys with an operation currently in progress, giving
// single-flight semantics: at most one in-progress operation per key.
type Inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

// NewInflight creates an empty tracking set.
func NewInflight() *Inflight {
	return &Inflight{keys: make(map[string]struct{})}
}

// TryAcquire marks key in flight. It reports false when the key is already
// being processed.
func (f *Inflight) TryAcquire(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, busy := f.keys[key]; busy {
		return false
	}
	f.keys[key] = struct{}{}
	return true
}

// Release clears the in-flight mark. Safe to call for keys never acquired.
func (f *Inflight) Release(key string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.keys, key)
}
