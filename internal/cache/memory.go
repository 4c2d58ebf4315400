package cache

import (
	"sync"

	"WineWindow/internal/domain"
	"WineWindow/internal/ports"
)

// Memory is a process-lifetime estimate cache. Entries never expire and the
// map is never trimmed; it lives as long as its owner.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]domain.WindowEstimate
}

var _ ports.EstimateCache = (*Memory)(nil)

// NewMemory builds an empty cache.
func NewMemory() *Memory {
	return &Memory{entries: map[string]domain.WindowEstimate{}}
}

// Get returns the stored estimate for key.
func (m *Memory) Get(key string) (domain.WindowEstimate, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	est, ok := m.entries[key]
	return est, ok
}

// Put stores estimate under key, replacing any previous value.
func (m *Memory) Put(key string, estimate domain.WindowEstimate) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = estimate
}

// Len reports the number of cached estimates.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
