package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/coursestream-backend/internal/platform/clock"
)

type memoryEntry struct {
	val       []byte
	expiresAt time.Time
}

type memoryCache struct {
	mu    sync.RWMutex
	clk   clock.Clock
	items map[string]memoryEntry
}

// NewMemory returns a process-local Cache. A nil clock uses wall time.
func NewMemory(clk clock.Clock) Cache {
	if clk == nil {
		clk = clock.Real()
	}
	return &memoryCache{clk: clk, items: map[string]memoryEntry{}}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrMiss
	}
	if !e.expiresAt.IsZero() && !m.clk.Now().Before(e.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, ErrMiss
	}
	out := make([]byte, len(e.val))
	copy(out, e.val)
	return out, nil
}

func (m *memoryCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	e := memoryEntry{val: append([]byte(nil), val...)}
	if ttl > 0 {
		e.expiresAt = m.clk.Now().Add(ttl)
	}
	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	for _, k := range keys {
		delete(m.items, k)
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	m.mu.Unlock()
	return nil
}

func (m *memoryCache) Close() error { return nil }
