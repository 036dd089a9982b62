package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"path"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

const defaultLocalSize = 1024

type entry struct {
	data    []byte
	expires time.Time
}

// MemoryCache is an in-process Cache for single-replica deployments,
// bounded in size and swept by a cache-wide TTL. A shorter per-key TTL
// passed to SetJSON is honoured on read. Patterns use path.Match syntax,
// which covers the prefix* keys the use cases delete.
type MemoryCache struct {
	lru *expirable.LRU[string, entry]
	now func() time.Time
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache holds at most size keys, each for at most ttl. A
// non-positive size uses a default; a non-positive ttl only evicts by size.
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size <= 0 {
		size = defaultLocalSize
	}
	return &MemoryCache{
		lru: expirable.NewLRU[string, entry](size, nil, ttl),
		now: time.Now,
	}
}

func (m *MemoryCache) expired(e entry) bool {
	return !e.expires.IsZero() && m.now().After(e.expires)
}

func (m *MemoryCache) GetJSON(_ context.Context, key string, dst any) error {
	e, ok := m.lru.Get(key)
	if ok && m.expired(e) {
		m.lru.Remove(key)
		ok = false
	}
	if !ok {
		return ErrMiss
	}
	return json.Unmarshal(e.data, dst)
}

func (m *MemoryCache) SetJSON(_ context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	e := entry{data: data}
	if ttl > 0 {
		e.expires = m.now().Add(ttl)
	}
	m.lru.Add(key, e)
	return nil
}

func (m *MemoryCache) DeletePattern(_ context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return fmt.Errorf("bad pattern %s: %w", pattern, err)
	}
	for _, k := range m.lru.Keys() {
		if ok, _ := path.Match(pattern, k); ok {
			m.lru.Remove(k)
		}
	}
	return nil
}

// Len drops keys past their own TTL and reports the live ones.
func (m *MemoryCache) Len() int {
	for _, k := range m.lru.Keys() {
		if e, ok := m.lru.Peek(k); ok && m.expired(e) {
			m.lru.Remove(k)
		}
	}
	return m.lru.Len()
}
