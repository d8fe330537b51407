// Package memory provides the in-process cache store used by default.
package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/serendip-ai/serendipity/internal/cache"
)

// Store is a map-backed cache.Store. Expired entries are removed lazily when
// they are looked up, so the map only grows with the set of distinct keys.
type Store struct {
	mu      sync.RWMutex
	entries map[string]cache.Entry
	hits    atomic.Int64
	misses  atomic.Int64

	now func() time.Time
}

var _ cache.Store = (*Store)(nil)

func New() *Store {
	return &Store{
		entries: make(map[string]cache.Entry),
		now:     time.Now,
	}
}

func (s *Store) Get(_ context.Context, key string) ([]byte, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		s.misses.Add(1)
		return nil, false
	}
	if entry.Expired(s.now()) {
		s.mu.Lock()
		// Re-check under the write lock; a fresh entry may have replaced it.
		if current, ok := s.entries[key]; ok && current.Expired(s.now()) {
			delete(s.entries, key)
		}
		s.mu.Unlock()
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	value := make([]byte, len(entry.Value))
	copy(value, entry.Value)
	return value, true
}

func (s *Store) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	s.entries[key] = cache.Entry{
		Key:       key,
		Value:     stored,
		ExpiresAt: s.now().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *Store) Stats(_ context.Context) (cache.Stats, error) {
	s.mu.RLock()
	entries := int64(len(s.entries))
	s.mu.RUnlock()

	return cache.Stats{
		Entries: entries,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}, nil
}

func (s *Store) Clear(_ context.Context, expiredOnly bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !expiredOnly {
		s.entries = make(map[string]cache.Entry)
		return nil
	}
	now := s.now()
	for key, entry := range s.entries {
		if entry.Expired(now) {
			delete(s.entries, key)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return nil
}
