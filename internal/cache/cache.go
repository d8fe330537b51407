// Package cache defines the response cache used by the content service.
// Values are opaque byte payloads so backends stay decoupled from the
// response shape.
package cache

import (
	"context"
	"time"
)

// Store is a key-value cache with per-entry expiry. Implementations discard
// expired entries lazily on lookup. Concurrent writers for the same key are
// allowed; last write wins.
type Store interface {
	// Get returns the value for key, or false when the key is absent or expired.
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores value under key for the given TTL, replacing any prior entry.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Stats reports entry counts and hit/miss counters.
	Stats(ctx context.Context) (Stats, error)
	// Clear removes entries. When expiredOnly is true only expired entries go.
	Clear(ctx context.Context, expiredOnly bool) error
	Close() error
}

// Entry is a single cached value.
type Entry struct {
	Key       string    `json:"key"`
	Value     []byte    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the entry is past its expiry at the given time.
func (e Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}

// Stats reports cache performance counters.
type Stats struct {
	Entries int64 `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}
