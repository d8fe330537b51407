// Package redis provides a cache.Store backed by a Redis server, for
// deployments where multiple instances should share generated content.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/serendip-ai/serendipity/internal/cache"
)

// keyPrefix namespaces cache entries so an admin Clear only touches ours.
const keyPrefix = "serendipity:cache:"

// Config holds the Redis connection settings.
type Config struct {
	Address  string
	Password string
	DB       int
}

// Store implements cache.Store on Redis. Expiry is delegated to Redis TTLs,
// so Clear(expiredOnly=true) is a no-op here. Hit/miss counters are local to
// the process.
type Store struct {
	client *redis.Client
	hits   atomic.Int64
	misses atomic.Int64
}

var _ cache.Store = (*Store)(nil)

// New connects to Redis and verifies the connection with a ping.
func New(ctx context.Context, cfg Config) (*Store, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping > %w", err)
	}
	return &Store{client: client}, nil
}

func (s *Store) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := s.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		s.misses.Add(1)
		return nil, false
	}

	var entry cache.Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		s.misses.Add(1)
		return nil, false
	}
	if entry.Expired(time.Now()) {
		s.misses.Add(1)
		return nil, false
	}

	s.hits.Add(1)
	return entry.Value, true
}

func (s *Store) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	raw, err := json.Marshal(cache.Entry{
		Key:       key,
		Value:     value,
		ExpiresAt: time.Now().Add(ttl),
	})
	if err != nil {
		return fmt.Errorf("json.Marshal > %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+key, raw, ttl).Err(); err != nil {
		return fmt.Errorf("redis set > %w", err)
	}
	return nil
}

func (s *Store) Stats(ctx context.Context) (cache.Stats, error) {
	var entries int64
	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		entries++
	}
	if err := iter.Err(); err != nil {
		return cache.Stats{}, fmt.Errorf("redis scan > %w", err)
	}

	return cache.Stats{
		Entries: entries,
		Hits:    s.hits.Load(),
		Misses:  s.misses.Load(),
	}, nil
}

func (s *Store) Clear(ctx context.Context, expiredOnly bool) error {
	if expiredOnly {
		// Redis drops expired keys itself.
		return nil
	}

	iter := s.client.Scan(ctx, 0, keyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := s.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("redis del > %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis scan > %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.client.Close()
}
