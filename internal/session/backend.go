package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrKeyNotFound is returned by a Backend when the key holds no value
var ErrKeyNotFound = errors.New("session: key not found")

// Backend is the durable key/value storage behind the Store.
// A ttl of zero stores the value without expiry.
type Backend interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
}

// RedisBackend keeps session entries in Redis so they survive process restarts
type RedisBackend struct {
	client *redis.Client
}

func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client}
}

func (b *RedisBackend) Get(ctx context.Context, key string) (string, error) {
	val, err := b.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	}
	return val, err
}

func (b *RedisBackend) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return b.client.Set(ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Del(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return b.client.Del(ctx, keys...).Err()
}

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// MemoryBackend is the in-process fallback used when Redis is unavailable
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (b *MemoryBackend) Get(_ context.Context, key string) (string, error) {
	b.mu.RLock()
	entry, ok := b.entries[key]
	b.mu.RUnlock()

	if !ok {
		return "", ErrKeyNotFound
	}
	if !entry.expiresAt.IsZero() && b.now().After(entry.expiresAt) {
		b.mu.Lock()
		delete(b.entries, key)
		b.mu.Unlock()
		return "", ErrKeyNotFound
	}
	return entry.value, nil
}

func (b *MemoryBackend) Set(_ context.Context, key, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expiresAt = b.now().Add(ttl)
	}

	b.mu.Lock()
	b.entries[key] = entry
	b.mu.Unlock()
	return nil
}

func (b *MemoryBackend) Del(_ context.Context, keys ...string) error {
	b.mu.Lock()
	for _, k := range keys {
		delete(b.entries, k)
	}
	b.mu.Unlock()
	return nil
}
