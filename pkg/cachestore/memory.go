package cachestore

import (
	"context"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
)

// shardCount is the number of in-memory buckets. Keys are distributed by
// xxhash so concurrent callers rarely contend on the same lock.
const shardCount = 256

type memoryEntry struct {
	payload   []byte
	writtenAt time.Time
}

type memoryShard struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

// MemoryStore implements Store in process memory. It mirrors FileStore
// semantics, including lazy expiry computed from the write timestamp, and
// is intended for tests and single-process deployments.
type MemoryStore struct {
	shards          [shardCount]*memoryShard
	defaultLifetime time.Duration
}

// NewMemoryStore creates an in-memory store. A non-positive defaultLifetime
// falls back to DefaultLifetime.
func NewMemoryStore(defaultLifetime time.Duration) *MemoryStore {
	if defaultLifetime <= 0 {
		defaultLifetime = DefaultLifetime
	}
	s := &MemoryStore{defaultLifetime: defaultLifetime}
	for i := range s.shards {
		s.shards[i] = &memoryShard{items: make(map[string]memoryEntry)}
	}
	return s
}

func (s *MemoryStore) shardFor(key string) *memoryShard {
	return s.shards[xxhash.Sum64String(key)%shardCount]
}

// Get retrieves the payload stored under key if it is still fresh.
func (s *MemoryStore) Get(_ context.Context, key string, lifetime time.Duration) ([]byte, bool) {
	if lifetime <= 0 {
		lifetime = s.defaultLifetime
	}

	shard := s.shardFor(key)
	shard.mu.RLock()
	entry, ok := shard.items[key]
	shard.mu.RUnlock()
	if !ok {
		return nil, false
	}

	if time.Since(entry.writtenAt) > lifetime {
		shard.mu.Lock()
		// Re-check under the write lock; a concurrent Set may have
		// refreshed the entry.
		if cur, ok := shard.items[key]; ok && cur.writtenAt.Equal(entry.writtenAt) {
			delete(shard.items, key)
		}
		shard.mu.Unlock()
		return nil, false
	}
	return entry.payload, true
}

// Set stores payload under key, replacing any prior entry and resetting
// its write timestamp. A negative lifetime deletes instead.
func (s *MemoryStore) Set(ctx context.Context, key string, payload []byte, lifetime time.Duration) bool {
	if lifetime < 0 {
		s.Invalidate(ctx, key)
		return true
	}

	shard := s.shardFor(key)
	shard.mu.Lock()
	shard.items[key] = memoryEntry{payload: payload, writtenAt: time.Now()}
	shard.mu.Unlock()
	return true
}

// Invalidate removes the entry under key immediately.
func (s *MemoryStore) Invalidate(_ context.Context, key string) {
	shard := s.shardFor(key)
	shard.mu.Lock()
	delete(shard.items, key)
	shard.mu.Unlock()
}

// Len returns the number of stored entries, including expired ones that
// have not been read since expiring.
func (s *MemoryStore) Len() int {
	n := 0
	for _, shard := range s.shards {
		shard.mu.RLock()
		n += len(shard.items)
		shard.mu.RUnlock()
	}
	return n
}

// Ensure MemoryStore implements Store interface.
var _ Store = (*MemoryStore)(nil)
