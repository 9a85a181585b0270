package cachestore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// DefaultLifetime is the fallback freshness window applied when a caller
// asks for a lookup with a zero or negative lifetime.
const DefaultLifetime = 5 * time.Minute

// Store is the interface for cached payload storage.
//
// Store implementations never return errors: a failed read is a miss and a
// failed write reports false. The cache is an optimization layer and no
// storage failure may change caller correctness.
type Store interface {
	// Get retrieves the payload stored under key, reporting whether a fresh
	// entry was found. The lifetime argument is the freshness window the
	// caller configured for this entry; a zero or negative lifetime falls
	// back to the store's default lifetime. Expired entries are removed
	// best-effort and reported as absent.
	Get(ctx context.Context, key string, lifetime time.Duration) ([]byte, bool)
	// Set stores payload under key. A negative lifetime busts the cache:
	// the existing entry is deleted and nothing is written. Returns false
	// on any storage failure.
	Set(ctx context.Context, key string, payload []byte, lifetime time.Duration) bool
	// Invalidate removes the entry under key immediately, regardless of TTL.
	Invalidate(ctx context.Context, key string)
}

// DeriveKey builds the logical cache key for a statement compiled against a
// particular database. Tying the key to the database identity prevents the
// same SQL text from colliding across databases.
func DeriveKey(identity, sql string) string {
	sum := sha256.Sum256([]byte(identity + "\n" + sql))
	return "query:" + hex.EncodeToString(sum[:])
}

// addressOf maps an arbitrary key to its fixed-width storage address.
func addressOf(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
