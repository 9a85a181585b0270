package cachestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// File permission constants for cache storage.
const (
	storeDirPerm  = 0o750 // Directory permissions: rwxr-x---
	storeFilePerm = 0o600 // File permissions: rw-------
)

// fileExt is the extension for persisted cache entries.
const fileExt = ".cache"

// FileStoreOptions configures a FileStore.
type FileStoreOptions struct {
	// Root is the directory under which shard directories are created.
	Root string
	// DefaultLifetime applies to lookups requesting a zero or negative
	// lifetime; defaults to DefaultLifetime when unset.
	DefaultLifetime time.Duration
}

// FileStore implements Store on the filesystem.
//
// Entries are addressed by the SHA-256 hex digest of the key and stored two
// directory levels deep (first hex character, then second) to bound the
// number of entries per directory. The file modification time is the sole
// expiry signal; payloads carry no embedded timestamp.
type FileStore struct {
	root            string
	defaultLifetime time.Duration
}

// NewFileStore creates a file-backed store rooted at opts.Root, creating
// the root directory if needed. An unusable root is a setup error and is
// the only failure this package surfaces as an error.
func NewFileStore(opts FileStoreOptions) (*FileStore, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("cachestore: root directory is required")
	}
	if err := os.MkdirAll(opts.Root, storeDirPerm); err != nil {
		return nil, fmt.Errorf("create cache root %s: %w", opts.Root, err)
	}
	lifetime := opts.DefaultLifetime
	if lifetime <= 0 {
		lifetime = DefaultLifetime
	}
	return &FileStore{root: opts.Root, defaultLifetime: lifetime}, nil
}

// Get retrieves the payload stored under key if it is still fresh.
// A zero or negative lifetime falls back to the store default, which
// mirrors the historical behavior of lifetime-less lookups.
func (s *FileStore) Get(_ context.Context, key string, lifetime time.Duration) ([]byte, bool) {
	if lifetime <= 0 {
		lifetime = s.defaultLifetime
	}

	path := s.pathFor(key)
	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}

	if time.Since(info.ModTime()) > lifetime {
		// Lazy eviction; removal failure just leaves the entry for the
		// next reader.
		_ = os.Remove(path)
		return nil, false
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, false
	}
	return data, true
}

// Set stores payload under key. A negative lifetime is a cache-busting
// signal: the entry is deleted and nothing is written.
func (s *FileStore) Set(ctx context.Context, key string, payload []byte, lifetime time.Duration) bool {
	if lifetime < 0 {
		s.Invalidate(ctx, key)
		return true
	}

	path := s.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(path), storeDirPerm); err != nil {
		return false
	}

	// Write to a uniquely named temp file in the same directory, then
	// rename into place. Concurrent readers observe either the old or the
	// new payload, never a torn one; concurrent writers race benignly and
	// the last rename wins.
	tmp := path + "." + uuid.NewString() + ".tmp"
	if err := os.WriteFile(tmp, payload, storeFilePerm); err != nil {
		return false
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return false
	}
	return true
}

// Invalidate removes the entry under key immediately.
func (s *FileStore) Invalidate(_ context.Context, key string) {
	_ = os.Remove(s.pathFor(key))
}

// pathFor converts a key to its sharded file path.
func (s *FileStore) pathFor(key string) string {
	addr := addressOf(key)
	return filepath.Join(s.root, addr[:1], addr[1:2], addr+fileExt)
}

// Stats walks the store and returns entry counts and total payload size.
// Expired entries are counted, not removed; see Cleanup.
func (s *FileStore) Stats() (total int, expired int, size int64) {
	_ = filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, fileExt) {
			return nil
		}
		total++
		size += info.Size()
		if time.Since(info.ModTime()) > s.defaultLifetime {
			expired++
		}
		return nil
	})
	return total, expired, size
}

// Cleanup removes entries older than the store's default lifetime. Expiry
// is otherwise lazy, so this exists for operators who want to reclaim disk
// without waiting for the next read.
func (s *FileStore) Cleanup() (removed int) {
	_ = filepath.Walk(s.root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() || !strings.HasSuffix(path, fileExt) {
			return nil
		}
		if time.Since(info.ModTime()) > s.defaultLifetime {
			if os.Remove(path) == nil {
				removed++
			}
		}
		return nil
	})
	return removed
}

// Ensure FileStore implements Store interface.
var _ Store = (*FileStore)(nil)
