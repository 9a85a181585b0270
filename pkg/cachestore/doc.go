// Package cachestore provides durable, TTL-expiring key/value storage for
// cached query results.
//
// The package defines a generic Store interface with two implementations:
// FileStore persists entries under a sharded directory tree and survives
// process restarts, MemoryStore keeps entries in process memory. Both
// compute expiry lazily at read time from the entry's write timestamp;
// there is no background sweep.
//
// Usage:
//
//	st, err := cachestore.NewFileStore(cachestore.FileStoreOptions{Root: dir})
//	if err != nil {
//	    // cache root not usable
//	}
//	st.Set(ctx, key, payload, 5*time.Minute)
//	if data, ok := st.Get(ctx, key, 5*time.Minute); ok {
//	    // use cached payload
//	}
package cachestore
