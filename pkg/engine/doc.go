// Package engine decides, per query, whether to execute against the
// database or serve a previously computed result from the cache store.
//
// Only Select queries with an attached cache policy interact with the
// cache. Cache keys combine the database identity with the compiled SQL,
// so the same statement run against two databases never shares an entry.
// Cache failures of any kind degrade to live execution; only database
// errors reach the caller.
package engine
