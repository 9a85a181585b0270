package engine

import (
	"context"

	"github.com/electwix/querystash/internal/logging"
	"github.com/electwix/querystash/pkg/cachestore"
	"github.com/electwix/querystash/pkg/query"
)

// Engine orchestrates the cache-or-execute decision. It is stateless
// between calls and safe for concurrent use.
type Engine struct {
	store  cachestore.Store
	logger logging.Logger
}

// New creates an Engine backed by store. A nil store disables caching
// entirely; a nil logger discards log output.
func New(store cachestore.Store, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &Engine{store: store, logger: logger}
}

// Run compiles q against db and returns its result, serving Select
// queries from the cache when a fresh entry exists.
//
// Cache interaction is skipped outright for non-Select queries and for
// queries without a policy. A policy lifetime of zero consults the cache
// (falling back to the store's default freshness window) but never writes;
// a negative lifetime busts the existing entry before executing.
func (e *Engine) Run(ctx context.Context, db Database, q *query.Query) (*Result, error) {
	sql := q.Compile(db.Quote)

	policy := q.Policy()
	if q.Kind() != query.KindSelect || policy == nil || e.store == nil {
		rs, err := db.Execute(ctx, q.Kind(), sql)
		if err != nil {
			return nil, err
		}
		return newResult(q, rs, false), nil
	}

	key := cachestore.DeriveKey(db.Identity(), sql)

	switch {
	case policy.Lifetime < 0:
		e.store.Invalidate(ctx, key)
	case policy.ForceExecute:
		// Execute regardless of any cached entry; the fresh result
		// replaces it below.
	default:
		if payload, ok := e.store.Get(ctx, key, policy.Lifetime); ok {
			rows, err := decodeRows(payload)
			if err == nil {
				e.logger.Debug("cache hit", "key", key)
				return newResult(q, &ResultSet{Rows: rows}, true), nil
			}
			// An undecodable payload is a miss, not an error.
			e.logger.Warn("discarding undecodable cache entry", "key", key, "error", err)
			e.store.Invalidate(ctx, key)
		}
	}

	rs, err := db.Execute(ctx, q.Kind(), sql)
	if err != nil {
		return nil, err
	}

	if policy.Lifetime > 0 {
		payload, err := encodeRows(rs.Rows)
		if err != nil {
			e.logger.Warn("cache populate skipped", "key", key, "error", err)
		} else if !e.store.Set(ctx, key, payload, policy.Lifetime) {
			e.logger.Warn("cache populate failed", "key", key)
		}
	}

	return newResult(q, rs, false), nil
}
