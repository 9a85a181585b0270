package engine

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/electwix/querystash/pkg/query"
)

// Result is a read-only view over an execution outcome. Cached and live
// results present the same contract; FromCache distinguishes them for
// callers that care.
type Result struct {
	shape        query.Shape
	factory      func() any
	rows         []Row
	rowsAffected int64
	fromCache    bool
}

func newResult(q *query.Query, rs *ResultSet, fromCache bool) *Result {
	return &Result{
		shape:        q.Shape(),
		factory:      q.Factory(),
		rows:         rs.Rows,
		rowsAffected: rs.RowsAffected,
		fromCache:    fromCache,
	}
}

// FromCache reports whether the result was served from the cache store.
func (r *Result) FromCache() bool { return r.fromCache }

// RowsAffected returns the affected-row count for non-Select statements.
func (r *Result) RowsAffected() int64 { return r.rowsAffected }

// Len returns the number of rows.
func (r *Result) Len() int { return len(r.rows) }

// Rows returns the rows in associative form. The returned slice is shared;
// callers must not mutate it.
func (r *Result) Rows() []Row { return r.rows }

// Hydrated returns the rows according to the query's result shape: for
// associative queries the rows themselves, for typed queries one struct
// per row produced by the query's factory.
func (r *Result) Hydrated() ([]any, error) {
	out := make([]any, 0, len(r.rows))
	if r.shape != query.ShapeTyped {
		for _, row := range r.rows {
			out = append(out, row)
		}
		return out, nil
	}
	if r.factory == nil {
		return nil, fmt.Errorf("typed result shape without a row factory")
	}
	for i, row := range r.rows {
		target := r.factory()
		if err := decodeRow(row, target); err != nil {
			return nil, fmt.Errorf("hydrate row %d: %w", i, err)
		}
		out = append(out, target)
	}
	return out, nil
}

// Decode hydrates all rows into dst, which must be a pointer to a slice
// of structs or maps.
func (r *Result) Decode(dst any) error {
	return decodeRow(r.rows, dst)
}

// decodeRow maps associative data onto a caller structure. Weak typing
// absorbs the numeric width differences introduced by the payload codec
// and by individual drivers.
func decodeRow(src, dst any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           dst,
		TagName:          "db",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(src)
}
