package engine

import (
	"context"

	"github.com/electwix/querystash/pkg/query"
)

// Row is a single result row in associative form.
type Row = map[string]any

// ResultSet is the raw outcome of a database execution. Select statements
// fill Rows; other statements report RowsAffected.
type ResultSet struct {
	Rows         []Row
	RowsAffected int64
}

// Database is the external collaborator that owns quoting, execution, and
// identity. Implementations live in pkg/db; tests use in-memory stubs.
type Database interface {
	// Quote renders a value as a dialect-safe SQL literal.
	Quote(v any) string
	// Execute runs the compiled statement. Errors propagate verbatim to
	// the engine's caller.
	Execute(ctx context.Context, kind query.Kind, sql string) (*ResultSet, error)
	// Identity returns a stable name for the target database, used in
	// cache-key derivation.
	Identity() string
}
