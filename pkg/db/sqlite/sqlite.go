// Package sqlite adapts a SQLite database (via the modernc.org/sqlite
// driver) to the engine.Database interface.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/electwix/querystash/pkg/db"
	"github.com/electwix/querystash/pkg/engine"
	"github.com/electwix/querystash/pkg/query"
)

var quoteOpts = db.QuoteOptions{
	BoolLiteral: func(b bool) string {
		if b {
			return "1"
		}
		return "0"
	},
	BytesLiteral: db.HexLiteral,
	TimeLayout:   "2006-01-02 15:04:05",
}

// Database is a SQLite-backed engine.Database.
type Database struct {
	conn *sql.DB
	dsn  string
}

// Open opens (or creates) the SQLite database at dsn.
func Open(dsn string) (*Database, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dsn, err)
	}
	return &Database{conn: conn, dsn: dsn}, nil
}

// Close releases the underlying connection pool.
func (d *Database) Close() error {
	return d.conn.Close()
}

// Identity returns the stable cache-key identity for this database.
func (d *Database) Identity() string {
	return "sqlite:" + d.dsn
}

// Quote renders v as a SQLite literal.
func (d *Database) Quote(v any) string {
	return db.Quote(v, quoteOpts)
}

// Execute runs sqlText. Select statements return rows in associative
// form; all other kinds return the affected-row count.
func (d *Database) Execute(ctx context.Context, kind query.Kind, sqlText string) (*engine.ResultSet, error) {
	if kind != query.KindSelect {
		res, err := d.conn.ExecContext(ctx, sqlText)
		if err != nil {
			return nil, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return nil, err
		}
		return &engine.ResultSet{RowsAffected: affected}, nil
	}

	rows, err := d.conn.QueryContext(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRows(rows)
}

// collectRows drains a database/sql result into associative rows.
func collectRows(rows *sql.Rows) (*engine.ResultSet, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	var out []engine.Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, err
		}

		row := make(engine.Row, len(cols))
		for i, col := range cols {
			// TEXT columns scan as []byte through database/sql;
			// normalize to string so rows round-trip the cache codec
			// unchanged.
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
				continue
			}
			row[col] = values[i]
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &engine.ResultSet{Rows: out}, nil
}

// Ensure Database implements engine.Database.
var _ engine.Database = (*Database)(nil)
