// Package postgres adapts a PostgreSQL database (via jackc/pgx) to the
// engine.Database interface.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/electwix/querystash/pkg/db"
	"github.com/electwix/querystash/pkg/engine"
	"github.com/electwix/querystash/pkg/query"
)

var quoteOpts = db.QuoteOptions{
	BoolLiteral: func(b bool) string {
		if b {
			return "TRUE"
		}
		return "FALSE"
	},
	BytesLiteral: db.ByteaLiteral,
	TimeLayout:   "2006-01-02 15:04:05.999999",
}

// Database is a PostgreSQL-backed engine.Database.
type Database struct {
	conn     *pgx.Conn
	identity string
}

// Connect establishes a connection using a pgx connection string or URL.
// The cache-key identity is derived from host, port, and database name so
// credentials never appear in cache keys.
func Connect(ctx context.Context, dsn string) (*Database, error) {
	cfg, err := pgx.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	conn, err := pgx.ConnectConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	identity := fmt.Sprintf("postgres:%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)
	return &Database{conn: conn, identity: identity}, nil
}

// Close terminates the connection.
func (d *Database) Close(ctx context.Context) error {
	return d.conn.Close(ctx)
}

// Identity returns the stable cache-key identity for this database.
func (d *Database) Identity() string {
	return d.identity
}

// Quote renders v as a PostgreSQL literal.
func (d *Database) Quote(v any) string {
	return db.Quote(v, quoteOpts)
}

// Execute runs sqlText. Select statements return rows in associative
// form; all other kinds return the affected-row count.
func (d *Database) Execute(ctx context.Context, kind query.Kind, sqlText string) (*engine.ResultSet, error) {
	if kind != query.KindSelect {
		tag, err := d.conn.Exec(ctx, sqlText)
		if err != nil {
			return nil, err
		}
		return &engine.ResultSet{RowsAffected: tag.RowsAffected()}, nil
	}

	rows, err := d.conn.Query(ctx, sqlText)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []engine.Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, err
		}
		row := make(engine.Row, len(fields))
		for i, fd := range fields {
			row[fd.Name] = values[i]
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
