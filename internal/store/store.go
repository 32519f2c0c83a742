package store

import (
	"context"
	"database/sql"
)

// Querier is the subset of database/sql methods the store functions need.
// It is satisfied by both *sql.DB and *sql.Tx, so callers that need several
// store calls to commit or fail together can open a transaction and pass it
// through every call.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
