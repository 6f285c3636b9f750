package model

import (
	"context"
	"database/sql"
	"fmt"

	"cloud.google.com/go/civil"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the row-level helpers
// can run standalone or inside an upload transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// dates are stored as ISO TEXT so they sort and compare as strings
func parseStoredDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("invalid stored date %q: %w", s, err)
	}
	return d, nil
}
