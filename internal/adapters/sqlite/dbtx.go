// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx, so the same
// repository can run standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

var (
	_ DBTX = (*sql.DB)(nil)
	_ DBTX = (*sql.Tx)(nil)
)

const (
	// periodLayout is how months are stored: the first day, date only.
	periodLayout = time.DateOnly
	// stampLayout keeps assignment timestamps exact so a restored row matches its snapshot.
	stampLayout = time.RFC3339Nano
)

func formatPeriod(t time.Time) string {
	return t.UTC().Format(periodLayout)
}

func parsePeriod(s string) (time.Time, error) {
	t, err := time.ParseInLocation(periodLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored period %q: %w", s, err)
	}
	return t, nil
}

func formatStamp(t time.Time) string {
	return t.UTC().Format(stampLayout)
}

func parseStamp(s string) (time.Time, error) {
	t, err := time.Parse(stampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stored timestamp %q: %w", s, err)
	}
	return t, nil
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure that
// names the given column.
func isUniqueViolation(err error, column string) bool {
	var sqliteErr sqlite3.Error
	if !errors.As(err, &sqliteErr) {
		return false
	}
	if sqliteErr.ExtendedCode != sqlite3.ErrConstraintUnique {
		return false
	}
	return column == "" || strings.Contains(sqliteErr.Error(), column)
}
