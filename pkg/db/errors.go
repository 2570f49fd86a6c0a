package db

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	pgCodeUndefinedColumn = "42703"
	pgCodeUndefinedTable  = "42P01"
	pgCodeUniqueViolation = "23505"
)

// IsUniqueViolation reports whether the provided error references a unique
// violation constraint. When constraintName is provided, the helper looks for
// the constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	if code := sqlStateOf(err); code == pgCodeUniqueViolation {
		if constraintName == "" {
			return true
		}
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

// IsUndefinedColumn reports whether the error means a referenced column does
// not exist in the live schema. Both postgres and sqlite shapes are matched so
// the adaptive executors behave the same against either driver.
func IsUndefinedColumn(err error) bool {
	if err == nil {
		return false
	}
	if sqlStateOf(err) == pgCodeUndefinedColumn {
		return true
	}
	msg := err.Error()
	return (strings.Contains(msg, "column") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such column") ||
		strings.Contains(msg, "has no column named")
}

// IsUndefinedTable reports whether the error means the target table itself is
// missing, which the read path treats like any other schema mismatch.
func IsUndefinedTable(err error) bool {
	if err == nil {
		return false
	}
	if sqlStateOf(err) == pgCodeUndefinedTable {
		return true
	}
	msg := err.Error()
	return (strings.Contains(msg, "relation") && strings.Contains(msg, "does not exist")) ||
		strings.Contains(msg, "no such table")
}

// IsSchemaMismatch reports whether the error is any schema drift shape the
// adaptive executors know how to recover from.
func IsSchemaMismatch(err error) bool {
	return IsUndefinedColumn(err) || IsUndefinedTable(err)
}

// IsConnectionFailure reports whether the error looks like the store being
// unreachable rather than a malformed statement.
func IsConnectionFailure(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return true
	}
	msg := err.Error()
	for _, needle := range []string{
		"connection refused",
		"connection reset",
		"no such host",
		"i/o timeout",
		"broken pipe",
		"failed to connect",
		"bad connection",
	} {
		if strings.Contains(msg, needle) {
			return true
		}
	}
	return false
}

// UndefinedColumnName extracts the column a 42703 error points at, if the
// driver carries it. Empty string when unavailable.
func UndefinedColumnName(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) && pgxErr.Code == pgCodeUndefinedColumn {
		if pgxErr.ColumnName != "" {
			return pgxErr.ColumnName
		}
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == pgCodeUndefinedColumn {
		if pqErr.Column != "" {
			return pqErr.Column
		}
	}
	return ""
}

func sqlStateOf(err error) string {
	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}
