package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const uniqueViolationErrCode = "23505"

// isUniqueViolationError reports whether err is a unique-constraint
// violation on the named constraint. An empty constraint matches any
// unique violation.
func isUniqueViolationError(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.SQLState() != uniqueViolationErrCode {
		return false
	}

	return constraint == "" || pgErr.ConstraintName == constraint
}
