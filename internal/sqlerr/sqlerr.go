// Package sqlerr classifies Postgres driver errors by SQLSTATE so the
// repos can map constraint violations to their own sentinel errors.
package sqlerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
	codeCheckViolation      = "23514"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsForeignKey reports whether err is a foreign-key violation
// (a write referenced a row that does not exist).
func IsForeignKey(err error) bool { return code(err) == codeForeignKeyViolation }

// IsUnique reports whether err is a unique-constraint violation.
func IsUnique(err error) bool { return code(err) == codeUniqueViolation }

// IsCheck reports whether err violated a CHECK constraint.
func IsCheck(err error) bool { return code(err) == codeCheckViolation }
