package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repos react to.
// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	PgUniqueViolation     = "23505"
	PgForeignKeyViolation = "23503"
	PgCheckViolation      = "23514"
)

// PgErrorCode returns the SQLSTATE of a (possibly wrapped) postgres error, or "" for any other error.
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// PgConstraintName returns the name of the constraint a postgres error was raised for, if any.
func PgConstraintName(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	return ""
}

func IsUniqueViolationError(err error) bool {
	return PgErrorCode(err) == PgUniqueViolation
}

func IsForeignKeyViolationError(err error) bool {
	return PgErrorCode(err) == PgForeignKeyViolation
}

func IsCheckViolationError(err error) bool {
	return PgErrorCode(err) == PgCheckViolation
}
