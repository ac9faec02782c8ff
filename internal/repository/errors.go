package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// Common errors for repository operations.
var (
	ErrEmailExists  = errors.New("email already exists")
	ErrUserNotFound = errors.New("user not found")
)

// SQLSTATE codes the repository reacts to.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// pgErrorCode extracts the SQLSTATE from a PostgreSQL error, or "".
func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isUniqueViolation checks if the error is a PostgreSQL unique constraint violation.
func isUniqueViolation(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// isForeignKeyViolation checks if the error is a PostgreSQL foreign key violation.
func isForeignKeyViolation(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// ErrorClass names the SQLSTATE class of a store error, for example
// "integrity_constraint_violation" or "connection_exception".
// Errors that never reached the server are reported as "client".
func ErrorClass(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "canceled"
	}

	code := pgErrorCode(err)
	if code == "" {
		return "client"
	}

	if name := pq.ErrorCode(code).Class().Name(); name != "" {
		return name
	}
	return "unknown"
}

// ErrorCodeName returns the condition name of a PostgreSQL error, such as
// "unique_violation", or "" if err does not carry a SQLSTATE.
func ErrorCodeName(err error) string {
	code := pgErrorCode(err)
	if code == "" {
		return ""
	}
	return pq.ErrorCode(code).Name()
}
