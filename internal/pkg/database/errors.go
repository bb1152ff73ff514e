package database

import (
	"errors"

	"github.com/lib/pq"
)

// PostgreSQL error codes the repositories translate into domain errors.
const (
	CodeUniqueViolation     = "23505"
	CodeForeignKeyViolation = "23503"
	CodeCheckViolation      = "23514"
)

// PQError unwraps err into a *pq.Error.
func PQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

// IsUniqueViolation reports whether err is a unique violation, and on which constraint.
func IsUniqueViolation(err error) (string, bool) {
	pqErr, ok := PQError(err)
	if !ok || string(pqErr.Code) != CodeUniqueViolation {
		return "", false
	}
	return pqErr.Constraint, true
}

// IsForeignKeyViolation reports whether err is a foreign key violation.
func IsForeignKeyViolation(err error) bool {
	pqErr, ok := PQError(err)
	return ok && string(pqErr.Code) == CodeForeignKeyViolation
}

// IsCheckViolation reports whether err is a check constraint violation, and on which constraint.
func IsCheckViolation(err error) (string, bool) {
	pqErr, ok := PQError(err)
	if !ok || string(pqErr.Code) != CodeCheckViolation {
		return "", false
	}
	return pqErr.Constraint, true
}
