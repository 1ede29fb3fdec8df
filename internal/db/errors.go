package db

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

// ConstraintViolationError wraps a Postgres integrity-constraint rejection
// (SQLSTATE class 23) so callers can branch on it without knowing pgconn.
type ConstraintViolationError struct {
	Constraint string
	Code       string
	Err        error
}

func (e *ConstraintViolationError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("constraint %q violated (SQLSTATE %s): %v", e.Constraint, e.Code, e.Err)
	}
	return fmt.Sprintf("constraint violated (SQLSTATE %s): %v", e.Code, e.Err)
}

func (e *ConstraintViolationError) Unwrap() error { return e.Err }

// AsConstraintViolation inspects err for a Postgres integrity-constraint
// violation and, when found, returns it in wrapped form.
func AsConstraintViolation(err error) (*ConstraintViolationError, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && strings.HasPrefix(pgErr.Code, "23") {
		return &ConstraintViolationError{Constraint: pgErr.ConstraintName, Code: pgErr.Code, Err: err}, true
	}
	return nil, false
}
