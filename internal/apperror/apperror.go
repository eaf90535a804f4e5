// Package apperror defines the error kinds shared by every domain package.
// Domain sentinels wrap one of these kinds so callers can classify them
// with errors.Is.
package apperror

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrEmptyCart       = errors.New("cart is empty")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrConflict        = errors.New("conflict")
	ErrInternal        = errors.New("internal error")
)

// PostgreSQL error codes treated as conflicts.
const (
	PgUniqueViolation      = "23505"
	PgForeignKeyViolation  = "23503"
	PgSerializationFailure = "40001"
	PgDeadlockDetected     = "40P01"
	PgLockNotAvailable     = "55P03"
	PgQueryCanceled        = "57014"
)

// FromDB translates a database error into a conflict when the failure is
// caused by contention or a constraint. Other errors pass through unchanged.
func FromDB(err error) error {
	if err == nil {
		return nil
	}

	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}

	switch string(pqErr.Code) {
	case PgUniqueViolation, PgForeignKeyViolation, PgSerializationFailure,
		PgDeadlockDetected, PgLockNotAvailable, PgQueryCanceled:
		return fmt.Errorf("%w: %s", ErrConflict, pqErr.Message)
	}
	return err
}

// Kind returns the taxonomy sentinel err belongs to; anything unclassified
// is internal.
func Kind(err error) error {
	for _, kind := range []error{
		ErrNotFound,
		ErrInvalidArgument,
		ErrEmptyCart,
		ErrUnauthenticated,
		ErrConflict,
	} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return ErrInternal
}
