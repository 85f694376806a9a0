package postgres

import (
	"errors"

	"github.com/lib/pq"

	"rides/internal/repository"
)

// storeErr wraps a driver error as a repository.StoreError, keeping the
// SQLSTATE when the error came from PostgreSQL.
func storeErr(op string, err error) error {
	se := &repository.StoreError{Op: op, Err: err}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		se.Code = string(pqErr.Code)
	}
	return se
}
