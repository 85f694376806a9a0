package repository

import (
	"errors"
	"fmt"
)

// ErrStore matches every failure raised by a ride store.
var ErrStore = errors.New("store failure")

// StoreError wraps an underlying persistence error.
type StoreError struct {
	// Op names the store operation, e.g. "add ride".
	Op string
	// Code is the SQLSTATE reported by the database, when there is one.
	Code string
	Err  error
}

func (e *StoreError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s (sqlstate %s)", e.Op, e.Err, e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrStore.
func (e *StoreError) Is(target error) bool {
	return target == ErrStore
}
