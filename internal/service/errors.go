package service

import "errors"

var (
	// ErrRidesNotFound is returned when a page or id lookup matches no rides.
	ErrRidesNotFound = errors.New("could not find any rides")
)
