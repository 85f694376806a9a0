package repository

import (
	"context"

	"rides/internal/domain"
)

// RideRepository defines the persistence operations for rides.
// Rides are append-only: there is no update or delete.
type RideRepository interface {
	// AddRide inserts a ride and returns the id the store assigned.
	AddRide(ctx context.Context, ride domain.NewRide) (int64, error)

	// GetRideByID returns the matching ride, or an empty slice when none exists.
	GetRideByID(ctx context.Context, id int64) ([]*domain.Ride, error)

	// GetAllRides returns up to limit rides with id >= start, ordered by id.
	GetAllRides(ctx context.Context, start, limit int) ([]*domain.Ride, error)

	// GetTotalRides counts every stored ride.
	GetTotalRides(ctx context.Context) (int, error)

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error
}

const (
	// DefaultStart is the first id of a page when none is given.
	DefaultStart = 1
	// DefaultLimit is the page size when none is given.
	DefaultLimit = 100
)
