package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"rides/internal/domain"
	"rides/internal/repository"
)

const (
	insertRideQuery = `
		INSERT INTO Rides (startLat, startLong, endLat, endLong, riderName, driverName, driverVehicle)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING rideID
	`

	selectRideByIDQuery = `
		SELECT rideID, startLat, startLong, endLat, endLong, riderName, driverName, driverVehicle, created
		FROM Rides WHERE rideID = $1
	`

	selectRidesPageQuery = `
		SELECT rideID, startLat, startLong, endLat, endLong, riderName, driverName, driverVehicle, created
		FROM Rides WHERE rideID >= $1 ORDER BY rideID LIMIT $2
	`

	countRidesQuery = `SELECT COUNT(*) FROM Rides`
)

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	db *sqlx.DB
}

var _ repository.RideRepository = (*RideRepository)(nil)

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sqlx.DB) *RideRepository {
	return &RideRepository{db: db}
}

// AddRide inserts a ride and returns its store assigned id.
func (r *RideRepository) AddRide(ctx context.Context, ride domain.NewRide) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, insertRideQuery,
		ride.StartLat,
		ride.StartLong,
		ride.EndLat,
		ride.EndLong,
		ride.RiderName,
		ride.DriverName,
		ride.DriverVehicle,
	)
	if err != nil {
		return 0, storeErr("add ride", err)
	}
	return id, nil
}

// GetRideByID returns zero or one rides.
func (r *RideRepository) GetRideByID(ctx context.Context, id int64) ([]*domain.Ride, error) {
	rides := []*domain.Ride{}
	if err := r.db.SelectContext(ctx, &rides, selectRideByIDQuery, id); err != nil {
		return nil, storeErr("get ride by id", err)
	}
	return rides, nil
}

// GetAllRides returns one page of rides ordered by id.
// Non-positive start and limit fall back to repository.DefaultStart and DefaultLimit.
func (r *RideRepository) GetAllRides(ctx context.Context, start, limit int) ([]*domain.Ride, error) {
	if start <= 0 {
		start = repository.DefaultStart
	}
	if limit <= 0 {
		limit = repository.DefaultLimit
	}

	rides := []*domain.Ride{}
	if err := r.db.SelectContext(ctx, &rides, selectRidesPageQuery, start, limit); err != nil {
		return nil, storeErr("get all rides", err)
	}
	return rides, nil
}

// GetTotalRides counts all rides. An empty table yields 0.
func (r *RideRepository) GetTotalRides(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, countRidesQuery)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, storeErr("get total rides", err)
	}
	return total, nil
}

// Ping verifies the database connection.
func (r *RideRepository) Ping(ctx context.Context) error {
	if err := r.db.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}
