package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"rides/internal/domain"
	"rides/internal/repository"
	"rides/internal/validation"
)

// RideCache is a read-through cache for rides, which never change once stored.
type RideCache interface {
	GetRide(ctx context.Context, id int64) (*domain.Ride, error)
	SetRide(ctx context.Context, ride *domain.Ride) error
}

// RideService handles ride operations.
type RideService struct {
	rideRepo repository.RideRepository
	cache    RideCache
	log      logrus.FieldLogger
}

// NewRideService creates a new RideService. cache may be nil.
func NewRideService(rideRepo repository.RideRepository, cache RideCache, log logrus.FieldLogger) *RideService {
	return &RideService{
		rideRepo: rideRepo,
		cache:    cache,
		log:      log,
	}
}

// Page is one page of rides.
type Page struct {
	// Next is the start of the following page, nil on the last page.
	Next  *int
	Limit int
	Rides []*domain.Ride
}

// CreateRide validates the input, stores the ride and returns it as read back
// from the store.
func (s *RideService) CreateRide(ctx context.Context, in validation.RideInput) ([]*domain.Ride, error) {
	if err := validation.ValidateRide(in); err != nil {
		s.log.WithField("error_code", validation.Code).Info(err.Error())
		return nil, err
	}

	id, err := s.rideRepo.AddRide(ctx, in.NewRide())
	if err != nil {
		s.log.WithError(err).Error("failed to add ride")
		return nil, err
	}

	rides, err := s.rideRepo.GetRideByID(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("ride_id", id).Error("failed to read back new ride")
		return nil, err
	}
	if len(rides) == 1 {
		s.cacheRide(ctx, rides[0])
	}
	return rides, nil
}

// GetRide returns the ride with the given id, or ErrRidesNotFound.
func (s *RideService) GetRide(ctx context.Context, id int64) ([]*domain.Ride, error) {
	if s.cache != nil {
		cached, err := s.cache.GetRide(ctx, id)
		if err != nil {
			s.log.WithError(err).WithField("ride_id", id).Warn("ride cache read failed")
		}
		if cached != nil {
			return []*domain.Ride{cached}, nil
		}
	}

	rides, err := s.rideRepo.GetRideByID(ctx, id)
	if err != nil {
		s.log.WithError(err).WithField("ride_id", id).Error("failed to get ride")
		return nil, err
	}
	if len(rides) == 0 {
		return nil, ErrRidesNotFound
	}

	s.cacheRide(ctx, rides[0])
	return rides, nil
}

// ListRides returns the page of rides starting at id start.
func (s *RideService) ListRides(ctx context.Context, start, limit int) (*Page, error) {
	total, err := s.rideRepo.GetTotalRides(ctx)
	if err != nil {
		s.log.WithError(err).Error("failed to count rides")
		return nil, err
	}

	rides, err := s.rideRepo.GetAllRides(ctx, start, limit)
	if err != nil {
		s.log.WithError(err).Error("failed to list rides")
		return nil, err
	}
	if len(rides) == 0 {
		return nil, ErrRidesNotFound
	}

	page := &Page{Limit: limit, Rides: rides}
	if next := start + limit; total > next {
		page.Next = &next
	}
	return page, nil
}

func (s *RideService) cacheRide(ctx context.Context, ride *domain.Ride) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetRide(ctx, ride); err != nil {
		s.log.WithError(err).WithField("ride_id", ride.ID).Warn("ride cache write failed")
	}
}

// ParsePageParams turns the raw start and limit query values into a page
// window. Missing, malformed or non-positive values take the defaults, and
// limit is capped at maxLimit when maxLimit is positive.
func ParsePageParams(rawStart, rawLimit string, maxLimit int) (start, limit int) {
	start = positiveInt(rawStart, repository.DefaultStart)
	limit = positiveInt(rawLimit, repository.DefaultLimit)
	if maxLimit > 0 && limit > maxLimit {
		limit = maxLimit
	}
	return start, limit
}

func positiveInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
