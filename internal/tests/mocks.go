package tests

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"rides/internal/domain"
	"rides/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK RIDE REPOSITORY
// ──────────────────────────────────────────────

// MockRideRepository is an in-memory implementation of RideRepository.
// Ids start at 1 and are never reused, like the SERIAL column it stands in for.
type MockRideRepository struct {
	mu     sync.RWMutex
	rides  map[int64]*domain.Ride
	nextID int64

	// Counters for verification
	AddCallCount     int32
	GetByIDCallCount int32
	GetAllCallCount  int32
	TotalCallCount   int32

	// Error injection
	AddError     error
	GetByIDError error
	GetAllError  error
	TotalError   error
	PingError    error
}

var _ repository.RideRepository = (*MockRideRepository)(nil)

// NewMockRideRepository creates a new mock ride repository.
func NewMockRideRepository() *MockRideRepository {
	return &MockRideRepository{
		rides:  make(map[int64]*domain.Ride),
		nextID: 1,
	}
}

func (m *MockRideRepository) AddRide(ctx context.Context, ride domain.NewRide) (int64, error) {
	atomic.AddInt32(&m.AddCallCount, 1)
	if m.AddError != nil {
		return 0, m.AddError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.rides[id] = &domain.Ride{
		ID:            id,
		StartLat:      ride.StartLat,
		StartLong:     ride.StartLong,
		EndLat:        ride.EndLat,
		EndLong:       ride.EndLong,
		RiderName:     ride.RiderName,
		DriverName:    ride.DriverName,
		DriverVehicle: ride.DriverVehicle,
		Created:       time.Now().UTC(),
	}
	return id, nil
}

func (m *MockRideRepository) GetRideByID(ctx context.Context, id int64) ([]*domain.Ride, error) {
	atomic.AddInt32(&m.GetByIDCallCount, 1)
	if m.GetByIDError != nil {
		return nil, m.GetByIDError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return []*domain.Ride{}, nil
	}
	// Return a copy to avoid mutation issues.
	copy := *ride
	return []*domain.Ride{&copy}, nil
}

func (m *MockRideRepository) GetAllRides(ctx context.Context, start, limit int) ([]*domain.Ride, error) {
	atomic.AddInt32(&m.GetAllCallCount, 1)
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	if start <= 0 {
		start = repository.DefaultStart
	}
	if limit <= 0 {
		limit = repository.DefaultLimit
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*domain.Ride, 0, len(m.rides))
	for id, r := range m.rides {
		if id >= int64(start) {
			copy := *r
			result = append(result, &copy)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *MockRideRepository) GetTotalRides(ctx context.Context) (int, error) {
	atomic.AddInt32(&m.TotalCallCount, 1)
	if m.TotalError != nil {
		return 0, m.TotalError
	}
	return m.CountRides(), nil
}

func (m *MockRideRepository) Ping(ctx context.Context) error {
	return m.PingError
}

// Seed adds n rides with generated names, bypassing counters and error injection.
func (m *MockRideRepository) Seed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < n; i++ {
		id := m.nextID
		m.nextID++
		m.rides[id] = &domain.Ride{
			ID:            id,
			StartLat:      "10",
			StartLong:     "20",
			EndLat:        "30",
			EndLong:       "40",
			RiderName:     "rider",
			DriverName:    "driver",
			DriverVehicle: "vehicle",
			Created:       time.Now().UTC(),
		}
	}
}

// CountRides returns the number of stored rides.
func (m *MockRideRepository) CountRides() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rides)
}

// ──────────────────────────────────────────────
// MOCK RIDE CACHE
// ──────────────────────────────────────────────

// MockRideCache is an in-memory ride cache.
type MockRideCache struct {
	mu    sync.RWMutex
	rides map[int64]*domain.Ride

	HitCount int32

	GetError error
	SetError error
}

// NewMockRideCache creates a new mock ride cache.
func NewMockRideCache() *MockRideCache {
	return &MockRideCache{rides: make(map[int64]*domain.Ride)}
}

func (m *MockRideCache) GetRide(ctx context.Context, id int64) (*domain.Ride, error) {
	if m.GetError != nil {
		return nil, m.GetError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	ride, ok := m.rides[id]
	if !ok {
		return nil, nil
	}
	atomic.AddInt32(&m.HitCount, 1)
	copy := *ride
	return &copy, nil
}

func (m *MockRideCache) SetRide(ctx context.Context, ride *domain.Ride) error {
	if m.SetError != nil {
		return m.SetError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	copy := *ride
	m.rides[ride.ID] = &copy
	return nil
}

// Has reports whether the ride is cached.
func (m *MockRideCache) Has(id int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.rides[id]
	return ok
}
