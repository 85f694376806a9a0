package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rides/internal/repository"
	"rides/internal/service"
	"rides/internal/tests"
	"rides/internal/validation"
)

func validInput() validation.RideInput {
	return validation.RideInput{
		StartLat:      json.Number("65"),
		StartLong:     json.Number("120"),
		EndLat:        json.Number("78"),
		EndLong:       json.Number("120"),
		RiderName:     "super rider",
		DriverName:    "super driver",
		DriverVehicle: "Honda Civic",
	}
}

var errStore = &repository.StoreError{Op: "test", Err: errors.New("connection refused")}

func newService(t *testing.T) (*service.RideService, *tests.MockRideRepository, *tests.MockRideCache, *logtest.Hook) {
	t.Helper()
	repo := tests.NewMockRideRepository()
	cache := tests.NewMockRideCache()
	log, hook := logtest.NewNullLogger()
	return service.NewRideService(repo, cache, log), repo, cache, hook
}

func TestCreateRide_StoresAndReadsBack(t *testing.T) {
	svc, repo, cache, _ := newService(t)

	rides, err := svc.CreateRide(context.Background(), validInput())
	require.NoError(t, err)
	require.Len(t, rides, 1)

	r := rides[0]
	assert.Equal(t, int64(1), r.ID)
	assert.Equal(t, "65", r.StartLat)
	assert.Equal(t, "120", r.EndLong)
	assert.Equal(t, "super rider", r.RiderName)
	assert.False(t, r.Created.IsZero())
	assert.Equal(t, 1, repo.CountRides())
	assert.True(t, cache.Has(1))
}

func TestCreateRide_ValidationFailureSkipsStore(t *testing.T) {
	svc, repo, _, hook := newService(t)
	in := validInput()
	in.DriverName = ""

	_, err := svc.CreateRide(context.Background(), in)

	var f *validation.Failure
	require.ErrorAs(t, err, &f)
	assert.Equal(t, validation.EmptyDriverName, f.Kind)
	assert.Zero(t, repo.AddCallCount)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.InfoLevel, hook.LastEntry().Level)
	assert.Equal(t, "Driver name must be a non empty string", hook.LastEntry().Message)
}

func TestCreateRide_StoreFailures(t *testing.T) {
	t.Run("insert fails", func(t *testing.T) {
		svc, repo, _, hook := newService(t)
		repo.AddError = errStore

		_, err := svc.CreateRide(context.Background(), validInput())
		assert.ErrorIs(t, err, repository.ErrStore)
		assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	})

	t.Run("read back fails", func(t *testing.T) {
		svc, repo, _, _ := newService(t)
		repo.GetByIDError = errStore

		_, err := svc.CreateRide(context.Background(), validInput())
		assert.ErrorIs(t, err, repository.ErrStore)
		assert.Equal(t, 1, repo.CountRides())
	})
}

func TestCreateRide_CacheWriteFailureIsIgnored(t *testing.T) {
	svc, _, cache, hook := newService(t)
	cache.SetError = errors.New("redis down")

	rides, err := svc.CreateRide(context.Background(), validInput())
	require.NoError(t, err)
	assert.Len(t, rides, 1)
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestGetRide_ReadsThroughCache(t *testing.T) {
	svc, repo, cache, _ := newService(t)
	repo.Seed(2)

	rides, err := svc.GetRide(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, rides, 1)
	assert.Equal(t, int64(2), rides[0].ID)
	assert.True(t, cache.Has(2))
	assert.Equal(t, int32(1), repo.GetByIDCallCount)

	rides, err = svc.GetRide(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), rides[0].ID)
	assert.Equal(t, int32(1), repo.GetByIDCallCount, "second read is served from cache")
	assert.Equal(t, int32(1), cache.HitCount)
}

func TestGetRide_NotFound(t *testing.T) {
	svc, _, _, _ := newService(t)

	_, err := svc.GetRide(context.Background(), 2)
	assert.ErrorIs(t, err, service.ErrRidesNotFound)
}

func TestGetRide_CacheReadFailureFallsBackToStore(t *testing.T) {
	svc, repo, cache, _ := newService(t)
	repo.Seed(1)
	cache.GetError = errors.New("redis down")

	rides, err := svc.GetRide(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rides, 1)
}

func TestGetRide_WithoutCache(t *testing.T) {
	repo := tests.NewMockRideRepository()
	repo.Seed(1)
	log, _ := logtest.NewNullLogger()
	svc := service.NewRideService(repo, nil, log)

	rides, err := svc.GetRide(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rides, 1)

	repo.GetByIDError = errStore
	_, err = svc.GetRide(context.Background(), 1)
	assert.ErrorIs(t, err, repository.ErrStore)
}

func TestListRides_Pagination(t *testing.T) {
	testCases := []struct {
		name     string
		seed     int
		start    int
		limit    int
		wantIDs  []int64
		wantNext *int
	}{
		{"first page with more", 5, 1, 2, []int64{1, 2}, intPtr(3)},
		{"middle page", 5, 3, 1, []int64{3}, intPtr(4)},
		{"exact end has no next", 5, 1, 5, []int64{1, 2, 3, 4, 5}, nil},
		{"last partial page", 5, 4, 2, []int64{4, 5}, nil},
		{"single ride default window", 1, 1, 100, []int64{1}, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo, _, _ := newService(t)
			repo.Seed(tc.seed)

			page, err := svc.ListRides(context.Background(), tc.start, tc.limit)
			require.NoError(t, err)

			var ids []int64
			for _, r := range page.Rides {
				ids = append(ids, r.ID)
			}
			assert.Equal(t, tc.wantIDs, ids)
			assert.Equal(t, tc.limit, page.Limit)
			assert.Equal(t, tc.wantNext, page.Next)
		})
	}
}

func TestListRides_EmptyPageIsNotFound(t *testing.T) {
	svc, repo, _, _ := newService(t)

	_, err := svc.ListRides(context.Background(), 1, 100)
	assert.ErrorIs(t, err, service.ErrRidesNotFound)

	repo.Seed(3)
	_, err = svc.ListRides(context.Background(), 101, 100)
	assert.ErrorIs(t, err, service.ErrRidesNotFound)
}

func TestListRides_StoreFailures(t *testing.T) {
	svc, repo, _, _ := newService(t)
	repo.TotalError = errStore
	_, err := svc.ListRides(context.Background(), 1, 100)
	assert.ErrorIs(t, err, repository.ErrStore)
	assert.Zero(t, repo.GetAllCallCount)

	svc, repo, _, _ = newService(t)
	repo.GetAllError = errStore
	_, err = svc.ListRides(context.Background(), 1, 100)
	assert.ErrorIs(t, err, repository.ErrStore)
}

func TestParsePageParams(t *testing.T) {
	testCases := []struct {
		name             string
		start, limit     string
		maxLimit         int
		wantStart, wantL int
	}{
		{"defaults when missing", "", "", 0, 1, 100},
		{"explicit values", "101", "5", 0, 101, 5},
		{"non numeric", "abc", "1e", 0, 1, 100},
		{"zero and negative", "0", "-3", 0, 1, 100},
		{"capped limit", "1", "5000", 1000, 1, 1000},
		{"under cap", "1", "50", 1000, 1, 50},
		{"whitespace", " 7 ", " 3", 0, 7, 3},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			start, limit := service.ParsePageParams(tc.start, tc.limit, tc.maxLimit)
			assert.Equal(t, tc.wantStart, start)
			assert.Equal(t, tc.wantL, limit)
		})
	}
}

func intPtr(n int) *int { return &n }
