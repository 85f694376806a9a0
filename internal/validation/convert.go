package validation

import "rides/internal/domain"

// NewRide converts an accepted input into the fields handed to the store.
// Call it only after ValidateRide returned nil.
func (in RideInput) NewRide() domain.NewRide {
	return domain.NewRide{
		StartLat:      text(in.StartLat),
		StartLong:     text(in.StartLong),
		EndLat:        text(in.EndLat),
		EndLong:       text(in.EndLong),
		RiderName:     text(in.RiderName),
		DriverName:    text(in.DriverName),
		DriverVehicle: text(in.DriverVehicle),
	}
}
