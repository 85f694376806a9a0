package domain

import "time"

// Ride is a persisted ride record. Coordinates are kept exactly as submitted.
// The db tags are lowercase because PostgreSQL folds unquoted identifiers.
type Ride struct {
	ID            int64     `db:"rideid" json:"rideID"`
	StartLat      string    `db:"startlat" json:"startLat"`
	StartLong     string    `db:"startlong" json:"startLong"`
	EndLat        string    `db:"endlat" json:"endLat"`
	EndLong       string    `db:"endlong" json:"endLong"`
	RiderName     string    `db:"ridername" json:"riderName"`
	DriverName    string    `db:"drivername" json:"driverName"`
	DriverVehicle string    `db:"drivervehicle" json:"driverVehicle"`
	Created       time.Time `db:"created" json:"created"`
}

// NewRide holds the fields supplied when a ride is inserted.
// The store assigns ID and Created.
type NewRide struct {
	StartLat      string
	StartLong     string
	EndLat        string
	EndLong       string
	RiderName     string
	DriverName    string
	DriverVehicle string
}
