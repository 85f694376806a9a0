// Package validation checks ride submissions before anything touches the store.
//
// Rules run in a fixed order and only the first violation is reported.
package validation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Code is the error code reported for every validation failure.
const Code = "VALIDATION_ERROR"

// Kind identifies which rule a submission violated.
type Kind int

const (
	InvalidStartCoordinate Kind = iota + 1
	InvalidEndCoordinate
	EmptyRiderName
	EmptyDriverName
	EmptyDriverVehicle
)

var messages = map[Kind]string{
	InvalidStartCoordinate: "Start latitude and longitude must be between -90 - 90 and -180 to 180 degrees respectively",
	InvalidEndCoordinate:   "End latitude and longitude must be between -90 - 90 and -180 to 180 degrees respectively",
	EmptyRiderName:         "Rider name must be a non empty string",
	EmptyDriverName:        "Driver name must be a non empty string",
	EmptyDriverVehicle:     "Driver Vehicle must be a non empty string",
}

// Failure describes the first rule a submission violated.
type Failure struct {
	Kind Kind
}

func (f *Failure) Error() string {
	return messages[f.Kind]
}

// Code returns the client facing error code.
func (f *Failure) Code() string {
	return Code
}

// RideInput carries the raw ride fields as decoded from a request body.
// Decode with json.Decoder.UseNumber so numbers arrive as json.Number.
type RideInput struct {
	StartLat      any `json:"start_lat"`
	StartLong     any `json:"start_long"`
	EndLat        any `json:"end_lat"`
	EndLong       any `json:"end_long"`
	RiderName     any `json:"rider_name"`
	DriverName    any `json:"driver_name"`
	DriverVehicle any `json:"driver_vehicle"`
}

type coordinate struct {
	Lat  float64 `validate:"gte=-90,lte=90"`
	Long float64 `validate:"gte=-180,lte=180"`
}

// validator.Validate caches struct metadata and is safe for concurrent use.
var validate = validator.New()

// ValidateRide returns nil when the input is acceptable, or a *Failure for the
// first violated rule.
func ValidateRide(in RideInput) error {
	if !validCoordinate(in.StartLat, in.StartLong) {
		return &Failure{Kind: InvalidStartCoordinate}
	}
	if !validCoordinate(in.EndLat, in.EndLong) {
		return &Failure{Kind: InvalidEndCoordinate}
	}
	if !nonEmptyString(in.RiderName) {
		return &Failure{Kind: EmptyRiderName}
	}
	if !nonEmptyString(in.DriverName) {
		return &Failure{Kind: EmptyDriverName}
	}
	if !nonEmptyString(in.DriverVehicle) {
		return &Failure{Kind: EmptyDriverVehicle}
	}
	return nil
}

func validCoordinate(lat, long any) bool {
	la, ok := numeric(lat)
	if !ok {
		return false
	}
	lo, ok := numeric(long)
	if !ok {
		return false
	}
	return validate.Struct(coordinate{Lat: la, Long: lo}) == nil
}

func nonEmptyString(v any) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return validate.Var(s, "required") == nil
}

// numeric reports the float value of a JSON number or numeric string.
// Absent values, null, blank strings and non-finite numbers are rejected.
func numeric(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// text renders a submitted value the way it should be persisted.
func text(v any) string {
	switch n := v.(type) {
	case json.Number:
		return n.String()
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	case int:
		return strconv.Itoa(n)
	case int64:
		return strconv.FormatInt(n, 10)
	default:
		return ""
	}
}
