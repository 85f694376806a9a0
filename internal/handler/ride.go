package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"rides/internal/domain"
	"rides/internal/logger"
	"rides/internal/service"
	"rides/internal/validation"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
	maxLimit    int
	log         logrus.FieldLogger
}

// NewRideHandler creates a new RideHandler. maxLimit caps the page size of
// GET /rides; zero leaves it uncapped.
func NewRideHandler(rideService *service.RideService, maxLimit int, log logrus.FieldLogger) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		maxLimit:    maxLimit,
		log:         log,
	}
}

// ListRidesResponse is the HTTP response for a page of rides.
type ListRidesResponse struct {
	Next  *int           `json:"next,omitempty"`
	Limit int            `json:"limit"`
	Ride  []*domain.Ride `json:"ride"`
}

func (h *RideHandler) logger(c *gin.Context) logrus.FieldLogger {
	return logger.FromContext(c.Request.Context(), h.log)
}

// CreateRide handles POST /rides
func (h *RideHandler) CreateRide(c *gin.Context) {
	log := h.logger(c)
	log.Info("Calling POST /rides started")

	req, err := decodeRideInput(c.Request.Body)
	if err != nil {
		log.WithError(err).Info("VALIDATION_ERROR: " + msgBadBody)
		c.JSON(http.StatusBadRequest, ErrorResponse{ErrorCode: validation.Code, Message: msgBadBody})
		return
	}

	rides, err := h.rideService.CreateRide(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}

	log.WithField("ride_id", rides[0].ID).Info("Calling POST /rides finished")
	respondJSON(c, http.StatusOK, rides)
}

// GetRides handles GET /rides?start=&limit=
func (h *RideHandler) GetRides(c *gin.Context) {
	log := h.logger(c)
	start, limit := service.ParsePageParams(c.Query("start"), c.Query("limit"), h.maxLimit)
	log.WithFields(logrus.Fields{"start": start, "limit": limit}).Info("Calling GET /rides started")

	page, err := h.rideService.ListRides(c.Request.Context(), start, limit)
	if err != nil {
		if errors.Is(err, service.ErrRidesNotFound) {
			log.Info("RIDES_NOT_FOUND_ERROR : " + msgRidesNotFound)
		}
		respondError(c, err)
		return
	}

	log.WithField("count", len(page.Rides)).Info("Calling GET /rides finished")
	respondJSON(c, http.StatusOK, ListRidesResponse{
		Next:  page.Next,
		Limit: page.Limit,
		Ride:  page.Rides,
	})
}

// GetRide handles GET /rides/:id
func (h *RideHandler) GetRide(c *gin.Context) {
	raw := c.Param("id")
	log := h.logger(c).WithField("id", raw)
	log.Info("Calling GET /rides/:id started")

	id, ok, err := parseRideID(raw)
	if err != nil {
		log.Info("VALIDATION_ERROR: " + msgBadID)
		c.JSON(http.StatusNotFound, ErrorResponse{ErrorCode: validation.Code, Message: msgBadID})
		return
	}
	if !ok {
		log.Info("RIDES_NOT_FOUND_ERROR: " + msgRidesNotFound)
		respondError(c, service.ErrRidesNotFound)
		return
	}

	rides, err := h.rideService.GetRide(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRidesNotFound) {
			log.Info("RIDES_NOT_FOUND_ERROR: " + msgRidesNotFound)
		}
		respondError(c, err)
		return
	}

	log.Info("Calling GET /rides/:id finished")
	respondJSON(c, http.StatusOK, rides)
}

// decodeRideInput reads a single JSON value from body. An empty body or a
// JSON value other than an object yields an empty submission, which then
// fails validation like any incomplete ride. Malformed JSON and trailing
// data are errors.
func decodeRideInput(body io.Reader) (validation.RideInput, error) {
	var in validation.RideInput

	var raw json.RawMessage
	dec := json.NewDecoder(body)
	if err := dec.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return in, nil
		}
		return in, err
	}
	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return in, errTrailingData
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return in, nil
	}
	obj := json.NewDecoder(bytes.NewReader(raw))
	obj.UseNumber()
	if err := obj.Decode(&in); err != nil {
		return validation.RideInput{}, err
	}
	return in, nil
}

var errTrailingData = errors.New("unexpected data after JSON body")

// maxExactID bounds the floats that convert to int64 without overflow.
const maxExactID = float64(1 << 63)

// parseRideID interprets a path id the way a numeric check would: anything
// that parses as a finite number is an id. Whole numbers within int64 are
// returned with ok set; other numbers (fractions, out of range) can never
// match a stored ride and report ok false. Only non-numeric input is an error.
func parseRideID(raw string) (id int64, ok bool, err error) {
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return n, true, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		var numErr *strconv.NumError
		// Out of range still means numeric.
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false, errNotNumeric
	}
	if f != math.Trunc(f) || f >= maxExactID || f < -maxExactID {
		return 0, false, nil
	}
	return int64(f), true, nil
}

var errNotNumeric = errors.New("id is not a number")
