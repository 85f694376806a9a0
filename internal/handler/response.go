package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"rides/internal/service"
	"rides/internal/validation"
)

const (
	codeRidesNotFound = "RIDES_NOT_FOUND_ERROR"
	codeServerError   = "SERVER_ERROR"

	msgRidesNotFound = "Could not find any rides"
	msgUnknownError  = "Unknown error"
	msgBadID         = "Bad Request of Id"
	msgBadBody       = "Invalid request body"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Store failures never expose their detail to the client.
func respondError(c *gin.Context, err error) {
	code, body := mapError(err)
	c.JSON(code, body)
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapError maps validation, service and store errors to HTTP responses.
func mapError(err error) (int, ErrorResponse) {
	var failure *validation.Failure
	switch {
	case errors.As(err, &failure):
		return http.StatusBadRequest, ErrorResponse{ErrorCode: failure.Code(), Message: failure.Error()}

	case errors.Is(err, service.ErrRidesNotFound):
		return http.StatusNotFound, ErrorResponse{ErrorCode: codeRidesNotFound, Message: msgRidesNotFound}

	default:
		return http.StatusInternalServerError, ErrorResponse{ErrorCode: codeServerError, Message: msgUnknownError}
	}
}
