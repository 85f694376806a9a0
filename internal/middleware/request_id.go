package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"rides/internal/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID tags each request with an id, reusing the caller's X-Request-ID
// when present, and stores a logger carrying that id in the request context.
func RequestID(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)

		ctx := logger.WithContext(c.Request.Context(), log.WithField(requestIDKey, id))
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
