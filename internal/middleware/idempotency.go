package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"rides/internal/logger"
)

const (
	idempotencyHeader = "Idempotency-Key"
	replayedHeader    = "Idempotent-Replayed"
	idempotencyPrefix = "idempotency:"
	lockSuffix        = ":lock"

	// inFlightTTL bounds how long a crashed request can hold its key.
	inFlightTTL = 30 * time.Second

	codeIdempotencyConflict = "IDEMPOTENCY_CONFLICT"
	msgIdempotencyConflict  = "A request with this Idempotency-Key is already in progress"

	// DefaultIdempotencyTTL is how long a response stays replayable.
	DefaultIdempotencyTTL = 24 * time.Hour
)

// cachedResponse stores the response for idempotent requests.
type cachedResponse struct {
	StatusCode int         `json:"status_code"`
	Body       []byte      `json:"body"`
	Headers    http.Header `json:"headers"`
}

// responseWriter wraps gin.ResponseWriter to capture the response.
type responseWriter struct {
	gin.ResponseWriter
	body *bytes.Buffer
}

func (w *responseWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}

// IdempotencyMiddleware replays the stored response of a mutating request
// sent again with the same Idempotency-Key. A nil client disables it.
func IdempotencyMiddleware(redisClient *redis.Client, ttl time.Duration, log logrus.FieldLogger) gin.HandlerFunc {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return func(c *gin.Context) {
		if redisClient == nil {
			c.Next()
			return
		}

		// Only apply to mutating methods.
		if c.Request.Method != http.MethodPost && c.Request.Method != http.MethodPut && c.Request.Method != http.MethodPatch {
			c.Next()
			return
		}

		key := c.GetHeader(idempotencyHeader)
		if key == "" {
			c.Next()
			return
		}

		ctx := c.Request.Context()
		cacheKey := idempotencyPrefix + c.Request.Method + ":" + c.Request.URL.Path + ":" + key

		cached, err := getCachedResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			// Redis error - proceed without idempotency.
			logger.FromContext(ctx, log).WithError(err).Warn("idempotency lookup failed")
			c.Next()
			return
		}

		if cached != nil {
			replay(c, cached)
			return
		}

		// A duplicate arriving while the first is still running must not run twice.
		acquired, err := redisClient.SetNX(ctx, cacheKey+lockSuffix, "1", inFlightTTL).Result()
		if err != nil {
			logger.FromContext(ctx, log).WithError(err).Warn("idempotency lock failed")
			c.Next()
			return
		}
		if !acquired {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error_code": codeIdempotencyConflict,
				"message":    msgIdempotencyConflict,
			})
			return
		}
		defer func() {
			if err := redisClient.Del(context.WithoutCancel(ctx), cacheKey+lockSuffix).Err(); err != nil {
				logger.FromContext(ctx, log).WithError(err).Warn("idempotency unlock failed")
			}
		}()

		// The first request may have finished between the lookup and the lock.
		cached, err = getCachedResponse(ctx, redisClient, cacheKey)
		if err != nil && err != redis.Nil {
			logger.FromContext(ctx, log).WithError(err).Warn("idempotency lookup failed")
		}
		if cached != nil {
			replay(c, cached)
			return
		}

		// Wrap response writer to capture response.
		w := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = w

		c.Next()

		// Server errors are not replayed so the client can retry them.
		if c.Writer.Status() >= 200 && c.Writer.Status() < 500 {
			response := cachedResponse{
				StatusCode: c.Writer.Status(),
				Body:       w.body.Bytes(),
				Headers:    extractResponseHeaders(c),
			}
			if err := setCachedResponse(ctx, redisClient, cacheKey, &response, ttl); err != nil {
				logger.FromContext(ctx, log).WithError(err).Warn("idempotency store failed")
			}
		}
	}
}

// replay writes a stored response and stops the chain.
func replay(c *gin.Context, cached *cachedResponse) {
	for k, v := range cached.Headers {
		for _, val := range v {
			c.Header(k, val)
		}
	}
	c.Header(replayedHeader, "true")
	c.Data(cached.StatusCode, cached.Headers.Get("Content-Type"), cached.Body)
	c.Abort()
}

// getCachedResponse retrieves a cached response from Redis.
func getCachedResponse(ctx context.Context, client *redis.Client, key string) (*cachedResponse, error) {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, err
	}

	var cached cachedResponse
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}

	return &cached, nil
}

// setCachedResponse stores a response in Redis.
func setCachedResponse(ctx context.Context, client *redis.Client, key string, response *cachedResponse, ttl time.Duration) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}

	return client.Set(ctx, key, data, ttl).Err()
}

// extractResponseHeaders extracts headers to cache.
func extractResponseHeaders(c *gin.Context) http.Header {
	headers := make(http.Header)
	// Only cache Content-Type header.
	if ct := c.Writer.Header().Get("Content-Type"); ct != "" {
		headers.Set("Content-Type", ct)
	}
	return headers
}
