package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"rides/internal/handler"
	"rides/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler    *handler.RideHandler
	HealthHandler  *handler.HealthHandler
	RedisClient    *redis.Client
	IdempotencyTTL time.Duration
	NewRelicApp    *newrelic.Application
	Logger         logrus.FieldLogger
}

// NewRouter creates a new Gin router with all routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID(deps.Logger))
	router.Use(middleware.RequestLogger(deps.Logger))
	router.Use(middleware.SecureHeaders())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient, deps.IdempotencyTTL, deps.Logger))

	// Health checks.
	router.GET("/health", deps.HealthHandler.Live)
	router.GET("/health/ready", deps.HealthHandler.Ready)

	rides := router.Group("/rides")
	{
		rides.POST("", deps.RideHandler.CreateRide)
		rides.GET("", deps.RideHandler.GetRides)
		rides.GET("/:id", deps.RideHandler.GetRide)
	}

	return router
}
