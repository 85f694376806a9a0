package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"rides/internal/app"
	"rides/internal/config"
	"rides/internal/handler"
	"rides/internal/logger"
	internalRedis "rides/internal/redis"
	"rides/internal/repository/postgres"
	"rides/internal/service"
)

const serviceName = "ride-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	appLogger, err := logger.New(logger.Config{
		Level:         cfg.Log.Level,
		Service:       serviceName,
		FilePath:      cfg.Log.FilePath,
		ErrorFilePath: cfg.Log.ErrorFilePath,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize logger")
	}
	log := appLogger.Entry()

	if err := run(cfg, log); err != nil {
		log.WithError(err).Error("server stopped")
		appLogger.Close()
		os.Exit(1)
	}
	appLogger.Close()
}

// run starts the server and blocks until it is shut down. Every resource it
// opens is released before it returns.
func run(cfg *config.Config, log logrus.FieldLogger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		var err error
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.WithError(err).Warn("failed to initialize New Relic")
		} else {
			log.WithField("app", cfg.NewRelic.AppName).Info("New Relic enabled")
			defer nrApp.Shutdown(cfg.Server.ShutdownTimeout)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer db.Close()
	log.Info("Connected to PostgreSQL")

	if cfg.Database.BootstrapSchema {
		if err := app.BootstrapSchema(ctx, db); err != nil {
			return fmt.Errorf("prepare schema: %w", err)
		}
		log.Info("Schema ready")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info("Connected to Redis")
	}

	server := wireServer(db, redisClient, nrApp, cfg, log)

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serveErr:
		return fmt.Errorf("serve: %w", err)
	case <-quit:
	}
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("Server exited")
	return nil
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sqlx.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config, log logrus.FieldLogger) *http.Server {
	rideRepo := postgres.NewRideRepository(db)

	checks := map[string]handler.Pinger{"database": rideRepo}

	// Leave the interface nil when Redis is off so the service skips caching.
	var rideCache service.RideCache
	if redisClient != nil {
		cacheStore := internalRedis.NewCacheStore(redisClient, cfg.Redis.RideCacheTTL)
		rideCache = cacheStore
		checks["redis"] = cacheStore
	}

	rideService := service.NewRideService(rideRepo, rideCache, log)

	router := app.NewRouter(app.RouterDeps{
		RideHandler:    handler.NewRideHandler(rideService, cfg.Pagination.MaxLimit, log),
		HealthHandler:  handler.NewHealthHandler(checks),
		RedisClient:    redisClient,
		IdempotencyTTL: cfg.Redis.IdempotencyTTL,
		NewRelicApp:    nrApp,
		Logger:         log,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
