package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NewRelic   NewRelicConfig
	Log        LogConfig
	Pagination PaginationConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration.
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	BootstrapSchema bool
}

// DSN returns the lib/pq connection string.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled      bool
	Addr         string
	Password     string
	DB           int
	RideCacheTTL time.Duration
	// IdempotencyTTL is how long POST responses stay replayable.
	IdempotencyTTL time.Duration
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level         string
	FilePath      string
	ErrorFilePath string
}

// PaginationConfig bounds GET /rides pages. A zero MaxLimit disables the cap.
type PaginationConfig struct {
	MaxLimit int
}

var defaults = map[string]any{
	"SERVER_PORT":             "8010",
	"SERVER_READ_TIMEOUT":     10 * time.Second,
	"SERVER_WRITE_TIMEOUT":    10 * time.Second,
	"SERVER_SHUTDOWN_TIMEOUT": 5 * time.Second,

	"DB_HOST":             "localhost",
	"DB_PORT":             "5432",
	"DB_USER":             "postgres",
	"DB_PASSWORD":         "postgres",
	"DB_NAME":             "rides",
	"DB_SSLMODE":          "disable",
	"DB_MAX_OPEN_CONNS":   50,
	"DB_MAX_IDLE_CONNS":   25,
	"DB_BOOTSTRAP_SCHEMA": false,

	"REDIS_ENABLED":         true,
	"REDIS_ADDR":            "localhost:6379",
	"REDIS_PASSWORD":        "",
	"REDIS_DB":              0,
	"REDIS_RIDE_CACHE_TTL":  10 * time.Minute,
	"REDIS_IDEMPOTENCY_TTL": 24 * time.Hour,

	"NEW_RELIC_APP_NAME":    "ride-service",
	"NEW_RELIC_LICENSE_KEY": "",
	"NEW_RELIC_ENABLED":     false,

	"LOG_LEVEL":      "info",
	"LOG_FILE":       "",
	"LOG_ERROR_FILE": "",

	"PAGINATION_MAX_LIMIT": 1000,
}

// Load loads configuration from a local .env file (when present), an optional
// CONFIG_FILE, and environment variables, in increasing priority.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	return &Config{
		Server: ServerConfig{
			Port:            v.GetString("SERVER_PORT"),
			ReadTimeout:     v.GetDuration("SERVER_READ_TIMEOUT"),
			WriteTimeout:    v.GetDuration("SERVER_WRITE_TIMEOUT"),
			ShutdownTimeout: v.GetDuration("SERVER_SHUTDOWN_TIMEOUT"),
		},
		Database: DatabaseConfig{
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetString("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			DBName:          v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			BootstrapSchema: v.GetBool("DB_BOOTSTRAP_SCHEMA"),
		},
		Redis: RedisConfig{
			Enabled:        v.GetBool("REDIS_ENABLED"),
			Addr:           v.GetString("REDIS_ADDR"),
			Password:       v.GetString("REDIS_PASSWORD"),
			DB:             v.GetInt("REDIS_DB"),
			RideCacheTTL:   v.GetDuration("REDIS_RIDE_CACHE_TTL"),
			IdempotencyTTL: v.GetDuration("REDIS_IDEMPOTENCY_TTL"),
		},
		NewRelic: NewRelicConfig{
			AppName:    v.GetString("NEW_RELIC_APP_NAME"),
			LicenseKey: v.GetString("NEW_RELIC_LICENSE_KEY"),
			Enabled:    v.GetBool("NEW_RELIC_ENABLED"),
		},
		Log: LogConfig{
			Level:         v.GetString("LOG_LEVEL"),
			FilePath:      v.GetString("LOG_FILE"),
			ErrorFilePath: v.GetString("LOG_ERROR_FILE"),
		},
		Pagination: PaginationConfig{
			MaxLimit: v.GetInt("PAGINATION_MAX_LIMIT"),
		},
	}
}
