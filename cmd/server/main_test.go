package main

import (
	"testing"
	"time"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rides/internal/config"
)

func TestRun_ReturnsErrorWhenDatabaseIsUnreachable(t *testing.T) {
	log, hook := logtest.NewNullLogger()
	cfg := &config.Config{}
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Database = config.DatabaseConfig{
		Host:     "127.0.0.1",
		Port:     "1",
		User:     "postgres",
		Password: "postgres",
		DBName:   "rides",
		SSLMode:  "disable",
	}

	err := run(cfg, log)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "connect to database")
	for _, e := range hook.AllEntries() {
		assert.NotEqual(t, "fatal", e.Level.String())
	}
}
