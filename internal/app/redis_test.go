package app

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rides/internal/config"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: mr.Addr()}, nil)
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "cache:ride:1", "x", 0).Err())
	assert.True(t, mr.Exists("cache:ride:1"))
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	_, err := NewRedisClient(context.Background(), config.RedisConfig{Addr: "127.0.0.1:1"}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to ping redis")
}

func TestKeyspace(t *testing.T) {
	ctx := context.Background()
	testCases := []struct {
		cmd  redis.Cmder
		want string
	}{
		{cmd: redis.NewStringCmd(ctx, "get", "cache:ride:42"), want: "cache"},
		{cmd: redis.NewBoolCmd(ctx, "setnx", "idempotency:POST:/rides:abc:lock", "1"), want: "idempotency"},
		{cmd: redis.NewStringCmd(ctx, "get", "plain"), want: "plain"},
		{cmd: redis.NewStatusCmd(ctx, "ping"), want: "redis"},
	}

	for _, tc := range testCases {
		t.Run(tc.cmd.Name(), func(t *testing.T) {
			assert.Equal(t, tc.want, keyspace(tc.cmd))
		})
	}
}
