package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/storefront/internal/config"
)

func TestNop_AlwaysAllows(t *testing.T) {
	for i := 0; i < 100; i++ {
		ok, err := Nop{}.Allow(context.Background(), "login:bob")
		require.NoError(t, err)
		assert.True(t, ok)
	}
}

func TestNewRedis_Defaults(t *testing.T) {
	r := NewRedis(redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"}), 0, 0)
	assert.Equal(t, int64(5), r.limit)
	assert.Equal(t, time.Minute, r.window)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_, err := Connect(ctx, config.Redis{Addr: "127.0.0.1:1"})
	assert.Error(t, err)
}
