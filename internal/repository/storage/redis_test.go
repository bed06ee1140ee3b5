package storage

import (
	"context"
	"testing"
	"time"

	"github.com/rocketscienceinc/connectfour/testing/suite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisStorage(t *testing.T) {
	t.Run("Connects to a running server", func(t *testing.T) {
		ctx, st := suite.New(t)

		// When: connecting to the container
		redisStorage, err := NewRedisStorage(ctx, st.RedisAddr)

		// Then: the connection works and closes cleanly
		require.NoError(t, err)
		require.NoError(t, redisStorage.Connection.Set(ctx, "ping", "pong", 0).Err())
		assert.NoError(t, redisStorage.Close())
	})

	t.Run("Fails when nothing listens", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		// When: connecting to a closed port
		redisStorage, err := NewRedisStorage(ctx, "127.0.0.1:1")

		// Then: an error is returned
		require.Error(t, err)
		assert.Nil(t, redisStorage)
	})
}
