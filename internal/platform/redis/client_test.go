package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"persona/internal/platform/config"
)

func TestNewWithoutURL(t *testing.T) {
	client, err := New(context.Background(), config.RedisConfig{})
	require.NoError(t, err)
	assert.Nil(t, client)
}

func TestOptions(t *testing.T) {
	t.Run("config overrides url", func(t *testing.T) {
		opts, err := options(config.RedisConfig{
			URL:         "redis://cache:6380/2?pool_size=3",
			PoolSize:    12,
			ReadTimeout: 750 * time.Millisecond,
		})
		require.NoError(t, err)
		assert.Equal(t, "cache:6380", opts.Addr)
		assert.Equal(t, 2, opts.DB)
		assert.Equal(t, 12, opts.PoolSize)
		assert.Equal(t, 750*time.Millisecond, opts.ReadTimeout)
	})

	t.Run("zero settings keep url values", func(t *testing.T) {
		opts, err := options(config.RedisConfig{URL: "redis://cache:6379/0?pool_size=3&dial_timeout=4s"})
		require.NoError(t, err)
		assert.Equal(t, 3, opts.PoolSize)
		assert.Equal(t, 4*time.Second, opts.DialTimeout)
	})

	t.Run("bad url", func(t *testing.T) {
		_, err := options(config.RedisConfig{URL: "http://cache"})
		require.Error(t, err)
	})
}
