package cache

import (
	"context"
	"testing"

	"quiz-board/internal/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRedisClient(t *testing.T) {
	ctx := context.Background()

	_, err := NewRedisClient(ctx, config.RedisConfig{})
	assert.ErrorContains(t, err, "address is empty")

	mr := miniredis.RunT(t)
	client, err := NewRedisClient(ctx, config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	defer client.Close()

	mr.Close()
	_, err = NewRedisClient(ctx, config.RedisConfig{Address: mr.Addr()})
	assert.Error(t, err)
}
