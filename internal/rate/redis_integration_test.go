//go:build integration

package rate

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestRedisLimiter_Allow(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	limiter, err := NewRedisFromURL(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = limiter.Close() })

	for i := 0; i < 2; i++ {
		ok, retry, err := limiter.Allow(ctx, "vote:u1", 2, time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.LessOrEqual(t, retry, time.Minute)
	}

	ok, retry, err := limiter.Allow(ctx, "vote:u1", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, retry, time.Duration(0))

	ok, _, err = limiter.Allow(ctx, "vote:u2", 2, time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
