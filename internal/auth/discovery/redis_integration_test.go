//go:build integration

package discovery_test

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/passport/internal/auth/discovery"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestRedisResolver_RealRedis runs the resolver against a real Redis server.
// Requires Docker: go test -tags integration ./internal/auth/discovery/...
func TestRedisResolver_RealRedis(t *testing.T) {
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor: wait.ForLog("Ready to accept connections").
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	addr, err := container.Endpoint(ctx, "")
	require.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	r := discovery.NewRedisResolver(rdb, "")
	require.NoError(t, r.Ping(ctx))

	require.NoError(t, r.Register(ctx, "USER-SERVICE", "http://users-1:8080"))
	require.NoError(t, r.Register(ctx, "USER-SERVICE", "http://users-2:8080"))

	seen := map[string]bool{}
	for range 4 {
		u, err := r.Resolve(ctx, "USER-SERVICE")
		require.NoError(t, err)
		seen[u.Host] = true
	}
	require.Len(t, seen, 2)

	require.NoError(t, r.Deregister(ctx, "USER-SERVICE", "http://users-1:8080"))
	require.NoError(t, r.Deregister(ctx, "USER-SERVICE", "http://users-2:8080"))

	_, err = r.Resolve(ctx, "USER-SERVICE")
	require.ErrorIs(t, err, discovery.ErrNoEndpoints)
}
