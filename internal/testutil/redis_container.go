//go:build integration

package testutil

import (
	"context"
	"strconv"
	"testing"

	"github.com/Sternrassler/riot-match-client/pkg/cache"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// StartRedis runs a Redis container for the duration of the test and
// returns connection options for it.
func StartRedis(t *testing.T) cache.Options {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}
	t.Cleanup(func() { container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	p, err := strconv.Atoi(port.Port())
	if err != nil {
		t.Fatalf("Failed to parse container port: %v", err)
	}

	opts := cache.DefaultOptions()
	opts.Host = host
	opts.Port = p
	return opts
}

// NewRedisClient connects to the container started by StartRedis.
func NewRedisClient(t *testing.T, opts cache.Options) *redis.Client {
	t.Helper()
	client := redis.NewClient(&redis.Options{Addr: opts.Addr(), DB: opts.DB})
	t.Cleanup(func() { client.Close() })
	return client
}
