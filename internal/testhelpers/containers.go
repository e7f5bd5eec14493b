//go:build integration

// Package testhelpers starts PostgreSQL and Redis in Docker for integration tests.
package testhelpers

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/wekeepgrowing/nursery-backend/internal/config"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/cache"
	"github.com/wekeepgrowing/nursery-backend/internal/infrastructure/database"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	postgresImage = "postgres:16-alpine"
	redisImage    = "redis:7-alpine"
)

func start(t *testing.T, req testcontainers.ContainerRequest) (testcontainers.Container, string) {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping container-based test in short mode")
	}

	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start %s: %v", req.Image, err)
	}
	t.Cleanup(func() {
		if err := c.Terminate(context.Background()); err != nil {
			t.Logf("Failed to terminate %s: %v", req.Image, err)
		}
	})

	host, err := c.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}
	return c, host
}

// StartPostgres runs a throwaway PostgreSQL and returns a migrated connection.
func StartPostgres(t *testing.T) *gorm.DB {
	t.Helper()

	c, host := start(t, testcontainers.ContainerRequest{
		Image:        postgresImage,
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_DB":       "nursery_test",
			"POSTGRES_USER":     "nursery",
			"POSTGRES_PASSWORD": "nursery",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	})

	port, err := c.MappedPort(context.Background(), "5432/tcp")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	cfg := &config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		Name:            "nursery_test",
		User:            "nursery",
		Password:        "nursery",
		SSLMode:         "disable",
		MaxOpenConns:    20,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Minute,
		ConnMaxIdleTime: time.Minute,
	}

	logger := zap.NewNop()
	db, err := database.NewConnection(context.Background(), cfg, logger, false)
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db, logger) })

	if err := database.Migrate(db, logger); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}
	return db
}

// StartRedis runs a throwaway Redis and returns a connected client.
func StartRedis(t *testing.T) *redis.Client {
	t.Helper()

	c, host := start(t, testcontainers.ContainerRequest{
		Image:        redisImage,
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
	})

	port, err := c.MappedPort(context.Background(), "6379/tcp")
	if err != nil {
		t.Fatalf("Failed to get mapped port: %v", err)
	}

	client, err := cache.NewRedisClient(config.RedisConfig{Addr: fmt.Sprintf("%s:%s", host, port.Port())}, zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to connect to test redis: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client
}
