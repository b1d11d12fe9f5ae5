//go:build integration

// Package testutil starts disposable PostgreSQL and Redis containers for integration tests.
package testutil

import (
	"context"
	"fmt"
	"log"
	"time"

	"go-gin-event-gallery/config"
	"go-gin-event-gallery/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// SetupPostgres starts a container, connects through the regular config path and applies the schema.
func SetupPostgres(ctx context.Context) (*pgxpool.Pool, func(), error) {
	cfg := config.LoadTestConfig()

	container, err := postgres.Run(ctx,
		"postgres:alpine",
		postgres.WithDatabase(cfg.Database.DBName),
		postgres.WithUsername(cfg.Database.User),
		postgres.WithPassword(cfg.Database.Password),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("start postgres container: %w", err)
	}

	terminate := func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate postgres container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return nil, nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		terminate()
		return nil, nil, err
	}
	cfg.Database.Host = host
	cfg.Database.Port = port.Port()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("connect test database: %w", err)
	}

	if err := database.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		terminate()
		return nil, nil, fmt.Errorf("apply schema: %w", err)
	}

	log.Println("Test database ready")
	cleanup := func() {
		pool.Close()
		terminate()
	}
	return pool, cleanup, nil
}

// SetupRedis starts a Redis container and connects with the test config.
func SetupRedis(ctx context.Context) (*redis.Client, func(), error) {
	cfg := config.LoadTestConfig()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("start redis container: %w", err)
	}

	terminate := func() {
		if err := container.Terminate(context.Background()); err != nil {
			log.Printf("terminate redis container: %v", err)
		}
	}

	host, err := container.Host(ctx)
	if err != nil {
		terminate()
		return nil, nil, err
	}
	port, err := container.MappedPort(ctx, "6379/tcp")
	if err != nil {
		terminate()
		return nil, nil, err
	}
	cfg.Redis.Host = host
	cfg.Redis.Port = port.Port()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("connect test redis: %w", err)
	}

	cleanup := func() {
		rdb.Close()
		terminate()
	}
	return rdb, cleanup, nil
}
