package integration

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	postgresContainer "github.com/testcontainers/testcontainers-go/modules/postgres"
	redisContainer "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/sp3dr4/qrlink/internal/application"
	"github.com/sp3dr4/qrlink/internal/domain"
	"github.com/sp3dr4/qrlink/internal/idgen"
	"github.com/sp3dr4/qrlink/internal/infrastructure/migrations"
	postgresRepo "github.com/sp3dr4/qrlink/internal/infrastructure/postgres"
	redisCache "github.com/sp3dr4/qrlink/internal/infrastructure/redis"
)

var (
	sharedPostgres *postgresContainer.PostgresContainer
	sharedRedis    *redisContainer.RedisContainer
	sharedDB       *sqlx.DB
	sharedClient   *redis.Client
	containerOnce  sync.Once
	cleanupOnce    sync.Once
)

// TestEnvironment holds the test setup
type TestEnvironment struct {
	DB          *sqlx.DB
	RedisClient *redis.Client
	Repository  domain.LinkRepository
	Service     *application.LinkService
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// SetupTestEnvironment starts shared PostgreSQL and Redis containers, applies
// migrations, empties both stores and returns a LinkService backed by them.
func SetupTestEnvironment(t *testing.T) *TestEnvironment {
	containerOnce.Do(func() {
		ctx := context.Background()

		pg, err := postgresContainer.Run(ctx,
			"postgres:16-alpine",
			postgresContainer.WithDatabase("qrlink_test"),
			postgresContainer.WithUsername("test"),
			postgresContainer.WithPassword("test"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			t.Fatalf("failed to start postgres container: %v", err)
		}
		sharedPostgres = pg

		connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			t.Fatalf("failed to get connection string: %v", err)
		}

		db, err := postgresRepo.Open(connStr, postgresRepo.PoolOptions{MaxOpenConns: 10, MaxIdleConns: 5})
		if err != nil {
			t.Fatalf("failed to connect to database: %v", err)
		}
		sharedDB = db

		if err := migrations.Up(db.DB, migrations.DriverPostgres, discardLogger()); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}

		rc, err := redisContainer.Run(ctx,
			"redis:7-alpine",
			testcontainers.WithWaitStrategy(
				wait.ForLog("Ready to accept connections").
					WithStartupTimeout(30*time.Second)),
		)
		if err != nil {
			t.Fatalf("failed to start redis container: %v", err)
		}
		sharedRedis = rc

		endpoint, err := rc.Endpoint(ctx, "")
		if err != nil {
			t.Fatalf("failed to get redis endpoint: %v", err)
		}
		sharedClient = redis.NewClient(&redis.Options{Addr: endpoint})
	})

	if sharedDB == nil || sharedClient == nil {
		t.Fatal("test containers are not available")
	}

	cleanStores(t)

	ids, err := idgen.NewUUID(6)
	if err != nil {
		t.Fatalf("failed to create id generator: %v", err)
	}

	repo := postgresRepo.NewLinkRepository(sharedDB)
	cache := redisCache.NewLinkCache(sharedClient, discardLogger())
	service := application.NewLinkService(repo, cache, ids, nil, application.Options{CacheTTL: time.Minute})

	return &TestEnvironment{
		DB:          sharedDB,
		RedisClient: sharedClient,
		Repository:  repo,
		Service:     service,
	}
}

// cleanStores empties the urls table and the Redis database between tests
func cleanStores(t *testing.T) {
	if _, err := sharedDB.Exec("TRUNCATE TABLE urls"); err != nil {
		t.Fatalf("failed to clean database: %v", err)
	}
	if err := sharedClient.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}

// CleanupSharedResources should be called once at the end of all tests
func CleanupSharedResources() {
	cleanupOnce.Do(func() {
		ctx := context.Background()
		if sharedDB != nil {
			_ = sharedDB.Close()
		}
		if sharedClient != nil {
			_ = sharedClient.Close()
		}
		if sharedPostgres != nil {
			_ = sharedPostgres.Terminate(ctx)
		}
		if sharedRedis != nil {
			_ = sharedRedis.Terminate(ctx)
		}
	})
}
