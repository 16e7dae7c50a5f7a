package fx

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/sp3dr4/qrlink/config"
	"github.com/sp3dr4/qrlink/internal/application"
	"github.com/sp3dr4/qrlink/internal/domain"
	"github.com/sp3dr4/qrlink/internal/idgen"
	cacheImpl "github.com/sp3dr4/qrlink/internal/infrastructure/cache"
	memoryRepo "github.com/sp3dr4/qrlink/internal/infrastructure/memory"
	"github.com/sp3dr4/qrlink/internal/infrastructure/migrations"
	postgresRepo "github.com/sp3dr4/qrlink/internal/infrastructure/postgres"
	redisCache "github.com/sp3dr4/qrlink/internal/infrastructure/redis"
	sqliteRepo "github.com/sp3dr4/qrlink/internal/infrastructure/sqlite"
	"github.com/sp3dr4/qrlink/internal/pkg/logging"
	"github.com/sp3dr4/qrlink/internal/pkg/metrics"
	"github.com/sp3dr4/qrlink/internal/qr"
)

// ProvideLogger creates the application logger and installs it as the slog default
func ProvideLogger(cfg *config.Config) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.Logging.Level)
	slog.SetDefault(logger)
	return logger
}

// ProvideRepository creates the repository selected by database.type and
// brings its schema up to date
func ProvideRepository(cfg *config.Config, logger *slog.Logger) (domain.LinkRepository, error) {
	switch cfg.Database.Type {
	case "memory":
		logger.Info("Using in-memory repository")
		return memoryRepo.NewLinkRepository(), nil

	case "sqlite":
		path := cfg.GetDatabaseURL()
		logger.Info("Using SQLite repository", "path", path)

		db, err := sqliteRepo.Open(path)
		if err != nil {
			return nil, err
		}
		if err := migrate(db, migrations.DriverSQLite, logger); err != nil {
			return nil, err
		}
		return sqliteRepo.NewLinkRepository(db), nil

	case "postgres":
		logger.Info("Using PostgreSQL repository")

		pg := cfg.Database.Postgres
		db, err := postgresRepo.Open(pg.URL, postgresRepo.PoolOptions{
			MaxOpenConns:    pg.MaxOpenConns,
			MaxIdleConns:    pg.MaxIdleConns,
			ConnMaxLifetime: pg.ConnMaxLifetime,
		})
		if err != nil {
			return nil, err
		}
		if err := migrate(db, migrations.DriverPostgres, logger); err != nil {
			return nil, err
		}
		return postgresRepo.NewLinkRepository(db), nil

	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
}

func migrate(db *sqlx.DB, driverName string, logger *slog.Logger) error {
	if err := migrations.Up(db.DB, driverName, logger); err != nil {
		_ = db.Close()
		return err
	}
	return nil
}

// ProvideIDGenerator creates the short id generator selected by app.id_generator
func ProvideIDGenerator(cfg *config.Config) (domain.IDGenerator, error) {
	return idgen.New(cfg.App.IDGenerator, cfg.App.ShortCodeLength)
}

// ProvideRedisClient connects to Redis when caching is enabled. It returns a
// nil client otherwise.
func ProvideRedisClient(cfg *config.Config, logger *slog.Logger) (*redis.Client, error) {
	if !cfg.Cache.Enabled {
		logger.Info("Cache disabled")
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Connected to Redis", "addr", cfg.Cache.Redis.Addr)
	return client, nil
}

// ProvideCache returns the Redis cache, or a no-op cache without a client
func ProvideCache(client *redis.Client, logger *slog.Logger) domain.LinkCache {
	if client == nil {
		return cacheImpl.NewNoOpCache()
	}
	return redisCache.NewLinkCache(client, logger)
}

// ProvideMetricsRegistry creates the Prometheus registry, or a no-op one when
// metrics are disabled
func ProvideMetricsRegistry(cfg *config.Config, logger *slog.Logger) (metrics.Registry, error) {
	if !cfg.Metrics.Enabled {
		logger.Info("Metrics disabled")
		return metrics.NewNoOpRegistry(), nil
	}
	return metrics.NewPrometheusRegistry(cfg.Metrics)
}

// ProvideQREncoder creates the PNG encoder for short link QR codes
func ProvideQREncoder(cfg *config.Config) (qr.Encoder, error) {
	return qr.NewPNGEncoder(cfg.QR.Size, cfg.QR.RecoveryLevel)
}

// ServiceParams holds the dependencies of the link service
type ServiceParams struct {
	fx.In

	Config     *config.Config
	Repository domain.LinkRepository
	Cache      domain.LinkCache
	IDs        domain.IDGenerator
	Metrics    metrics.Registry
}

// ProvideLinkService creates the link store and resolver
func ProvideLinkService(params ServiceParams) *application.LinkService {
	return application.NewLinkService(
		params.Repository,
		params.Cache,
		params.IDs,
		params.Metrics,
		application.Options{
			MaxCreateAttempts: params.Config.App.MaxCreateAttempts,
			CacheTTL:          params.Config.Cache.TTL,
		},
	)
}

// RepositoryParams holds the parameters needed for repository lifecycle management
type RepositoryParams struct {
	fx.In

	Repository domain.LinkRepository
	Logger     *slog.Logger
}

// RegisterRepositoryHooks registers repository lifecycle hooks with FX
func RegisterRepositoryHooks(lc fx.Lifecycle, params RepositoryParams) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if err := params.Repository.Close(); err != nil {
				params.Logger.Error("Failed to close repository resources", "error", err)
				return err
			}
			params.Logger.Info("Repository resources closed successfully")
			return nil
		},
	})
}

// CacheParams holds the parameters needed for cache lifecycle management
type CacheParams struct {
	fx.In

	Client *redis.Client
	Logger *slog.Logger
}

// RegisterCacheHooks closes the Redis client, if any, on shutdown
func RegisterCacheHooks(lc fx.Lifecycle, params CacheParams) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			if params.Client == nil {
				return nil
			}
			if err := params.Client.Close(); err != nil {
				params.Logger.Error("Failed to close Redis client", "error", err)
				return err
			}
			params.Logger.Info("Redis client closed")
			return nil
		},
	})
}
