package fx

import (
	"go.uber.org/fx"

	"github.com/sp3dr4/qrlink/config"
	httpFX "github.com/sp3dr4/qrlink/internal/fx/http"
)

// ConfigModule loads configuration from file, .env and environment
var ConfigModule = fx.Module("config",
	fx.Provide(config.Load),
)

// ObservabilityModule provides the logger and the metrics registry
var ObservabilityModule = fx.Module("observability",
	fx.Provide(ProvideLogger),
	fx.Provide(ProvideMetricsRegistry),
)

// StorageModule opens the configured link repository and closes it on stop
var StorageModule = fx.Module("storage",
	fx.Provide(ProvideRepository),
	fx.Invoke(RegisterRepositoryHooks),
)

// CacheModule provides the resolve cache, backed by Redis when enabled
var CacheModule = fx.Module("cache",
	fx.Provide(ProvideRedisClient),
	fx.Provide(ProvideCache),
	fx.Invoke(RegisterCacheHooks),
)

// LinkModule provides id generation, QR encoding and the link service
var LinkModule = fx.Module("links",
	fx.Provide(ProvideIDGenerator),
	fx.Provide(ProvideQREncoder),
	fx.Provide(ProvideLinkService),
)

// CoreModules is everything below the transport layer
var CoreModules = fx.Options(
	ConfigModule,
	ObservabilityModule,
	StorageModule,
	CacheModule,
	LinkModule,
)

// HTTPServerModules is the full graph for the HTTP server entrypoint
var HTTPServerModules = fx.Options(
	CoreModules,
	httpFX.HTTPModule,
	httpFX.HTTPLifecycleModule,
)
