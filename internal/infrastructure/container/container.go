// Package container provides dependency injection using Uber FX
package container

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	gormLogger "gorm.io/gorm/logger"

	"github.com/mealforge/v1/internal/application/planner"
	"github.com/mealforge/v1/internal/infrastructure/config"
	"github.com/mealforge/v1/internal/infrastructure/corpus"
	"github.com/mealforge/v1/internal/infrastructure/http/apiserver"
	"github.com/mealforge/v1/internal/infrastructure/monitoring"
	"github.com/mealforge/v1/internal/infrastructure/persistence/memory"
	redisCache "github.com/mealforge/v1/internal/infrastructure/persistence/redis"
	"github.com/mealforge/v1/internal/infrastructure/persistence/sqlite"
	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/healthcheck"
	"github.com/mealforge/v1/pkg/logger"
)

// Module provides all dependency injection modules
var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	CorpusModule,
	CacheModule,
	ServiceModule,
	MonitoringModule,
	HTTPModule,
	LifecycleModule,
)

// ConfigModule provides configuration
var ConfigModule = fx.Provide(
	func() (*config.Config, error) {
		return config.Load("")
	},
)

// LoggerModule provides logging
var LoggerModule = fx.Provide(
	func(cfg *config.Config) (*zap.Logger, error) {
		return logger.New(logger.Config{
			Level:       cfg.App.LogLevel,
			Format:      cfg.App.LogFormat,
			Development: cfg.App.Environment == "development",
		})
	},
)

// CorpusModule provides the recipe index and its dataset loader
var CorpusModule = fx.Provide(
	corpus.NewIndex,

	func(cfg *config.Config, idx *corpus.Index, log *zap.Logger) (outbound.CorpusLoader, error) {
		switch cfg.Corpus.Source {
		case "sqlite":
			logLevel := gormLogger.Silent
			if cfg.App.Environment == "development" {
				logLevel = gormLogger.Warn
			}
			db, err := sqlite.SetupDatabase(cfg.Corpus.SQLitePath, logLevel)
			if err != nil {
				return nil, fmt.Errorf("setup corpus database: %w", err)
			}
			return corpus.NewSQLiteLoader(db, idx, log), nil
		case "csv", "":
			return corpus.NewCSVLoader(cfg.Corpus.DataDir, idx, log), nil
		default:
			return nil, fmt.Errorf("unknown corpus source %q", cfg.Corpus.Source)
		}
	},

	func(idx *corpus.Index) outbound.RecipeRepository {
		return idx
	},
)

// CacheModule provides the plan cache and, for the redis backend, the
// underlying client (nil otherwise) so health checks can reach it.
var CacheModule = fx.Provide(
	func(cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
		if !cfg.Cache.Enabled || cfg.Cache.Backend != "redis" {
			return nil, nil
		}
		addr := fmt.Sprintf("%s:%d", cfg.Cache.RedisHost, cfg.Cache.RedisPort)
		client, err := redisCache.NewClient(context.Background(), addr, cfg.Cache.RedisPassword, cfg.Cache.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("connect redis: %w", err)
		}
		log.Info("using redis plan cache", zap.String("addr", addr))
		return client, nil
	},

	func(cfg *config.Config, client *redis.Client, log *zap.Logger) (outbound.CacheRepository, error) {
		if !cfg.Cache.Enabled {
			return nil, nil
		}
		switch cfg.Cache.Backend {
		case "redis":
			return redisCache.NewCacheRepository(client, log), nil
		case "memory", "":
			log.Info("using in-memory plan cache")
			return memory.NewCacheRepository(), nil
		default:
			return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
		}
	},
)

// ServiceModule provides application services
var ServiceModule = fx.Provide(
	func(
		repo outbound.RecipeRepository,
		cache outbound.CacheRepository,
		metrics *monitoring.MetricsCollector,
		cfg *config.Config,
		log *zap.Logger,
	) inbound.PlannerService {
		return planner.NewService(repo, cache, metrics, log, cfg.Cache.TTL)
	},
)

// MonitoringModule provides metrics and health checks
var MonitoringModule = fx.Provide(
	monitoring.NewMetricsCollector,

	func(cfg *config.Config, loader outbound.CorpusLoader, client *redis.Client, log *zap.Logger) *healthcheck.HealthCheck {
		hc := healthcheck.New(cfg.App.Version, log)
		hc.Register("corpus", healthcheck.NewCorpusChecker(loader))
		if client != nil {
			hc.Register("cache", healthcheck.NewRedisChecker(client))
		}
		return hc
	},
)

// HTTPModule provides the HTTP server
var HTTPModule = fx.Provide(
	apiserver.NewAPIServer,
)

// LifecycleModule provides lifecycle hooks
var LifecycleModule = fx.Invoke(
	RegisterLifecycleHooks,
)

// RegisterLifecycleHooks registers application lifecycle hooks
func RegisterLifecycleHooks(
	lc fx.Lifecycle,
	cfg *config.Config,
	log *zap.Logger,
	loader outbound.CorpusLoader,
	cache outbound.CacheRepository,
	metrics *monitoring.MetricsCollector,
	server *apiserver.APIServer,
) {
	var watcher *corpus.Watcher

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("starting application",
				zap.String("name", cfg.App.Name),
				zap.String("version", cfg.App.Version),
				zap.String("environment", cfg.App.Environment),
			)

			// The service refuses plan requests until this succeeds.
			if err := loader.Load(ctx); err != nil {
				return fmt.Errorf("initial corpus load: %w", err)
			}
			status := loader.Status()
			metrics.CorpusReloaded(status.RecipeRows, status.LoadTime, nil)

			if cfg.Corpus.Watch && cfg.Corpus.Source != "sqlite" {
				w, err := corpus.NewWatcher(cfg.Corpus.DataDir, loader, log)
				if err != nil {
					return fmt.Errorf("create dataset watcher: %w", err)
				}
				w.OnReload(func(reloadCtx context.Context) {
					s := loader.Status()
					metrics.CorpusReloaded(s.RecipeRows, s.LoadTime, nil)
					if cache != nil {
						if err := cache.Flush(reloadCtx); err != nil {
							log.Warn("cache flush after reload failed", zap.Error(err))
						}
					}
				})
				if err := w.Start(); err != nil {
					return err
				}
				watcher = w
			}

			go func() {
				if err := server.Start(); err != nil {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()

			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down application")

			if watcher != nil {
				if err := watcher.Stop(); err != nil {
					log.Error("failed to stop dataset watcher", zap.Error(err))
				}
			}

			if err := server.Shutdown(ctx); err != nil {
				log.Error("failed to shutdown http server", zap.Error(err))
			}

			if closer, ok := cache.(interface{ Close() }); ok {
				closer.Close()
			}
			return nil
		},
	})
}
