package commands

import (
	"context"
	"strings"

	"github.com/Behyna/transaction-ledger/internal/api"
	v1 "github.com/Behyna/transaction-ledger/internal/api/v1"
	"github.com/Behyna/transaction-ledger/internal/api/validator"
	"github.com/Behyna/transaction-ledger/internal/cache"
	"github.com/Behyna/transaction-ledger/internal/config"
	"github.com/Behyna/transaction-ledger/internal/database"
	apperrors "github.com/Behyna/transaction-ledger/internal/errors"
	"github.com/Behyna/transaction-ledger/internal/metrics"
	"github.com/Behyna/transaction-ledger/internal/repository"
	"github.com/Behyna/transaction-ledger/internal/service"
	playground "github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			app := fx.New(serveOptions(cfg))
			if err := app.Err(); err != nil {
				return err
			}

			app.Run()
			return nil
		},
	}
}

func serveOptions(cfg *config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: logger.Named("fx")}
		}),
		fx.Provide(
			newLogger,
			newDatabase,
			newRegistry,
			newMetrics,
			newSummaryCache,
			repository.NewTransactionRepository,
			repository.NewTransactionManager,
			service.NewSystemClock,
			service.NewTransactionFactory,
			service.NewTransactionService,
			newSummaryService,
			newValidator,
			newPaging,
			v1.NewHandler,
			metrics.NewDatabaseMetricsCollector,
			metrics.NewSystemCollector,
			newOpsHandler,
			newFiberApp,
		),
		fx.Invoke(startServer),
	)
}

func newDatabase(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewConnection(context.Background(), cfg, logger)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return database.Close(db)
		},
	})

	return db, nil
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newMetrics(reg *prometheus.Registry) *metrics.Metrics {
	return metrics.NewMetrics(reg)
}

func newSummaryCache(lc fx.Lifecycle, cfg *config.Config, logger *zap.Logger) cache.SummaryCache {
	if !cfg.Redis.Enabled {
		logger.Info("Summary cache disabled")
		return cache.NewNoopCache()
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			// summaries fall back to the database while redis is unreachable
			if err := client.Ping(ctx).Err(); err != nil {
				logger.Warn("Redis unreachable, summaries will bypass the cache",
					zap.String("addr", cfg.Redis.Addr), zap.Error(err))
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return cache.NewRedisCache(client)
}

func newSummaryService(repo repository.TransactionRepository, summaryCache cache.SummaryCache,
	cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) service.TransactionSummaryService {
	return service.NewTransactionSummaryService(repo, summaryCache, cfg.Redis.SummaryTTL, logger, m)
}

func newValidator(m *metrics.Metrics) validator.IXValidator {
	return validator.NewXValidator(playground.New(), m)
}

func newPaging(cfg *config.Config) v1.Paging {
	return v1.Paging{DefaultPageSize: cfg.API.DefaultPageSize, MaxPageSize: cfg.API.MaxPageSize}
}

func newOpsHandler(cfg *config.Config, logger *zap.Logger, dbCollector *metrics.DatabaseMetricsCollector,
	reg *prometheus.Registry) *api.OpsHandler {
	if !cfg.Metrics.Enabled {
		return api.NewOpsHandler(logger, dbCollector, nil)
	}
	return api.NewOpsHandler(logger, dbCollector, reg)
}

func newFiberApp(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "transaction-ledger",
		ErrorHandler:          apperrors.ErrorHandler(logger),
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.API.CORSOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))
	app.Use(metrics.HTTPMetricsMiddleware(m, logger))

	return app
}

func startServer(app *fiber.App, handler *v1.Handler, ops *api.OpsHandler, cfg *config.Config,
	dbCollector *metrics.DatabaseMetricsCollector, systemCollector *metrics.SystemCollector,
	logger *zap.Logger, lc fx.Lifecycle) {
	api.SetupRoutes(app, handler, ops, api.RouteConfig{WriteRateLimit: cfg.API.WriteRateLimit})

	addr := listenAddr(cfg.API.Port)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if cfg.Metrics.Enabled {
				dbCollector.Start(cfg.Metrics.CollectInterval)
				systemCollector.Start(cfg.Metrics.CollectInterval)
			}

			go func() {
				if err := app.Listen(addr); err != nil {
					logger.Error("HTTP server stopped", zap.Error(err))
				}
			}()

			logger.Info("HTTP server listening", zap.String("addr", addr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			dbCollector.Stop()
			systemCollector.Stop()
			return app.ShutdownWithContext(ctx)
		},
	})
}

func listenAddr(port string) string {
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
