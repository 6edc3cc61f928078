// Точка входа Catalog Gateway — агрегатора каталогов трёх вендоров.
// Загружает конфигурацию, применяет миграции, подключается к PostgreSQL,
// создаёт репозитории, сервисы и HTTP-обработчики, запускает
// topologymetrics и HTTP-сервер с graceful shutdown.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/jackc/pgx/v5/stdlib"

	"github.com/habibulloh333/project-uas-prod/internal/api/handlers"
	"github.com/habibulloh333/project-uas-prod/internal/api/middleware"
	"github.com/habibulloh333/project-uas-prod/internal/auth"
	"github.com/habibulloh333/project-uas-prod/internal/config"
	"github.com/habibulloh333/project-uas-prod/internal/database"
	"github.com/habibulloh333/project-uas-prod/internal/repository"
	"github.com/habibulloh333/project-uas-prod/internal/server"
	"github.com/habibulloh333/project-uas-prod/internal/service"
)

func main() {
	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Catalog Gateway запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
	)

	// 3. Применение миграций БД
	logger.Info("Применение миграций БД...")
	if err := database.Migrate(cfg, logger); err != nil {
		logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 4. Подключение к PostgreSQL (pgxpool)
	ctx := context.Background()
	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	// 4.1 Адаптер pgxpool → *sql.DB для topologymetrics
	pgDB := stdlib.OpenDBFromPool(pool)
	defer pgDB.Close()

	// 5. Repositories
	userRepo := repository.NewUserRepository(pool)
	vendorARepo := repository.NewVendorARepository(pool)
	vendorBRepo := repository.NewVendorBRepository(pool)
	vendorCRepo := repository.NewVendorCRepository(pool)

	// 6. Кэш агрегированного списка и публикация событий
	listingCache := service.NewListingCache(cfg.ListingCacheTTL)
	if listingCache == nil {
		logger.Info("Кэш /all-products отключён")
	}

	var events service.EventPublisher = service.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		events = service.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		logger.Info("Публикация событий в Kafka включена",
			slog.Any("brokers", cfg.KafkaBrokers),
			slog.String("topic", cfg.KafkaTopic),
		)
	}
	defer func() {
		if err := events.Close(); err != nil {
			logger.Warn("Ошибка закрытия Kafka writer", slog.String("error", err.Error()))
		}
	}()

	// 7. Services
	tokens := auth.NewTokenIssuer([]byte(cfg.JWTSecret), cfg.JWTTTL)
	authSvc := service.NewAuthService(userRepo, auth.NewPasswordHasher(cfg.BcryptCost), tokens, logger)

	vendorASvc := service.NewCatalogService(vendorARepo, service.VendorASpec, events, listingCache, logger)
	vendorBSvc := service.NewCatalogService(vendorBRepo, service.VendorBSpec, events, listingCache, logger)
	vendorCSvc := service.NewCatalogService(vendorCRepo, service.VendorCSpec, events, listingCache, logger)
	listingSvc := service.NewListingService(vendorARepo, vendorBRepo, vendorCRepo, listingCache, logger)

	// 8. topologymetrics — мониторинг PostgreSQL, снимок попадает в /status
	depMonitor, depErr := service.NewDependencyMonitor(service.DependencyMonitorConfig{
		ServiceID:     handlers.ServiceName,
		Group:         cfg.DephealthGroup,
		DB:            pgDB,
		DatabaseURL:   cfg.DatabaseURL(),
		CheckInterval: cfg.DephealthCheckInterval,
	}, logger)
	if depErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", depErr.Error()),
		)
	} else if startErr := depMonitor.Start(ctx); startErr != nil {
		logger.Warn("Ошибка запуска topologymetrics",
			slog.String("error", startErr.Error()),
		)
		depMonitor = nil
	} else {
		logger.Info("topologymetrics запущен",
			slog.String("group", cfg.DephealthGroup),
			slog.String("check_interval", cfg.DephealthCheckInterval.String()),
		)
		defer depMonitor.Stop()
	}

	// 9. HTTP handlers и JWT middleware
	h := server.Handlers{
		Health:  handlers.NewHealthHandler(database.NewReadinessChecker(pool)),
		Status:  handlers.NewStatusHandler(logger, vendorASvc, vendorBSvc, vendorCSvc).WithDependencies(depMonitor),
		Auth:    handlers.NewAuthHandler(authSvc, logger),
		Listing: handlers.NewListingHandler(listingSvc, logger),
		VendorA: handlers.NewProductRoutes(vendorASvc, handlers.VendorACodec, logger),
		VendorB: handlers.NewProductRoutes(vendorBSvc, handlers.VendorBCodec, logger),
		VendorC: handlers.NewProductRoutes(vendorCSvc, handlers.VendorCCodec, logger),
	}
	jwtAuth := middleware.NewJWTAuth(tokens, logger)

	// 10. HTTP-сервер (блокирующий вызов с graceful shutdown)
	srv := server.New(cfg, logger, h, jwtAuth)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Catalog Gateway остановлен")
}
