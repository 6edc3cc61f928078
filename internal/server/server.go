// Пакет server — HTTP-сервер Catalog Gateway с graceful shutdown.
// Без TLS — HTTP внутри кластера, TLS termination на API Gateway.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	apierrors "github.com/habibulloh333/project-uas-prod/internal/api/errors"
	"github.com/habibulloh333/project-uas-prod/internal/api/handlers"
	"github.com/habibulloh333/project-uas-prod/internal/api/middleware"
	"github.com/habibulloh333/project-uas-prod/internal/config"
	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
	"github.com/habibulloh333/project-uas-prod/internal/domain/rbac"
)

// Префиксы маршрутов вендоров.
const (
	VendorAPrefix = "/vendor-a/products"
	VendorBPrefix = "/vendor-b/fashion"
	VendorCPrefix = "/vendor-c/products"
)

// Handlers — обработчики, из которых собирается роутер.
type Handlers struct {
	Health  *handlers.HealthHandler
	Status  *handlers.StatusHandler
	Auth    *handlers.AuthHandler
	Listing *handlers.ListingHandler
	VendorA *handlers.ProductRoutes[string, model.VendorAProduct]
	VendorB *handlers.ProductRoutes[string, model.VendorBProduct]
	VendorC *handlers.ProductRoutes[int64, model.VendorCProduct]
}

// Server — HTTP-сервер Catalog Gateway.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
	cfg        *config.Config
}

// New создаёт HTTP-сервер с настроенными маршрутами и middleware.
func New(cfg *config.Config, logger *slog.Logger, h Handlers, jwt *middleware.JWTAuth) *Server {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      NewRouter(cfg, logger, h, jwt),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	return &Server{
		httpServer: srv,
		logger:     logger,
		cfg:        cfg,
	}
}

// NewRouter собирает маршруты.
// Чтение открыто; POST требует токен; PUT и DELETE требуют роль admin.
func NewRouter(cfg *config.Config, logger *slog.Logger, h Handlers, jwt *middleware.JWTAuth) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.NotFound(w, "Маршрут не найден")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apierrors.MethodNotAllowed(w, "Метод не поддерживается")
	})

	// Служебные endpoints
	r.Get("/", h.Status.Banner)
	r.Get("/status", h.Status.Status)
	r.Get("/health/live", h.Health.HealthLive)
	r.Get("/health/ready", h.Health.HealthReady)
	r.Get("/metrics", h.Health.GetMetrics)

	// Аутентификация
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", h.Auth.Register)
		r.Post("/register-admin", h.Auth.RegisterAdmin)
		r.Post("/login", h.Auth.Login)
	})

	r.Get("/all-products", h.Listing.AllProducts)

	mountProducts(r, VendorAPrefix, h.VendorA, jwt)
	mountProducts(r, VendorBPrefix, h.VendorB, jwt)
	mountProducts(r, VendorCPrefix, h.VendorC, jwt)

	return r
}

// mountProducts подключает CRUD вендора под prefix.
func mountProducts[K comparable, R any](r chi.Router, prefix string, routes *handlers.ProductRoutes[K, R], jwt *middleware.JWTAuth) {
	keyPath := "/{" + handlers.KeyParam + "}"

	r.Route(prefix, func(r chi.Router) {
		r.Get("/", routes.List)
		r.Get(keyPath, routes.Get)
		r.With(jwt.Middleware()).Post("/", routes.Create)
		r.With(jwt.Middleware(rbac.RoleAdmin)).Put(keyPath, routes.Update)
		r.With(jwt.Middleware(rbac.RoleAdmin)).Delete(keyPath, routes.Delete)
	})
}

// Handler возвращает корневой обработчик (для тестов).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run запускает сервер и ожидает сигнала завершения (SIGINT, SIGTERM).
// При получении сигнала выполняется graceful shutdown.
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return s.RunContext(ctx)
}

// RunContext запускает сервер до отмены ctx, затем выполняет graceful shutdown.
func (s *Server) RunContext(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP-сервер запущен",
			slog.String("addr", s.httpServer.Addr),
		)

		err := s.httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("Получен сигнал завершения")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("ошибка HTTP-сервера: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	s.logger.Info("Выполняется graceful shutdown...")
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("ошибка при graceful shutdown: %w", err)
	}

	s.logger.Info("HTTP-сервер остановлен")
	return nil
}
