// dephealth.go — мониторинг зависимостей Catalog Gateway через topologymetrics.
//
// Единственная зависимость — PostgreSQL, общая для трёх вендоров и учётных
// записей. Проверка идёт через *sql.DB поверх pgxpool и помечена critical:
// без базы ни CRUD, ни /all-products не работают.
//
// Prometheus-метрики app_dependency_* публикуются на /metrics, снимок
// состояния попадает в /status (поле dependencies).
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"
	"github.com/prometheus/client_golang/prometheus"
)

// DependencyPostgres — имя зависимости в метриках и в /status.
const DependencyPostgres = "postgresql"

// DependencyMonitorConfig — параметры мониторинга.
type DependencyMonitorConfig struct {
	// ServiceID — вершина графа топологии ("catalog-gateway")
	ServiceID string
	// Group — группа в метриках (CG_DEPHEALTH_GROUP)
	Group string
	// DB — *sql.DB из stdlib.OpenDBFromPool
	DB *sql.DB
	// DatabaseURL — только для лейблов host/port
	DatabaseURL string
	// CheckInterval — период проверки (CG_DEPHEALTH_CHECK_INTERVAL)
	CheckInterval time.Duration
	// Registerer — nil означает глобальный Prometheus registry
	Registerer prometheus.Registerer
}

// DependencyMonitor периодически проверяет PostgreSQL.
// nil-монитор допустим: Dependencies возвращает nil.
type DependencyMonitor struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDependencyMonitor создаёт монитор; проверки начинаются после Start.
func NewDependencyMonitor(cfg DependencyMonitorConfig, logger *slog.Logger) (*DependencyMonitor, error) {
	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		dephealth.AddDependency(DependencyPostgres, dephealth.TypePostgres,
			pgcheck.New(pgcheck.WithDB(cfg.DB)),
			dephealth.FromURL(cfg.DatabaseURL),
			dephealth.CheckInterval(cfg.CheckInterval),
			dephealth.Critical(true),
		),
	}
	if cfg.Registerer != nil {
		opts = append(opts, dephealth.WithRegisterer(cfg.Registerer))
	}

	dh, err := dephealth.New(cfg.ServiceID, cfg.Group, opts...)
	if err != nil {
		return nil, err
	}
	return &DependencyMonitor{
		dh:     dh,
		logger: logger.With(slog.String("component", "dependency_monitor")),
	}, nil
}

// Start запускает проверки до Stop или отмены ctx.
func (m *DependencyMonitor) Start(ctx context.Context) error {
	m.logger.Info("Мониторинг зависимостей запущен", slog.String("dependency", DependencyPostgres))
	return m.dh.Start(ctx)
}

// Stop останавливает проверки.
func (m *DependencyMonitor) Stop() {
	m.dh.Stop()
	m.logger.Info("Мониторинг зависимостей остановлен")
}

// Dependencies — снимок последних результатов: имя зависимости → ok.
// До первой проверки карта пуста.
func (m *DependencyMonitor) Dependencies() map[string]bool {
	if m == nil {
		return nil
	}
	return m.dh.Health()
}
