// status.go — служебные endpoints: GET / и GET /status.
package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/habibulloh333/project-uas-prod/internal/config"
	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// BannerText — ответ GET /.
const BannerText = "Catalog Gateway работает"

// ProductCounter — количество товаров вендора.
type ProductCounter interface {
	Vendor() model.Vendor
	Count(ctx context.Context) (int, error)
}

// DependencyReporter — снимок состояния внешних зависимостей.
type DependencyReporter interface {
	Dependencies() map[string]bool
}

// StatusHandler — сводка по сервису, вендорам и зависимостям.
type StatusHandler struct {
	counters []ProductCounter
	deps     DependencyReporter
	logger   *slog.Logger
}

// NewStatusHandler создаёт обработчик /status.
func NewStatusHandler(logger *slog.Logger, counters ...ProductCounter) *StatusHandler {
	return &StatusHandler{
		counters: counters,
		logger:   logger.With(slog.String("component", "status_handler")),
	}
}

// WithDependencies добавляет в /status состояние зависимостей.
// Любая зависимость в состоянии fail даёт ok=false.
func (h *StatusHandler) WithDependencies(deps DependencyReporter) *StatusHandler {
	h.deps = deps
	return h
}

type statusResponse struct {
	OK           bool            `json:"ok"`
	Service      string          `json:"service"`
	Version      string          `json:"version"`
	Vendors      map[string]int  `json:"vendors"`
	Dependencies map[string]bool `json:"dependencies,omitempty"`
}

// Banner — GET /, текстовый ответ.
func (h *StatusHandler) Banner(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(BannerText))
}

// Status — GET /status, количество товаров по вендорам и состояние зависимостей.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	vendors := make(map[string]int, len(h.counters))
	for _, c := range h.counters {
		n, err := c.Count(r.Context())
		if err != nil {
			writeServiceError(w, r, h.logger, err, "", "")
			return
		}
		vendors[string(c.Vendor())] = n
	}

	resp := statusResponse{
		OK:      true,
		Service: ServiceName,
		Version: config.Version,
		Vendors: vendors,
	}
	if h.deps != nil {
		resp.Dependencies = h.deps.Dependencies()
		for _, ok := range resp.Dependencies {
			resp.OK = resp.OK && ok
		}
	}
	writeJSON(w, http.StatusOK, resp)
}
