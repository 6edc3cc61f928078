// listing.go — GET /all-products.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/habibulloh333/project-uas-prod/internal/service"
)

// ListingHandler — агрегированный список товаров.
type ListingHandler struct {
	svc    *service.ListingService
	logger *slog.Logger
}

// NewListingHandler создаёт обработчик агрегированного списка.
func NewListingHandler(svc *service.ListingService, logger *slog.Logger) *ListingHandler {
	return &ListingHandler{svc: svc, logger: logger.With(slog.String("component", "listing_handler"))}
}

// AllProducts — GET /all-products. Ошибка любого вендора → 500.
func (h *ListingHandler) AllProducts(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.AllProducts(r.Context())
	if err != nil {
		writeServiceError(w, r, h.logger, err, "", "")
		return
	}
	writeJSON(w, http.StatusOK, listing)
}
