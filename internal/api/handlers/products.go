// products.go — CRUD товаров вендора, общий для всех вендоров.
// Маршрут вендора задаётся ProductRoutes: разбор ключа, схемы запросов,
// представление записи и поведение DELETE.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	apierrors "github.com/habibulloh333/project-uas-prod/internal/api/errors"
	"github.com/habibulloh333/project-uas-prod/internal/api/middleware"
	"github.com/habibulloh333/project-uas-prod/internal/service"
)

// KeyParam — имя URL-параметра ключа товара.
const KeyParam = "key"

// VendorCodec — схемы запросов и представление записей вендора.
type VendorCodec[K comparable, R any] struct {
	// ParseKey разбирает ключ из URL
	ParseKey func(raw string) (K, error)
	// DecodeCreate читает и проверяет тело POST
	DecodeCreate func(w http.ResponseWriter, r *http.Request) (*R, error)
	// DecodePatch читает и проверяет тело PUT; результат применяется к текущей записи
	DecodePatch func(w http.ResponseWriter, r *http.Request) (func(*R), error)
	// Present — JSON-представление записи
	Present func(rec *R) any
	// DeleteNoContent — DELETE отвечает 204 без тела
	DeleteNoContent bool
}

// ProductRoutes — обработчики CRUD одного вендора.
type ProductRoutes[K comparable, R any] struct {
	svc    *service.CatalogService[K, R]
	codec  VendorCodec[K, R]
	logger *slog.Logger
}

// NewProductRoutes создаёт обработчики CRUD вендора.
func NewProductRoutes[K comparable, R any](
	svc *service.CatalogService[K, R],
	codec VendorCodec[K, R],
	logger *slog.Logger,
) *ProductRoutes[K, R] {
	return &ProductRoutes[K, R]{
		svc:   svc,
		codec: codec,
		logger: logger.With(
			slog.String("component", "product_handler"),
			slog.String("vendor", string(svc.Vendor())),
		),
	}
}

type listResponse struct {
	Success bool  `json:"success"`
	Total   int   `json:"total"`
	Data    []any `json:"data"`
}

type itemResponse struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

type deleteResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	DeletedProduct any    `json:"deleted_product"`
}

const (
	msgProductNotFound = "Товар не найден"
	msgProductExists   = "Товар с таким ключом уже существует"
)

// List — GET /, все товары вендора в порядке ключа.
func (h *ProductRoutes[K, R]) List(w http.ResponseWriter, r *http.Request) {
	recs, err := h.svc.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	data := make([]any, 0, len(recs))
	for _, rec := range recs {
		data = append(data, h.codec.Present(rec))
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Total: len(data), Data: data})
}

// Get — GET /{key}.
func (h *ProductRoutes[K, R]) Get(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}

	rec, err := h.svc.Get(r.Context(), key)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, itemResponse{Success: true, Data: h.codec.Present(rec)})
}

// Create — POST /, требуется аутентификация.
func (h *ProductRoutes[K, R]) Create(w http.ResponseWriter, r *http.Request) {
	rec, err := h.codec.DecodeCreate(w, r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	saved, err := h.svc.Create(r.Context(), middleware.UsernameFromContext(r.Context()), rec)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mutationResponse{
		Success: true,
		Message: "Товар создан",
		Data:    h.codec.Present(saved),
	})
}

// Update — PUT /{key}, частичное обновление, требуется роль admin.
func (h *ProductRoutes[K, R]) Update(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}
	patch, err := h.codec.DecodePatch(w, r)
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return
	}

	updated, err := h.svc.Update(r.Context(), middleware.UsernameFromContext(r.Context()), key, patch)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, mutationResponse{
		Success: true,
		Message: "Товар обновлён",
		Data:    h.codec.Present(updated),
	})
}

// Delete — DELETE /{key}, требуется роль admin.
func (h *ProductRoutes[K, R]) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := h.key(w, r)
	if !ok {
		return
	}

	deleted, err := h.svc.Delete(r.Context(), middleware.UsernameFromContext(r.Context()), key)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if h.codec.DeleteNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, deleteResponse{
		Success:        true,
		Message:        "Товар удалён",
		DeletedProduct: h.codec.Present(deleted),
	})
}

func (h *ProductRoutes[K, R]) key(w http.ResponseWriter, r *http.Request) (K, bool) {
	key, err := h.codec.ParseKey(chi.URLParam(r, KeyParam))
	if err != nil {
		apierrors.ValidationError(w, err.Error())
		return key, false
	}
	return key, true
}

func (h *ProductRoutes[K, R]) fail(w http.ResponseWriter, r *http.Request, err error) {
	writeServiceError(w, r, h.logger, err, msgProductNotFound, msgProductExists)
}
