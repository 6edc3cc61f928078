// catalog.go — единый CRUD-сервис товаров, параметризованный вендором.
package service

import (
	"context"
	"log/slog"

	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// ProductStore — хранилище товаров одного вендора.
// Реализуется repository.ProductRepository.
type ProductStore[K comparable, R any] interface {
	List(ctx context.Context) ([]*R, error)
	Get(ctx context.Context, key K) (*R, error)
	Create(ctx context.Context, rec *R) (*R, error)
	// Modify выполняет read-modify-write одной записи атомарно.
	Modify(ctx context.Context, key K, fn func(cur *R) error) (*R, error)
	Delete(ctx context.Context, key K) (*R, error)
	Count(ctx context.Context) (int, error)
}

// VendorSpec — особенности вендора для CatalogService.
type VendorSpec[K comparable, R any] struct {
	// Vendor — идентификатор вендора
	Vendor model.Vendor
	// KeyOf — первичный ключ записи
	KeyOf func(rec *R) K
	// KeyString — ключ в виде строки (события, логи)
	KeyString func(key K) string
	// BeforeCreate — подготовка записи перед вставкой (может быть nil)
	BeforeCreate func(rec *R, actor string)
	// BeforeUpdate — подготовка записи после применения патча (может быть nil)
	BeforeUpdate func(rec *R, actor string)
}

// Invalidator — сброс производных данных после записи.
type Invalidator interface {
	Invalidate()
}

// CatalogService — CRUD товаров вендора: хранилище, события, сброс кэша.
type CatalogService[K comparable, R any] struct {
	store       ProductStore[K, R]
	spec        VendorSpec[K, R]
	events      EventPublisher
	invalidator Invalidator
	logger      *slog.Logger
}

// NewCatalogService создаёт сервис товаров вендора.
// events и invalidator могут быть nil.
func NewCatalogService[K comparable, R any](
	store ProductStore[K, R],
	spec VendorSpec[K, R],
	events EventPublisher,
	invalidator Invalidator,
	logger *slog.Logger,
) *CatalogService[K, R] {
	if events == nil {
		events = NopPublisher{}
	}
	return &CatalogService[K, R]{
		store:       store,
		spec:        spec,
		events:      events,
		invalidator: invalidator,
		logger: logger.With(
			slog.String("component", "catalog_service"),
			slog.String("vendor", string(spec.Vendor)),
		),
	}
}

// Vendor возвращает идентификатор вендора.
func (s *CatalogService[K, R]) Vendor() model.Vendor { return s.spec.Vendor }

// List возвращает все товары вендора в порядке ключа.
func (s *CatalogService[K, R]) List(ctx context.Context) ([]*R, error) {
	recs, err := s.store.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return recs, nil
}

// Get возвращает товар по ключу.
func (s *CatalogService[K, R]) Get(ctx context.Context, key K) (*R, error) {
	rec, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return rec, nil
}

// Count возвращает количество товаров вендора.
func (s *CatalogService[K, R]) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, mapRepoError(err)
	}
	return n, nil
}

// Create сохраняет новый товар от имени actor.
func (s *CatalogService[K, R]) Create(ctx context.Context, actor string, rec *R) (*R, error) {
	if s.spec.BeforeCreate != nil {
		s.spec.BeforeCreate(rec, actor)
	}

	saved, err := s.store.Create(ctx, rec)
	if err != nil {
		return nil, mapRepoError(err)
	}

	key := s.spec.KeyString(s.spec.KeyOf(saved))
	s.logger.Info("Товар создан", slog.String("key", key), slog.String("actor", actor))
	s.afterWrite(ctx, EventProductCreated, key, actor, saved)
	return saved, nil
}

// Update применяет частичный патч к товару от имени actor.
// Текущие значения читаются под блокировкой строки, поэтому поля,
// не указанные в патче, берутся из актуальной записи.
func (s *CatalogService[K, R]) Update(ctx context.Context, actor string, key K, patch func(cur *R)) (*R, error) {
	updated, err := s.store.Modify(ctx, key, func(cur *R) error {
		patch(cur)
		if s.spec.BeforeUpdate != nil {
			s.spec.BeforeUpdate(cur, actor)
		}
		return nil
	})
	if err != nil {
		return nil, mapRepoError(err)
	}

	keyStr := s.spec.KeyString(key)
	s.logger.Info("Товар обновлён", slog.String("key", keyStr), slog.String("actor", actor))
	s.afterWrite(ctx, EventProductUpdated, keyStr, actor, updated)
	return updated, nil
}

// Delete удаляет товар и возвращает удалённую запись.
func (s *CatalogService[K, R]) Delete(ctx context.Context, actor string, key K) (*R, error) {
	deleted, err := s.store.Delete(ctx, key)
	if err != nil {
		return nil, mapRepoError(err)
	}

	keyStr := s.spec.KeyString(key)
	s.logger.Info("Товар удалён", slog.String("key", keyStr), slog.String("actor", actor))
	s.afterWrite(ctx, EventProductDeleted, keyStr, actor, deleted)
	return deleted, nil
}

func (s *CatalogService[K, R]) afterWrite(ctx context.Context, eventType, key, actor string, rec *R) {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	publishQuietly(ctx, s.events, NewProductEvent(eventType, s.spec.Vendor, key, actor, rec), s.logger)
}
