// listing.go — агрегатор /all-products: три независимых чтения,
// нормализация, склейка в порядке A, B, C.
package service

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/habibulloh333/project-uas-prod/internal/domain/format"
	"github.com/habibulloh333/project-uas-prod/internal/domain/model"
)

// Listing — агрегированный список товаров.
type Listing struct {
	Success      bool          `json:"success"`
	Total        int           `json:"total"`
	AppliedRules []string      `json:"applied_rules"`
	Data         []format.Item `json:"data"`
}

// VendorReader — чтение всех записей вендора в порядке ключа.
type VendorReader[R any] interface {
	List(ctx context.Context) ([]*R, error)
}

// ListingService собирает агрегированный список.
// Ошибка любого из трёх чтений прерывает агрегацию целиком.
type ListingService struct {
	vendorA VendorReader[model.VendorAProduct]
	vendorB VendorReader[model.VendorBProduct]
	vendorC VendorReader[model.VendorCProduct]
	cache   *ListingCache
	logger  *slog.Logger
}

// NewListingService создаёт агрегатор. cache может быть nil.
func NewListingService(
	a VendorReader[model.VendorAProduct],
	b VendorReader[model.VendorBProduct],
	c VendorReader[model.VendorCProduct],
	cache *ListingCache,
	logger *slog.Logger,
) *ListingService {
	return &ListingService{
		vendorA: a,
		vendorB: b,
		vendorC: c,
		cache:   cache,
		logger:  logger.With(slog.String("component", "listing_service")),
	}
}

// AllProducts возвращает агрегированный список.
// Чтения выполняются параллельно, но каждый сегмент пишется в свой слот,
// поэтому порядок A, B, C не зависит от порядка завершения.
func (s *ListingService) AllProducts(ctx context.Context) (*Listing, error) {
	if cached, ok := s.cache.Get(); ok {
		return cached, nil
	}
	gen := s.cache.Generation()

	var segA, segB, segC []format.Item

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		segA, err = collect(gctx, s.vendorA, format.VendorA)
		return wrapVendor(model.VendorA, err)
	})
	g.Go(func() error {
		var err error
		segB, err = collect(gctx, s.vendorB, func(p *model.VendorBProduct) (*format.VendorBItem, error) {
			return format.VendorB(p), nil
		})
		return wrapVendor(model.VendorB, err)
	})
	g.Go(func() error {
		var err error
		segC, err = collect(gctx, s.vendorC, format.VendorC)
		return wrapVendor(model.VendorC, err)
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("Ошибка агрегации товаров", slog.String("error", err.Error()))
		return nil, err
	}

	data := make([]format.Item, 0, len(segA)+len(segB)+len(segC))
	data = append(data, segA...)
	data = append(data, segB...)
	data = append(data, segC...)

	listing := &Listing{
		Success:      true,
		Total:        len(data),
		AppliedRules: format.AppliedRules(),
		Data:         data,
	}
	s.cache.Set(gen, listing)

	s.logger.Debug("Агрегированный список собран",
		slog.Int("vendor_a", len(segA)),
		slog.Int("vendor_b", len(segB)),
		slog.Int("vendor_c", len(segC)),
	)
	return listing, nil
}

// collect читает записи вендора и нормализует их форматтером.
func collect[R any, I format.Item](
	ctx context.Context,
	reader VendorReader[R],
	fn func(*R) (I, error),
) ([]format.Item, error) {
	recs, err := reader.List(ctx)
	if err != nil {
		return nil, mapRepoError(err)
	}
	items := make([]format.Item, 0, len(recs))
	for _, rec := range recs {
		item, err := fn(rec)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func wrapVendor(v model.Vendor, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", v, err)
}
