// cache.go — кэш агрегированного списка /all-products с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable.
package service

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша.
var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cg_listing_cache_hits_total",
		Help: "Общее количество попаданий в кэш агрегированного списка.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cg_listing_cache_misses_total",
		Help: "Общее количество промахов кэша агрегированного списка.",
	})
	cacheInvalidationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "cg_listing_cache_invalidations_total",
		Help: "Общее количество сбросов кэша агрегированного списка после записи.",
	})
)

// listingKey — единственный ключ кэша.
const listingKey = "all-products"

// ListingCache — кэш агрегированного списка.
// Кэш локален для экземпляра; запись через этот экземпляр сбрасывает его сразу,
// запись через другой экземпляр становится видна после истечения TTL.
// nil-кэш допустим и означает «кэширование выключено».
type ListingCache struct {
	cache *expirable.LRU[string, *Listing]

	mu  sync.Mutex
	gen uint64
}

// NewListingCache создаёт кэш с указанным TTL. ttl <= 0 — кэш выключен (nil).
func NewListingCache(ttl time.Duration) *ListingCache {
	if ttl <= 0 {
		return nil
	}
	return &ListingCache{cache: expirable.NewLRU[string, *Listing](1, nil, ttl)}
}

// Get возвращает список из кэша.
func (c *ListingCache) Get() (*Listing, bool) {
	if c == nil {
		return nil, false
	}
	val, ok := c.cache.Get(listingKey)
	if ok {
		cacheHitsTotal.Inc()
		return val, true
	}
	cacheMissesTotal.Inc()
	return nil, false
}

// Generation возвращает номер поколения кэша.
// Поколение увеличивается при каждом Invalidate.
func (c *ListingCache) Generation() uint64 {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Set сохраняет список, если с момента Generation() не было сброса.
// Список, собранный до записи, не должен пережить её сброс.
func (c *ListingCache) Set(gen uint64, l *Listing) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return
	}
	c.cache.Add(listingKey, l)
}

// Invalidate сбрасывает кэш (после создания, изменения или удаления товара).
func (c *ListingCache) Invalidate() {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.cache.Remove(listingKey)
	cacheInvalidationsTotal.Inc()
}
