package gateway

import (
	"context"
	"time"

	"github.com/rogerio-castellano/inventory-dashboard/internal/logx"
	"github.com/rogerio-castellano/inventory-dashboard/internal/models"
)

const (
	CategoriesKey = "inventory:categories"
	MetricsKey    = "inventory:metrics"
)

// Cache stores JSON-serializable values. Get reports whether the key was
// present.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// Source is the full API surface wrapped by CachedGateway.
type Source interface {
	List(ctx context.Context) ([]models.ProductWithCategory, error)
	Create(ctx context.Context, p models.NewProduct) (models.ProductWithCategory, error)
	Update(ctx context.Context, p models.Product) (models.ProductWithCategory, error)
	Delete(ctx context.Context, id int) error
	Categories(ctx context.Context) ([]models.Category, error)
	Metrics(ctx context.Context) (models.Metrics, error)
}

// CachedGateway reads categories and metrics through a cache. Product
// mutations drop the cached metrics; cache failures fall back to the API.
type CachedGateway struct {
	source        Source
	cache         Cache
	categoriesTTL time.Duration
	metricsTTL    time.Duration
}

func NewCachedGateway(source Source, cache Cache, categoriesTTL, metricsTTL time.Duration) *CachedGateway {
	return &CachedGateway{
		source:        source,
		cache:         cache,
		categoriesTTL: categoriesTTL,
		metricsTTL:    metricsTTL,
	}
}

func (g *CachedGateway) List(ctx context.Context) ([]models.ProductWithCategory, error) {
	return g.source.List(ctx)
}

func (g *CachedGateway) Create(ctx context.Context, p models.NewProduct) (models.ProductWithCategory, error) {
	created, err := g.source.Create(ctx, p)
	if err == nil {
		g.invalidateMetrics(ctx)
	}
	return created, err
}

func (g *CachedGateway) Update(ctx context.Context, p models.Product) (models.ProductWithCategory, error) {
	updated, err := g.source.Update(ctx, p)
	if err == nil {
		g.invalidateMetrics(ctx)
	}
	return updated, err
}

func (g *CachedGateway) Delete(ctx context.Context, id int) error {
	err := g.source.Delete(ctx, id)
	if err == nil {
		g.invalidateMetrics(ctx)
	}
	return err
}

func (g *CachedGateway) Categories(ctx context.Context) ([]models.Category, error) {
	var cached []models.Category
	if g.lookup(ctx, CategoriesKey, &cached) {
		return cached, nil
	}

	categories, err := g.source.Categories(ctx)
	if err != nil {
		return nil, err
	}
	g.store(ctx, CategoriesKey, categories, g.categoriesTTL)
	return categories, nil
}

func (g *CachedGateway) Metrics(ctx context.Context) (models.Metrics, error) {
	var cached models.Metrics
	if g.lookup(ctx, MetricsKey, &cached) {
		return cached, nil
	}

	m, err := g.source.Metrics(ctx)
	if err != nil {
		return models.Metrics{}, err
	}
	g.store(ctx, MetricsKey, m, g.metricsTTL)
	return m, nil
}

func (g *CachedGateway) lookup(ctx context.Context, key string, dst any) bool {
	found, err := g.cache.Get(ctx, key, dst)
	if err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return false
	}
	return found
}

func (g *CachedGateway) store(ctx context.Context, key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	if err := g.cache.Set(ctx, key, value, ttl); err != nil {
		logx.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

func (g *CachedGateway) invalidateMetrics(ctx context.Context) {
	if err := g.cache.Delete(ctx, MetricsKey); err != nil {
		logx.Warn().Err(err).Str("key", MetricsKey).Msg("cache invalidation failed")
	}
}
