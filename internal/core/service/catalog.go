package service

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/campusreg/registration-system/internal/core/domain"
	"github.com/campusreg/registration-system/internal/core/ports"
)

// CatalogCache abstracts the class-entry cache (Redis).
type CatalogCache interface {
	Get(ctx context.Context, classID string) (*domain.Class, error)
	Set(ctx context.Context, class *domain.Class) error
}

// StaticCatalog serves the fixed class list the registration term was
// configured with. It stands in for the institution's catalog system, which
// owns class definitions and capacity.
type StaticCatalog struct {
	classes map[string]domain.Class
}

func NewStaticCatalog(classes []domain.Class) *StaticCatalog {
	m := make(map[string]domain.Class, len(classes))
	for _, c := range classes {
		m[c.ID] = c
	}
	return &StaticCatalog{classes: m}
}

func (c *StaticCatalog) Resolve(_ context.Context, classID string) (*domain.Class, error) {
	class, ok := c.classes[classID]
	if !ok {
		return nil, domain.ErrClassNotFound
	}
	return &class, nil
}

func (c *StaticCatalog) List(_ context.Context) ([]domain.Class, error) {
	out := make([]domain.Class, 0, len(c.classes))
	for _, class := range c.classes {
		out = append(out, class)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// CachedCatalog fronts a catalog with a cache. Cache errors fail open to the
// underlying source: a cold or unreachable cache degrades latency, never
// correctness.
type CachedCatalog struct {
	source ports.ClassCatalog
	cache  CatalogCache
	log    zerolog.Logger
}

func NewCachedCatalog(source ports.ClassCatalog, cache CatalogCache, log zerolog.Logger) *CachedCatalog {
	return &CachedCatalog{source: source, cache: cache, log: log}
}

func (c *CachedCatalog) Resolve(ctx context.Context, classID string) (*domain.Class, error) {
	if cached, err := c.cache.Get(ctx, classID); err != nil {
		c.log.Warn().Err(err).Str("class_id", classID).Msg("catalog cache read failed, using source")
	} else if cached != nil {
		return cached, nil
	}

	class, err := c.source.Resolve(ctx, classID)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, class); err != nil {
		c.log.Warn().Err(err).Str("class_id", classID).Msg("catalog cache write failed")
	}
	return class, nil
}

func (c *CachedCatalog) List(ctx context.Context) ([]domain.Class, error) {
	return c.source.List(ctx)
}
