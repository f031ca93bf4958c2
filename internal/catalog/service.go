package catalog

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"

	"github.com/sakshamsingh/shop-invoice/internal/events"
	"github.com/sakshamsingh/shop-invoice/internal/obs"
)

// Service owns the active catalog index and coordinates loads and reloads.
type Service struct {
	loader *Loader
	cache  *Cache
	bus    *events.Bus
	logger zerolog.Logger

	mu    sync.RWMutex
	index *Index
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Loader *Loader
	Cache  *Cache
	Bus    *events.Bus
	Logger zerolog.Logger
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Loader == nil {
		return nil, errors.New("catalog: loader is required")
	}
	return &Service{
		loader: cfg.Loader,
		cache:  cfg.Cache,
		bus:    cfg.Bus,
		logger: cfg.Logger,
	}, nil
}

// Boot populates the index at startup, preferring the cached copy when present.
func (s *Service) Boot(ctx context.Context) {
	var cached []Item
	ok, err := s.cache.GetJSON(ctx, indexCacheKey, &cached)
	if err != nil {
		s.logger.Warn().Err(err).Msg("catalog cache read failed")
	}
	if ok && len(cached) > 0 {
		raw := make([]RawItem, 0, len(cached))
		for _, item := range cached {
			raw = append(raw, RawItem{Name: item.Name, BuyPrice: item.BuyPrice, SellPrice: item.SellPrice})
		}
		s.install(raw, "cache")
		return
	}
	s.load(ctx, "boot")
}

// Reload fetches fresh documents, rebuilds the index, swaps it in atomically,
// and refreshes the cache. It returns the new item count.
func (s *Service) Reload(ctx context.Context) int {
	count := s.load(ctx, "reload")
	if s.bus != nil {
		if _, err := s.bus.Emit(ctx, events.TopicCatalogReloaded, "", map[string]any{"items": count}); err != nil {
			s.logger.Warn().Err(err).Msg("catalog reload event")
		}
	}
	return count
}

func (s *Service) load(ctx context.Context, source string) int {
	raw := s.loader.FetchAll(ctx)
	count := s.install(raw, source)
	if count > 0 {
		if err := s.cache.SetJSON(ctx, indexCacheKey, s.Index().All()); err != nil {
			s.logger.Warn().Err(err).Msg("catalog cache write failed")
		}
	}
	return count
}

func (s *Service) install(raw []RawItem, source string) int {
	index, duplicates := NewIndex(raw)
	for _, name := range duplicates {
		s.logger.Warn().Str("item", name).Msg("duplicate catalog item, keeping last")
	}

	s.mu.Lock()
	s.index = index
	s.mu.Unlock()

	result := "ok"
	if index.Len() == 0 {
		result = "empty"
	}
	if obs.CatalogLoadTotal != nil {
		obs.CatalogLoadTotal.WithLabelValues(source, result).Inc()
	}
	if obs.CatalogItems != nil {
		obs.CatalogItems.Set(float64(index.Len()))
	}
	if obs.CatalogDuplicateNames != nil && len(duplicates) > 0 {
		obs.CatalogDuplicateNames.Add(float64(len(duplicates)))
	}
	s.logger.Info().
		Str("source", source).
		Int("items", index.Len()).
		Int("duplicates", len(duplicates)).
		Msg("catalog index installed")
	return index.Len()
}

// Index returns the active index. Callers must treat it as read-only.
func (s *Service) Index() *Index {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Ready reports whether a non-empty index is installed.
func (s *Service) Ready() bool {
	return s.Index().Len() > 0
}
