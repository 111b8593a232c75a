package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/carhaven/backend/internal/domain"
	"golang.org/x/sync/singleflight"
)

// catalogSnapshotKey is where the last fetched catalog is cached
const catalogSnapshotKey = "catalog:snapshot"

// CatalogServiceConfig holds configuration for the catalog service
type CatalogServiceConfig struct {
	SnapshotTTL    time.Duration // 0 disables the snapshot cache
	HighlightCount int
}

// CatalogService serves the catalog fetched from the content store
type CatalogService struct {
	store          domain.KeyValueStore
	client         domain.CatalogClient
	snapshotTTL    time.Duration
	highlightCount int
	fetches        singleflight.Group
}

// NewCatalogService creates a new catalog service with dependencies
func NewCatalogService(
	store domain.KeyValueStore,
	client domain.CatalogClient,
	config CatalogServiceConfig,
) *CatalogService {
	highlightCount := config.HighlightCount
	if highlightCount <= 0 {
		highlightCount = 6
	}

	return &CatalogService{
		store:          store,
		client:         client,
		snapshotTTL:    config.SnapshotTTL,
		highlightCount: highlightCount,
	}
}

// Catalog returns the full catalog, most recently created first.
// Flow: check snapshot -> fetch content store -> store snapshot -> return
func (s *CatalogService) Catalog(ctx context.Context) ([]domain.CatalogItem, error) {
	if items, ok := s.getSnapshot(ctx); ok {
		catalogSnapshotHits.Inc()
		return items, nil
	}

	// Concurrent misses share one content store request. It must outlive the
	// caller that started it; the client timeout bounds it instead.
	fetchCtx := context.WithoutCancel(ctx)
	result, err, _ := s.fetches.Do(catalogSnapshotKey, func() (any, error) {
		catalogFetches.Inc()
		items, err := s.client.FetchCatalog(fetchCtx)
		if err != nil {
			catalogFetchFailures.Inc()
			return nil, err
		}
		catalogSize.Set(float64(len(items)))
		s.setSnapshot(fetchCtx, items)
		return items, nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrCatalogUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	return result.([]domain.CatalogItem), nil
}

// Browse filters and sorts the catalog. Facets are always derived from the
// full catalog so that narrowing the list never removes filter options.
func (s *CatalogService) Browse(ctx context.Context, state domain.FilterState) (*domain.CatalogPage, error) {
	items, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	sortKey := state.SortKey()
	matched := domain.SortItems(state.Apply(items), sortKey)

	return &domain.CatalogPage{
		Items:       matched,
		Total:       len(matched),
		CatalogSize: len(items),
		Facets:      domain.ExtractFacets(items, state.Brand),
		Filters:     state,
		Sort:        sortKey,
	}, nil
}

// Facets returns the filter options for the catalog; brand scopes the model list
func (s *CatalogService) Facets(ctx context.Context, brand string) (*domain.Facets, error) {
	items, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	facets := domain.ExtractFacets(items, brand)
	return &facets, nil
}

// GetCar looks up a single catalog item by id
func (s *CatalogService) GetCar(ctx context.Context, id string) (*domain.CatalogItem, error) {
	if id == "" {
		return nil, domain.ErrInvalidRequest
	}

	items, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	for i := range items {
		if items[i].ID == id {
			item := items[i]
			return &item, nil
		}
	}
	return nil, domain.ErrCarNotFound
}

// Highlights selects the latest available cars and every car on sale
func (s *CatalogService) Highlights(ctx context.Context) (*domain.Highlights, error) {
	items, err := s.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	highlights := &domain.Highlights{
		Latest: make([]domain.CatalogItem, 0, s.highlightCount),
		OnSale: []domain.CatalogItem{},
	}
	for _, item := range items {
		if !item.IsAvailable {
			continue
		}
		if len(highlights.Latest) < s.highlightCount {
			highlights.Latest = append(highlights.Latest, item)
		}
		if item.OnSale() {
			highlights.OnSale = append(highlights.OnSale, item)
		}
	}
	return highlights, nil
}

// Invalidate drops the cached snapshot so the next read hits the content store.
// It reports whether a snapshot was cached.
func (s *CatalogService) Invalidate(ctx context.Context) (bool, error) {
	cached, err := s.store.Exists(ctx, catalogSnapshotKey)
	if err != nil {
		return false, fmt.Errorf("failed to check catalog snapshot: %w", err)
	}
	if !cached {
		log.Printf("[Catalog] No snapshot to invalidate")
		return false, nil
	}
	if err := s.store.Delete(ctx, catalogSnapshotKey); err != nil {
		return false, fmt.Errorf("failed to drop catalog snapshot: %w", err)
	}
	log.Printf("[Catalog] Snapshot invalidated")
	return true, nil
}

// getSnapshot retrieves the cached catalog, if any
func (s *CatalogService) getSnapshot(ctx context.Context) ([]domain.CatalogItem, bool) {
	if s.snapshotTTL <= 0 {
		return nil, false
	}

	raw, err := s.store.Get(ctx, catalogSnapshotKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Printf("[Catalog] Snapshot read failed: %v", err)
		}
		return nil, false
	}

	var items []domain.CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Printf("[Catalog] Discarding malformed snapshot: %v", err)
		return nil, false
	}
	return items, true
}

// setSnapshot stores the catalog; failures are logged and otherwise ignored
func (s *CatalogService) setSnapshot(ctx context.Context, items []domain.CatalogItem) {
	if s.snapshotTTL <= 0 {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		log.Printf("[Catalog] Snapshot encode failed: %v", err)
		return
	}
	if err := s.store.Set(ctx, catalogSnapshotKey, string(data), s.snapshotTTL); err != nil {
		log.Printf("[Catalog] Snapshot write failed: %v", err)
	}
}
