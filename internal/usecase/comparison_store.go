package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"slices"
	"sync"

	"github.com/carhaven/backend/internal/domain"
)

// ComparisonStorageKey prefixes the storage key of every comparison set
const ComparisonStorageKey = "car-comparison"

// ComparisonStore is a bounded, ordered set of catalog items, unique by id,
// written back to durable storage after every change.
type ComparisonStore struct {
	mu      sync.Mutex
	storage domain.KeyValueStore
	key     string
	items   []domain.CatalogItem
}

// NewComparisonStore loads the set persisted under key. A missing or
// unreadable value yields an empty set.
func NewComparisonStore(ctx context.Context, storage domain.KeyValueStore, key string) *ComparisonStore {
	s := &ComparisonStore{
		storage: storage,
		key:     key,
		items:   []domain.CatalogItem{},
	}
	s.load(ctx)
	return s
}

func (s *ComparisonStore) load(ctx context.Context) {
	raw, err := s.storage.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Printf("[Comparison] Load of %s failed, starting empty: %v", s.key, err)
		}
		return
	}

	var stored []domain.CatalogItem
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("[Comparison] Discarding malformed set %s: %v", s.key, err)
		return
	}

	// stored data may predate the current bounds
	for _, item := range stored {
		if item.ID == "" || s.indexOf(item.ID) >= 0 {
			continue
		}
		if len(s.items) == domain.MaxComparisonItems {
			break
		}
		s.items = append(s.items, item)
	}
}

// Add appends item unless it is already present or the set is full.
// It reports whether the set changed.
func (s *ComparisonStore) Add(ctx context.Context, item domain.CatalogItem) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if item.ID == "" || s.indexOf(item.ID) >= 0 || len(s.items) >= domain.MaxComparisonItems {
		return false
	}

	s.items = append(s.items, item)
	s.persist(ctx, "add")
	return true
}

// Remove deletes the entry with the given id, if present
func (s *ComparisonStore) Remove(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}

	s.items = slices.Delete(s.items, idx, idx+1)
	s.persist(ctx, "remove")
	return true
}

// Clear empties the set unconditionally
func (s *ComparisonStore) Clear(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = []domain.CatalogItem{}
	s.persist(ctx, "clear")
}

// Contains reports whether an entry with id is in the set
func (s *ComparisonStore) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.indexOf(id) >= 0
}

// Items returns a copy of the entries in insertion order
func (s *ComparisonStore) Items() []domain.CatalogItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Len returns the number of entries
func (s *ComparisonStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Full reports whether no further entries can be added
func (s *ComparisonStore) Full() bool {
	return s.Len() >= domain.MaxComparisonItems
}

func (s *ComparisonStore) indexOf(id string) int {
	return slices.IndexFunc(s.items, func(item domain.CatalogItem) bool { return item.ID == id })
}

// persist writes the whole set. Must be called with mu held.
func (s *ComparisonStore) persist(ctx context.Context, op string) {
	comparisonMutations.WithLabelValues(op).Inc()

	data, err := json.Marshal(s.items)
	if err != nil {
		comparisonPersistFailures.Inc()
		log.Printf("[Comparison] Encode of %s failed: %v", s.key, err)
		return
	}
	if err := s.storage.Set(ctx, s.key, string(data), 0); err != nil {
		comparisonPersistFailures.Inc()
		log.Printf("[Comparison] Write of %s failed: %v", s.key, err)
	}
}
