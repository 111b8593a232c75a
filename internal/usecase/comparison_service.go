package usecase

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/carhaven/backend/internal/domain"
)

const lockStripes = 64

// CarLookup finds a catalog item by id
type CarLookup interface {
	GetCar(ctx context.Context, id string) (*domain.CatalogItem, error)
}

// ComparisonService manages the comparison set of every visitor.
// Mutations for the same visitor are serialized so that a load-modify-write
// cycle never interleaves with another one.
type ComparisonService struct {
	storage  domain.KeyValueStore
	lookup   CarLookup
	sections []domain.ComparisonSection
	locks    [lockStripes]sync.Mutex
}

// NewComparisonService creates a new comparison service
func NewComparisonService(storage domain.KeyValueStore, lookup CarLookup) *ComparisonService {
	return &ComparisonService{
		storage:  storage,
		lookup:   lookup,
		sections: domain.DefaultComparisonSections,
	}
}

// StorageKey returns the key the visitor's set is persisted under
func StorageKey(visitorID string) string {
	return ComparisonStorageKey + ":" + visitorID
}

// Open loads the visitor's comparison store
func (s *ComparisonService) Open(ctx context.Context, visitorID string) *ComparisonStore {
	return NewComparisonStore(ctx, s.storage, StorageKey(visitorID))
}

// List returns the visitor's current comparison set
func (s *ComparisonService) List(ctx context.Context, visitorID string) domain.ComparisonSet {
	return domain.NewComparisonSet(s.Open(ctx, visitorID).Items(), false)
}

// Add looks the car up in the catalog and appends it to the visitor's set.
// Adding a car that is already present, or adding to a full set, changes nothing
// and skips the catalog lookup.
func (s *ComparisonService) Add(ctx context.Context, visitorID, carID string) (domain.ComparisonSet, error) {
	if visitorID == "" || carID == "" {
		return domain.ComparisonSet{}, domain.ErrInvalidRequest
	}

	unlock := s.lock(visitorID)
	defer unlock()

	store := s.Open(ctx, visitorID)
	if store.Contains(carID) || store.Full() {
		return domain.NewComparisonSet(store.Items(), false), nil
	}

	car, err := s.lookup.GetCar(ctx, carID)
	if err != nil {
		return domain.ComparisonSet{}, err
	}

	changed := store.Add(ctx, *car)
	return domain.NewComparisonSet(store.Items(), changed), nil
}

// Remove drops a car from the visitor's set
func (s *ComparisonService) Remove(ctx context.Context, visitorID, carID string) domain.ComparisonSet {
	unlock := s.lock(visitorID)
	defer unlock()

	store := s.Open(ctx, visitorID)
	changed := store.Remove(ctx, carID)
	return domain.NewComparisonSet(store.Items(), changed)
}

// Clear empties the visitor's set
func (s *ComparisonService) Clear(ctx context.Context, visitorID string) domain.ComparisonSet {
	unlock := s.lock(visitorID)
	defer unlock()

	store := s.Open(ctx, visitorID)
	changed := store.Len() > 0
	store.Clear(ctx)
	return domain.NewComparisonSet(store.Items(), changed)
}

// View projects the visitor's set into the comparison table
func (s *ComparisonService) View(ctx context.Context, visitorID string, hideIdentical bool) domain.ComparisonView {
	items := s.Open(ctx, visitorID).Items()
	return domain.ProjectComparison(items, s.sections, hideIdentical)
}

func (s *ComparisonService) lock(visitorID string) func() {
	h := fnv.New32a()
	h.Write([]byte(visitorID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}
