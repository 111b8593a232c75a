package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/carhaven/backend/internal/domain"
)

// MockKeyValueStore is a mock implementation of domain.KeyValueStore
type MockKeyValueStore struct {
	mu       sync.Mutex
	data     map[string]string
	ttls     map[string]time.Duration
	getError error
	setError error
	sets     int
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getError != nil {
		return "", m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return "", domain.ErrKeyNotFound
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.setError != nil {
		return m.setError
	}
	m.data[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	delete(m.ttls, key)
	return nil
}

func (m *MockKeyValueStore) Exists(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[key]
	return ok, nil
}

func (m *MockKeyValueStore) raw(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.data[key]
	return value, ok
}

// MockCatalogClient is a mock implementation of domain.CatalogClient
type MockCatalogClient struct {
	mu    sync.Mutex
	items []domain.CatalogItem
	err   error
	calls int
}

func NewMockCatalogClient(items ...domain.CatalogItem) *MockCatalogClient {
	return &MockCatalogClient{items: items}
}

func (m *MockCatalogClient) FetchCatalog(ctx context.Context) ([]domain.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return append([]domain.CatalogItem(nil), m.items...), nil
}

func (m *MockCatalogClient) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func testCatalog() []domain.CatalogItem {
	return []domain.CatalogItem{
		{ID: "a", Brand: "Tesla", Model: "Model 3", CurrentPrice: "20,000 €", Year: 2021, Mileage: 30000, IsAvailable: true},
		{ID: "b", Brand: "Tesla", Model: "Model Y", CurrentPrice: "35,000 €", PreviousPrice: "38,000 €", Year: 2023, Mileage: 5000, IsAvailable: true},
		{ID: "c", Brand: "BMW", Model: "X5", CurrentPrice: "25,000 €", Year: 2022, Mileage: 15000, IsAvailable: true},
		{ID: "d", Brand: "Audi", Model: "A4", CurrentPrice: "18,000 €", PreviousPrice: "21,000 €", Year: 2019, Mileage: 60000, IsAvailable: false},
		{ID: "e", Brand: "Kia", Model: "EV6", CurrentPrice: "41,000 €", Year: 2024, Mileage: 100, IsAvailable: true},
		{ID: "f", Brand: "Volvo", Model: "XC40", CurrentPrice: "33,000 €", Year: 2022, Mileage: 22000, IsAvailable: true},
	}
}

func itemIDs(items []domain.CatalogItem) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}
