package mocks

import (
	"sort"
	"sync"
)

// MockReadStore is a mock implementation of ReadStoreInterface for testing
type MockReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any // collection -> id -> data

	// For tracking calls in tests
	SetCalls    []SetCall
	GetCalls    []GetCall
	UpsertCalls []UpsertCall
}

// SetCall records parameters passed to Set
type SetCall struct {
	Collection string
	ID         string
	Data       any
}

// GetCall records parameters passed to Get
type GetCall struct {
	Collection string
	ID         string
}

// UpsertCall records parameters passed to Upsert and the stored result
type UpsertCall struct {
	Collection string
	ID         string
	Result     any
}

func NewMockReadStore() *MockReadStore {
	return &MockReadStore{
		data: make(map[string]map[string]any),
	}
}

func (m *MockReadStore) Set(collection, id string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.SetCalls = append(m.SetCalls, SetCall{Collection: collection, ID: id, Data: data})
	m.put(collection, id, data)
}

func (m *MockReadStore) Get(collection, id string) (any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.GetCalls = append(m.GetCalls, GetCall{Collection: collection, ID: id})
	data, ok := m.data[collection][id]
	return data, ok
}

func (m *MockReadStore) GetAll(collection string) []any {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.data[collection]))
	for id := range m.data[collection] {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	items := make([]any, 0, len(ids))
	for _, id := range ids {
		items = append(items, m.data[collection][id])
	}
	return items
}

func (m *MockReadStore) Upsert(collection, id string, fn func(current any) any) any {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := fn(m.data[collection][id])
	m.put(collection, id, next)
	m.UpsertCalls = append(m.UpsertCalls, UpsertCall{Collection: collection, ID: id, Result: next})
	return next
}

func (m *MockReadStore) Len(collection string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data[collection])
}

// Reset clears all data and recorded calls
func (m *MockReadStore) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string]map[string]any)
	m.SetCalls = nil
	m.GetCalls = nil
	m.UpsertCalls = nil
}

// SetData sets data directly for testing
func (m *MockReadStore) SetData(collection, id string, data any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(collection, id, data)
}

// GetData gets data directly for testing (without recording the call)
func (m *MockReadStore) GetData(collection, id string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.data[collection][id]
	return data, ok
}

func (m *MockReadStore) put(collection, id string, data any) {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]any)
	}
	m.data[collection][id] = data
}
