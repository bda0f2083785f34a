package store

import (
	"sort"
	"sync"
)

// ReadStore is an in-memory projection store
type ReadStore struct {
	mu   sync.RWMutex
	data map[string]map[string]any // collection -> id -> data
}

func NewReadStore() *ReadStore {
	return &ReadStore{
		data: make(map[string]map[string]any),
	}
}

// Set stores a read model
func (rs *ReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.collection(collection)[id] = data
}

// Get retrieves a read model by id
func (rs *ReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	data, ok := rs.data[collection][id]
	return data, ok
}

// GetAll retrieves all items in a collection, ordered by id
func (rs *ReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	items := rs.data[collection]
	ids := make([]string, 0, len(items))
	for id := range items {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]any, 0, len(ids))
	for _, id := range ids {
		out = append(out, items[id])
	}
	return out
}

// Upsert replaces a read model with fn's result. current is nil when the id is new.
func (rs *ReadStore) Upsert(collection, id string, fn func(current any) any) any {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	c := rs.collection(collection)
	next := fn(c[id])
	c[id] = next
	return next
}

// Len counts the items in a collection
func (rs *ReadStore) Len(collection string) int {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return len(rs.data[collection])
}

// collection must be called with rs.mu held for writing.
func (rs *ReadStore) collection(name string) map[string]any {
	if rs.data[name] == nil {
		rs.data[name] = make(map[string]any)
	}
	return rs.data[name]
}
