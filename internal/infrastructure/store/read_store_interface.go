package store

// ReadStoreInterface defines the interface for read model storage
type ReadStoreInterface interface {
	// Set stores a read model
	Set(collection, id string, data any)

	// Get retrieves a read model by id
	Get(collection, id string) (any, bool)

	// GetAll retrieves all items in a collection, ordered by id
	GetAll(collection string) []any

	// Upsert creates or replaces a read model from its current value
	Upsert(collection, id string, fn func(current any) any) any

	// Len counts the items in a collection
	Len(collection string) int
}

var _ ReadStoreInterface = (*ReadStore)(nil)
var _ ReadStoreInterface = (*PostgresReadStore)(nil)
