package catalog

// Store is an immutable snapshot of the catalog. It is never mutated after
// NewStore returns, so any number of goroutines may read it without locking.
type Store struct {
	products []Product
	byID     map[string]int
	facets   FacetOptions
}

func NewStore(products []Product, cfg FacetConfig) *Store {
	snapshot := make([]Product, len(products))
	copy(snapshot, products)

	byID := make(map[string]int, len(snapshot))
	for i, p := range snapshot {
		if _, dup := byID[p.ID]; !dup {
			byID[p.ID] = i
		}
	}

	limit := cfg.SizeLimit
	if limit == 0 {
		limit = DefaultSizeLimit
	}

	return &Store{
		products: snapshot,
		byID:     byID,
		facets: FacetOptions{
			Categories: append([]string(nil), cfg.Categories...),
			Brands:     append([]string(nil), cfg.Brands...),
			Colors:     append([]string(nil), cfg.Colors...),
			Sizes:      distinctSizes(snapshot, limit),
			MaxPrice:   cfg.MaxPrice,
		},
	}
}

// Len is the number of records in the snapshot.
func (s *Store) Len() int {
	return len(s.products)
}

// Products returns a copy of every record in catalog order.
func (s *Store) Products() []Product {
	out := make([]Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Store) Get(id string) (Product, bool) {
	i, ok := s.byID[id]
	if !ok {
		return Product{}, false
	}
	return s.products[i], true
}

func (s *Store) Facets() FacetOptions {
	return s.facets.clone()
}
