package catalog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate = validator.New()

// Filters carries the sidebar selection. Nil price bounds are unbounded.
type Filters struct {
	Categories []string         `json:"categories,omitempty"`
	Brands     []string         `json:"brands,omitempty"`
	Colors     []string         `json:"colors,omitempty"`
	Sizes      []string         `json:"sizes,omitempty"`
	MinPrice   *decimal.Decimal `json:"min_price,omitempty"`
	MaxPrice   *decimal.Decimal `json:"max_price,omitempty"`
}

type Request struct {
	SortBy  SortOption
	Limit   int     `validate:"min=1"`
	Filters Filters `validate:"-"`
}

type Result struct {
	Products   []Product
	TotalCount int
	HasMore    bool
}

// Engine answers catalog queries over a Store.
//
// Filters are accepted on every request but only narrow the result set when
// the engine is built WithFilters(true); by default they are inert and the
// whole catalog is sorted and truncated.
type Engine struct {
	store        *Store
	applyFilters bool
	latency      time.Duration
}

type Option func(*Engine)

// WithFilters turns on facet and price filtering.
func WithFilters(enabled bool) Option {
	return func(e *Engine) { e.applyFilters = enabled }
}

// WithLatency delays every call to simulate a remote backend.
func WithLatency(d time.Duration) Option {
	return func(e *Engine) { e.latency = d }
}

func NewEngine(store *Store, opts ...Option) *Engine {
	e := &Engine{store: store}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// FiltersEnabled reports whether Filters narrow results.
func (e *Engine) FiltersEnabled() bool {
	return e.applyFilters
}

// Query returns up to req.Limit products ordered by creation time.
func (e *Engine) Query(ctx context.Context, req Request) (Result, error) {
	if err := validate.Struct(req); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	if err := e.wait(ctx); err != nil {
		return Result{}, err
	}

	products := e.store.Products()
	if e.applyFilters {
		products = req.Filters.apply(products)
	}

	sortByCreatedAt(products, ParseSort(string(req.SortBy)))

	total := len(products)
	if req.Limit < total {
		products = products[:req.Limit]
	}

	return Result{
		Products:   products,
		TotalCount: total,
		HasMore:    total > len(products),
	}, nil
}

// FacetOptions returns the fixed facet catalog.
func (e *Engine) FacetOptions(ctx context.Context) (FacetOptions, error) {
	if err := e.wait(ctx); err != nil {
		return FacetOptions{}, err
	}
	return e.store.Facets(), nil
}

// MaxPrice is the configured price ceiling. It never waits.
func (e *Engine) MaxPrice() decimal.Decimal {
	return e.store.Facets().MaxPrice
}

// Product looks up a single record by id.
func (e *Engine) Product(ctx context.Context, id string) (Product, error) {
	if err := ctx.Err(); err != nil {
		return Product{}, err
	}
	p, ok := e.store.Get(id)
	if !ok {
		return Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return p, nil
}

func (e *Engine) wait(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.latency <= 0 {
		return nil
	}
	timer := time.NewTimer(e.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func sortByCreatedAt(products []Product, order SortOption) {
	if order == SortOldest {
		sort.SliceStable(products, func(i, j int) bool {
			return products[i].CreatedAt.Before(products[j].CreatedAt)
		})
		return
	}
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].CreatedAt.After(products[j].CreatedAt)
	})
}

func (f Filters) apply(products []Product) []Product {
	out := products[:0]
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func (f Filters) matches(p Product) bool {
	if len(f.Categories) > 0 && !contains(f.Categories, p.Category) {
		return false
	}
	if len(f.Brands) > 0 && !contains(f.Brands, p.Brand) {
		return false
	}
	if len(f.Colors) > 0 && !contains(f.Colors, p.Color) {
		return false
	}
	if len(f.Sizes) > 0 && !contains(f.Sizes, p.Size) {
		return false
	}
	price := p.DisplayPrice()
	if f.MinPrice != nil && price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && price.GreaterThan(*f.MaxPrice) {
		return false
	}
	return true
}

// IsEmpty reports whether no facet value or price bound is selected.
func (f Filters) IsEmpty() bool {
	return len(f.Categories) == 0 && len(f.Brands) == 0 && len(f.Colors) == 0 &&
		len(f.Sizes) == 0 && f.MinPrice == nil && f.MaxPrice == nil
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
