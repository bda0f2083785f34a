package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestEngine(opts ...Option) *Engine {
	store := NewStore(SeedProducts(testNow), DefaultFacetConfig())
	return NewEngine(store, opts...)
}

func ids(products []Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

// ============================================
// Query Tests
// ============================================

func TestEngine_Query_LatestReturnsWholeCatalogNewestFirst(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Query(context.Background(), Request{SortBy: SortLatest, Limit: 18})

	require.NoError(t, err)
	assert.Equal(t, []string{
		"14", "18", "10", "3", "16", "11", "5", "2", "7",
		"1", "8", "4", "9", "12", "6", "13", "15", "17",
	}, ids(result.Products))
	assert.Equal(t, 18, result.TotalCount)
	assert.False(t, result.HasMore)
}

func TestEngine_Query_OldestFirst(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Query(context.Background(), Request{SortBy: SortOldest, Limit: 3})

	require.NoError(t, err)
	assert.Equal(t, []string{"17", "15", "13"}, ids(result.Products))
	assert.True(t, result.HasMore)
}

func TestEngine_Query_LimitBeyondCatalog(t *testing.T) {
	engine := newTestEngine()

	result, err := engine.Query(context.Background(), Request{SortBy: SortLatest, Limit: 36})

	require.NoError(t, err)
	assert.Len(t, result.Products, 18)
	assert.False(t, result.HasMore)
}

func TestEngine_Query_LengthIsMinOfLimitAndCatalog(t *testing.T) {
	engine := newTestEngine()

	for _, sortBy := range SortOptions() {
		for limit := 1; limit <= 40; limit++ {
			result, err := engine.Query(context.Background(), Request{SortBy: sortBy, Limit: limit})
			require.NoError(t, err)

			want := limit
			if want > 18 {
				want = 18
			}
			require.Len(t, result.Products, want, "sort=%s limit=%d", sortBy, limit)

			for i := 1; i < len(result.Products); i++ {
				prev, cur := result.Products[i-1].CreatedAt, result.Products[i].CreatedAt
				if sortBy == SortLatest {
					assert.False(t, cur.After(prev))
				} else {
					assert.False(t, cur.Before(prev))
				}
			}
		}
	}
}

func TestEngine_Query_UnknownSortFallsBackToLatest(t *testing.T) {
	engine := newTestEngine()

	latest, err := engine.Query(context.Background(), Request{SortBy: SortLatest, Limit: 5})
	require.NoError(t, err)
	unknown, err := engine.Query(context.Background(), Request{SortBy: "price-asc", Limit: 5})
	require.NoError(t, err)

	assert.Equal(t, ids(latest.Products), ids(unknown.Products))
}

func TestEngine_Query_TiesKeepCatalogOrder(t *testing.T) {
	same := testNow.Add(-time.Hour)
	products := []Product{
		{ID: "a", CreatedAt: same},
		{ID: "b", CreatedAt: testNow},
		{ID: "c", CreatedAt: same},
		{ID: "d", CreatedAt: same},
	}
	engine := NewEngine(NewStore(products, DefaultFacetConfig()))

	latest, err := engine.Query(context.Background(), Request{SortBy: SortLatest, Limit: 4})
	require.NoError(t, err)
	oldest, err := engine.Query(context.Background(), Request{SortBy: SortOldest, Limit: 4})
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "a", "c", "d"}, ids(latest.Products))
	assert.Equal(t, []string{"a", "c", "d", "b"}, ids(oldest.Products))
}

func TestEngine_Query_RejectsNonPositiveLimit(t *testing.T) {
	engine := newTestEngine()

	for _, limit := range []int{0, -1} {
		_, err := engine.Query(context.Background(), Request{SortBy: SortLatest, Limit: limit})
		assert.ErrorIs(t, err, ErrInvalidRequest)
	}
}

func TestEngine_Query_FiltersInertByDefault(t *testing.T) {
	engine := newTestEngine()
	lo := decimal.NewFromInt(100)

	result, err := engine.Query(context.Background(), Request{
		SortBy: SortLatest,
		Limit:  18,
		Filters: Filters{
			Categories: []string{"Masks"},
			MinPrice:   &lo,
		},
	})

	require.NoError(t, err)
	assert.False(t, engine.FiltersEnabled())
	assert.Len(t, result.Products, 18)
}

func TestEngine_Query_FiltersWhenEnabled(t *testing.T) {
	engine := newTestEngine(WithFilters(true))

	result, err := engine.Query(context.Background(), Request{
		SortBy:  SortLatest,
		Limit:   18,
		Filters: Filters{Categories: []string{"Hair Care"}, Colors: []string{"White", "Green"}},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"10", "4"}, ids(result.Products))
	assert.Equal(t, 2, result.TotalCount)
}

func TestEngine_Query_PriceFilterUsesDisplayPrice(t *testing.T) {
	engine := newTestEngine(WithFilters(true))
	hi := decimal.NewFromInt(20)

	result, err := engine.Query(context.Background(), Request{
		SortBy:  SortOldest,
		Limit:   18,
		Filters: Filters{MaxPrice: &hi},
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"1", "5", "11", "18", "14"}, ids(result.Products))
}

func TestEngine_Query_ConcurrentReaders(t *testing.T) {
	engine := newTestEngine()

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(limit int) {
			defer wg.Done()
			result, err := engine.Query(context.Background(), Request{SortBy: SortOldest, Limit: limit})
			assert.NoError(t, err)
			assert.Equal(t, "17", result.Products[0].ID)
		}(i%18 + 1)
	}
	wg.Wait()
}

func TestEngine_Query_LatencyHonorsCancellation(t *testing.T) {
	engine := newTestEngine(WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := engine.Query(ctx, Request{SortBy: SortLatest, Limit: 1})

	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

// ============================================
// Facet & Lookup Tests
// ============================================

func TestEngine_FacetOptions(t *testing.T) {
	engine := newTestEngine()

	facets, err := engine.FacetOptions(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"100g", "100ml", "120ml", "150g", "150ml"}, facets.Sizes)
	assert.Len(t, facets.Categories, 9)
	assert.Equal(t, "Sun Care", facets.Categories[0])
	assert.Equal(t, "Loreal", facets.Colors[len(facets.Colors)-1])
	assert.True(t, facets.MaxPrice.Equal(decimal.NewFromInt(10000)))
}

func TestEngine_FacetOptions_ReturnsCopy(t *testing.T) {
	engine := newTestEngine()

	first, _ := engine.FacetOptions(context.Background())
	first.Sizes[0] = "mutated"
	second, _ := engine.FacetOptions(context.Background())

	assert.Equal(t, "100g", second.Sizes[0])
}

func TestEngine_Product(t *testing.T) {
	engine := newTestEngine()

	p, err := engine.Product(context.Background(), "14")
	require.NoError(t, err)
	assert.Equal(t, "Sun Care", p.Category)

	_, err = engine.Product(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrProductNotFound)
}
