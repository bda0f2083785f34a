package query

import (
	"context"
	"encoding/json"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/example/shopspot/internal/analytics"
	"github.com/example/shopspot/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

type capturingPublisher struct {
	mu     sync.Mutex
	events []*analytics.Event
}

func (c *capturingPublisher) Publish(_ context.Context, _ string, event any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event.(*analytics.Event))
	return nil
}

func newTestQueryHandler(opts ...catalog.Option) (*Handler, *capturingPublisher) {
	store := catalog.NewStore(catalog.SeedProducts(testNow), catalog.DefaultFacetConfig())
	pub := &capturingPublisher{}
	handler := NewHandler(catalog.NewEngine(store, opts...), analytics.NewRecorder(pub, "test"), 18)
	return handler, pub
}

func params(t *testing.T, h *Handler, raw string) url.Values {
	t.Helper()
	v, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return v
}

// ============================================
// Product Query Tests
// ============================================

func TestHandler_ListProducts_FirstPage(t *testing.T) {
	handler, _ := newTestQueryHandler()

	list, err := handler.ListProducts(context.Background(), handler.ParseParams(url.Values{}))

	require.NoError(t, err)
	assert.Len(t, list.Products, 18)
	assert.Equal(t, "14", list.Products[0].ID)
	assert.Equal(t, 1, list.Page)
	assert.Equal(t, 18, list.ItemsPerPage)
	assert.Equal(t, "latest", list.SortBy)
	assert.Equal(t, 18, list.TotalCount)
	assert.True(t, list.HasMore, "a full first window looks like there may be more")
	assert.False(t, list.FiltersApplied)
}

func TestHandler_ListProducts_SecondPageEndsPagination(t *testing.T) {
	handler, _ := newTestQueryHandler()

	list, err := handler.ListProducts(context.Background(), handler.ParseParams(params(t, handler, "page=2&sortBy=oldest")))

	require.NoError(t, err)
	assert.Len(t, list.Products, 18)
	assert.Equal(t, "17", list.Products[0].ID)
	assert.False(t, list.HasMore)
}

func TestHandler_ListProducts_FiltersEchoedButInert(t *testing.T) {
	handler, _ := newTestQueryHandler()

	list, err := handler.ListProducts(context.Background(), handler.ParseParams(params(t, handler, "brand=Dove&maxPrice=15")))

	require.NoError(t, err)
	assert.Len(t, list.Products, 18)
	assert.Equal(t, []string{"Dove"}, list.Filters.Brands)
	assert.Equal(t, []string{}, list.Filters.Categories)
	require.NotNil(t, list.Filters.MaxPrice)
	assert.Equal(t, "15", list.Filters.MaxPrice.String())
}

func TestHandler_ListProducts_FiltersEnabled(t *testing.T) {
	handler, _ := newTestQueryHandler(catalog.WithFilters(true))

	list, err := handler.ListProducts(context.Background(), handler.ParseParams(params(t, handler, "category=Hair+Care&color=White,Green")))

	require.NoError(t, err)
	require.Len(t, list.Products, 2)
	assert.Equal(t, "10", list.Products[0].ID)
	assert.Equal(t, 2, list.TotalCount)
	assert.False(t, list.HasMore)
	assert.True(t, list.FiltersApplied)
}

func TestHandler_ListProducts_CardFields(t *testing.T) {
	handler, _ := newTestQueryHandler()

	list, err := handler.ListProducts(context.Background(), handler.ParseParams(url.Values{}))
	require.NoError(t, err)

	var card *ProductReadModel
	for i := range list.Products {
		if list.Products[i].ID == "11" {
			card = &list.Products[i]
		}
	}
	require.NotNil(t, card)
	assert.True(t, card.OnSale)
	assert.Equal(t, "17.5", card.DisplayPrice.String())
	assert.Equal(t, 30, card.DiscountPercent)
	assert.Equal(t, testNow.Add(-36*time.Hour).UnixMilli(), card.CreatedAt)
}

func TestHandler_ListProducts_PublishesAnalytics(t *testing.T) {
	handler, pub := newTestQueryHandler()
	ctx := analytics.WithRequestID(context.Background(), "req-1")

	_, err := handler.ListProducts(ctx, handler.ParseParams(params(t, handler, "size=150ml&minPrice=5&page=2")))
	require.NoError(t, err)
	require.NoError(t, handler.WaitForAnalytics(context.Background()))

	require.Len(t, pub.events, 1)
	var e analytics.CatalogQueried
	require.NoError(t, json.Unmarshal(pub.events[0].Data, &e))
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, 2, e.Page)
	assert.Equal(t, 36, e.Limit)
	assert.Equal(t, []string{"150ml"}, e.Sizes)
	assert.Equal(t, "5", e.MinPrice)
	assert.Empty(t, e.MaxPrice)
	assert.Equal(t, 18, e.ResultCount)
}

type stalledPublisher struct {
	release chan struct{}
	ctxErr  chan error
}

func (s *stalledPublisher) Publish(ctx context.Context, _ string, _ any) error {
	<-s.release
	s.ctxErr <- ctx.Err()
	return nil
}

func TestHandler_ListProducts_StalledPublisherDoesNotBlock(t *testing.T) {
	store := catalog.NewStore(catalog.SeedProducts(testNow), catalog.DefaultFacetConfig())
	pub := &stalledPublisher{release: make(chan struct{}), ctxErr: make(chan error, 1)}
	handler := NewHandler(catalog.NewEngine(store), analytics.NewRecorder(pub, "test"), 18)
	ctx, cancel := context.WithCancel(context.Background())

	start := time.Now()
	list, err := handler.ListProducts(ctx, handler.ParseParams(url.Values{}))
	elapsed := time.Since(start)
	cancel()

	require.NoError(t, err)
	assert.Len(t, list.Products, 18)
	assert.Less(t, elapsed, 500*time.Millisecond)

	waitCtx, waitCancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer waitCancel()
	assert.ErrorIs(t, handler.WaitForAnalytics(waitCtx), context.DeadlineExceeded)

	close(pub.release)
	require.NoError(t, handler.WaitForAnalytics(context.Background()))
	assert.NoError(t, <-pub.ctxErr, "ending the request does not cancel the publish")
}

func TestHandler_ListProducts_CancelledContext(t *testing.T) {
	handler, pub := newTestQueryHandler(catalog.WithLatency(time.Second))
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	list, err := handler.ListProducts(ctx, handler.ParseParams(url.Values{}))

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Nil(t, list)
	require.NoError(t, handler.WaitForAnalytics(context.Background()))
	assert.Empty(t, pub.events)
}

func TestHandler_GetProduct_Found(t *testing.T) {
	handler, _ := newTestQueryHandler()

	product, found := handler.GetProduct(context.Background(), "3")

	require.True(t, found)
	assert.Equal(t, "3", product.ID)
	assert.Equal(t, "Nivea Soft Jar Moisturising Cream", product.Title)
}

func TestHandler_GetProduct_NotFound(t *testing.T) {
	handler, _ := newTestQueryHandler()

	product, found := handler.GetProduct(context.Background(), "non-existent")

	assert.False(t, found)
	assert.Nil(t, product)
}

// ============================================
// Facet Query Tests
// ============================================

func TestHandler_Facets(t *testing.T) {
	handler, _ := newTestQueryHandler()

	facets, err := handler.Facets(context.Background())

	require.NoError(t, err)
	assert.Len(t, facets.Categories, 9)
	assert.Equal(t, []string{"100g", "100ml", "120ml", "150g", "150ml"}, facets.Sizes)
	assert.Equal(t, "10000", facets.MaxPrice.String())
	assert.Equal(t, "10000", handler.MaxPrice().String())
}
