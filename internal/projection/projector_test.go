package projection

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/example/shopspot/internal/analytics"
	"github.com/example/shopspot/internal/infrastructure/store/mocks"
	"github.com/example/shopspot/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var queriedAt = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func newTestProjector() (*Projector, *mocks.MockReadStore) {
	readStore := mocks.NewMockReadStore()
	projector := NewProjector(readStore)
	return projector, readStore
}

func makeEvent(eventType string, data any) []byte {
	jsonData, _ := json.Marshal(data)
	event := analytics.Event{
		ID:            "event-123",
		AggregateID:   "api",
		AggregateType: analytics.AggregateType,
		EventType:     eventType,
		Data:          jsonData,
		Timestamp:     queriedAt,
	}
	result, _ := json.Marshal(event)
	return result
}

// ============================================
// CatalogQueried Tests
// ============================================

func TestProjector_HandleCatalogQueried_CountsSelections(t *testing.T) {
	projector, readStore := newTestProjector()
	ctx := context.Background()

	value := makeEvent(analytics.EventCatalogQueried, analytics.CatalogQueried{
		SortBy:      "oldest",
		Page:        1,
		Categories:  []string{"Hair Care"},
		Colors:      []string{"White", "Green"},
		ResultCount: 18,
		QueriedAt:   queriedAt,
	})

	require.NoError(t, projector.HandleEvent(ctx, nil, value))
	require.NoError(t, projector.HandleEvent(ctx, nil, value))

	data, ok := readStore.GetData(readmodel.CollectionFacetSelections, "color:White")
	require.True(t, ok)
	sel := data.(*readmodel.FacetSelectionReadModel)
	assert.Equal(t, "color", sel.Facet)
	assert.Equal(t, "White", sel.Value)
	assert.Equal(t, 2, sel.Count)
	assert.Equal(t, queriedAt, sel.LastSeen)

	assert.Equal(t, 3, readStore.Len(readmodel.CollectionFacetSelections))

	data, ok = readStore.GetData(readmodel.CollectionSortUsage, "oldest")
	require.True(t, ok)
	assert.Equal(t, 2, data.(*readmodel.SortUsageReadModel).Count)
}

func TestProjector_HandleCatalogQueried_Totals(t *testing.T) {
	projector, readStore := newTestProjector()
	ctx := context.Background()

	events := []analytics.CatalogQueried{
		{SortBy: "latest", Page: 1, ResultCount: 18},
		{SortBy: "latest", Page: 2, ResultCount: 18},
		{SortBy: "latest", Page: 1, ResultCount: 0, MaxPrice: "5"},
	}
	for _, e := range events {
		require.NoError(t, projector.HandleEvent(ctx, nil, makeEvent(analytics.EventCatalogQueried, e)))
	}

	data, ok := readStore.GetData(readmodel.CollectionQueryTotals, readmodel.QueryTotalsID)
	require.True(t, ok)
	totals := data.(*readmodel.QueryTotalsReadModel)
	assert.Equal(t, 3, totals.Queries)
	assert.Equal(t, 1, totals.LoadMore)
	assert.Equal(t, 1, totals.EmptyResults)
	assert.Equal(t, 1, totals.PriceFiltered)
	assert.Equal(t, queriedAt, totals.LastQueriedAt, "falls back to the envelope timestamp")
}

func TestProjector_ReplacesReadModels(t *testing.T) {
	projector, readStore := newTestProjector()
	ctx := context.Background()
	value := makeEvent(analytics.EventCatalogQueried, analytics.CatalogQueried{SortBy: "latest"})

	require.NoError(t, projector.HandleEvent(ctx, nil, value))
	first, _ := readStore.GetData(readmodel.CollectionSortUsage, "latest")
	require.NoError(t, projector.HandleEvent(ctx, nil, value))

	assert.Equal(t, 1, first.(*readmodel.SortUsageReadModel).Count, "earlier snapshot is untouched")
	require.Len(t, readStore.UpsertCalls, 4)
}

func TestProjector_IgnoresUnknownEvents(t *testing.T) {
	projector, readStore := newTestProjector()

	err := projector.HandleEvent(context.Background(), nil, makeEvent("ProductViewed", map[string]string{"id": "1"}))

	require.NoError(t, err)
	assert.Empty(t, readStore.UpsertCalls)
}

func TestProjector_InvalidJSON(t *testing.T) {
	projector, _ := newTestProjector()

	err := projector.HandleEvent(context.Background(), nil, []byte("not json"))

	assert.Error(t, err)
}
