package query

import (
	"sort"

	"github.com/example/shopspot/internal/infrastructure/store"
	"github.com/example/shopspot/internal/readmodel"
)

// DefaultTopSelections bounds the selection list of GET /insights.
const DefaultTopSelections = 10

type InsightsHandler struct {
	readStore store.ReadStoreInterface
}

func NewInsightsHandler(readStore store.ReadStoreInterface) *InsightsHandler {
	return &InsightsHandler{readStore: readStore}
}

// Insights returns totals, sort usage and the top most selected facet values.
func (h *InsightsHandler) Insights(top int) *readmodel.InsightsReadModel {
	if top <= 0 {
		top = DefaultTopSelections
	}

	out := &readmodel.InsightsReadModel{
		TopSelections: h.TopSelections(top),
		SortUsage:     []readmodel.SortUsageReadModel{},
	}
	if data, ok := h.readStore.Get(readmodel.CollectionQueryTotals, readmodel.QueryTotalsID); ok {
		out.Totals = *data.(*readmodel.QueryTotalsReadModel)
	}
	for _, item := range h.readStore.GetAll(readmodel.CollectionSortUsage) {
		out.SortUsage = append(out.SortUsage, *item.(*readmodel.SortUsageReadModel))
	}
	return out
}

// TopSelections orders facet values by count, then facet, then value.
func (h *InsightsHandler) TopSelections(top int) []readmodel.FacetSelectionReadModel {
	items := h.readStore.GetAll(readmodel.CollectionFacetSelections)
	out := make([]readmodel.FacetSelectionReadModel, 0, len(items))
	for _, item := range items {
		out = append(out, *item.(*readmodel.FacetSelectionReadModel))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		if out[i].Facet != out[j].Facet {
			return out[i].Facet < out[j].Facet
		}
		return out[i].Value < out[j].Value
	})
	if top > 0 && len(out) > top {
		out = out[:top]
	}
	return out
}
