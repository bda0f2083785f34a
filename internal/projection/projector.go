package projection

import (
	"context"
	"encoding/json"
	"log"

	"github.com/example/shopspot/internal/analytics"
	"github.com/example/shopspot/internal/infrastructure/store"
	"github.com/example/shopspot/internal/readmodel"
)

// Projector folds storefront analytics events into insight read models.
// Read models are replaced, never mutated, so readers can hold them without locking.
type Projector struct {
	readStore store.ReadStoreInterface
}

func NewProjector(readStore store.ReadStoreInterface) *Projector {
	return &Projector{readStore: readStore}
}

func (p *Projector) HandleEvent(ctx context.Context, key, value []byte) error {
	var event analytics.Event
	if err := json.Unmarshal(value, &event); err != nil {
		return err
	}

	if event.AggregateType != analytics.AggregateType {
		return nil
	}

	switch event.EventType {
	case analytics.EventCatalogQueried:
		var e analytics.CatalogQueried
		if err := json.Unmarshal(event.Data, &e); err != nil {
			return err
		}
		if e.QueriedAt.IsZero() {
			e.QueriedAt = event.Timestamp
		}
		p.handleCatalogQueried(e)
	default:
		log.Printf("[Projector] Ignoring event type %s", event.EventType)
	}
	return nil
}

func (p *Projector) handleCatalogQueried(e analytics.CatalogQueried) {
	facets := []struct {
		name   string
		values []string
	}{
		{"category", e.Categories},
		{"brand", e.Brands},
		{"color", e.Colors},
		{"size", e.Sizes},
	}
	for _, f := range facets {
		for _, v := range f.values {
			p.countSelection(f.name, v, e)
		}
	}

	sortBy := e.SortBy
	if sortBy == "" {
		sortBy = "latest"
	}
	p.readStore.Upsert(readmodel.CollectionSortUsage, sortBy, func(current any) any {
		next := readmodel.SortUsageReadModel{SortBy: sortBy}
		if c, ok := current.(*readmodel.SortUsageReadModel); ok {
			next = *c
		}
		next.Count++
		return &next
	})

	p.readStore.Upsert(readmodel.CollectionQueryTotals, readmodel.QueryTotalsID, func(current any) any {
		var next readmodel.QueryTotalsReadModel
		if c, ok := current.(*readmodel.QueryTotalsReadModel); ok {
			next = *c
		}
		next.Queries++
		if e.ResultCount == 0 {
			next.EmptyResults++
		}
		if e.Page > 1 {
			next.LoadMore++
		}
		if e.MinPrice != "" || e.MaxPrice != "" {
			next.PriceFiltered++
		}
		if e.QueriedAt.After(next.LastQueriedAt) {
			next.LastQueriedAt = e.QueriedAt
		}
		return &next
	})
}

func (p *Projector) countSelection(facet, value string, e analytics.CatalogQueried) {
	p.readStore.Upsert(readmodel.CollectionFacetSelections, facet+":"+value, func(current any) any {
		next := readmodel.FacetSelectionReadModel{Facet: facet, Value: value}
		if c, ok := current.(*readmodel.FacetSelectionReadModel); ok {
			next = *c
		}
		next.Count++
		if e.QueriedAt.After(next.LastSeen) {
			next.LastSeen = e.QueriedAt
		}
		return &next
	})
}
