package readmodel

import "time"

// Read store collections written by the insights projector
const (
	CollectionFacetSelections = "facet_selections"
	CollectionSortUsage       = "sort_usage"
	CollectionQueryTotals     = "query_totals"

	QueryTotalsID = "all"
)

// FacetSelectionReadModel counts how often a facet value was part of a query
type FacetSelectionReadModel struct {
	Facet    string    `json:"facet"`
	Value    string    `json:"value"`
	Count    int       `json:"count"`
	LastSeen time.Time `json:"last_seen"`
}

// SortUsageReadModel counts queries per sort order
type SortUsageReadModel struct {
	SortBy string `json:"sort_by"`
	Count  int    `json:"count"`
}

// QueryTotalsReadModel aggregates all projected queries
type QueryTotalsReadModel struct {
	Queries       int       `json:"queries"`
	EmptyResults  int       `json:"empty_results"`
	LoadMore      int       `json:"load_more"`
	PriceFiltered int       `json:"price_filtered"`
	LastQueriedAt time.Time `json:"last_queried_at"`
}

// InsightsReadModel is the response of GET /insights
type InsightsReadModel struct {
	Totals        QueryTotalsReadModel      `json:"totals"`
	TopSelections []FacetSelectionReadModel `json:"top_selections"`
	SortUsage     []SortUsageReadModel      `json:"sort_usage"`
}
