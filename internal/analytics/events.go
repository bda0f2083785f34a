package analytics

import (
	"encoding/json"
	"time"
)

const (
	AggregateType       = "storefront"
	EventCatalogQueried = "CatalogQueried"
)

// Event is the envelope written to the analytics topic
type Event struct {
	ID            string          `json:"id"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	EventType     string          `json:"event_type"`
	Data          json.RawMessage `json:"data"`
	Timestamp     time.Time       `json:"timestamp"`
}

// CatalogQueried describes one product list request
type CatalogQueried struct {
	RequestID      string    `json:"request_id"`
	SortBy         string    `json:"sort_by"`
	Page           int       `json:"page"`
	Limit          int       `json:"limit"`
	Categories     []string  `json:"categories,omitempty"`
	Brands         []string  `json:"brands,omitempty"`
	Colors         []string  `json:"colors,omitempty"`
	Sizes          []string  `json:"sizes,omitempty"`
	MinPrice       string    `json:"min_price,omitempty"`
	MaxPrice       string    `json:"max_price,omitempty"`
	ResultCount    int       `json:"result_count"`
	TotalCount     int       `json:"total_count"`
	FiltersApplied bool      `json:"filters_applied"`
	QueriedAt      time.Time `json:"queried_at"`
}
