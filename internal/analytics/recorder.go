// Package analytics publishes storefront query events.
package analytics

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Publisher writes a keyed event. kafka.Producer satisfies it.
type Publisher interface {
	Publish(ctx context.Context, key string, event any) error
}

// NoopPublisher drops every event. Used when no brokers are configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, string, any) error { return nil }

type Recorder struct {
	publisher Publisher
	source    string
	now       func() time.Time
}

// NewRecorder wraps publisher. source becomes the aggregate id of every event.
func NewRecorder(publisher Publisher, source string) *Recorder {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &Recorder{publisher: publisher, source: source, now: time.Now}
}

// CatalogQueried publishes e keyed by its primary sort so one partition sees one order.
func (r *Recorder) CatalogQueried(ctx context.Context, e CatalogQueried) (*Event, error) {
	if e.QueriedAt.IsZero() {
		e.QueriedAt = r.now()
	}
	data, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}

	event := &Event{
		ID:            uuid.New().String(),
		AggregateID:   r.source,
		AggregateType: AggregateType,
		EventType:     EventCatalogQueried,
		Data:          data,
		Timestamp:     e.QueriedAt,
	}

	if err := r.publisher.Publish(ctx, e.SortBy, event); err != nil {
		return nil, fmt.Errorf("publish %s: %w", EventCatalogQueried, err)
	}
	return event, nil
}

type requestIDKey struct{}

// WithRequestID tags ctx so events published under it carry the id.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id set by WithRequestID, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
