package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type publishCall struct {
	Key   string
	Event any
}

type fakePublisher struct {
	calls []publishCall
	err   error
}

func (f *fakePublisher) Publish(_ context.Context, key string, event any) error {
	f.calls = append(f.calls, publishCall{Key: key, Event: event})
	return f.err
}

func TestRecorder_CatalogQueried(t *testing.T) {
	pub := &fakePublisher{}
	r := NewRecorder(pub, "api-1")
	at := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	event, err := r.CatalogQueried(context.Background(), CatalogQueried{
		SortBy:      "oldest",
		Page:        2,
		Limit:       36,
		Colors:      []string{"White"},
		ResultCount: 18,
		TotalCount:  18,
		QueriedAt:   at,
	})

	require.NoError(t, err)
	require.Len(t, pub.calls, 1)
	assert.Equal(t, "oldest", pub.calls[0].Key)
	assert.Same(t, event, pub.calls[0].Event)
	assert.Equal(t, EventCatalogQueried, event.EventType)
	assert.Equal(t, AggregateType, event.AggregateType)
	assert.Equal(t, "api-1", event.AggregateID)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, at, event.Timestamp)

	var data CatalogQueried
	require.NoError(t, json.Unmarshal(event.Data, &data))
	assert.Equal(t, 2, data.Page)
	assert.Equal(t, []string{"White"}, data.Colors)
}

func TestRecorder_StampsQueryTime(t *testing.T) {
	r := NewRecorder(&fakePublisher{}, "api-1")
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	event, err := r.CatalogQueried(context.Background(), CatalogQueried{SortBy: "latest"})

	require.NoError(t, err)
	assert.Equal(t, fixed, event.Timestamp)
}

func TestRecorder_PublishError(t *testing.T) {
	boom := errors.New("broker down")
	r := NewRecorder(&fakePublisher{err: boom}, "api-1")

	_, err := r.CatalogQueried(context.Background(), CatalogQueried{SortBy: "latest"})

	assert.ErrorIs(t, err, boom)
}

func TestRecorder_NilPublisherIsNoop(t *testing.T) {
	r := NewRecorder(nil, "api-1")

	event, err := r.CatalogQueried(context.Background(), CatalogQueried{SortBy: "latest"})

	require.NoError(t, err)
	assert.NotNil(t, event)
}
