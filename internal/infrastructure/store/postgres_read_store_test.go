package store

import (
	"bytes"
	"errors"
	"log"
	"testing"
	"time"

	"github.com/example/shopspot/internal/readmodel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(prev) })
	return &buf
}

func TestPostgresReadStore_UnknownCollectionSkipsDatabase(t *testing.T) {
	rs := NewPostgresReadStore(nil)

	rs.Set("carts", "c-1", "ignored")
	v, ok := rs.Get("carts", "c-1")

	assert.False(t, ok)
	assert.Nil(t, v)
	assert.Nil(t, rs.GetAll("carts"))
	assert.Equal(t, 0, rs.Len("carts"))
}

func TestPostgresReadStore_TablesCoverInsightCollections(t *testing.T) {
	assert.Equal(t, map[string]string{
		"facet_selections": "insight_facet_selections",
		"sort_usage":       "insight_sort_usage",
		"query_totals":     "insight_query_totals",
	}, insightTables)
	for _, table := range insightTables {
		assert.Contains(t, InsightsSchema, "CREATE TABLE IF NOT EXISTS "+table)
	}
}

func TestStoredTime_ZeroBecomesEpoch(t *testing.T) {
	assert.Equal(t, int64(0), storedTime(time.Time{}).Unix())
}

func TestScanFacetSelections_LogsIterationError(t *testing.T) {
	logs := captureLog(t)
	rows := &fakeRows{
		rows: [][]any{
			{"brand", "Dove", 3, created},
			{"color", "Red", 1, created},
		},
		scanErr: map[int]error{1: errors.New("bad column")},
		err:     errors.New("connection reset"),
	}

	out := scanFacetSelections(rows)

	require.Len(t, out, 1)
	assert.Equal(t, &readmodel.FacetSelectionReadModel{Facet: "brand", Value: "Dove", Count: 3, LastSeen: created}, out[0])
	assert.Contains(t, logs.String(), "Error scanning facet selection: bad column")
	assert.Contains(t, logs.String(), "Error iterating facet selections: connection reset")
}

func TestScanSortUsage_LogsIterationError(t *testing.T) {
	logs := captureLog(t)
	rows := &fakeRows{
		rows: [][]any{{"latest", 7}, {"oldest", 2}},
		err:  errors.New("connection reset"),
	}

	out := scanSortUsage(rows)

	assert.Equal(t, []any{
		&readmodel.SortUsageReadModel{SortBy: "latest", Count: 7},
		&readmodel.SortUsageReadModel{SortBy: "oldest", Count: 2},
	}, out)
	assert.Contains(t, logs.String(), "Error iterating sort usage: connection reset")
}

func TestScanSortUsage_CleanIterationLogsNothing(t *testing.T) {
	logs := captureLog(t)

	out := scanSortUsage(&fakeRows{rows: [][]any{{"latest", 1}}})

	assert.Len(t, out, 1)
	assert.Empty(t, logs.String())
}
