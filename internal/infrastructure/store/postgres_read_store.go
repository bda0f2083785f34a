package store

import (
	"database/sql"
	"log"
	"sync"
	"time"

	"github.com/example/shopspot/internal/readmodel"
)

// InsightsSchema creates the tables PostgresReadStore writes to.
const InsightsSchema = `
CREATE TABLE IF NOT EXISTS insight_facet_selections (
	id        TEXT PRIMARY KEY,
	facet     TEXT NOT NULL,
	value     TEXT NOT NULL,
	count     BIGINT NOT NULL,
	last_seen TIMESTAMPTZ NOT NULL
);
CREATE TABLE IF NOT EXISTS insight_sort_usage (
	id    TEXT PRIMARY KEY,
	count BIGINT NOT NULL
);
CREATE TABLE IF NOT EXISTS insight_query_totals (
	id              TEXT PRIMARY KEY,
	queries         BIGINT NOT NULL,
	empty_results   BIGINT NOT NULL,
	load_more       BIGINT NOT NULL,
	price_filtered  BIGINT NOT NULL,
	last_queried_at TIMESTAMPTZ NOT NULL
);`

var insightTables = map[string]string{
	readmodel.CollectionFacetSelections: "insight_facet_selections",
	readmodel.CollectionSortUsage:       "insight_sort_usage",
	readmodel.CollectionQueryTotals:     "insight_query_totals",
}

// PostgresReadStore implements ReadStoreInterface for the insight collections using PostgreSQL
type PostgresReadStore struct {
	db *sql.DB
	mu sync.RWMutex // serialises read-modify-write in Upsert
}

// NewPostgresReadStore creates a new PostgreSQL-based read store
func NewPostgresReadStore(db *sql.DB) *PostgresReadStore {
	return &PostgresReadStore{db: db}
}

// Migrate creates the insight tables if they do not exist.
func (rs *PostgresReadStore) Migrate() error {
	_, err := rs.db.Exec(InsightsSchema)
	return err
}

// Set stores a read model
func (rs *PostgresReadStore) Set(collection, id string, data any) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	rs.setUnsafe(collection, id, data)
}

// Get retrieves a read model by id
func (rs *PostgresReadStore) Get(collection, id string) (any, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	return rs.getUnsafe(collection, id)
}

// GetAll retrieves all items in a collection, ordered by id
func (rs *PostgresReadStore) GetAll(collection string) []any {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	switch collection {
	case readmodel.CollectionFacetSelections:
		return rs.getAllFacetSelections()
	case readmodel.CollectionSortUsage:
		return rs.getAllSortUsage()
	case readmodel.CollectionQueryTotals:
		if t, ok := rs.getQueryTotals(readmodel.QueryTotalsID); ok {
			return []any{t}
		}
	}
	return nil
}

// Upsert replaces a read model with fn's result. current is nil when the id is new.
func (rs *PostgresReadStore) Upsert(collection, id string, fn func(current any) any) any {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	var current any
	if c, ok := rs.getUnsafe(collection, id); ok {
		current = c
	}
	next := fn(current)
	rs.setUnsafe(collection, id, next)
	return next
}

// Len counts the items in a collection
func (rs *PostgresReadStore) Len(collection string) int {
	table, ok := insightTables[collection]
	if !ok {
		return 0
	}

	rs.mu.RLock()
	defer rs.mu.RUnlock()

	var n int
	if err := rs.db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		log.Printf("[PostgresReadStore] Error counting %s: %v", collection, err)
		return 0
	}
	return n
}

func (rs *PostgresReadStore) setUnsafe(collection, id string, data any) {
	switch collection {
	case readmodel.CollectionFacetSelections:
		rs.setFacetSelection(id, data.(*readmodel.FacetSelectionReadModel))
	case readmodel.CollectionSortUsage:
		rs.setSortUsage(id, data.(*readmodel.SortUsageReadModel))
	case readmodel.CollectionQueryTotals:
		rs.setQueryTotals(id, data.(*readmodel.QueryTotalsReadModel))
	}
}

func (rs *PostgresReadStore) getUnsafe(collection, id string) (any, bool) {
	switch collection {
	case readmodel.CollectionFacetSelections:
		if s, ok := rs.getFacetSelection(id); ok {
			return s, true
		}
	case readmodel.CollectionSortUsage:
		if u, ok := rs.getSortUsage(id); ok {
			return u, true
		}
	case readmodel.CollectionQueryTotals:
		if t, ok := rs.getQueryTotals(id); ok {
			return t, true
		}
	}
	return nil, false
}

// Facet selection operations
func (rs *PostgresReadStore) setFacetSelection(id string, s *readmodel.FacetSelectionReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO insight_facet_selections (id, facet, value, count, last_seen)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			count = EXCLUDED.count,
			last_seen = EXCLUDED.last_seen
	`, id, s.Facet, s.Value, s.Count, s.LastSeen)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting facet selection: %v", err)
	}
}

func (rs *PostgresReadStore) getFacetSelection(id string) (*readmodel.FacetSelectionReadModel, bool) {
	var s readmodel.FacetSelectionReadModel
	err := rs.db.QueryRow(`
		SELECT facet, value, count, last_seen
		FROM insight_facet_selections WHERE id = $1
	`, id).Scan(&s.Facet, &s.Value, &s.Count, &s.LastSeen)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting facet selection: %v", err)
		}
		return nil, false
	}
	return &s, true
}

func (rs *PostgresReadStore) getAllFacetSelections() []any {
	rows, err := rs.db.Query(`
		SELECT facet, value, count, last_seen
		FROM insight_facet_selections ORDER BY id
	`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all facet selections: %v", err)
		return nil
	}
	defer rows.Close()

	return scanFacetSelections(rows)
}

func scanFacetSelections(rows rowScanner) []any {
	var out []any
	for rows.Next() {
		var s readmodel.FacetSelectionReadModel
		if err := rows.Scan(&s.Facet, &s.Value, &s.Count, &s.LastSeen); err != nil {
			log.Printf("[PostgresReadStore] Error scanning facet selection: %v", err)
			continue
		}
		out = append(out, &s)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[PostgresReadStore] Error iterating facet selections: %v", err)
	}
	return out
}

// Sort usage operations
func (rs *PostgresReadStore) setSortUsage(id string, u *readmodel.SortUsageReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO insight_sort_usage (id, count)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET count = EXCLUDED.count
	`, id, u.Count)
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting sort usage: %v", err)
	}
}

func (rs *PostgresReadStore) getSortUsage(id string) (*readmodel.SortUsageReadModel, bool) {
	u := readmodel.SortUsageReadModel{SortBy: id}
	err := rs.db.QueryRow(`SELECT count FROM insight_sort_usage WHERE id = $1`, id).Scan(&u.Count)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting sort usage: %v", err)
		}
		return nil, false
	}
	return &u, true
}

func (rs *PostgresReadStore) getAllSortUsage() []any {
	rows, err := rs.db.Query(`SELECT id, count FROM insight_sort_usage ORDER BY id`)
	if err != nil {
		log.Printf("[PostgresReadStore] Error getting all sort usage: %v", err)
		return nil
	}
	defer rows.Close()

	return scanSortUsage(rows)
}

func scanSortUsage(rows rowScanner) []any {
	var out []any
	for rows.Next() {
		var u readmodel.SortUsageReadModel
		if err := rows.Scan(&u.SortBy, &u.Count); err != nil {
			log.Printf("[PostgresReadStore] Error scanning sort usage: %v", err)
			continue
		}
		out = append(out, &u)
	}
	if err := rows.Err(); err != nil {
		log.Printf("[PostgresReadStore] Error iterating sort usage: %v", err)
	}
	return out
}

// Query totals operations
func (rs *PostgresReadStore) setQueryTotals(id string, t *readmodel.QueryTotalsReadModel) {
	_, err := rs.db.Exec(`
		INSERT INTO insight_query_totals (id, queries, empty_results, load_more, price_filtered, last_queried_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			queries = EXCLUDED.queries,
			empty_results = EXCLUDED.empty_results,
			load_more = EXCLUDED.load_more,
			price_filtered = EXCLUDED.price_filtered,
			last_queried_at = EXCLUDED.last_queried_at
	`, id, t.Queries, t.EmptyResults, t.LoadMore, t.PriceFiltered, storedTime(t.LastQueriedAt))
	if err != nil {
		log.Printf("[PostgresReadStore] Error setting query totals: %v", err)
	}
}

func (rs *PostgresReadStore) getQueryTotals(id string) (*readmodel.QueryTotalsReadModel, bool) {
	var t readmodel.QueryTotalsReadModel
	err := rs.db.QueryRow(`
		SELECT queries, empty_results, load_more, price_filtered, last_queried_at
		FROM insight_query_totals WHERE id = $1
	`, id).Scan(&t.Queries, &t.EmptyResults, &t.LoadMore, &t.PriceFiltered, &t.LastQueriedAt)
	if err != nil {
		if err != sql.ErrNoRows {
			log.Printf("[PostgresReadStore] Error getting query totals: %v", err)
		}
		return nil, false
	}
	return &t, true
}

func storedTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Unix(0, 0).UTC()
	}
	return t
}
