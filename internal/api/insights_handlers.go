package api

import (
	"net/http"
	"strconv"

	"github.com/example/shopspot/internal/api/middleware"
	"github.com/example/shopspot/internal/query"
	"github.com/gorilla/mux"
)

type InsightsHandlers struct {
	queryHandler *query.InsightsHandler
}

func NewInsightsHandlers(queryHandler *query.InsightsHandler) *InsightsHandlers {
	return &InsightsHandlers{queryHandler: queryHandler}
}

// GetInsights serves GET /insights?top=N.
func (h *InsightsHandlers) GetInsights(w http.ResponseWriter, r *http.Request) {
	top := query.DefaultTopSelections
	if raw := r.URL.Query().Get("top"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			respondJSONError(w, "top must be a positive integer", http.StatusBadRequest)
			return
		}
		top = n
	}
	respondJSON(w, http.StatusOK, h.queryHandler.Insights(top))
}

// NewInsightsRouter serves the query analytics read side.
func NewInsightsRouter(handlers *InsightsHandlers) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.RequestID, middleware.Logging("[Insights]"))

	r.HandleFunc("/health", Health).Methods(http.MethodGet)
	r.HandleFunc("/insights", handlers.GetInsights).Methods(http.MethodGet)
	return r
}
