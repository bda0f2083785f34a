package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/example/shopspot/internal/catalog"
	"github.com/example/shopspot/internal/query"
	"github.com/gorilla/mux"
)

type Handlers struct {
	queryHandler *query.Handler
	page         *pageRenderer
}

func NewHandlers(queryHandler *query.Handler) *Handlers {
	return &Handlers{
		queryHandler: queryHandler,
		page:         newPageRenderer(),
	}
}

// Product Handlers

func (h *Handlers) GetProducts(w http.ResponseWriter, r *http.Request) {
	params := h.queryHandler.ParseParams(r.URL.Query())
	list, err := h.queryHandler.ListProducts(r.Context(), params)
	if err != nil {
		respondJSONError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, list)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	product, ok := h.queryHandler.GetProduct(r.Context(), id)
	if !ok {
		respondJSONError(w, "product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Facet Handlers

func (h *Handlers) GetFacets(w http.ResponseWriter, r *http.Request) {
	facets, err := h.queryHandler.Facets(r.Context())
	if err != nil {
		respondJSONError(w, err.Error(), statusFor(err))
		return
	}
	respondJSON(w, http.StatusOK, facets)
}

func Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// statusFor maps query errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, catalog.ErrProductNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondJSONError(w http.ResponseWriter, message string, status int) {
	respondJSON(w, status, map[string]string{"error": message})
}
