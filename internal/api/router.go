package api

import (
	"net/http"

	"github.com/example/shopspot/internal/api/middleware"
	"github.com/gorilla/mux"
)

// NewRouter serves the storefront page and its JSON API.
func NewRouter(handlers *Handlers) http.Handler {
	r := mux.NewRouter()
	r.Use(middleware.Recover, middleware.RequestID, middleware.Logging("[API]"))

	r.HandleFunc("/", handlers.Storefront).Methods(http.MethodGet)
	r.HandleFunc("/health", Health).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/products", handlers.GetProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/{id}", handlers.GetProduct).Methods(http.MethodGet)
	api.HandleFunc("/facets", handlers.GetFacets).Methods(http.MethodGet)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSONError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respondJSONError(w, "method not allowed", http.StatusMethodNotAllowed)
	})
	return r
}
