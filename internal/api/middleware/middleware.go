package middleware

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/example/shopspot/internal/analytics"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-ID"

type contextKey string

const (
	RequestIDContextKey contextKey = "request_id"
)

// respondError writes a JSON error response
func respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RequestID reuses the caller's X-Request-ID or generates one, echoes it on
// the response and stores it on the request context.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)

		ctx := context.WithValue(r.Context(), RequestIDContextKey, id)
		ctx = analytics.WithRequestID(ctx, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID returns the id stored by RequestID, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDContextKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// Logging writes one line per request under prefix, e.g. "[API]".
func Logging(prefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)
			log.Printf("%s %s %s %d %s req=%s", prefix, r.Method, r.URL.RequestURI(), rec.status,
				time.Since(start).Round(time.Microsecond), GetRequestID(r.Context()))
		})
	}
}

// Recover turns a handler panic into a 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if v := recover(); v != nil {
				log.Printf("[API] panic serving %s: %v\n%s", r.URL.Path, v, debug.Stack())
				respondError(w, "internal server error", http.StatusInternalServerError)
			}
		}()
		next.ServeHTTP(w, r)
	})
}
