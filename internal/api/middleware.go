// Package api implements the read-only blog REST API using chi.
package api

import (
	"net/http"
)

// Readiness reports whether a collection is being served.
type Readiness interface {
	Version() string
}

// RequireCollection returns middleware that answers 503 until the first
// collection has been loaded.
func RequireCollection(ready Readiness) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if ready.Version() == "" {
				writeJSON(w, http.StatusServiceUnavailable, errorBody("collection not loaded"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// notModified handles conditional GETs against version. It sets the ETag and
// reports whether a 304 has been written.
func notModified(w http.ResponseWriter, r *http.Request, version string) bool {
	etag := `"` + version + `"`
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", "no-cache")
	if match := r.Header.Get("If-None-Match"); match != "" && (match == etag || match == "*") {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}
