package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/jinkyeom/sciencestop/internal/postservice"
	"github.com/jinkyeom/sciencestop/internal/video"
)

// NewRouter creates a chi router with all API routes mounted.
// player, if non-nil, backs POST /player/*.
// sseHandler, if non-nil, is mounted at GET /events.
func NewRouter(svc *postservice.Service, player video.Player, sseHandler http.Handler) chi.Router {
	h := NewHandler(svc, player)

	r := chi.NewRouter()

	// The event stream stays open across reloads, so it is not gated.
	if sseHandler != nil {
		r.Get("/events", sseHandler.ServeHTTP)
	}

	r.Group(func(r chi.Router) {
		r.Use(RequireCollection(svc))

		r.Get("/posts", h.ListPosts)
		r.Get("/posts/*", h.GetPost)
		r.Get("/categories", h.Categories)
		r.Get("/search", h.Search)
		r.Post("/player/*", h.Player)
	})

	return r
}
