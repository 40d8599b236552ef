package api

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/jinkyeom/sciencestop/internal/postservice"
	"github.com/jinkyeom/sciencestop/internal/video"
)

// Handler holds API route handlers.
type Handler struct {
	svc    *postservice.Service
	player video.Player
}

// NewHandler creates a new Handler. player may be nil, which disables the
// player endpoint.
func NewHandler(svc *postservice.Service, player video.Player) *Handler {
	return &Handler{svc: svc, player: player}
}

// postSlug extracts the slug from the URL (everything after the route prefix).
// Supports encoded slashes (e.g. 2025%2Fcosmic-calendar).
func postSlug(r *http.Request) string {
	raw := strings.Trim(chi.URLParam(r, "*"), "/")
	if raw == "" {
		return ""
	}
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// ListPosts handles GET /api/posts.
//
//	@Summary		List posts newest first, optionally filtered
//	@Tags			posts
//	@Produce		json
//	@Param			category	query		string	false	"Category id"	Enums(space, brain, life, ai, math)
//	@Param			tag			query		string	false	"Tag"
//	@Param			page		query		int		false	"1-based page number"
//	@Success		200			{object}	PostListResponse
//	@Failure		404			{object}	errResponse
//	@Router			/posts [get]
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))

	result, err := h.svc.List(r.Context(), q.Get("category"), q.Get("tag"), page)
	if err != nil {
		writeError(w, "list posts", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// GetPost handles GET /api/posts/*.
//
//	@Summary		Get a rendered post with its table of contents and neighbours
//	@Tags			posts
//	@Produce		json
//	@Param			slug			path		string	true	"Post slug"
//	@Param			If-None-Match	header		string	false	"Collection checksum from a previous ETag"
//	@Success		200				{object}	PostDetail
//	@Success		304				"Not modified"
//	@Failure		404				{object}	errResponse
//	@Router			/posts/{slug} [get]
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := postSlug(r)
	if slug == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("slug is required"))
		return
	}
	if _, err := h.svc.Meta(r.Context(), slug); err != nil {
		writeError(w, "get post", err)
		return
	}
	if notModified(w, r, h.svc.Version()) {
		return
	}
	post, err := h.svc.Get(r.Context(), slug)
	if err != nil {
		writeError(w, "get post "+slug, err)
		return
	}
	w.Header().Set("ETag", `"`+post.Version+`"`)
	writeJSON(w, http.StatusOK, post)
}

// Categories handles GET /api/categories.
//
//	@Summary		List categories with post counts
//	@Tags			categories
//	@Produce		json
//	@Success		200	{object}	CategoriesResponse
//	@Router			/categories [get]
func (h *Handler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.Categories(r.Context())
	if err != nil {
		writeError(w, "categories", err)
		return
	}
	writeJSON(w, http.StatusOK, CategoriesResponse{Categories: cats})
}

// Search handles GET /api/search.
//
//	@Summary		Full-text search across posts
//	@Tags			search
//	@Produce		json
//	@Param			q		query		string	true	"Search query"
//	@Param			limit	query		int		false	"Max results"
//	@Success		200		{object}	SearchResponse
//	@Failure		400		{object}	errResponse
//	@Router			/search [get]
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	results, err := h.svc.Search(r.Context(), q, limit)
	if err != nil {
		writeError(w, "search", err)
		return
	}
	writeJSON(w, http.StatusOK, SearchResponse{Results: results})
}

// Player handles POST /api/player/*.
//
//	@Summary		Send a seek or captions command to the post's video player
//	@Tags			player
//	@Accept			json
//	@Produce		json
//	@Param			slug	path		string			true	"Post slug"
//	@Param			body	body		PlayerRequest	true	"Command"
//	@Success		202		{object}	PlayerResponse
//	@Failure		400		{object}	errResponse
//	@Failure		404		{object}	errResponse
//	@Router			/player/{slug} [post]
func (h *Handler) Player(w http.ResponseWriter, r *http.Request) {
	if h.player == nil {
		writeJSON(w, http.StatusNotImplemented, errorBody("player not available"))
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, 1<<16)
	slug := postSlug(r)
	if _, err := h.svc.Meta(r.Context(), slug); err != nil {
		writeError(w, "player", err)
		return
	}

	var req PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("invalid JSON body"))
		return
	}
	if err := req.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	cmd := req.Command()
	if err := h.player.Send(r.Context(), slug, cmd); err != nil {
		writeError(w, "player", err)
		return
	}
	writeJSON(w, http.StatusAccepted, PlayerResponse{Slug: slug, Command: cmd})
}
