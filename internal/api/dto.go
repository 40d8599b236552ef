package api

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jinkyeom/sciencestop/internal/content"
	"github.com/jinkyeom/sciencestop/internal/index"
	"github.com/jinkyeom/sciencestop/internal/postservice"
	"github.com/jinkyeom/sciencestop/internal/video"
)

// Player actions.
const (
	ActionSeek     = "seek"
	ActionCaptions = "captions"
)

// PostDetail is the full post response type (aliased from the domain layer).
type PostDetail = postservice.PostDetail

// PostListResponse is one page of posts (aliased from the content layer).
type PostListResponse = content.Page

// CategoryCount is a category with its post count.
type CategoryCount = postservice.CategoryCount

// CategoriesResponse wraps the category table.
type CategoriesResponse struct {
	Categories []CategoryCount `json:"categories" validate:"required"`
}

// SearchResult is a single search hit in the API response.
type SearchResult = index.SearchResult

// SearchResponse wraps search results.
type SearchResponse struct {
	Results []SearchResult `json:"results" validate:"required"`
}

// PlayerRequest is the request body for POST /api/player/{slug}.
type PlayerRequest struct {
	Action  string `json:"action" example:"seek" validate:"required"`
	Seconds int    `json:"seconds" example:"272"`
	Lang    string `json:"lang" example:"ko"`
}

// Validate checks the request against its action.
func (r *PlayerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Action, validation.Required, validation.In(ActionSeek, ActionCaptions)),
		validation.Field(&r.Seconds, validation.Min(0)),
		validation.Field(&r.Lang, validation.When(r.Action == ActionCaptions, validation.Required, validation.Length(2, 10))),
	)
}

// Command converts a validated request into a player command.
func (r *PlayerRequest) Command() video.Command {
	if r.Action == ActionCaptions {
		return video.Captions(r.Lang)
	}
	return video.Seek(r.Seconds)
}

// PlayerResponse echoes the command that was sent.
type PlayerResponse struct {
	Slug    string        `json:"slug" validate:"required"`
	Command video.Command `json:"command" validate:"required"`
}
