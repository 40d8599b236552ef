// Package postservice is the read side shared by the HTTP API, the MCP
// server and the terminal reader: listing, rendering, neighbours and search
// over the collection currently being served.
package postservice

import (
	"context"
	"fmt"

	"github.com/jinkyeom/sciencestop/internal/apperr"
	"github.com/jinkyeom/sciencestop/internal/categories"
	"github.com/jinkyeom/sciencestop/internal/content"
	"github.com/jinkyeom/sciencestop/internal/index"
	"github.com/jinkyeom/sciencestop/internal/models"
	"github.com/jinkyeom/sciencestop/internal/render"
)

// DefaultPageSize is used when the service is created with size <= 0.
const DefaultPageSize = 9

// PostDetail is a document with its rendered body and neighbours.
type PostDetail struct {
	models.Document
	CategoryLabels []string           `json:"category_labels"`
	HTML           string             `json:"html"`
	TOC            []models.Heading   `json:"toc"`
	Timestamps     []models.Timestamp `json:"timestamps"`
	Previous       *models.Document   `json:"previous"`
	Next           *models.Document   `json:"next"`
	// Version is the checksum of the collection the detail was built from.
	Version string `json:"-"`
}

// CategoryCount is a category with the number of posts carrying it.
type CategoryCount struct {
	categories.Category
	Count int `json:"count"`
}

// Service coordinates the collection, the renderer and the search index.
type Service struct {
	store    *content.Store
	engine   *render.Engine
	idx      index.PostIndex
	pageSize int
}

// NewService creates a new post service. idx may be nil, in which case
// Search reports an empty result.
func NewService(store *content.Store, engine *render.Engine, idx index.PostIndex, pageSize int) *Service {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Service{store: store, engine: engine, idx: idx, pageSize: pageSize}
}

// Collection returns the collection being served.
func (s *Service) Collection() (*content.Collection, error) {
	c := s.store.Current()
	if c == nil {
		return nil, apperr.ErrNoCollection
	}
	return c, nil
}

// Version returns the checksum of the collection being served.
func (s *Service) Version() string {
	if c := s.store.Current(); c != nil {
		return c.Checksum()
	}
	return ""
}

// List returns one page of posts, newest first, optionally narrowed to a
// category and a tag. An unknown category id is ErrNotFound.
func (s *Service) List(_ context.Context, category, tag string, page int) (content.Page, error) {
	c, err := s.Collection()
	if err != nil {
		return content.Page{}, err
	}
	if category != "" {
		if _, ok := categories.Lookup(category); !ok {
			return content.Page{}, fmt.Errorf("category %q: %w", category, apperr.ErrNotFound)
		}
	}
	return content.Paginate(c.Filter(category, tag), page, s.pageSize), nil
}

// Meta returns the front matter of slug.
func (s *Service) Meta(_ context.Context, slug string) (models.Document, error) {
	c, err := s.Collection()
	if err != nil {
		return models.Document{}, err
	}
	d, ok := c.Get(slug)
	if !ok {
		return models.Document{}, fmt.Errorf("post %q: %w", slug, apperr.ErrNotFound)
	}
	return d, nil
}

// Source returns the raw Markdown body of slug.
func (s *Service) Source(ctx context.Context, slug string) (models.Document, string, error) {
	c, err := s.Collection()
	if err != nil {
		return models.Document{}, "", err
	}
	d, ok := c.Get(slug)
	if !ok {
		return models.Document{}, "", fmt.Errorf("post %q: %w", slug, apperr.ErrNotFound)
	}
	body, err := c.Body(ctx, slug)
	if err != nil {
		return models.Document{}, "", fmt.Errorf("postservice: body %q: %w", slug, err)
	}
	return d, body, nil
}

// Get renders slug and attaches its neighbours.
func (s *Service) Get(ctx context.Context, slug string) (*PostDetail, error) {
	c, err := s.Collection()
	if err != nil {
		return nil, err
	}
	d, ok := c.Get(slug)
	if !ok {
		return nil, fmt.Errorf("post %q: %w", slug, apperr.ErrNotFound)
	}
	body, err := c.Body(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("postservice: body %q: %w", slug, err)
	}
	page, err := s.engine.Render(ctx, body)
	if err != nil {
		return nil, fmt.Errorf("postservice: render %q: %w", slug, err)
	}

	labels := make([]string, 0, len(d.Categories))
	for _, id := range d.Categories {
		if l := categories.Label(id); l != "" {
			labels = append(labels, l)
		}
	}

	n := c.Neighbors(slug)
	return &PostDetail{
		Document:       d,
		CategoryLabels: labels,
		HTML:           page.HTML,
		TOC:            page.TOC,
		Timestamps:     page.Timestamps,
		Previous:       n.Previous,
		Next:           n.Next,
		Version:        c.Checksum(),
	}, nil
}

// Neighbors returns the newer and older posts around slug.
func (s *Service) Neighbors(_ context.Context, slug string) (models.Neighbors, error) {
	c, err := s.Collection()
	if err != nil {
		return models.Neighbors{}, err
	}
	if _, ok := c.Get(slug); !ok {
		return models.Neighbors{}, fmt.Errorf("post %q: %w", slug, apperr.ErrNotFound)
	}
	return c.Neighbors(slug), nil
}

// Categories returns the category table with post counts.
func (s *Service) Categories(_ context.Context) ([]CategoryCount, error) {
	c, err := s.Collection()
	if err != nil {
		return nil, err
	}
	counts := c.CategoryCounts()
	all := categories.All()
	out := make([]CategoryCount, len(all))
	for i, cat := range all {
		out[i] = CategoryCount{Category: cat, Count: counts[cat.ID]}
	}
	return out, nil
}

// Search queries the index. Hits for posts no longer in the collection are
// dropped.
func (s *Service) Search(ctx context.Context, query string, limit int) ([]index.SearchResult, error) {
	if s.idx == nil {
		return []index.SearchResult{}, nil
	}
	c, err := s.Collection()
	if err != nil {
		return nil, err
	}
	hits, err := s.idx.Search(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	out := hits[:0]
	for _, h := range hits {
		if _, ok := c.Get(h.Slug); ok {
			out = append(out, h)
		}
	}
	return out, nil
}
