// Package content loads, orders and serves the article collection.
package content

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/jinkyeom/sciencestop/internal/apperr"
	"github.com/jinkyeom/sciencestop/internal/checksum"
	"github.com/jinkyeom/sciencestop/internal/models"
	"github.com/jinkyeom/sciencestop/internal/parser"
	"github.com/jinkyeom/sciencestop/internal/storage"
)

// Options controls a load cycle.
type Options struct {
	// Dir is the directory inside the provider that holds the articles.
	Dir string
	// SkipInvalid drops documents with broken front matter instead of failing
	// the whole load.
	SkipInvalid bool
}

// Load discovers every article, parses its front matter and returns the
// collection ordered newest first. Bodies are not kept; they are read again
// through Collection.Body.
//
// Unless opts.SkipInvalid is set, one document with invalid front matter fails
// the whole load. A duplicate slug always fails it.
func Load(ctx context.Context, provider storage.Provider, opts Options, logger *slog.Logger) (*Collection, error) {
	if logger == nil {
		logger = slog.Default()
	}

	entries, err := provider.List(opts.Dir)
	if err != nil {
		return nil, fmt.Errorf("content: %w", err)
	}

	docs := make([]models.Document, 0, len(entries))
	paths := make(map[string]string, len(entries))
	skipped := 0

	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := provider.Read(e.Path)
		if err != nil {
			return nil, fmt.Errorf("content: %w", err)
		}

		res, err := parser.Parse(data)
		if err != nil {
			if opts.SkipInvalid && errors.Is(err, apperr.ErrInvalidFrontMatter) {
				skipped++
				logger.Warn("content: skipping document",
					slog.String("path", e.Path),
					slog.String("error", err.Error()))
				continue
			}
			return nil, fmt.Errorf("content: %s: %w", e.Path, err)
		}

		slug := SlugFromPath(e.Path, opts.Dir)
		if other, dup := paths[slug]; dup {
			return nil, fmt.Errorf("content: %w: %q from %s and %s", apperr.ErrDuplicateSlug, slug, other, e.Path)
		}
		paths[slug] = e.Path

		published, ok := ParseDate(res.Meta.Date)
		if !ok && res.Meta.Date != "" {
			logger.Warn("content: unparseable date, sorting as oldest",
				slog.String("path", e.Path),
				slog.String("date", res.Meta.Date))
		}

		docs = append(docs, models.Document{
			Slug:       slug,
			Title:      res.Meta.Title,
			Date:       res.Meta.Date,
			Published:  published,
			Categories: nonNilSlice(res.Meta.Categories),
			Tags:       nonNilSlice(res.Meta.Tags),
			Summary:    res.Meta.Summary,
			Thumbnail:  res.Meta.Thumbnail,
			Path:       e.Path,
			Checksum:   checksum.Sum(data),
		})
	}

	// Stable: equal dates keep discovery (lexical path) order.
	slices.SortStableFunc(docs, func(a, b models.Document) int {
		return b.Published.Compare(a.Published)
	})

	c := newCollection(provider, docs)
	logger.Info("content: loaded",
		slog.String("cycle", c.id),
		slog.Int("documents", len(docs)),
		slog.Int("skipped", skipped))
	return c, nil
}

func newCollection(provider storage.Provider, docs []models.Document) *Collection {
	c := &Collection{
		id:       uuid.NewString(),
		loadedAt: time.Now(),
		docs:     docs,
		bySlug:   make(map[string]int, len(docs)),
		bodies:   make(map[string]BodyLoader, len(docs)),
	}
	parts := make([]string, 0, len(docs))
	for i, d := range docs {
		c.bySlug[d.Slug] = i
		c.bodies[d.Slug] = fileBody(provider, d.Path)
		parts = append(parts, d.Slug+"\x00"+d.Checksum)
	}
	c.checksum = checksum.Combine(parts...)
	return c
}

// fileBody re-reads the source and strips its front matter.
func fileBody(provider storage.Provider, path string) BodyLoader {
	return func(ctx context.Context) (string, error) {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		data, err := provider.Read(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", nil
			}
			return "", fmt.Errorf("content: body: %w", err)
		}
		res, err := parser.Parse(data)
		if err != nil {
			return "", fmt.Errorf("content: body %s: %w", path, err)
		}
		return res.Body, nil
	}
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
