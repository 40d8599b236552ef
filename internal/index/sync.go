package index

import (
	"context"
	"log/slog"

	"github.com/jinkyeom/sciencestop/internal/models"
)

// Source is what Sync reads posts from; content.Collection satisfies it.
type Source interface {
	Documents() []models.Document
	Body(ctx context.Context, slug string) (string, error)
}

// Stats reports what a Sync changed.
type Stats struct {
	Indexed   int
	Unchanged int
	Removed   int
}

// Sync brings the index up to date with src:
//   - new/changed posts are upserted with their body
//   - posts no longer in src are deleted from the index
//
// Failures on single posts are logged and skipped.
func Sync(ctx context.Context, db PostIndex, src Source, logger *slog.Logger) (Stats, error) {
	var st Stats

	checksums, err := db.AllChecksums()
	if err != nil {
		return st, err
	}

	docs := src.Documents()
	live := make(map[string]struct{}, len(docs))
	for _, d := range docs {
		if err := ctx.Err(); err != nil {
			return st, err
		}
		live[d.Slug] = struct{}{}

		if checksums[d.Slug] == d.Checksum {
			st.Unchanged++
			continue
		}

		body, err := src.Body(ctx, d.Slug)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("slug", d.Slug), slog.String("error", err.Error()))
			continue
		}
		if err := db.UpsertPost(rowFor(d), body); err != nil {
			logger.Warn("sync: index failed", slog.String("slug", d.Slug), slog.String("error", err.Error()))
			continue
		}
		st.Indexed++
		logger.Debug("sync: indexed", slog.String("slug", d.Slug))
	}

	// Remove stale entries.
	for slug := range checksums {
		if _, ok := live[slug]; ok {
			continue
		}
		if err := db.DeletePost(slug); err != nil {
			logger.Warn("sync: delete failed", slog.String("slug", slug), slog.String("error", err.Error()))
			continue
		}
		st.Removed++
		logger.Debug("sync: removed stale", slog.String("slug", slug))
	}

	return st, nil
}

func rowFor(d models.Document) PostRow {
	return PostRow{
		Slug:       d.Slug,
		Title:      d.Title,
		Summary:    d.Summary,
		Categories: d.Categories,
		Tags:       d.Tags,
		Published:  d.Published,
		Checksum:   d.Checksum,
	}
}
