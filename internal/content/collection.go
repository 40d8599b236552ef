package content

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jinkyeom/sciencestop/internal/models"
)

// BodyLoader resolves the Markdown body of one document on demand.
type BodyLoader func(ctx context.Context) (string, error)

// Collection is the ordered, read-only set of documents produced by one load
// cycle. Documents are ordered newest first.
type Collection struct {
	id       string
	checksum string
	loadedAt time.Time
	docs     []models.Document
	bySlug   map[string]int
	bodies   map[string]BodyLoader
	group    singleflight.Group
}

// ID identifies the load cycle that built the collection.
func (c *Collection) ID() string { return c.id }

// Checksum changes whenever any document or the ordering changes.
func (c *Collection) Checksum() string { return c.checksum }

// LoadedAt reports when the collection was built.
func (c *Collection) LoadedAt() time.Time { return c.loadedAt }

// Len returns the number of documents.
func (c *Collection) Len() int { return len(c.docs) }

// Documents returns the ordered documents. The slice is a copy.
func (c *Collection) Documents() []models.Document {
	out := make([]models.Document, len(c.docs))
	copy(out, c.docs)
	return out
}

// Get returns the document with the given slug.
func (c *Collection) Get(slug string) (models.Document, bool) {
	i, ok := c.bySlug[slug]
	if !ok {
		return models.Document{}, false
	}
	return c.docs[i], true
}

// Body returns the Markdown body for slug. An unknown slug, or a source that
// is no longer there, yields "" with a nil error. Concurrent calls for the same
// slug share one read; a caller that gives up does not fail the others.
func (c *Collection) Body(ctx context.Context, slug string) (string, error) {
	load, ok := c.bodies[slug]
	if !ok {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	// The shared read outlives any one caller; each caller waits on its own ctx.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(slug, func() (any, error) {
		return load(shared)
	})
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// Neighbors returns the documents around slug in collection order.
func (c *Collection) Neighbors(slug string) models.Neighbors {
	return Sequence(c.docs, slug)
}

// Filter returns the documents carrying category and tag. Empty arguments
// match everything.
func (c *Collection) Filter(category, tag string) []models.Document {
	out := make([]models.Document, 0, len(c.docs))
	for _, d := range c.docs {
		if category != "" && !d.HasCategory(category) {
			continue
		}
		if tag != "" && !d.HasTag(tag) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// CategoryCounts returns how many documents carry each category id.
func (c *Collection) CategoryCounts() map[string]int {
	out := make(map[string]int)
	for _, d := range c.docs {
		for _, cat := range d.Categories {
			out[cat]++
		}
	}
	return out
}

// Sequence returns the neighbours of slug in docs, which is ordered newest
// first. Previous is the entry one position earlier in the slice (newer) and
// Next the entry one position later (older). Both are nil at the respective
// boundary and for an unknown slug.
func Sequence(docs []models.Document, slug string) models.Neighbors {
	idx := -1
	for i := range docs {
		if docs[i].Slug == slug {
			idx = i
			break
		}
	}
	if idx < 0 {
		return models.Neighbors{}
	}
	var n models.Neighbors
	if idx > 0 {
		prev := docs[idx-1]
		n.Previous = &prev
	}
	if idx < len(docs)-1 {
		next := docs[idx+1]
		n.Next = &next
	}
	return n
}
