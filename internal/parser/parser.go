// Package parser splits a Markdown source into validated front matter and body.
package parser

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/jinkyeom/sciencestop/internal/apperr"
)

// Meta is the normalised front matter of one article.
type Meta struct {
	Title      string
	Date       string
	Categories []string
	Tags       []string
	Summary    string
	Thumbnail  string
}

// Validate checks the fields every article must carry.
func (m *Meta) Validate() error {
	return validation.ValidateStruct(m,
		validation.Field(&m.Title, validation.Required),
	)
}

// Result holds the output of parsing a Markdown file.
type Result struct {
	Meta Meta
	Body string
}

// envelope mirrors the recognised keys. Loosely typed fields accept both a
// scalar and a list; unknown keys are ignored.
type envelope struct {
	Title      string `yaml:"title" toml:"title" json:"title"`
	Date       any    `yaml:"date" toml:"date" json:"date"`
	Categories any    `yaml:"categories" toml:"categories" json:"categories"`
	Category   any    `yaml:"category" toml:"category" json:"category"`
	Tags       any    `yaml:"tags" toml:"tags" json:"tags"`
	Summary    string `yaml:"summary" toml:"summary" json:"summary"`
	Thumbnail  string `yaml:"thumbnail" toml:"thumbnail" json:"thumbnail"`
}

// Parse extracts and validates front matter and returns the Markdown body.
// Any failure wraps apperr.ErrInvalidFrontMatter.
func Parse(data []byte) (*Result, error) {
	var env envelope
	rest, err := frontmatter.Parse(bytes.NewReader(data), &env)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidFrontMatter, err)
	}

	cats := stringList(env.Categories)
	// Legacy single "category" joins the set.
	cats = appendUnique(cats, stringList(env.Category)...)

	meta := Meta{
		Title:      strings.TrimSpace(env.Title),
		Date:       dateString(env.Date),
		Categories: cats,
		Tags:       appendUnique(nil, stringList(env.Tags)...),
		Summary:    strings.TrimSpace(env.Summary),
		Thumbnail:  strings.TrimSpace(env.Thumbnail),
	}
	if err := meta.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrInvalidFrontMatter, err)
	}

	return &Result{
		Meta: meta,
		Body: strings.TrimLeft(string(rest), "\n\r"),
	}, nil
}

func stringList(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		if s := strings.TrimSpace(val); s != "" {
			return []string{s}
		}
		return nil
	case []string:
		return val
	case []any:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" && item != nil {
				out = append(out, s)
			}
		}
		return out
	default:
		return []string{fmt.Sprint(val)}
	}
}

func appendUnique(dst []string, items ...string) []string {
	for _, item := range items {
		dup := false
		for _, have := range dst {
			if have == item {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, item)
		}
	}
	return dst
}

// dateString keeps the authored text. Decoders that already produced a time
// value are formatted back to RFC3339.
func dateString(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}
