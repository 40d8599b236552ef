package parser

import (
	"errors"
	"testing"

	"github.com/jinkyeom/sciencestop/internal/apperr"
)

func TestParse_FrontmatterAndBody(t *testing.T) {
	input := []byte("---\ntitle: 블랙홀\ndate: 2025-06-17\ncategories:\n  - space\n  - math\ntags:\n  - physics\nsummary: short\nthumbnail: https://example.com/a.png\n---\n\n## Intro\nBody text.\n")
	r, err := Parse(input)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Meta.Title != "블랙홀" {
		t.Errorf("title = %q", r.Meta.Title)
	}
	if r.Meta.Date != "2025-06-17" {
		t.Errorf("date = %q, want authored text", r.Meta.Date)
	}
	if len(r.Meta.Categories) != 2 || r.Meta.Categories[0] != "space" || r.Meta.Categories[1] != "math" {
		t.Errorf("categories = %v", r.Meta.Categories)
	}
	if len(r.Meta.Tags) != 1 || r.Meta.Tags[0] != "physics" {
		t.Errorf("tags = %v", r.Meta.Tags)
	}
	if r.Meta.Summary != "short" || r.Meta.Thumbnail != "https://example.com/a.png" {
		t.Errorf("summary/thumbnail = %q/%q", r.Meta.Summary, r.Meta.Thumbnail)
	}
	if r.Body != "## Intro\nBody text.\n" {
		t.Errorf("body = %q", r.Body)
	}
}

func TestParse_LegacyCategory(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: t\ncategory: brain\n---\nx\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Meta.Categories) != 1 || r.Meta.Categories[0] != "brain" {
		t.Errorf("categories = %v, want [brain]", r.Meta.Categories)
	}
}

func TestParse_CategoriesDeduplicated(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: t\ncategories: [ai, ai]\ncategory: ai\n---\nx\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(r.Meta.Categories) != 1 {
		t.Errorf("categories = %v, want [ai]", r.Meta.Categories)
	}
}

func TestParse_DateWithTime(t *testing.T) {
	r, err := Parse([]byte("---\ntitle: t\ndate: \"2025-06-17 10:20:30\"\n---\nx\n"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Meta.Date != "2025-06-17 10:20:30" {
		t.Errorf("date = %q", r.Meta.Date)
	}
}

func TestParse_UnknownKeysIgnored(t *testing.T) {
	if _, err := Parse([]byte("---\ntitle: t\nlayout: wide\nweight: 3\n---\nx\n")); err != nil {
		t.Fatalf("unknown keys should be ignored: %v", err)
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("---\ntitle: [unclosed\n---\nBody\n"))
	if !errors.Is(err, apperr.ErrInvalidFrontMatter) {
		t.Fatalf("err = %v, want ErrInvalidFrontMatter", err)
	}
}

func TestParse_MissingTitle(t *testing.T) {
	_, err := Parse([]byte("---\ndate: 2025-01-01\n---\nBody\n"))
	if !errors.Is(err, apperr.ErrInvalidFrontMatter) {
		t.Fatalf("err = %v, want ErrInvalidFrontMatter", err)
	}
}

func TestParse_NoFrontmatter(t *testing.T) {
	_, err := Parse([]byte("# Just a heading\n"))
	if !errors.Is(err, apperr.ErrInvalidFrontMatter) {
		t.Fatalf("a file without front matter has no title; err = %v", err)
	}
}
