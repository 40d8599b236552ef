//go:build sqlite_fts5

package index

import (
	"context"
	"testing"
	"time"
)

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM posts_fts`).Scan(&count); err != nil {
		t.Fatalf("posts_fts table missing: %v", err)
	}
}

func TestFTS5_SearchWithSnippet(t *testing.T) {
	db := testDB(t)
	p := PostRow{
		Slug:      "fts",
		Title:     "FTS Post",
		Checksum:  "f1",
		Tags:      []string{"search"},
		Published: time.Now(),
	}
	if err := db.UpsertPost(p, "The brain provides powerful pattern recognition."); err != nil {
		t.Fatalf("UpsertPost: %v", err)
	}

	results, err := db.Search(context.Background(), "powerful", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Slug != "fts" {
		t.Errorf("slug = %q", results[0].Slug)
	}
	if results[0].Snippet == "" {
		t.Error("expected non-empty snippet")
	}
}

func TestFTS5_QuerySyntaxIsEscaped(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(PostRow{Slug: "q", Title: "Quotes", Checksum: "1", Published: time.Now()}, "some body")
	if _, err := db.Search(context.Background(), `body" OR (`, 10); err != nil {
		t.Errorf("raw operators should not break the query: %v", err)
	}
}

func TestFTS5_DeleteRemovesFromFTS(t *testing.T) {
	db := testDB(t)
	_ = db.UpsertPost(PostRow{Slug: "gone", Checksum: "g", Published: time.Now()}, "vanishing content")
	_ = db.DeletePost("gone")

	results, _ := db.Search(context.Background(), "vanishing", 10)
	for _, r := range results {
		if r.Slug == "gone" {
			t.Error("deleted post still in FTS index")
		}
	}
}

func TestFTS5_UpsertReplacesContent(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	_ = db.UpsertPost(PostRow{Slug: "evo", Title: "Old", Checksum: "1", Published: now}, "original text")
	_ = db.UpsertPost(PostRow{Slug: "evo", Title: "New", Checksum: "2", Published: now}, "replacement text")

	results, _ := db.Search(context.Background(), "original", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.Search(context.Background(), "replacement", 10)
	if len(results) != 1 || results[0].Title != "New" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
