package mcpserver

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/jinkyeom/sciencestop/internal/content"
	"github.com/jinkyeom/sciencestop/internal/index"
	"github.com/jinkyeom/sciencestop/internal/models"
	"github.com/jinkyeom/sciencestop/internal/postservice"
	"github.com/jinkyeom/sciencestop/internal/render"
	"github.com/jinkyeom/sciencestop/internal/testutil"
)

func testServer(t *testing.T) *Server {
	t.Helper()

	_, provider := testutil.TestContent(t, map[string]string{
		"a.md": testutil.Article("Alpha", "2025-03-01",
			"## Intro\n\n[01:05] orbit\n\n## Intro\n", "categories: [space]"),
		"b.md": testutil.Article("Beta", "2025-02-01", "Synapses and neurons.\n", "categories: [brain]", "tags: [neuro]"),
		"c.md": testutil.Article("Gamma", "2025-01-01", "Plain.\n"),
	})
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	c, err := content.Load(context.Background(), provider, content.Options{}, logger)
	if err != nil {
		t.Fatal(err)
	}
	db := testutil.TestDB(t)
	if _, err := index.Sync(context.Background(), db, c, logger); err != nil {
		t.Fatal(err)
	}

	svc := postservice.NewService(content.NewStore(c), render.NewEngine(), db, 2)
	return New(svc, "test")
}

func callTool(t *testing.T, srv *Server, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no "call tool" test helper, so handlers are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_posts":
		result, err = srv.listPosts(ctx, req)
	case "read_post":
		result, err = srv.readPost(ctx, req)
	case "get_toc":
		result, err = srv.getTOC(ctx, req)
	case "search_posts":
		result, err = srv.searchPosts(ctx, req)
	case "get_neighbors":
		result, err = srv.getNeighbors(ctx, req)
	case "list_categories":
		result, err = srv.listCategories(ctx, req)
	case "get_post_contract":
		result, err = srv.getPostContract(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListPosts(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "list_posts", map[string]any{})
	var page content.Page
	if err := json.Unmarshal([]byte(resultText(r)), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 2 || page.Items[0].Slug != "a" {
		t.Errorf("page = %+v", page)
	}

	r = callTool(t, srv, "list_posts", map[string]any{"page": float64(2)})
	_ = json.Unmarshal([]byte(resultText(r)), &page)
	if len(page.Items) != 1 || page.Items[0].Slug != "c" {
		t.Errorf("page 2 = %+v", page.Items)
	}

	r = callTool(t, srv, "list_posts", map[string]any{"category": "brain"})
	_ = json.Unmarshal([]byte(resultText(r)), &page)
	if page.Total != 1 || page.Items[0].Slug != "b" {
		t.Errorf("brain = %+v", page.Items)
	}
}

func TestListPostsUnknownCategory(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_posts", map[string]any{"category": "astrology"})
	if !r.IsError {
		t.Error("expected error for unknown category")
	}
}

func TestReadPost(t *testing.T) {
	srv := testServer(t)

	r := callTool(t, srv, "read_post", map[string]any{"slug": "b"})
	text := resultText(r)
	if !strings.HasPrefix(text, "# Beta\n") || !strings.Contains(text, "Synapses and neurons.") {
		t.Errorf("markdown = %q", text)
	}

	r = callTool(t, srv, "read_post", map[string]any{"slug": "a", "format": "html"})
	text = resultText(r)
	if !strings.Contains(text, `data-seek="65"`) || !strings.Contains(text, `id="intro-1"`) {
		t.Errorf("html = %q", text)
	}
}

func TestReadPostMissing(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "read_post", map[string]any{"slug": "nope"})
	if !r.IsError {
		t.Fatal("expected error for missing post")
	}
	if got := resultText(r); got != "not found: nope" {
		t.Errorf("error text = %q", got)
	}
	r = callTool(t, srv, "read_post", map[string]any{})
	if !r.IsError {
		t.Error("expected error without slug")
	}
}

func TestGetTOC(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_toc", map[string]any{"slug": "a"})
	var out struct {
		TOC        []models.Heading   `json:"toc"`
		Timestamps []models.Timestamp `json:"timestamps"`
	}
	if err := json.Unmarshal([]byte(resultText(r)), &out); err != nil {
		t.Fatal(err)
	}
	if len(out.TOC) != 2 || out.TOC[0].ID != "intro" || out.TOC[1].ID != "intro-1" {
		t.Errorf("toc = %+v", out.TOC)
	}
	if len(out.Timestamps) != 1 || out.Timestamps[0].Seconds != 65 {
		t.Errorf("timestamps = %+v", out.Timestamps)
	}
}

func TestSearchPosts(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "search_posts", map[string]any{"query": "Synapses"})
	var results []index.SearchResult
	if err := json.Unmarshal([]byte(resultText(r)), &results); err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Slug != "b" {
		t.Errorf("results = %+v", results)
	}
}

func TestGetNeighbors(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_neighbors", map[string]any{"slug": "b"})
	var n models.Neighbors
	if err := json.Unmarshal([]byte(resultText(r)), &n); err != nil {
		t.Fatal(err)
	}
	if n.Previous == nil || n.Previous.Slug != "a" || n.Next == nil || n.Next.Slug != "c" {
		t.Errorf("neighbors = %+v", n)
	}
}

func TestListCategories(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "list_categories", nil)
	var cats []postservice.CategoryCount
	if err := json.Unmarshal([]byte(resultText(r)), &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 5 || cats[0].ID != "space" || cats[0].Count != 1 || cats[1].Count != 1 {
		t.Errorf("categories = %+v", cats)
	}
}

func TestPostContract(t *testing.T) {
	srv := testServer(t)
	r := callTool(t, srv, "get_post_contract", nil)
	if resultText(r) != PostFormatContract {
		t.Error("contract text mismatch")
	}
	contents, err := srv.readPostFormatResource(context.Background(), mcp.ReadResourceRequest{})
	if err != nil || len(contents) != 1 {
		t.Fatalf("resource = %v, %v", contents, err)
	}
	if tc, ok := contents[0].(mcp.TextResourceContents); !ok || tc.URI != FormatURI {
		t.Errorf("resource = %+v", contents[0])
	}
}
