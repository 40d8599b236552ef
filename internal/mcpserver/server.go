// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes read-only blog tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jinkyeom/sciencestop/internal/apperr"
	"github.com/jinkyeom/sciencestop/internal/postservice"
)

// FormatURI is the resource holding the post format contract.
const FormatURI = "sciencestop://post-format"

// Server wraps the MCP server with the blog tools.
type Server struct {
	mcp *server.MCPServer
	svc *postservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *postservice.Service, version string) *Server {
	s := &Server{svc: svc}
	if version == "" {
		version = "dev"
	}

	s.mcp = server.NewMCPServer(
		"sciencestop",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_posts",
		mcp.WithDescription("List posts newest first, one page at a time. "+
			"Optionally narrow to a category (space, brain, life, ai, math) and/or a tag."),
		mcp.WithString("category", mcp.Description("Category id")),
		mcp.WithString("tag", mcp.Description("Tag")),
		mcp.WithNumber("page", mcp.Description("1-based page number")),
	), s.listPosts)

	s.mcp.AddTool(mcp.NewTool("read_post",
		mcp.WithDescription("Read a post. format=markdown (default) returns the source body "+
			"with its front matter fields; format=html returns the rendered body."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug (e.g. 2025/cosmic-calendar)")),
		mcp.WithString("format", mcp.Description("markdown or html"), mcp.Enum("markdown", "html")),
	), s.readPost)

	s.mcp.AddTool(mcp.NewTool("get_toc",
		mcp.WithDescription("Table of contents (h2/h3 headings with anchor ids) and video timestamps of a post."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug")),
	), s.getTOC)

	s.mcp.AddTool(mcp.NewTool("search_posts",
		mcp.WithDescription("Full-text search through post titles, summaries, tags and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
		mcp.WithNumber("limit", mcp.Description("Max results (default 20)")),
	), s.searchPosts)

	s.mcp.AddTool(mcp.NewTool("get_neighbors",
		mcp.WithDescription("The newer (previous) and older (next) posts around a post."),
		mcp.WithString("slug", mcp.Required(), mcp.Description("Post slug")),
	), s.getNeighbors)

	s.mcp.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("The category table with labels, descriptions and post counts."),
	), s.listCategories)

	s.mcp.AddTool(mcp.NewTool("get_post_contract",
		mcp.WithDescription("Returns the article format the blog loads: front matter keys, "+
			"timestamps, math and video embeds."),
	), s.getPostContract)

	s.mcp.AddResource(
		mcp.NewResource(FormatURI, "Post Format Contract",
			mcp.WithResourceDescription("Markdown article format understood by the loader and renderer."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readPostFormatResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// toolError turns a service error into a tool error result.
func toolError(slug string, err error) *mcp.CallToolResult {
	if errors.Is(err, apperr.ErrNotFound) {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", slug))
	}
	return mcp.NewToolResultError(err.Error())
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	category := req.GetString("category", "")
	page, err := s.svc.List(ctx, category, req.GetString("tag", ""), req.GetInt("page", 1))
	if err != nil {
		return toolError(category, err), nil
	}
	return jsonResult(page)
}

func (s *Server) readPost(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if req.GetString("format", "markdown") == "html" {
		post, err := s.svc.Get(ctx, slug)
		if err != nil {
			return toolError(slug, err), nil
		}
		return mcp.NewToolResultText(post.HTML), nil
	}

	doc, body, err := s.svc.Source(ctx, slug)
	if err != nil {
		return toolError(slug, err), nil
	}
	out := fmt.Sprintf("# %s\n\ndate: %s\ncategories: %v\ntags: %v\n\n%s",
		doc.Title, doc.Published.Format("2006-01-02"), doc.Categories, doc.Tags, body)
	return mcp.NewToolResultText(out), nil
}

func (s *Server) getTOC(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	post, err := s.svc.Get(ctx, slug)
	if err != nil {
		return toolError(slug, err), nil
	}
	return jsonResult(map[string]any{
		"toc":        post.TOC,
		"timestamps": post.Timestamps,
	})
}

func (s *Server) searchPosts(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	results, err := s.svc.Search(ctx, query, req.GetInt("limit", 20))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(results)
}

func (s *Server) getNeighbors(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	slug, err := req.RequireString("slug")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	n, err := s.svc.Neighbors(ctx, slug)
	if err != nil {
		return toolError(slug, err), nil
	}
	return jsonResult(n)
}

func (s *Server) listCategories(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cats, err := s.svc.Categories(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(cats)
}

func (s *Server) getPostContract(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(PostFormatContract), nil
}

func (s *Server) readPostFormatResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      FormatURI,
			MIMEType: "text/markdown",
			Text:     PostFormatContract,
		},
	}, nil
}
