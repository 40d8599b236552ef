// Package render turns an article body into navigable HTML: GFM with hard
// line breaks, heading anchors, math passthrough, decorated video embeds and
// seek links for [MM:SS] markers, plus its table of contents.
package render

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/util"
	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jinkyeom/sciencestop/internal/models"
)

// DefaultAllowedHosts are the iframe hosts kept by default.
var DefaultAllowedHosts = []string{
	"www.youtube.com",
	"youtube.com",
	"www.youtube-nocookie.com",
	"youtube-nocookie.com",
}

// Page is a rendered article body.
type Page struct {
	HTML       string             `json:"html"`
	TOC        []models.Heading   `json:"toc"`
	Timestamps []models.Timestamp `json:"timestamps"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithAllowedHosts replaces the iframe host allowlist.
func WithAllowedHosts(hosts ...string) Option {
	return func(e *Engine) {
		e.allowedHosts = make(map[string]bool, len(hosts))
		for _, h := range hosts {
			e.allowedHosts[strings.ToLower(strings.TrimSpace(h))] = true
		}
	}
}

// WithCaptionLanguage sets the caption language requested from video embeds.
func WithCaptionLanguage(lang string) Option {
	return func(e *Engine) {
		if lang != "" {
			e.captionLang = lang
		}
	}
}

// Engine renders Markdown bodies. It is safe for concurrent use.
type Engine struct {
	md           goldmark.Markdown
	allowedHosts map[string]bool
	captionLang  string
}

// NewEngine builds an engine with the default allowlist and Korean captions.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{captionLang: "ko"}
	WithAllowedHosts(DefaultAllowedHosts...)(e)
	for _, opt := range opts {
		opt(e)
	}

	e.md = goldmark.New(
		goldmark.WithExtensions(extension.GFM, mathExtension{}),
		goldmark.WithParserOptions(
			parser.WithASTTransformers(util.Prioritized(headingAnchors{}, 100)),
		),
		goldmark.WithRendererOptions(
			html.WithHardWraps(),
			html.WithUnsafe(),
		),
	)
	return e
}

// Render converts body to HTML. Timestamps are rewritten into seek links
// first; the goldmark output then goes through a DOM pass that neutralises
// unsafe markup and collects the table of contents.
func (e *Engine) Render(ctx context.Context, body string) (*Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ids := NewSlugger()
	src := []byte(RewriteTimestamps(body))

	var buf bytes.Buffer
	pctx := parser.NewContext(parser.WithIDs(ids))
	if err := e.md.Convert(src, &buf, parser.WithContext(pctx)); err != nil {
		return nil, fmt.Errorf("render: convert: %w", err)
	}

	nodes, err := parseFragment(buf.Bytes())
	if err != nil {
		return nil, fmt.Errorf("render: parse html: %w", err)
	}

	pass := &domPass{engine: e, ids: ids, seen: make(map[int]bool)}
	nodes = pass.run(nodes)
	toc := ExtractTOC(nodes)

	var out bytes.Buffer
	for _, n := range nodes {
		if err := xhtml.Render(&out, n); err != nil {
			return nil, fmt.Errorf("render: write html: %w", err)
		}
	}

	ts := pass.timestamps
	if ts == nil {
		ts = []models.Timestamp{}
	}
	return &Page{HTML: out.String(), TOC: toc, Timestamps: ts}, nil
}

// allowedFrame reports whether an iframe src points at an allowed host over
// http(s).
func (e *Engine) allowedFrame(src string) bool {
	src = strings.TrimSpace(src)
	if strings.HasPrefix(src, "//") {
		src = "https:" + src
	}
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return false
	}
	return e.allowedHosts[strings.ToLower(u.Hostname())]
}

func parseFragment(data []byte) ([]*xhtml.Node, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	return xhtml.ParseFragment(bytes.NewReader(data), body)
}
