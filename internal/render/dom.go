package render

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jinkyeom/sciencestop/internal/models"
)

// urlAttrs may carry a script or data URL.
var urlAttrs = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"poster":     true,
}

// domPass rewrites the parsed fragment in place.
type domPass struct {
	engine     *Engine
	ids        *Slugger
	timestamps []models.Timestamp
	seen       map[int]bool
}

func (p *domPass) run(nodes []*html.Node) []*html.Node {
	out := make([]*html.Node, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, p.visit(n))
	}
	return out
}

// visit processes n and its subtree and returns the node that takes its place.
func (p *domPass) visit(n *html.Node) *html.Node {
	if n.Type != html.ElementNode {
		return n
	}

	if p.unsafe(n) {
		return literal(n)
	}
	stripAttrs(n)

	switch n.DataAtom {
	case atom.Iframe:
		p.decorateIframe(n)
	case atom.A:
		if secs, ok := SeekSeconds(attr(n, "href")); ok {
			p.seekLink(n, secs)
		}
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		p.ensureHeadingID(n)
	}

	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		if repl := p.visit(c); repl != c {
			n.InsertBefore(repl, c)
			n.RemoveChild(c)
		}
		c = next
	}

	// After children: the seek links inside are already rewritten.
	if n.DataAtom == atom.Li && StartsWithTimestamp(textContent(n)) {
		setAttr(n, "data-timestamp", "")
		addClass(n, "list-none")
	}
	return n
}

func (p *domPass) unsafe(n *html.Node) bool {
	switch n.DataAtom {
	case atom.Script, atom.Style, atom.Object, atom.Embed, atom.Applet,
		atom.Base, atom.Meta, atom.Link, atom.Form, atom.Frame, atom.Frameset:
		return true
	case atom.Iframe:
		return !p.engine.allowedFrame(attr(n, "src"))
	}
	return false
}

func (p *domPass) decorateIframe(n *html.Node) {
	src := attr(n, "src")
	if strings.Contains(src, "enablejsapi") {
		return
	}
	join := "?"
	if strings.Contains(src, "?") {
		join = "&"
	}
	lang := url.QueryEscape(p.engine.captionLang)
	setAttr(n, "src", src+join+"enablejsapi=1&cc_load_policy=1&cc_lang_pref="+lang+"&hl="+lang)
}

// seekLink turns <a href="#tN"> into a keyboard-focusable span that carries
// the seek target.
func (p *domPass) seekLink(n *html.Node, secs int) {
	label := strings.TrimSpace(textContent(n))
	n.Data = "span"
	n.DataAtom = atom.Span
	n.Attr = nil
	setAttr(n, "role", "link")
	setAttr(n, "tabindex", "0")
	setAttr(n, "data-seek", strconv.Itoa(secs))
	setAttr(n, "class", "seek")

	if p.seen[secs] {
		return
	}
	p.seen[secs] = true
	p.timestamps = append(p.timestamps, models.Timestamp{Label: label, Seconds: secs})
}

// ensureHeadingID gives raw HTML headings the id and anchor that Markdown
// headings get from goldmark.
func (p *domPass) ensureHeadingID(n *html.Node) {
	if attr(n, "id") != "" {
		if c := n.FirstChild; c != nil && c.DataAtom == atom.A && hasClass(c, anchorClass) {
			setAttr(c, "aria-hidden", "true")
		}
		return
	}
	id := p.ids.Slug(textContent(n))
	setAttr(n, "id", id)
	a := &html.Node{Type: html.ElementNode, Data: "a", DataAtom: atom.A}
	setAttr(a, "href", "#"+id)
	setAttr(a, "class", anchorClass)
	setAttr(a, "tabindex", "-1")
	setAttr(a, "aria-hidden", "true")
	n.InsertBefore(a, n.FirstChild)
}

// literal replaces n with a text node holding its markup, so it shows up as
// source instead of being executed.
func literal(n *html.Node) *html.Node {
	var buf bytes.Buffer
	detached := *n
	detached.Parent, detached.PrevSibling, detached.NextSibling = nil, nil, nil
	if err := html.Render(&buf, &detached); err != nil {
		buf.Reset()
		buf.WriteString("<" + n.Data + ">")
	}
	return &html.Node{Type: html.TextNode, Data: buf.String()}
}

func stripAttrs(n *html.Node) {
	kept := n.Attr[:0]
	for _, a := range n.Attr {
		key := strings.ToLower(a.Key)
		if strings.HasPrefix(key, "on") {
			continue
		}
		if urlAttrs[key] && isScriptURL(a.Val) {
			continue
		}
		kept = append(kept, a)
	}
	n.Attr = kept
}

func isScriptURL(v string) bool {
	cleaned := strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, v)
	cleaned = strings.ToLower(cleaned)
	for _, scheme := range []string{"javascript:", "vbscript:", "data:"} {
		if strings.HasPrefix(cleaned, scheme) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func addClass(n *html.Node, class string) {
	if hasClass(n, class) {
		return
	}
	cur := strings.TrimSpace(attr(n, "class"))
	if cur != "" {
		class = cur + " " + class
	}
	setAttr(n, "class", class)
}

// textContent concatenates the text of n's subtree.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textContent(c))
	}
	return b.String()
}
