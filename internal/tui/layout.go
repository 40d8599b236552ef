package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// LineKind tells the view how to style a line.
type LineKind int

const (
	// LineText is body text.
	LineText LineKind = iota
	// LineHeading is a heading line.
	LineHeading
	// LineCode is preformatted text.
	LineCode
	// LineMedia stands in for an embedded video.
	LineMedia
)

// Line is one terminal row of an article.
type Line struct {
	Text string
	Kind LineKind
}

// Anchor is the row a table-of-contents heading starts on.
type Anchor struct {
	ID  string
	Row int
}

// Text is an article laid out for a fixed width.
type Text struct {
	Lines   []Line
	Anchors []Anchor
}

// Layout lays out rendered article HTML in rows of at most width cells.
// Every h2/h3 with an id is recorded as an Anchor.
func Layout(fragment string, width int) (Text, error) {
	if width < 20 {
		width = 20
	}
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return Text{}, err
	}

	w := &layoutWriter{width: width}
	for _, n := range nodes {
		w.block(n, "")
	}
	// Drop the trailing gap.
	for len(w.out.Lines) > 0 && w.out.Lines[len(w.out.Lines)-1].Text == "" {
		w.out.Lines = w.out.Lines[:len(w.out.Lines)-1]
	}
	return w.out, nil
}

type layoutWriter struct {
	width int
	out   Text
}

func (w *layoutWriter) gap() {
	if n := len(w.out.Lines); n > 0 && w.out.Lines[n-1].Text != "" {
		w.out.Lines = append(w.out.Lines, Line{})
	}
}

// emit wraps s to the width and writes it with prefix on the first row and
// an equally wide indent on the rest.
func (w *layoutWriter) emit(s, prefix string, kind LineKind) {
	indent := strings.Repeat(" ", ansi.StringWidth(prefix))
	limit := max(w.width-ansi.StringWidth(prefix), 10)
	for i, para := range strings.Split(s, "\n") {
		wrapped := ansi.Wrap(strings.TrimSpace(para), limit, "")
		for j, row := range strings.Split(wrapped, "\n") {
			lead := indent
			if i == 0 && j == 0 {
				lead = prefix
			}
			w.out.Lines = append(w.out.Lines, Line{Text: strings.TrimRight(lead+row, " "), Kind: kind})
		}
	}
}

func (w *layoutWriter) block(n *html.Node, prefix string) {
	switch n.Type {
	case html.TextNode:
		if s := collapse(n.Data); s != "" {
			w.emit(s, prefix, LineText)
			w.gap()
		}
		return
	case html.ElementNode:
	default:
		return
	}

	switch n.DataAtom {
	case atom.H1, atom.H2, atom.H3, atom.H4, atom.H5, atom.H6:
		w.gap()
		level := int(n.Data[1] - '0')
		if id := attr(n, "id"); id != "" && (level == 2 || level == 3) {
			w.out.Anchors = append(w.out.Anchors, Anchor{ID: id, Row: len(w.out.Lines)})
		}
		w.emit(strings.Repeat("#", level)+" "+inline(n), prefix, LineHeading)
		w.gap()
	case atom.P:
		// A paragraph holding nothing but an embed is the embed.
		if firstChild(n, atom.Iframe) != nil && collapse(textOf(n)) == "" {
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.DataAtom == atom.Iframe {
					w.media(c, prefix)
				}
			}
		} else {
			w.emit(inline(n), prefix, LineText)
		}
		w.gap()
	case atom.Ul, atom.Ol:
		w.list(n, prefix)
		w.gap()
	case atom.Pre:
		code := strings.TrimRight(textOf(n), "\n")
		for _, row := range strings.Split(code, "\n") {
			w.out.Lines = append(w.out.Lines, Line{Text: prefix + "    " + row, Kind: LineCode})
		}
		w.gap()
	case atom.Blockquote:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.block(c, prefix+"│ ")
		}
	case atom.Iframe:
		w.media(n, prefix)
		w.gap()
	case atom.Hr:
		w.out.Lines = append(w.out.Lines, Line{Text: prefix + strings.Repeat("─", min(w.width, 40))})
		w.gap()
	case atom.Table:
		w.table(n, prefix)
		w.gap()
	case atom.Span, atom.A, atom.Em, atom.Strong, atom.Code, atom.Del, atom.Img, atom.Br:
		w.emit(collapseLines(inlineNode(n)), prefix, LineText)
		w.gap()
	default:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			w.block(c, prefix)
		}
	}
}

// media writes an embed as one unwrapped row so the URL stays intact.
func (w *layoutWriter) media(n *html.Node, prefix string) {
	w.out.Lines = append(w.out.Lines, Line{Text: prefix + "▶ video: " + attr(n, "src"), Kind: LineMedia})
}

func (w *layoutWriter) list(n *html.Node, prefix string) {
	num := 0
	if s := attr(n, "start"); s != "" {
		num, _ = strconv.Atoi(s)
		num--
	}
	for li := n.FirstChild; li != nil; li = li.NextSibling {
		if li.Type != html.ElementNode || li.DataAtom != atom.Li {
			continue
		}
		num++
		bullet := "• "
		if n.DataAtom == atom.Ol {
			bullet = strconv.Itoa(num) + ". "
		}

		// Inline content first, nested lists after.
		var nested []*html.Node
		var b strings.Builder
		for c := li.FirstChild; c != nil; c = c.NextSibling {
			if c.Type == html.ElementNode && (c.DataAtom == atom.Ul || c.DataAtom == atom.Ol) {
				nested = append(nested, c)
				continue
			}
			b.WriteString(inlineNode(c))
		}
		w.emit(collapseLines(b.String()), prefix+bullet, LineText)
		for _, sub := range nested {
			w.list(sub, prefix+"  ")
		}
	}
}

func (w *layoutWriter) table(n *html.Node, prefix string) {
	var walk func(*html.Node)
	walk = func(x *html.Node) {
		if x.Type == html.ElementNode && x.DataAtom == atom.Tr {
			var cells []string
			for c := x.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && (c.DataAtom == atom.Td || c.DataAtom == atom.Th) {
					cells = append(cells, inline(c))
				}
			}
			w.emit(strings.Join(cells, " │ "), prefix, LineText)
			return
		}
		for c := x.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
}

// inline flattens n's children into one string; <br> becomes a newline.
func inline(n *html.Node) string {
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(inlineNode(c))
	}
	return collapseLines(b.String())
}

func inlineNode(n *html.Node) string {
	switch n.Type {
	case html.TextNode:
		return n.Data
	case html.ElementNode:
	default:
		return ""
	}
	switch {
	case n.DataAtom == atom.Br:
		return "\n"
	case n.DataAtom == atom.A && hasClass(n, "anchor"):
		return ""
	case n.DataAtom == atom.Img:
		return "[image: " + attr(n, "alt") + "]"
	case n.DataAtom == atom.Iframe:
		return "▶ video: " + attr(n, "src")
	case attr(n, "data-seek") != "":
		return "[" + textOf(n) + "]"
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(inlineNode(c))
	}
	return b.String()
}

func firstChild(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
	}
	return nil
}

func textOf(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var b strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		b.WriteString(textOf(c))
	}
	return b.String()
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// collapseLines collapses whitespace inside each line and drops blank lines.
func collapseLines(s string) string {
	var rows []string
	for _, row := range strings.Split(s, "\n") {
		if row = collapse(row); row != "" {
			rows = append(rows, row)
		}
	}
	return strings.Join(rows, "\n")
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}
