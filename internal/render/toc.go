package render

import (
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/jinkyeom/sciencestop/internal/models"
)

// ExtractTOC collects the h2 and h3 headings of a rendered document in
// document order. Text is the flattened, whitespace-collapsed heading text.
//
// Ids are made unique within the result: a heading without an id, or whose
// id repeats an earlier entry, gets a fresh id that is written back to the
// node so links to it resolve.
func ExtractTOC(nodes []*html.Node) []models.Heading {
	ids := NewSlugger()
	for _, n := range nodes {
		reserveIDs(ids, n)
	}

	toc := []models.Heading{}
	used := make(map[string]bool)
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.DataAtom == atom.H2 || n.DataAtom == atom.H3) {
			text := strings.Join(strings.Fields(textContent(n)), " ")
			id := attr(n, "id")
			switch {
			case id == "":
				id = ids.Slug(text)
				setAttr(n, "id", id)
			case used[id]:
				id = ids.unique(id)
				setAttr(n, "id", id)
			}
			used[id] = true
			level := 2
			if n.DataAtom == atom.H3 {
				level = 3
			}
			toc = append(toc, models.Heading{ID: id, Text: text, Level: level})
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range nodes {
		walk(n)
	}
	return toc
}

// ExtractTOCFromHTML parses an HTML fragment and returns its table of
// contents.
func ExtractTOCFromHTML(fragment string) ([]models.Heading, error) {
	nodes, err := parseFragment([]byte(fragment))
	if err != nil {
		return nil, err
	}
	return ExtractTOC(nodes), nil
}

func reserveIDs(ids *Slugger, n *html.Node) {
	if n.Type == html.ElementNode {
		if id := attr(n, "id"); id != "" {
			ids.Put([]byte(id))
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		reserveIDs(ids, c)
	}
}
