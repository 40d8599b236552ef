package render

import (
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
)

// anchorClass marks the self-link prepended to every heading.
const anchorClass = "anchor"

// headingAnchors gives every heading an id derived from its rendered text and
// prepends an empty link to that id. Ids come from the context's parser.IDs.
type headingAnchors struct{}

func (headingAnchors) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	source := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		var id []byte
		if raw, ok := h.AttributeString("id"); ok {
			id, _ = raw.([]byte)
		}
		if len(id) == 0 {
			id = pc.IDs().Generate(h.Text(source), ast.KindHeading)
			h.SetAttributeString("id", id)
		}

		link := ast.NewLink()
		link.Destination = append([]byte("#"), id...)
		link.SetAttributeString("class", []byte(anchorClass))
		link.SetAttributeString("tabindex", []byte("-1"))
		if first := h.FirstChild(); first != nil {
			h.InsertBefore(h, first, link)
		} else {
			h.AppendChild(h, link)
		}
		return ast.WalkSkipChildren, nil
	})
}
