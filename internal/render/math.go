package render

import (
	"bytes"
	"strconv"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindMath is the node kind of a math span.
var KindMath = ast.NewNodeKind("Math")

// Math is TeX source delimited by $...$ (inline) or $$...$$ (display). It is
// emitted untouched for a client-side typesetter.
type Math struct {
	ast.BaseInline
	Display bool
	Value   []byte
}

// Kind implements ast.Node.
func (n *Math) Kind() ast.NodeKind { return KindMath }

// Dump implements ast.Node.
func (n *Math) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Display": strconv.FormatBool(n.Display),
		"Value":   string(n.Value),
	}, nil)
}

// Text implements ast.Node so heading ids include the TeX source.
func (n *Math) Text(_ []byte) []byte { return n.Value }

type mathParser struct{}

func (p *mathParser) Trigger() []byte { return []byte{'$'} }

func (p *mathParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	delim := 1
	if len(line) > 1 && line[1] == '$' {
		delim = 2
	}
	// "$ 5" is money, not math.
	if delim == 1 && (len(line) < 2 || util.IsSpace(line[1])) {
		return nil
	}

	savedLine, savedSeg := block.Position()
	block.Advance(delim)

	var value []byte
	for {
		line, _ := block.PeekLine()
		if line == nil {
			block.SetPosition(savedLine, savedSeg)
			return nil
		}
		if i := closingDelim(line, delim); i >= 0 {
			value = append(value, line[:i]...)
			block.Advance(i + delim)
			break
		}
		// Inline math never spans lines.
		if delim == 1 {
			block.SetPosition(savedLine, savedSeg)
			return nil
		}
		value = append(value, line...)
		block.AdvanceLine()
	}

	value = bytes.TrimSpace(value)
	if len(value) == 0 {
		block.SetPosition(savedLine, savedSeg)
		return nil
	}
	return &Math{Display: delim == 2, Value: value}
}

// closingDelim returns the index of the closing run of delim '$' in line, or
// -1. Escaped dollars are skipped and an inline close may not follow a space.
func closingDelim(line []byte, delim int) int {
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '\\':
			i++
		case '$':
			if delim == 2 {
				if i+1 < len(line) && line[i+1] == '$' {
					return i
				}
				continue
			}
			if i > 0 && !util.IsSpace(line[i-1]) {
				return i
			}
		}
	}
	return -1
}

type mathRenderer struct{}

func (r *mathRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindMath, r.renderMath)
}

func (r *mathRenderer) renderMath(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Math)
	class := "math math-inline"
	if n.Display {
		class = "math math-display"
	}
	_, _ = w.WriteString(`<span class="` + class + `">`)
	_, _ = w.Write(util.EscapeHTML(n.Value))
	_, _ = w.WriteString("</span>")
	return ast.WalkSkipChildren, nil
}

type mathExtension struct{}

// Extend implements goldmark.Extender.
func (mathExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(&mathParser{}, 150),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&mathRenderer{}, 500),
	))
}
