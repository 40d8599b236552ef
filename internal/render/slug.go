package render

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/yuin/goldmark/ast"
)

// Slugify lowercases s, keeps letters, digits, '-' and '_' and turns every
// space into '-'. Hangul and other non-Latin letters are kept as is.
func Slugify(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), unicode.IsMark(r), r == '-', r == '_':
			b.WriteRune(r)
		case r == ' ':
			b.WriteByte('-')
		}
	}
	return b.String()
}

// Slugger hands out unique heading ids within one document. The first
// occurrence of a slug is used bare; later ones get "-1", "-2", ...
//
// Slugger satisfies goldmark's parser.IDs so the ids goldmark assigns and the
// ids assigned to raw HTML headings come from one namespace.
type Slugger struct {
	seen map[string]int
}

// NewSlugger returns an empty Slugger.
func NewSlugger() *Slugger {
	return &Slugger{seen: make(map[string]int)}
}

// Slug returns a unique id for text.
func (s *Slugger) Slug(text string) string {
	base := Slugify(text)
	if base == "" {
		base = "heading"
	}
	return s.unique(base)
}

func (s *Slugger) unique(base string) string {
	id := base
	for {
		if _, taken := s.seen[id]; !taken {
			break
		}
		s.seen[base]++
		id = base + "-" + strconv.Itoa(s.seen[base])
	}
	s.seen[id] = 0
	return id
}

// Taken reports whether id has been handed out or reserved.
func (s *Slugger) Taken(id string) bool {
	_, ok := s.seen[id]
	return ok
}

// Generate implements parser.IDs.
func (s *Slugger) Generate(value []byte, _ ast.NodeKind) []byte {
	return []byte(s.Slug(string(value)))
}

// Put implements parser.IDs. It reserves an explicitly authored id.
func (s *Slugger) Put(value []byte) {
	if _, ok := s.seen[string(value)]; !ok {
		s.seen[string(value)] = 0
	}
}
