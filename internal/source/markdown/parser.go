package markdown

import (
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"

	"github.com/dshills/peekmark/internal/element"
)

// Parser turns Markdown text into elements.
type Parser struct {
	md goldmark.Markdown
}

// NewParser creates a parser with GitHub Flavored Markdown enabled.
func NewParser() *Parser {
	return &Parser{
		md: goldmark.New(goldmark.WithExtensions(extension.GFM)),
	}
}

// Parse returns every element of src ordered by start offset.
func (p *Parser) Parse(src string) element.List {
	b := []byte(src)
	root := p.md.Parser().Parse(text.NewReader(b))

	w := newWalker(b)
	_ = ast.Walk(root, w.walk)

	sc := &scanner{src: b, protected: w.protected}
	math := sc.math()
	sc.protected = append(sc.protected, spansOf(math)...)

	raw := make([]rawElement, 0, len(w.elems)+len(math))
	for _, e := range w.elems {
		if !insideAny(e.span(), math) {
			raw = append(raw, e)
		}
	}
	raw = append(raw, math...)
	raw = append(raw, sc.keywords()...)
	raw = append(raw, sc.superscripts()...)
	raw = append(raw, sc.entities()...)

	conv := newOffsets(b)
	elems := make([]*element.Element, 0, len(raw))
	for _, r := range raw {
		elems = append(elems, r.element(b, conv))
	}
	return element.NewList(elems...)
}

// rawElement is an element in byte offsets.
type rawElement struct {
	kind        element.Kind
	start, end  int
	contents    *byteSpan
	markerWidth int
	linkType    string
	linkFormat  element.LinkFormat
	override    bool
	key         string
	glyph       string

	// lineEnd marks elements whose trailing newline is their post-blank.
	lineEnd bool
}

type byteSpan struct {
	start, end int
}

func (r rawElement) span() byteSpan {
	return byteSpan{r.start, r.end}
}

func (r rawElement) element(src []byte, conv offsets) *element.Element {
	post := 0
	if r.lineEnd {
		if r.end < len(src) && src[r.end] == '\n' {
			post = 1
		}
	} else {
		for r.end+post < len(src) && (src[r.end+post] == ' ' || src[r.end+post] == '\t') {
			post++
		}
	}

	e := &element.Element{
		Kind:            r.kind,
		Begin:           conv.rune(r.start),
		End:             conv.rune(r.end + post),
		MarkerWidth:     r.markerWidth,
		LinkType:        r.linkType,
		LinkFormat:      r.linkFormat,
		DisplayOverride: r.override,
		Key:             r.key,
		Glyph:           r.glyph,
	}
	e.PostBlank = e.End - conv.rune(r.end)
	if r.contents != nil {
		e.Contents = &element.Span{Start: conv.rune(r.contents.start), End: conv.rune(r.contents.end)}
	}
	return e
}

// offsets converts byte offsets to rune offsets.
type offsets []int

func newOffsets(src []byte) offsets {
	o := make(offsets, len(src)+1)
	n := 0
	for i := 0; i < len(src); {
		_, size := utf8.DecodeRune(src[i:])
		for j := 0; j < size; j++ {
			o[i+j] = n
		}
		i += size
		n++
	}
	o[len(src)] = n
	return o
}

func (o offsets) rune(b int) int {
	return o[b]
}

func spansOf(elems []rawElement) []byteSpan {
	spans := make([]byteSpan, len(elems))
	for i, e := range elems {
		spans[i] = e.span()
	}
	return spans
}

func overlapsAny(s byteSpan, spans []byteSpan) bool {
	for _, o := range spans {
		if s.start < o.end && o.start < s.end {
			return true
		}
	}
	return false
}

// insideAny reports whether s lies within a math element.
func insideAny(s byteSpan, math []rawElement) bool {
	for _, m := range math {
		if s.start >= m.start && s.end <= m.end {
			return true
		}
	}
	return false
}
