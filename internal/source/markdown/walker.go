package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark/ast"
	east "github.com/yuin/goldmark/extension/ast"

	"github.com/dshills/peekmark/internal/element"
)

// walker collects inline elements from a goldmark tree.
//
// goldmark records source segments only on text nodes, so the span of a
// container is derived from its first and last descendant and widened by
// the delimiters around it.
type walker struct {
	src   []byte
	elems []rawElement

	// protected holds byte ranges no scanned element may overlap:
	// code blocks, code spans and link destinations.
	protected []byteSpan

	// last is the end of the most recently visited text, where the search
	// for nodes without segments starts.
	last int
}

func newWalker(src []byte) *walker {
	return &walker{src: src}
}

func (w *walker) walk(n ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}

	switch n := n.(type) {
	case *ast.Text:
		w.last = n.Segment.Stop
	case *ast.FencedCodeBlock, *ast.CodeBlock, *ast.HTMLBlock:
		if lines := n.Lines(); lines.Len() > 0 {
			w.protected = append(w.protected, byteSpan{lines.At(0).Start, lines.At(lines.Len() - 1).Stop})
		}
		return ast.WalkSkipChildren, nil
	case *ast.CodeSpan:
		if s, ok := w.add(n); ok {
			w.protected = append(w.protected, s)
			w.last = s.end
		}
		return ast.WalkSkipChildren, nil
	case *ast.AutoLink:
		if s, ok := w.add(n); ok {
			w.protected = append(w.protected, s)
			w.last = s.end
		}
	case *ast.Emphasis, *east.Strikethrough, *ast.Link, *ast.Image:
		w.add(n)
	}
	return ast.WalkContinue, nil
}

// add records n as an element and returns its span.
func (w *walker) add(n ast.Node) (byteSpan, bool) {
	s, ok := w.span(n, w.last)
	if !ok || s.start < 0 || s.end > len(w.src) {
		return byteSpan{}, false
	}
	r := rawElement{start: s.start, end: s.end}

	switch n := n.(type) {
	case *ast.Emphasis:
		in, _ := w.inner(n, w.last)
		r.kind = element.KindItalic
		if n.Level == 2 {
			r.kind = element.KindBold
		}
		r.markerWidth = n.Level
		r.contents = &in
	case *east.Strikethrough:
		in, _ := w.inner(n, w.last)
		r.contents = &in
		r.markerWidth = in.start - s.start
		r.kind = element.KindStrikeThrough
		if r.markerWidth == 1 {
			r.kind = element.KindSubscript
		}
	case *ast.CodeSpan:
		in, _ := w.inner(n, w.last)
		r.kind = element.KindCode
		r.contents = &in
		r.markerWidth = w.backticks(s.start)
	case *ast.Link:
		in, _ := w.inner(n, w.last)
		r.kind = element.KindLink
		r.linkFormat = element.LinkBracket
		r.linkType = linkType(string(n.Destination))
		r.contents = &in
		w.protected = append(w.protected, byteSpan{in.end, s.end})
	case *ast.Image:
		in, _ := w.inner(n, w.last)
		r.kind = element.KindLink
		r.linkFormat = element.LinkBracket
		r.linkType = linkType(string(n.Destination))
		r.override = true
		r.contents = &in
		w.protected = append(w.protected, byteSpan{in.end, s.end})
	case *ast.AutoLink:
		r.kind = element.KindLink
		r.linkType = linkType(string(n.URL(w.src)))
		r.linkFormat = element.LinkPlain
		if w.src[s.start] == '<' {
			r.linkFormat = element.LinkAngle
			r.contents = &byteSpan{s.start + 1, s.end - 1}
		}
	default:
		return byteSpan{}, false
	}

	w.elems = append(w.elems, r)
	return s, true
}

// span returns the byte range n occupies, delimiters included. Nodes
// without segments are searched for from offset from.
func (w *walker) span(n ast.Node, from int) (byteSpan, bool) {
	switch n := n.(type) {
	case *ast.Text:
		return byteSpan{n.Segment.Start, n.Segment.Stop}, true
	case *ast.RawHTML:
		if n.Segments.Len() == 0 {
			return byteSpan{}, false
		}
		return byteSpan{n.Segments.At(0).Start, n.Segments.At(n.Segments.Len() - 1).Stop}, true
	case *ast.AutoLink:
		return w.autoLinkSpan(n, from)
	case *ast.Emphasis:
		in, ok := w.inner(n, from)
		if !ok {
			return byteSpan{}, false
		}
		return byteSpan{in.start - n.Level, in.end + n.Level}, true
	case *east.Strikethrough:
		in, ok := w.inner(n, from)
		if !ok {
			return byteSpan{}, false
		}
		k := 0
		for k < 2 && in.start-k > 0 && w.src[in.start-k-1] == '~' {
			k++
		}
		return byteSpan{in.start - k, in.end + k}, true
	case *ast.CodeSpan:
		in, ok := w.inner(n, from)
		if !ok {
			return byteSpan{}, false
		}
		return w.codeSpan(in), true
	case *ast.Link:
		in, ok := w.inner(n, from)
		if !ok {
			return byteSpan{}, false
		}
		return byteSpan{in.start - 1, w.linkEnd(in.end)}, true
	case *ast.Image:
		in, ok := w.inner(n, from)
		if !ok {
			return byteSpan{}, false
		}
		return byteSpan{in.start - 2, w.linkEnd(in.end)}, true
	default:
		return w.inner(n, from)
	}
}

// inner returns the range covered by the children of n.
func (w *walker) inner(n ast.Node, from int) (byteSpan, bool) {
	var s byteSpan
	found := false
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		cs, ok := w.span(c, from)
		if !ok {
			continue
		}
		if !found {
			s.start = cs.start
			found = true
		}
		s.end = cs.end
		from = cs.end
	}
	return s, found
}

func (w *walker) autoLinkSpan(n *ast.AutoLink, from int) (byteSpan, bool) {
	label := n.Label(w.src)
	if len(label) == 0 || from > len(w.src) {
		return byteSpan{}, false
	}
	i := bytes.Index(w.src[from:], label)
	if i < 0 {
		return byteSpan{}, false
	}
	start := from + i
	end := start + len(label)
	if start > 0 && w.src[start-1] == '<' && end < len(w.src) && w.src[end] == '>' {
		return byteSpan{start - 1, end + 1}, true
	}
	return byteSpan{start, end}, true
}

// codeSpan widens the code contents in over the padding space goldmark
// strips and the backtick runs on both sides.
func (w *walker) codeSpan(in byteSpan) byteSpan {
	start, end := in.start, in.end
	if start > 1 && w.src[start-1] == ' ' && w.src[start-2] == '`' &&
		end+1 < len(w.src) && w.src[end] == ' ' && w.src[end+1] == '`' {
		start--
		end++
	}
	k := 0
	for start-k > 0 && w.src[start-k-1] == '`' {
		k++
	}
	return byteSpan{start - k, end + k}
}

func (w *walker) backticks(start int) int {
	k := 0
	for start+k < len(w.src) && w.src[start+k] == '`' {
		k++
	}
	return k
}

// linkEnd returns the end of the link whose description ends at pos: past
// "](destination)", "[label]" or the closing bracket alone.
func (w *walker) linkEnd(pos int) int {
	if pos >= len(w.src) || w.src[pos] != ']' {
		return pos
	}
	pos++
	if pos >= len(w.src) {
		return pos
	}

	switch w.src[pos] {
	case '(':
		depth := 0
		for i := pos; i < len(w.src); i++ {
			switch w.src[i] {
			case '\\':
				i++
			case '(':
				depth++
			case ')':
				depth--
				if depth == 0 {
					return i + 1
				}
			}
		}
	case '[':
		if i := bytes.IndexByte(w.src[pos:], ']'); i >= 0 {
			return pos + i + 1
		}
	}
	return pos
}

// linkType derives the link type from a destination: its URI scheme,
// "internal" for fragment references or "file" for relative paths.
func linkType(dest string) string {
	if i := strings.IndexByte(dest, ':'); i > 0 && isScheme(dest[:i]) {
		return strings.ToLower(dest[:i])
	}
	if strings.HasPrefix(dest, "#") {
		return "internal"
	}
	return "file"
}

func isScheme(s string) bool {
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && (r >= '0' && r <= '9' || r == '+' || r == '-' || r == '.'):
		default:
			return false
		}
	}
	return len(s) > 1
}
