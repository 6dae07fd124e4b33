package markdown

import (
	"bytes"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark/util"

	"github.com/dshills/peekmark/internal/element"
)

var (
	keywordRe = regexp.MustCompile(`(?m)^#\+([A-Za-z][A-Za-z0-9_-]*):[ \t]*(.*)$`)

	displayDollarRe  = regexp.MustCompile(`(?s)\$\$(.+?)\$\$`)
	displayBracketRe = regexp.MustCompile(`(?s)\\\[(.+?)\\\]`)
	beginRe          = regexp.MustCompile(`\\begin\{([A-Za-z]+\*?)\}`)
	inlineParenRe    = regexp.MustCompile(`(?s)\\\((.+?)\\\)`)
	inlineDollarRe   = regexp.MustCompile(`\$([^\s$](?:[^$\n]*[^\s$])?)\$`)

	superscriptRe = regexp.MustCompile(`\^([^\s^](?:[^^\n]*[^\s^])?)\^`)
	entityRe      = regexp.MustCompile(`&(#[0-9]{1,7}|#[xX][0-9A-Fa-f]{1,6}|[A-Za-z][A-Za-z0-9]{1,31});`)
)

// scanner finds the elements goldmark does not parse.
type scanner struct {
	src       []byte
	protected []byteSpan
}

// math returns every math element outside protected ranges. Environments
// are matched before fragments so "$$" is never read as two "$".
func (s *scanner) math() []rawElement {
	var out []rawElement
	taken := append([]byteSpan(nil), s.protected...)

	add := func(kind element.Kind, start, end, cstart, cend int) {
		sp := byteSpan{start, end}
		if overlapsAny(sp, taken) {
			return
		}
		taken = append(taken, sp)
		out = append(out, rawElement{kind: kind, start: start, end: end, contents: &byteSpan{cstart, cend}})
	}

	for _, m := range displayDollarRe.FindAllSubmatchIndex(s.src, -1) {
		add(element.KindLatexEnvironment, m[0], m[1], m[2], m[3])
	}
	for _, m := range displayBracketRe.FindAllSubmatchIndex(s.src, -1) {
		add(element.KindLatexEnvironment, m[0], m[1], m[2], m[3])
	}
	for _, m := range beginRe.FindAllSubmatchIndex(s.src, -1) {
		closer := []byte(`\end{` + string(s.src[m[2]:m[3]]) + `}`)
		i := bytes.Index(s.src[m[1]:], closer)
		if i < 0 {
			continue
		}
		add(element.KindLatexEnvironment, m[0], m[1]+i+len(closer), m[1], m[1]+i)
	}
	for _, m := range inlineParenRe.FindAllSubmatchIndex(s.src, -1) {
		add(element.KindLatexFragment, m[0], m[1], m[2], m[3])
	}
	for _, m := range inlineDollarRe.FindAllSubmatchIndex(s.src, -1) {
		add(element.KindLatexFragment, m[0], m[1], m[2], m[3])
	}
	return out
}

// keywords returns "#+KEY: value" lines. The trailing newline belongs to
// the keyword as its post-blank.
func (s *scanner) keywords() []rawElement {
	var out []rawElement
	for _, m := range keywordRe.FindAllSubmatchIndex(s.src, -1) {
		end := m[1]
		if end > m[0] && s.src[end-1] == '\r' {
			end--
		}
		if overlapsAny(byteSpan{m[0], end}, s.protected) {
			continue
		}
		r := rawElement{
			kind:    element.KindKeyword,
			start:   m[0],
			end:     end,
			key:     string(s.src[m[2]:m[3]]),
			lineEnd: true,
		}
		if cend := min(m[5], end); cend > m[4] {
			r.contents = &byteSpan{m[4], cend}
		}
		out = append(out, r)
	}
	return out
}

func (s *scanner) superscripts() []rawElement {
	var out []rawElement
	for _, m := range superscriptRe.FindAllSubmatchIndex(s.src, -1) {
		if overlapsAny(byteSpan{m[0], m[1]}, s.protected) {
			continue
		}
		out = append(out, rawElement{
			kind:     element.KindSuperscript,
			start:    m[0],
			end:      m[1],
			contents: &byteSpan{m[2], m[3]},
		})
	}
	return out
}

// entities returns named and numeric character references that decode to
// a glyph.
func (s *scanner) entities() []rawElement {
	var out []rawElement
	for _, m := range entityRe.FindAllSubmatchIndex(s.src, -1) {
		if overlapsAny(byteSpan{m[0], m[1]}, s.protected) {
			continue
		}
		glyph, ok := decodeEntity(string(s.src[m[2]:m[3]]))
		if !ok {
			continue
		}
		out = append(out, rawElement{
			kind:  element.KindEntity,
			start: m[0],
			end:   m[1],
			glyph: glyph,
		})
	}
	return out
}

// decodeEntity resolves an entity name without its "&" and ";".
func decodeEntity(name string) (string, bool) {
	if num, ok := strings.CutPrefix(name, "#"); ok {
		base := 10
		if len(num) > 0 && (num[0] == 'x' || num[0] == 'X') {
			num, base = num[1:], 16
		}
		v, err := strconv.ParseUint(num, base, 32)
		if err != nil || v == 0 || !utf8.ValidRune(rune(v)) {
			return "", false
		}
		return string(rune(v)), true
	}

	e, ok := util.LookUpHTML5EntityByName(name)
	if !ok {
		return "", false
	}
	return string(e.Characters), true
}
