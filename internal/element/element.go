package element

// Span is a half-open rune range [Start, End).
type Span struct {
	Start int
	End   int
}

// Len returns the span length.
func (s Span) Len() int {
	return s.End - s.Start
}

// Contains returns true if pos lies within the span.
func (s Span) Contains(pos int) bool {
	return pos >= s.Start && pos < s.End
}

// LinkFormat describes the surface syntax of a link.
type LinkFormat uint8

const (
	// LinkBracket is a bracketed link with delimiters to hide.
	LinkBracket LinkFormat = iota

	// LinkAngle is a link enclosed in angle brackets.
	LinkAngle

	// LinkPlain is a bare URL with no delimiters.
	LinkPlain
)

// String returns the format name.
func (f LinkFormat) String() string {
	switch f {
	case LinkBracket:
		return "bracket"
	case LinkAngle:
		return "angle"
	case LinkPlain:
		return "plain"
	default:
		return "unknown"
	}
}

// Element is a parsed markup element.
// Offsets are rune offsets; End includes PostBlank trailing blanks.
type Element struct {
	Kind      Kind
	Begin     int
	End       int
	PostBlank int

	// Contents is the interior span reported by the parser, if any.
	Contents *Span

	// MarkerWidth is the delimiter width of emphasis-class kinds.
	// Zero means one character.
	MarkerWidth int

	// Link properties.
	LinkType        string
	LinkFormat      LinkFormat
	DisplayOverride bool

	// Key is the keyword name.
	Key string

	// Glyph is the decoded entity.
	Glyph string
}

// ContentEnd returns End without trailing blanks.
func (e *Element) ContentEnd() int {
	return e.End - e.PostBlank
}

// Span returns the outer span without trailing blanks.
func (e *Element) Span() Span {
	return Span{Start: e.Begin, End: e.ContentEnd()}
}

// Contains returns true if pos lies inside the element, excluding trailing blanks.
func (e *Element) Contains(pos int) bool {
	return pos >= e.Begin && pos < e.ContentEnd()
}

// SameStart compares the start offsets of two possibly nil elements.
// Two nil elements compare equal.
func SameStart(a, b *Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Begin == b.Begin
}

// Same reports whether a and b denote the same element: equal start offsets
// and the same descriptor class. Two nil elements compare equal.
func Same(a, b *Element) bool {
	return SameStart(a, b) && (a == nil || a.Kind.Class() == b.Kind.Class())
}

// Source is the parser boundary: it reports the elements of a document.
type Source interface {
	// ElementAt returns the innermost element whose span contains pos,
	// trailing blanks included, or nil.
	ElementAt(pos int) *Element

	// ElementsIn returns every element overlapping [start, end), ordered by Begin.
	ElementsIn(start, end int) []*Element
}
