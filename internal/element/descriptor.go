package element

import "fmt"

// Descriptor is the normalized view of an element for one event.
// It is recomputed on demand and never cached.
type Descriptor struct {
	Class Class
	Start int
	End   int

	// VisibleStart and VisibleEnd bound the interior kept visible when the
	// element is concealed. They are only meaningful when Partial is true.
	VisibleStart int
	VisibleEnd   int
	Partial      bool
}

// Valid checks the ordering invariant of the descriptor.
func (d Descriptor) Valid() bool {
	if d.Start > d.End {
		return false
	}
	if !d.Partial {
		return true
	}
	return d.Start <= d.VisibleStart && d.VisibleStart <= d.VisibleEnd && d.VisibleEnd <= d.End
}

// Delimiters returns the leading and trailing delimiter spans of a partial
// descriptor.
func (d Descriptor) Delimiters() (lead, trail Span) {
	return Span{Start: d.Start, End: d.VisibleStart}, Span{Start: d.VisibleEnd, End: d.End}
}

// String returns a compact description for logs.
func (d Descriptor) String() string {
	if d.Partial {
		return fmt.Sprintf("%s[%d %d|%d %d]", d.Class, d.Start, d.VisibleStart, d.VisibleEnd, d.End)
	}
	return fmt.Sprintf("%s[%d %d]", d.Class, d.Start, d.End)
}
