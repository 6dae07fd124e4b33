package document

import "strings"

// Prop is a set of visibility properties attached to a single rune.
type Prop uint8

const (
	// Hidden marks a rune as not displayed.
	Hidden Prop = 1 << iota

	// Decorated marks a rune as carrying link-style decoration.
	Decorated

	// Display marks a rune as part of a composed display (rendered math).
	Display
)

// Has reports whether all bits of q are set in p.
func (p Prop) Has(q Prop) bool {
	return p&q == q
}

// String returns a human-readable list of set properties.
func (p Prop) String() string {
	if p == 0 {
		return "none"
	}
	var parts []string
	if p.Has(Hidden) {
		parts = append(parts, "hidden")
	}
	if p.Has(Decorated) {
		parts = append(parts, "decorated")
	}
	if p.Has(Display) {
		parts = append(parts, "display")
	}
	return strings.Join(parts, "|")
}

// Composition replaces the runes in [Start, End) with Glyph on display.
type Composition struct {
	Start int
	End   int
	Glyph string
}

// Contains returns true if pos lies within the composition.
func (c Composition) Contains(pos int) bool {
	return pos >= c.Start && pos < c.End
}

// Markup is a copy of a document's visibility state.
// It is used to compare visibility before and after a sequence of toggles.
type Markup struct {
	Props        []Prop
	Compositions []Composition
}

// Equal returns true if both snapshots describe identical visibility state.
func (m Markup) Equal(other Markup) bool {
	if len(m.Props) != len(other.Props) || len(m.Compositions) != len(other.Compositions) {
		return false
	}
	for i := range m.Props {
		if m.Props[i] != other.Props[i] {
			return false
		}
	}
	for i := range m.Compositions {
		if m.Compositions[i] != other.Compositions[i] {
			return false
		}
	}
	return true
}

// Mutator applies silent visibility changes to a document.
// It is only valid inside the callback passed to Document.Silent.
type Mutator struct {
	doc *Document
}

// SetProp adds p to every rune in [start, end).
// Returns true if any rune changed.
func (m *Mutator) SetProp(start, end int, p Prop) bool {
	start, end = m.doc.clamp(start, end)
	changed := false
	for i := start; i < end; i++ {
		if m.doc.props[i]&p != p {
			m.doc.props[i] |= p
			changed = true
		}
	}
	return changed
}

// ClearProp removes p from every rune in [start, end).
// Returns true if any rune changed.
func (m *Mutator) ClearProp(start, end int, p Prop) bool {
	start, end = m.doc.clamp(start, end)
	changed := false
	for i := start; i < end; i++ {
		if m.doc.props[i]&p != 0 {
			m.doc.props[i] &^= p
			changed = true
		}
	}
	return changed
}

// Compose displays glyph in place of [start, end).
// Existing compositions overlapping the range are replaced.
func (m *Mutator) Compose(start, end int, glyph string) bool {
	start, end = m.doc.clamp(start, end)
	if start >= end {
		return false
	}
	c := Composition{Start: start, End: end, Glyph: glyph}
	for _, existing := range m.doc.comps {
		if existing == c {
			return false
		}
	}
	m.doc.removeCompositions(start, end)
	m.doc.insertComposition(c)
	return true
}

// Decompose removes every composition overlapping [start, end).
func (m *Mutator) Decompose(start, end int) bool {
	start, end = m.doc.clamp(start, end)
	return m.doc.removeCompositions(start, end)
}

// Reset clears all properties and compositions in [start, end).
func (m *Mutator) Reset(start, end int) bool {
	changed := m.ClearProp(start, end, Hidden|Decorated|Display)
	if m.Decompose(start, end) {
		changed = true
	}
	return changed
}

func (d *Document) removeCompositions(start, end int) bool {
	kept := d.comps[:0]
	removed := false
	for _, c := range d.comps {
		if c.Start < end && start < c.End {
			removed = true
			continue
		}
		kept = append(kept, c)
	}
	d.comps = kept
	return removed
}

func (d *Document) insertComposition(c Composition) {
	i := 0
	for i < len(d.comps) && d.comps[i].Start < c.Start {
		i++
	}
	d.comps = append(d.comps, Composition{})
	copy(d.comps[i+1:], d.comps[i:])
	d.comps[i] = c
}

func (d *Document) clamp(start, end int) (int, int) {
	if start < 0 {
		start = 0
	}
	if end > len(d.text) {
		end = len(d.text)
	}
	if end < start {
		end = start
	}
	return start, end
}
