package reveal

import (
	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
)

// variant holds the per-class rules. The set is closed; variantFor is the
// only place that maps a class to its rules.
type variant interface {
	// describe fills in the visible interior of base.
	describe(c *Calculator, e *element.Element, base element.Descriptor) (element.Descriptor, bool)

	// reveal shows the element's delimiters.
	reveal(m *document.Mutator, e *element.Element, d element.Descriptor) bool

	// conceal hides the element's delimiters again. It returns rerender when
	// the default presentation must be reapplied by the render scheduler.
	conceal(m *document.Mutator, e *element.Element, d element.Descriptor) (changed, rerender bool)
}

func variantFor(c element.Class) variant {
	switch c {
	case element.ClassEmphasis:
		return emphasisVariant{}
	case element.ClassScript:
		return scriptVariant{}
	case element.ClassEntity:
		return entityVariant{}
	case element.ClassLink:
		return linkVariant{}
	case element.ClassKeyword:
		return keywordVariant{}
	case element.ClassMath:
		return mathVariant{}
	default:
		return nil
	}
}

// revealDelimiters clears Hidden on both delimiters of a partial descriptor.
func revealDelimiters(m *document.Mutator, d element.Descriptor) bool {
	lead, trail := d.Delimiters()
	changed := m.ClearProp(lead.Start, lead.End, document.Hidden)
	if m.ClearProp(trail.Start, trail.End, document.Hidden) {
		changed = true
	}
	return changed
}

// concealDelimiters sets Hidden on both delimiters of a partial descriptor.
func concealDelimiters(m *document.Mutator, d element.Descriptor) bool {
	lead, trail := d.Delimiters()
	changed := m.SetProp(lead.Start, lead.End, document.Hidden)
	if m.SetProp(trail.Start, trail.End, document.Hidden) {
		changed = true
	}
	return changed
}

// emphasisVariant covers bold, italic, underline, strike-through, verbatim
// and code: a fixed-width marker on each side.
type emphasisVariant struct{}

func (emphasisVariant) describe(_ *Calculator, e *element.Element, d element.Descriptor) (element.Descriptor, bool) {
	w := e.MarkerWidth
	if w <= 0 {
		w = 1
	}
	if d.End-d.Start < 2*w {
		return element.Descriptor{}, false
	}
	d.VisibleStart = d.Start + w
	d.VisibleEnd = d.End - w
	d.Partial = true
	return d, true
}

func (emphasisVariant) reveal(m *document.Mutator, _ *element.Element, d element.Descriptor) bool {
	return revealDelimiters(m, d)
}

func (emphasisVariant) conceal(m *document.Mutator, _ *element.Element, d element.Descriptor) (bool, bool) {
	return concealDelimiters(m, d), false
}

// scriptVariant covers subscript and superscript. The parser-reported
// contents are the visible interior.
type scriptVariant struct{}

func (scriptVariant) describe(_ *Calculator, e *element.Element, d element.Descriptor) (element.Descriptor, bool) {
	if e.Contents == nil {
		return element.Descriptor{}, false
	}
	d.VisibleStart = e.Contents.Start
	d.VisibleEnd = e.Contents.End
	d.Partial = true
	return d, d.Valid()
}

func (scriptVariant) reveal(m *document.Mutator, _ *element.Element, d element.Descriptor) bool {
	return revealDelimiters(m, d)
}

func (scriptVariant) conceal(m *document.Mutator, _ *element.Element, d element.Descriptor) (bool, bool) {
	return concealDelimiters(m, d), false
}

// linkVariant uses the description as visible interior, or the span minus
// two bracket characters on each side when there is none.
type linkVariant struct{}

func (linkVariant) describe(_ *Calculator, e *element.Element, d element.Descriptor) (element.Descriptor, bool) {
	if e.Contents != nil {
		d.VisibleStart = e.Contents.Start
		d.VisibleEnd = e.Contents.End
	} else {
		d.VisibleStart = d.Start + 2
		d.VisibleEnd = d.End - 2
	}
	d.Partial = true
	return d, d.Valid()
}

func (linkVariant) reveal(m *document.Mutator, _ *element.Element, d element.Descriptor) bool {
	return revealDelimiters(m, d)
}

func (linkVariant) conceal(m *document.Mutator, _ *element.Element, d element.Descriptor) (bool, bool) {
	return concealDelimiters(m, d), false
}

// entityVariant toggles between the raw entity text and its glyph.
type entityVariant struct{}

func (entityVariant) describe(_ *Calculator, _ *element.Element, d element.Descriptor) (element.Descriptor, bool) {
	return d, true
}

func (entityVariant) reveal(m *document.Mutator, _ *element.Element, d element.Descriptor) bool {
	return m.Decompose(d.Start, d.End)
}

func (entityVariant) conceal(m *document.Mutator, e *element.Element, d element.Descriptor) (bool, bool) {
	if e.Glyph == "" {
		return false, false
	}
	return m.Compose(d.Start, d.End, e.Glyph), false
}

// keywordVariant reveals the whole keyword line; concealing it is left to
// the renderer.
type keywordVariant struct{}

func (keywordVariant) describe(_ *Calculator, _ *element.Element, d element.Descriptor) (element.Descriptor, bool) {
	return d, true
}

func (keywordVariant) reveal(m *document.Mutator, _ *element.Element, d element.Descriptor) bool {
	return m.ClearProp(d.Start, d.End, document.Hidden|document.Decorated)
}

func (keywordVariant) conceal(*document.Mutator, *element.Element, element.Descriptor) (bool, bool) {
	return false, true
}

// mathVariant covers fragments and environments. An overlay from another
// layer at the start offset means the element is displayed by that layer
// and must not be touched.
type mathVariant struct{}

func (mathVariant) describe(c *Calculator, _ *element.Element, d element.Descriptor) (element.Descriptor, bool) {
	if c.occupied(d.Start) {
		return element.Descriptor{}, false
	}
	return d, true
}

func (mathVariant) reveal(m *document.Mutator, _ *element.Element, d element.Descriptor) bool {
	changed := m.ClearProp(d.Start, d.End, document.Display|document.Hidden)
	if m.Decompose(d.Start, d.End) {
		changed = true
	}
	return changed
}

func (mathVariant) conceal(*document.Mutator, *element.Element, element.Descriptor) (bool, bool) {
	return false, true
}
