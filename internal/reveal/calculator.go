package reveal

import "github.com/dshills/peekmark/internal/element"

// OverlayIndex reports overlays placed by display layers.
type OverlayIndex interface {
	// OccupiedByOther reports whether an overlay from a layer other than
	// layer covers pos.
	OccupiedByOther(pos int, layer string) bool
}

// LayerName is the overlay layer owned by reveal.
const LayerName = "peekmark"

// Calculator computes element descriptors.
type Calculator struct {
	overlays OverlayIndex
	layer    string
}

// CalculatorOption configures a Calculator.
type CalculatorOption func(*Calculator)

// WithOverlays makes math elements covered by another layer's overlay
// non-toggleable.
func WithOverlays(idx OverlayIndex) CalculatorOption {
	return func(c *Calculator) {
		c.overlays = idx
	}
}

// WithLayer sets the layer name treated as our own when checking overlays.
func WithLayer(name string) CalculatorOption {
	return func(c *Calculator) {
		c.layer = name
	}
}

// NewCalculator creates a descriptor calculator.
func NewCalculator(opts ...CalculatorOption) *Calculator {
	c := &Calculator{layer: LayerName}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Describe computes the descriptor of e. It returns false when e is nil,
// its kind is unknown, its offsets are malformed, or a math element is
// owned by another overlay layer.
func (c *Calculator) Describe(e *element.Element) (element.Descriptor, bool) {
	if e == nil {
		return element.Descriptor{}, false
	}
	v := variantFor(e.Kind.Class())
	if v == nil {
		return element.Descriptor{}, false
	}
	base := element.Descriptor{
		Class: e.Kind.Class(),
		Start: e.Begin,
		End:   e.ContentEnd(),
	}
	if base.Start < 0 || base.End <= base.Start || e.PostBlank < 0 {
		return element.Descriptor{}, false
	}
	if e.Contents != nil && (e.Contents.Start < base.Start || e.Contents.End > base.End) {
		return element.Descriptor{}, false
	}
	return v.describe(c, e, base)
}

func (c *Calculator) occupied(pos int) bool {
	return c.overlays != nil && c.overlays.OccupiedByOther(pos, c.layer)
}
