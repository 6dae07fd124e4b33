// Package overlay manages display overlays that replace document text on
// screen, such as rendered math previews owned by an external layer.
package overlay

// Priority represents the rendering priority of overlays.
// Higher priority overlays are rendered on top.
type Priority uint8

const (
	PriorityLow      Priority = 50
	PriorityNormal   Priority = 100
	PriorityHigh     Priority = 150
	PriorityCritical Priority = 200
)

// Well-known layers.
const (
	// LayerMathPreview is the external math-preview layer.
	LayerMathPreview = "math-preview"

	// LayerScript is the layer used by user scripts.
	LayerScript = "script"
)

// Overlay replaces the runes in [Start, End) with Text on display.
type Overlay struct {
	ID       string
	Layer    string
	Start    int
	End      int
	Text     string
	Priority Priority
	Hidden   bool
}

// Contains returns true if pos is within the overlay.
func (o *Overlay) Contains(pos int) bool {
	return pos >= o.Start && pos < o.End
}

// IsVisible returns true if the overlay should be rendered.
func (o *Overlay) IsVisible() bool {
	return !o.Hidden && o.End > o.Start
}
