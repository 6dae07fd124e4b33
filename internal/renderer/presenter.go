package renderer

import (
	"sync"
	"unicode/utf8"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
	"github.com/dshills/peekmark/internal/eligibility"
)

// Describer computes element geometry.
type Describer interface {
	Describe(e *element.Element) (element.Descriptor, bool)
}

// Presenter applies the default presentation of each element kind.
type Presenter struct {
	mu       sync.RWMutex
	source   element.Source
	describe Describer
	settings eligibility.Settings
}

// NewPresenter creates a presenter.
func NewPresenter(source element.Source, describe Describer, settings eligibility.Settings) *Presenter {
	return &Presenter{source: source, describe: describe, settings: settings}
}

// SetSettings replaces the presentation settings.
func (p *Presenter) SetSettings(s eligibility.Settings) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings = s
}

// Settings returns the presentation settings.
func (p *Presenter) Settings() eligibility.Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

// Present resets visibility in [start, end) and applies the presentation
// of every element overlapping it, clipped to the range.
func (p *Presenter) Present(doc *document.Document, start, end int) {
	settings := p.Settings()
	elems := p.source.ElementsIn(start, end)

	doc.Silent(func(m *document.Mutator) {
		m.Reset(start, end)
		c := clip{m: m, start: start, end: end}
		for _, e := range elems {
			d, ok := p.describe.Describe(e)
			if !ok {
				continue
			}
			presentElement(c, e, d, settings)
		}
	})
}

func presentElement(c clip, e *element.Element, d element.Descriptor, s eligibility.Settings) {
	switch d.Class {
	case element.ClassEmphasis:
		if s.HideEmphasisMarkers {
			c.hideDelimiters(d)
		}
	case element.ClassScript:
		if s.PrettyEntities {
			c.hideDelimiters(d)
		}
	case element.ClassEntity:
		if s.PrettyEntities && e.Glyph != "" {
			c.compose(d.Start, d.End, e.Glyph)
		}
	case element.ClassLink:
		switch {
		case e.DisplayOverride:
		case e.LinkFormat == element.LinkPlain:
			c.set(d.Start, d.End, document.Decorated)
		case s.DescriptiveLinks:
			c.hideDelimiters(d)
			c.set(d.VisibleStart, d.VisibleEnd, document.Decorated)
		default:
			c.set(d.Start, d.End, document.Decorated)
		}
	case element.ClassKeyword:
		if s.KeywordHidden(e.Key) {
			prefix := d.Start + keywordPrefixLen(e.Key)
			if e.Contents != nil {
				prefix = e.Contents.Start
			}
			c.set(d.Start, prefix, document.Hidden)
			c.set(prefix, d.End, document.Decorated)
		}
	case element.ClassMath:
		c.set(d.Start, d.End, document.Display)
		if e.Contents != nil {
			c.set(d.Start, e.Contents.Start, document.Hidden)
			c.set(e.Contents.End, d.End, document.Hidden)
		}
	}
}

// keywordPrefixLen is the length of "#+KEY: ".
func keywordPrefixLen(key string) int {
	return len("#+:") + utf8.RuneCountInString(key) + 1
}

// clip restricts mutations to the presented range.
type clip struct {
	m          *document.Mutator
	start, end int
}

func (c clip) set(start, end int, p document.Prop) {
	start = max(start, c.start)
	end = min(end, c.end)
	if start < end {
		c.m.SetProp(start, end, p)
	}
}

func (c clip) hideDelimiters(d element.Descriptor) {
	lead, trail := d.Delimiters()
	c.set(lead.Start, lead.End, document.Hidden)
	c.set(trail.Start, trail.End, document.Hidden)
}

// compose only composes elements that lie entirely inside the range.
func (c clip) compose(start, end int, glyph string) {
	if start >= c.start && end <= c.end {
		c.m.Compose(start, end, glyph)
	}
}
