package reveal

import (
	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
)

// Scheduler is the render scheduler that owns the default presentation.
type Scheduler interface {
	// EnsureRendered applies any pending presentation to [start, end).
	EnsureRendered(start, end int)

	// RequestRerender schedules [start, end) for a fresh presentation pass.
	RequestRerender(start, end int)
}

// Toggler shows and hides element delimiters on one document.
type Toggler struct {
	doc       *document.Document
	scheduler Scheduler
	calc      *Calculator
}

// NewToggler creates a toggler.
func NewToggler(doc *document.Document, scheduler Scheduler, calc *Calculator) *Toggler {
	if calc == nil {
		calc = NewCalculator()
	}
	return &Toggler{doc: doc, scheduler: scheduler, calc: calc}
}

// Calculator returns the toggler's descriptor calculator.
func (t *Toggler) Calculator() *Calculator {
	return t.calc
}

// Reveal shows the delimiters of e. It reports whether any visibility
// state changed.
func (t *Toggler) Reveal(e *element.Element) bool {
	d, ok := t.calc.Describe(e)
	if !ok {
		return false
	}
	v := variantFor(d.Class)

	if t.scheduler != nil {
		t.scheduler.EnsureRendered(d.Start, d.End)
	}

	changed := false
	t.doc.Silent(func(m *document.Mutator) {
		changed = v.reveal(m, e, d)
	})
	return changed
}

// Conceal hides the delimiters of e using bounds computed from e as it is
// now. It reports whether visibility state changed or a re-render was
// requested.
func (t *Toggler) Conceal(e *element.Element) bool {
	d, ok := t.calc.Describe(e)
	if !ok {
		return false
	}
	v := variantFor(d.Class)

	var changed, rerender bool
	t.doc.Silent(func(m *document.Mutator) {
		changed, rerender = v.conceal(m, e, d)
	})
	if rerender && t.scheduler != nil {
		t.scheduler.RequestRerender(d.Start, d.End)
		changed = true
	}
	return changed
}
