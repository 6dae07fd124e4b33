// Package renderer applies the default presentation of markup to a
// document: emphasis markers, link brackets and keyword prefixes hidden,
// entities composed into glyphs, math shown as display text.
//
// The Scheduler decides when presentation runs. Regions start out
// unrendered; EnsureRendered presents the unrendered lines of a range
// before anyone mutates them, and RequestRerender returns a range to the
// unrendered state so the next EnsureRendered reapplies the presentation.
// Edits mark their paragraph unrendered.
//
// Usage:
//
//	p := renderer.NewPresenter(source, calc, settings)
//	s := renderer.NewScheduler(doc, p)
//	defer s.Close()
//	s.EnsureRendered(top, bottom) // before drawing
package renderer
