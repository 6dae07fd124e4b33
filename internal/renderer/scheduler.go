package renderer

import (
	"sync/atomic"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/renderer/dirty"
)

// Scheduler tracks which parts of a document still need presentation.
// It satisfies the reveal package's scheduler contract.
type Scheduler struct {
	doc       *document.Document
	presenter *Presenter
	tracker   *dirty.Tracker
	cancel    func()

	passes atomic.Uint64
}

// NewScheduler creates a scheduler with the whole document unrendered and
// starts following its edits.
func NewScheduler(doc *document.Document, presenter *Presenter) *Scheduler {
	s := &Scheduler{
		doc:       doc,
		presenter: presenter,
		tracker:   dirty.NewTracker(),
	}
	s.tracker.MarkAll(doc.Len())
	s.cancel = doc.OnEdit(s.onEdit)
	return s
}

// Close stops following document edits.
func (s *Scheduler) Close() {
	s.cancel()
}

// EnsureRendered presents the unrendered lines overlapping [start, end).
func (s *Scheduler) EnsureRendered(start, end int) {
	ls, le := s.lines(start, end)
	for _, r := range s.tracker.DirtyIn(ls, le) {
		rs, re := s.lines(r.Start, r.End)
		s.presenter.Present(s.doc, rs, re)
		s.tracker.Clean(rs, re)
		s.passes.Add(1)
	}
}

// RequestRerender marks the lines overlapping [start, end) unrendered.
func (s *Scheduler) RequestRerender(start, end int) {
	ls, le := s.lines(start, end)
	s.tracker.MarkRegion(ls, le)
}

// Flush presents everything still unrendered.
func (s *Scheduler) Flush() {
	s.EnsureRendered(0, s.doc.Len())
}

// InvalidateAll marks the whole document unrendered.
func (s *Scheduler) InvalidateAll() {
	s.tracker.MarkAll(s.doc.Len())
}

// IsRendered reports whether [start, end) has no pending presentation.
func (s *Scheduler) IsRendered(start, end int) bool {
	return !s.tracker.IsRegionDirty(start, end)
}

// Passes returns the number of presentation passes run so far.
func (s *Scheduler) Passes() uint64 {
	return s.passes.Load()
}

// Stats returns the dirty tracker statistics.
func (s *Scheduler) Stats() dirty.TrackerStats {
	return s.tracker.Stats()
}

func (s *Scheduler) onEdit(doc *document.Document, edit document.Edit) {
	s.tracker.Adjust(edit.Pos, edit.Pos+edit.DeletedLen(), edit.InsertedLen())
	ps, pe := s.paragraph(edit.Pos, edit.Pos+edit.InsertedLen())
	s.tracker.MarkRegion(ps, pe)
}

// lines expands [start, end) to whole lines, including the final newline.
func (s *Scheduler) lines(start, end int) (int, int) {
	if end < start {
		start, end = end, start
	}
	last := end
	if end > start {
		last = end - 1
	}
	ls := s.doc.LineStart(start)
	le := s.doc.LineEnd(last)
	if le < s.doc.Len() {
		le++
	}
	return ls, le
}

// paragraph expands [start, end) to the surrounding blank-line delimited
// paragraph, since inline markup can span the lines of a paragraph.
func (s *Scheduler) paragraph(start, end int) (int, int) {
	ps, pe := s.lines(start, end)
	for ps > 0 {
		prev := s.doc.LineStart(ps - 1)
		if blankLine(s.doc, prev, ps-1) {
			break
		}
		ps = prev
	}
	for pe < s.doc.Len() {
		next := s.doc.LineEnd(pe)
		if blankLine(s.doc, pe, next) {
			break
		}
		pe = next
		if pe < s.doc.Len() {
			pe++
		}
	}
	return ps, pe
}

func blankLine(doc *document.Document, start, end int) bool {
	for i := start; i < end; i++ {
		switch doc.RuneAt(i) {
		case ' ', '\t', '\r':
		default:
			return false
		}
	}
	return true
}
