package reveal

import (
	"context"
	"testing"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
	"github.com/dshills/peekmark/internal/eligibility"
	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/event/events"
)

// recordingScheduler records scheduler calls without presenting anything.
type recordingScheduler struct {
	ensured    []element.Span
	rerendered []element.Span
}

func (s *recordingScheduler) EnsureRendered(start, end int) {
	s.ensured = append(s.ensured, element.Span{Start: start, End: end})
}

func (s *recordingScheduler) RequestRerender(start, end int) {
	s.rerendered = append(s.rerendered, element.Span{Start: start, End: end})
}

// mutableSource is an element source whose elements tests can replace.
type mutableSource struct {
	list element.List
}

func newSource(elems ...*element.Element) *mutableSource {
	return &mutableSource{list: element.NewList(elems...)}
}

func (s *mutableSource) set(elems ...*element.Element) {
	s.list = element.NewList(elems...)
}

func (s *mutableSource) ElementAt(pos int) *element.Element {
	return s.list.ElementAt(pos)
}

func (s *mutableSource) ElementsIn(start, end int) []*element.Element {
	return s.list.ElementsIn(start, end)
}

// conceal applies the concealed presentation of every element directly.
func concealAll(t *testing.T, doc *document.Document, elems ...*element.Element) {
	t.Helper()
	tg := NewToggler(doc, nil, nil)
	for _, e := range elems {
		tg.Conceal(e)
	}
}

func hiddenString(doc *document.Document) string {
	out := []rune(doc.Text())
	for i := range out {
		if doc.PropAt(i).Has(document.Hidden) {
			out[i] = '.'
		}
	}
	return string(out)
}

// revealCounter counts reveal events on a bus.
type revealCounter struct {
	revealed  int
	concealed int
}

func countReveals(t *testing.T, bus event.Bus) *revealCounter {
	t.Helper()
	c := &revealCounter{}
	_, err := bus.SubscribeFunc("reveal.*", func(_ context.Context, e any) error {
		switch e.(event.Event[events.RevealToggled]).Type {
		case events.TopicRevealRevealed:
			c.revealed++
		case events.TopicRevealConcealed:
			c.concealed++
		}
		return nil
	})
	if err != nil {
		t.Fatalf("SubscribeFunc() error = %v", err)
	}
	return c
}

func command(bus event.Bus, doc string, point int) {
	_ = bus.Publish(context.Background(), event.NewEvent(events.TopicCommandCompleted,
		events.CommandCompleted{Document: doc, Command: "move", Point: point}, "test"))
}

type fixture struct {
	doc     *document.Document
	source  *mutableSource
	sched   *recordingScheduler
	bus     event.Bus
	session *Session
}

func newFixture(t *testing.T, text string, settings eligibility.Settings, elems ...*element.Element) *fixture {
	t.Helper()
	f := &fixture{
		doc:    document.New("t", text),
		source: newSource(elems...),
		sched:  &recordingScheduler{},
		bus:    event.NewBus(),
	}
	concealAll(t, f.doc, elems...)
	f.session = newSession("s", f.doc, f.source, NewToggler(f.doc, f.sched, nil), f.bus, settings)
	if err := f.session.Enable(); err != nil {
		t.Fatalf("Enable() error = %v", err)
	}
	return f
}
