package reveal

import (
	"context"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/element"
	"github.com/dshills/peekmark/internal/eligibility"
	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/event/events"
	"github.com/dshills/peekmark/internal/event/topic"
)

// State is the cursor tracker state.
type State uint8

const (
	// Idle means no element is revealed.
	Idle State = iota

	// Tracking means one element is revealed and the cursor is presumed
	// inside it.
	Tracking
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	default:
		return "unknown"
	}
}

const eventSource = "reveal"

// Session tracks the cursor of one document.
type Session struct {
	id      string
	doc     *document.Document
	source  element.Source
	filter  *eligibility.Filter
	toggler *Toggler
	bus     event.Bus
	trigger eligibility.Trigger

	prev       *element.Element
	prevMarker *document.Marker

	commandSub event.Subscription
	entrySub   event.Subscription

	enabled  bool
	handling bool

	// pending holds lifecycle calls made while a transition was running.
	pending []func()
}

func newSession(id string, doc *document.Document, source element.Source, toggler *Toggler, bus event.Bus, settings eligibility.Settings) *Session {
	return &Session{
		id:      id,
		doc:     doc,
		source:  source,
		filter:  eligibility.NewFilter(settings),
		toggler: toggler,
		bus:     bus,
		trigger: triggerOf(settings),
	}
}

func triggerOf(s eligibility.Settings) eligibility.Trigger {
	if !s.Trigger.Valid() {
		return eligibility.TriggerAlways
	}
	return s.Trigger
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// Document returns the tracked document.
func (s *Session) Document() *document.Document {
	return s.doc
}

// Toggler returns the session's toggler.
func (s *Session) Toggler() *Toggler {
	return s.toggler
}

// Settings returns the settings the session filters with.
func (s *Session) Settings() eligibility.Settings {
	return s.filter.Settings()
}

// Enabled reports whether tracking is enabled.
func (s *Session) Enabled() bool {
	return s.enabled
}

// State returns the tracker state.
func (s *Session) State() State {
	if s.prev != nil {
		return Tracking
	}
	return Idle
}

// Current returns the revealed element, or nil when Idle.
func (s *Session) Current() *element.Element {
	return s.prev
}

// Listening reports whether the per-command listener is subscribed.
func (s *Session) Listening() bool {
	return s.commandSub != nil
}

// Enable starts tracking. Calling Enable on an enabled session does nothing.
func (s *Session) Enable() error {
	if s.deferred(func() { _ = s.Enable() }) {
		return nil
	}
	if s.enabled {
		return nil
	}
	s.enabled = true

	switch s.trigger {
	case eligibility.TriggerAlways:
		return s.subscribeCommand()
	case eligibility.TriggerOnChange:
		return s.subscribeEntry()
	}
	return nil
}

// Disable conceals the revealed element and removes every listener.
// Calling Disable on a disabled session does nothing. Called from an event
// handler during a transition, it takes effect when the transition ends.
func (s *Session) Disable() {
	if s.deferred(s.Disable) {
		return
	}
	if !s.enabled {
		return
	}
	s.concealPrevious()
	s.remember(nil)
	s.unsubscribeCommand()
	s.unsubscribeEntry()
	s.enabled = false
}

// Handle runs one tracker transition for the cursor at point.
func (s *Session) Handle(point int) {
	if !s.enabled || s.handling || s.doc.InSilent() {
		return
	}
	s.handling = true
	defer s.finish()

	current := s.classify(point)

	if s.same(current) {
		if current != nil {
			s.reveal(current)
		}
		s.remember(current)
		return
	}

	s.concealPrevious()
	if current == nil {
		if s.trigger != eligibility.TriggerAlways {
			s.unsubscribeCommand()
		}
	} else {
		s.reveal(current)
		_ = s.subscribeCommand()
	}
	s.remember(current)
}

// RevealAtPoint reveals the element at point outside the automatic flow and
// keeps tracking it until the cursor leaves. It reports whether an element
// was revealed.
func (s *Session) RevealAtPoint(point int) bool {
	s.Handle(point)
	return s.prev != nil
}

// Stop conceals the revealed element and returns to Idle.
func (s *Session) Stop() {
	if s.deferred(s.Stop) {
		return
	}
	if !s.enabled {
		return
	}
	s.concealPrevious()
	s.remember(nil)
	if s.trigger != eligibility.TriggerAlways {
		s.unsubscribeCommand()
	}
}

// UpdateSettings conceals the revealed element under the old settings and
// starts filtering with the new ones.
func (s *Session) UpdateSettings(settings eligibility.Settings) error {
	if s.deferred(func() { _ = s.UpdateSettings(settings) }) {
		return nil
	}
	wasEnabled := s.enabled
	s.Disable()
	s.filter.Update(settings)
	s.trigger = triggerOf(settings)
	if wasEnabled {
		return s.Enable()
	}
	return nil
}

// deferred queues fn when a transition is running and reports whether it did.
func (s *Session) deferred(fn func()) bool {
	if !s.handling {
		return false
	}
	s.pending = append(s.pending, fn)
	return true
}

// finish ends a transition and runs the lifecycle calls it deferred.
func (s *Session) finish() {
	s.handling = false
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

// same reports whether current is the remembered element, comparing against
// the remembered start as moved by edits since it was revealed.
func (s *Session) same(current *element.Element) bool {
	if s.prev == nil {
		return current == nil
	}
	moved := *s.prev
	moved.Begin = s.prevMarker.Pos()
	return element.Same(current, &moved)
}

// classify returns the eligible innermost element at point, or nil.
func (s *Session) classify(point int) *element.Element {
	return s.filter.Eligible(s.source.ElementAt(point), point)
}

func (s *Session) reveal(e *element.Element) {
	if s.toggler.Reveal(e) {
		s.publish(events.TopicRevealRevealed, e)
	}
}

// concealPrevious conceals the remembered element at its current position.
func (s *Session) concealPrevious() {
	if s.prev == nil {
		return
	}
	e := s.resolvePrevious()
	if e == nil {
		return
	}
	if s.toggler.Conceal(e) {
		s.publish(events.TopicRevealConcealed, e)
	}
}

// resolvePrevious asks the source for the remembered element at the start
// offset it has moved to since it was revealed.
func (s *Session) resolvePrevious() *element.Element {
	pos := s.prevMarker.Pos()
	for _, e := range s.source.ElementsIn(pos, pos+1) {
		if e.Begin == pos && e.Kind == s.prev.Kind {
			return e
		}
	}
	return nil
}

func (s *Session) remember(e *element.Element) {
	if s.prevMarker != nil {
		s.prevMarker.Release()
		s.prevMarker = nil
	}
	s.prev = e
	if e != nil {
		s.prevMarker = s.doc.NewMarker(e.Begin)
	}
}

func (s *Session) subscribeCommand() error {
	if s.commandSub != nil || s.bus == nil {
		return nil
	}
	sub, err := s.bus.SubscribeFunc(events.TopicCommandCompleted, s.onCommand,
		event.WithPriority(event.PriorityHigh),
		event.WithFilter(s.forDocument))
	if err != nil {
		return err
	}
	s.commandSub = sub
	return nil
}

func (s *Session) unsubscribeCommand() {
	if s.commandSub == nil {
		return
	}
	_ = s.bus.Unsubscribe(s.commandSub)
	s.commandSub = nil
}

func (s *Session) subscribeEntry() error {
	if s.entrySub != nil || s.bus == nil {
		return nil
	}
	sub, err := s.bus.SubscribeFunc(events.TopicDocumentEdited, s.onEdited,
		event.WithPriority(event.PriorityHigh),
		event.WithFilter(s.forDocument))
	if err != nil {
		return err
	}
	s.entrySub = sub
	return nil
}

func (s *Session) unsubscribeEntry() {
	if s.entrySub == nil {
		return
	}
	_ = s.bus.Unsubscribe(s.entrySub)
	s.entrySub = nil
}

func (s *Session) onCommand(_ context.Context, e any) error {
	if p, ok := event.PayloadOf[events.CommandCompleted](e); ok {
		s.Handle(p.Point)
	}
	return nil
}

func (s *Session) onEdited(_ context.Context, e any) error {
	if s.State() != Idle {
		return nil
	}
	if p, ok := event.PayloadOf[events.DocumentEdited](e); ok {
		s.Handle(p.Point)
	}
	return nil
}

func (s *Session) forDocument(e any) bool {
	switch ev := e.(type) {
	case event.Event[events.CommandCompleted]:
		return ev.Payload.Document == s.doc.Name()
	case event.Event[events.DocumentEdited]:
		return ev.Payload.Document == s.doc.Name()
	}
	return false
}

func (s *Session) publish(t topic.Topic, e *element.Element) {
	if s.bus == nil {
		return
	}
	payload := events.RevealToggled{
		Document: s.doc.Name(),
		Kind:     e.Kind.String(),
		Start:    e.Begin,
		End:      e.ContentEnd(),
	}
	_ = s.bus.Publish(context.Background(), event.NewEvent(t, payload, eventSource))
}
