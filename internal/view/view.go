package view

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/event/events"
	"github.com/dshills/peekmark/internal/renderer/backend"
	"github.com/dshills/peekmark/internal/renderer/overlay"
	"github.com/dshills/peekmark/internal/reveal"
)

const eventSource = "view"

// Renderer presents document lines before they are drawn.
type Renderer interface {
	EnsureRendered(start, end int)
}

// Overlays reports the visible overlays covering a position, highest
// priority first.
type Overlays interface {
	At(pos int) []overlay.Overlay
}

// Saver persists the document text.
type Saver func(text string) error

// View draws one document and runs the commands bound to keys.
type View struct {
	doc      *document.Document
	backend  backend.Backend
	renderer Renderer
	overlays Overlays
	bus      event.Bus
	session  *reveal.Session
	save     Saver
	status   *StatusLine
	vp       viewport
	tabWidth int

	point    int
	goalCol  int
	savedRev uint64
	width    int
	height   int

	pending    []document.Edit
	cancelEdit func()

	mu     sync.Mutex
	posted []func()
}

// Option configures a View.
type Option func(*View)

// WithBus sets the bus command and edit events are published on.
func WithBus(bus event.Bus) Option {
	return func(v *View) {
		v.bus = bus
	}
}

// WithSession sets the reveal session the reveal commands act on.
func WithSession(s *reveal.Session) Option {
	return func(v *View) {
		v.session = s
	}
}

// WithSaver sets the function the save command writes through.
func WithSaver(save Saver) Option {
	return func(v *View) {
		v.save = save
	}
}

// WithOverlays draws overlay text in place of the ranges it covers.
func WithOverlays(o Overlays) Option {
	return func(v *View) {
		v.overlays = o
	}
}

// WithScrollMargin sets how many lines are kept between the cursor and the
// top or bottom edge.
func WithScrollMargin(lines int) Option {
	return func(v *View) {
		v.vp.margin = max(lines, 0)
	}
}

// WithTabWidth sets the number of cells a tab advances to.
func WithTabWidth(n int) Option {
	return func(v *View) {
		if n > 0 {
			v.tabWidth = n
		}
	}
}

// New creates a view of doc drawn on b. The backend must be initialized.
func New(doc *document.Document, b backend.Backend, r Renderer, opts ...Option) *View {
	width, height := b.Size()
	v := &View{
		doc:      doc,
		backend:  b,
		renderer: r,
		status:   NewStatusLine(),
		vp:       newViewport(height-1, 3),
		tabWidth: 4,
		goalCol:  -1,
		savedRev: doc.Revision(),
		width:    width,
		height:   height,
	}
	for _, opt := range opts {
		opt(v)
	}
	v.status.SetFilename(doc.Name())
	v.cancelEdit = doc.OnEdit(func(_ *document.Document, e document.Edit) {
		v.pending = append(v.pending, e)
	})
	return v
}

// Close stops following document edits.
func (v *View) Close() {
	v.cancelEdit()
}

// Document returns the viewed document.
func (v *View) Document() *document.Document {
	return v.doc
}

// Session returns the reveal session, which may be nil.
func (v *View) Session() *reveal.Session {
	return v.session
}

// SetSession replaces the reveal session.
func (v *View) SetSession(s *reveal.Session) {
	v.session = s
}

// Point returns the cursor offset.
func (v *View) Point() int {
	return v.point
}

// Status returns the status line.
func (v *View) Status() *StatusLine {
	return v.status
}

// Modified reports whether the document changed since it was last saved.
func (v *View) Modified() bool {
	return v.doc.Revision() != v.savedRev
}

// Post queues fn to run on the UI goroutine before the next redraw.
// It is safe to call from any goroutine.
func (v *View) Post(fn func()) {
	v.mu.Lock()
	v.posted = append(v.posted, fn)
	v.mu.Unlock()
	v.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
}

// Run polls the backend until the user quits or ctx is done.
func (v *View) Run(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		v.backend.PostEvent(backend.Event{Type: backend.EventInterrupt})
	})
	defer stop()

	v.Refresh()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.HandleEvent(v.backend.PollEvent()); errors.Is(err, ErrQuit) {
			return nil
		}
	}
}

// HandleEvent processes one backend event. It returns ErrQuit when the
// event asked to quit; other command errors are shown on the status line.
func (v *View) HandleEvent(ev backend.Event) error {
	switch ev.Type {
	case backend.EventKey:
		name, ok := bindingFor(ev)
		if !ok {
			return nil
		}
		return v.Execute(name, ev)
	case backend.EventResize:
		v.width, v.height = ev.Width, ev.Height
		v.vp.resize(v.height - 1)
		v.Refresh()
	case backend.EventInterrupt:
		v.runPosted()
		v.Refresh()
	}
	return nil
}

// Execute runs the named command. ev carries the key for commands that
// need it, such as insertion.
func (v *View) Execute(name string, ev backend.Event) error {
	cmd, ok := commands[name]
	if !ok {
		return &UnknownCommandError{Name: name}
	}

	v.status.ClearMessage()
	v.pending = v.pending[:0]
	if !cmd.vertical {
		v.goalCol = -1
	}

	err := cmd.run(v, ev)
	if errors.Is(err, ErrQuit) {
		return err
	}
	if err != nil {
		v.status.SetMessage(err.Error(), MessageError)
	}
	v.point = min(max(v.point, 0), v.doc.Len())

	v.publishEdits()
	v.publish(event.NewEvent(events.TopicCommandCompleted, events.CommandCompleted{
		Document: v.doc.Name(),
		Command:  name,
		Point:    v.point,
	}, eventSource))
	v.Refresh()
	return nil
}

func (v *View) runPosted() {
	v.mu.Lock()
	posted := v.posted
	v.posted = nil
	v.mu.Unlock()
	for _, fn := range posted {
		fn()
	}
}

func (v *View) publishEdits() {
	for _, e := range v.pending {
		v.publish(event.NewEvent(events.TopicDocumentEdited, events.DocumentEdited{
			Document: v.doc.Name(),
			Pos:      e.Pos,
			Deleted:  e.DeletedLen(),
			Inserted: e.InsertedLen(),
			Point:    v.point,
		}, eventSource))
	}
	v.pending = v.pending[:0]
}

func (v *View) publish(e any) {
	if v.bus == nil {
		return
	}
	_ = v.bus.Publish(context.Background(), e)
}

// Refresh scrolls to the cursor, presents the visible lines and redraws.
func (v *View) Refresh() {
	line, _ := v.doc.Position(v.point)
	v.vp.follow(line, v.doc.LineCount())

	start := v.doc.Offset(v.vp.top, 0)
	end := v.doc.LineEnd(v.doc.Offset(v.vp.bottom()-1, 0))
	if v.renderer != nil {
		v.renderer.EnsureRendered(start, end)
	}
	v.Draw()
}

// Draw paints the visible lines and the status line.
func (v *View) Draw() {
	v.backend.Clear()

	cursorX, cursorY := -1, -1
	pos := v.doc.Offset(v.vp.top, 0)
	for row := 0; row < v.vp.height && row < v.height-1; row++ {
		if v.vp.top+row >= v.doc.LineCount() {
			break
		}
		end := v.doc.LineEnd(pos)
		x := 0
		for ; pos < end; pos++ {
			if pos == v.point {
				cursorX, cursorY = x, row
			}
			x = v.drawRune(pos, x, row)
		}
		if pos == v.point {
			cursorX, cursorY = x, row
		}
		pos = end + 1
	}

	v.updateStatus()
	v.status.Render(v.backend, v.height-1, v.width)

	if cursorY >= 0 {
		v.backend.ShowCursor(min(cursorX, max(v.width-1, 0)), cursorY)
	} else {
		v.backend.HideCursor()
	}
	v.backend.Show()
}

// drawRune draws the rune at pos starting at column x and returns the
// column after it.
func (v *View) drawRune(pos, x, row int) int {
	if o, ok := v.overlayAt(pos); ok {
		if pos != o.Start {
			return x
		}
		style := backend.Style{}.With(backend.AttrItalic)
		for _, r := range o.Text {
			v.backend.SetContent(x, row, r, style)
			x++
		}
		return x
	}
	if c, ok := v.doc.CompositionAt(pos); ok {
		if pos != c.Start {
			return x
		}
		style := styleOf(v.doc.PropAt(pos))
		for _, r := range c.Glyph {
			v.backend.SetContent(x, row, r, style)
			x++
		}
		return x
	}

	prop := v.doc.PropAt(pos)
	if prop.Has(document.Hidden) {
		return x
	}
	style := styleOf(prop)
	r := v.doc.RuneAt(pos)
	if r == '\t' {
		next := (x/v.tabWidth + 1) * v.tabWidth
		for ; x < next; x++ {
			v.backend.SetContent(x, row, ' ', style)
		}
		return x
	}
	v.backend.SetContent(x, row, r, style)
	return x + 1
}

func (v *View) overlayAt(pos int) (overlay.Overlay, bool) {
	if v.overlays == nil {
		return overlay.Overlay{}, false
	}
	if found := v.overlays.At(pos); len(found) > 0 {
		return found[0], true
	}
	return overlay.Overlay{}, false
}

func styleOf(p document.Prop) backend.Style {
	var s backend.Style
	if p.Has(document.Decorated) {
		s = s.With(backend.AttrUnderline)
	}
	if p.Has(document.Display) {
		s = s.With(backend.AttrDim)
	}
	return s
}

func (v *View) updateStatus() {
	line, col := v.doc.Position(v.point)
	v.status.SetPosition(line+1, col+1)
	v.status.SetModified(v.Modified())

	state, kind := "OFF", ""
	if s := v.session; s != nil && s.Enabled() {
		state = strings.ToUpper(s.State().String())
		if e := s.Current(); e != nil {
			kind = e.Kind.String()
		}
	}
	v.status.SetState(state)
	v.status.SetElement(kind)
}
