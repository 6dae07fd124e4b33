package document

import (
	"fmt"
	"unicode/utf8"
)

// Edit describes a single text change.
// Offsets are rune offsets in the document before the change.
type Edit struct {
	// Pos is where the change starts.
	Pos int

	// Deleted is the text removed at Pos.
	Deleted string

	// Inserted is the text inserted at Pos.
	Inserted string
}

// DeletedLen returns the number of runes removed.
func (e Edit) DeletedLen() int {
	return utf8.RuneCountInString(e.Deleted)
}

// InsertedLen returns the number of runes inserted.
func (e Edit) InsertedLen() int {
	return utf8.RuneCountInString(e.Inserted)
}

// Delta returns the change in document length.
func (e Edit) Delta() int {
	return e.InsertedLen() - e.DeletedLen()
}

// Inverse returns the edit that undoes e.
func (e Edit) Inverse() Edit {
	return Edit{Pos: e.Pos, Deleted: e.Inserted, Inserted: e.Deleted}
}

// EditListener is called after every user edit.
type EditListener func(doc *Document, edit Edit)

type listenerEntry struct {
	id int
	fn EditListener
}

// Document is a rune-addressed text with visibility state.
type Document struct {
	name  string
	text  []rune
	props []Prop
	comps []Composition

	markers   map[*Marker]struct{}
	listeners []listenerEntry
	nextID    int

	history  *History
	revision uint64
	silent   int
}

// Option configures a Document.
type Option func(*Document)

// WithHistoryLimit sets the maximum number of undo entries.
func WithHistoryLimit(n int) Option {
	return func(d *Document) {
		d.history = NewHistory(n)
	}
}

// New creates a document with the given name and initial text.
func New(name, text string, opts ...Option) *Document {
	runes := []rune(text)
	d := &Document{
		name:    name,
		text:    runes,
		props:   make([]Prop, len(runes)),
		markers: make(map[*Marker]struct{}),
		history: NewHistory(0),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Name returns the document name.
func (d *Document) Name() string {
	return d.name
}

// Len returns the document length in runes.
func (d *Document) Len() int {
	return len(d.text)
}

// Text returns the full document text.
func (d *Document) Text() string {
	return string(d.text)
}

// Slice returns the text in [start, end).
func (d *Document) Slice(start, end int) string {
	start, end = d.clamp(start, end)
	return string(d.text[start:end])
}

// RuneAt returns the rune at pos, or 0 if pos is out of range.
func (d *Document) RuneAt(pos int) rune {
	if pos < 0 || pos >= len(d.text) {
		return 0
	}
	return d.text[pos]
}

// Revision returns a counter incremented by every user edit.
func (d *Document) Revision() uint64 {
	return d.revision
}

// History returns the undo history.
func (d *Document) History() *History {
	return d.history
}

// PropAt returns the visibility properties of the rune at pos.
func (d *Document) PropAt(pos int) Prop {
	if pos < 0 || pos >= len(d.props) {
		return 0
	}
	return d.props[pos]
}

// CompositionAt returns the composition covering pos, if any.
func (d *Document) CompositionAt(pos int) (Composition, bool) {
	for _, c := range d.comps {
		if c.Contains(pos) {
			return c, true
		}
		if c.Start > pos {
			break
		}
	}
	return Composition{}, false
}

// Markup returns a copy of the document's visibility state.
func (d *Document) Markup() Markup {
	m := Markup{
		Props:        make([]Prop, len(d.props)),
		Compositions: make([]Composition, len(d.comps)),
	}
	copy(m.Props, d.props)
	copy(m.Compositions, d.comps)
	return m
}

// Silent runs fn with a Mutator for visibility changes.
// Changes made through the mutator are not recorded in history and do not
// notify edit listeners. Calls may nest.
func (d *Document) Silent(fn func(m *Mutator)) {
	d.silent++
	defer func() { d.silent-- }()
	fn(&Mutator{doc: d})
}

// InSilent reports whether a silent mutation is in progress.
func (d *Document) InSilent() bool {
	return d.silent > 0
}

// OnEdit registers a listener for user edits.
// The returned function removes the listener; calling it more than once is a no-op.
func (d *Document) OnEdit(fn EditListener) (cancel func()) {
	id := d.nextID
	d.nextID++
	d.listeners = append(d.listeners, listenerEntry{id: id, fn: fn})
	return func() {
		for i, l := range d.listeners {
			if l.id == id {
				d.listeners = append(d.listeners[:i:i], d.listeners[i+1:]...)
				return
			}
		}
	}
}

// Insert inserts s at pos.
func (d *Document) Insert(pos int, s string) error {
	return d.Replace(pos, pos, s)
}

// Delete removes the text in [start, end).
func (d *Document) Delete(start, end int) error {
	return d.Replace(start, end, "")
}

// Replace replaces [start, end) with s and records the edit for undo.
func (d *Document) Replace(start, end int, s string) error {
	if start < 0 || end > len(d.text) {
		return fmt.Errorf("replace [%d, %d) in %d runes: %w", start, end, len(d.text), ErrOutOfRange)
	}
	if end < start {
		return fmt.Errorf("replace [%d, %d): %w", start, end, ErrInvalidRange)
	}
	if d.silent > 0 {
		return ErrSilentEdit
	}
	edit := Edit{Pos: start, Deleted: string(d.text[start:end]), Inserted: s}
	if edit.Deleted == "" && edit.Inserted == "" {
		return nil
	}
	d.apply(edit)
	d.history.Push(edit)
	return nil
}

// Undo reverts the most recent edit.
func (d *Document) Undo() (Edit, error) {
	edit, err := d.history.popUndo()
	if err != nil {
		return Edit{}, err
	}
	inv := edit.Inverse()
	d.apply(inv)
	return inv, nil
}

// Redo reapplies the most recently undone edit.
func (d *Document) Redo() (Edit, error) {
	edit, err := d.history.popRedo()
	if err != nil {
		return Edit{}, err
	}
	d.apply(edit)
	return edit, nil
}

// apply changes the text and keeps every offset-indexed structure aligned.
func (d *Document) apply(edit Edit) {
	ins := []rune(edit.Inserted)
	delEnd := edit.Pos + edit.DeletedLen()

	text := make([]rune, 0, len(d.text)-(delEnd-edit.Pos)+len(ins))
	text = append(text, d.text[:edit.Pos]...)
	text = append(text, ins...)
	text = append(text, d.text[delEnd:]...)
	d.text = text

	props := make([]Prop, 0, len(text))
	props = append(props, d.props[:edit.Pos]...)
	props = append(props, make([]Prop, len(ins))...)
	props = append(props, d.props[delEnd:]...)
	d.props = props

	delta := len(ins) - (delEnd - edit.Pos)
	comps := d.comps[:0]
	for _, c := range d.comps {
		switch {
		case c.End <= edit.Pos:
			comps = append(comps, c)
		case c.Start >= delEnd:
			c.Start += delta
			c.End += delta
			comps = append(comps, c)
		}
	}
	d.comps = comps

	for m := range d.markers {
		m.adjust(edit.Pos, delEnd, len(ins))
	}

	d.revision++
	for _, l := range append([]listenerEntry(nil), d.listeners...) {
		l.fn(d, edit)
	}
}

// LineStart returns the offset of the first rune of the line containing pos.
func (d *Document) LineStart(pos int) int {
	if pos > len(d.text) {
		pos = len(d.text)
	}
	for pos > 0 && d.text[pos-1] != '\n' {
		pos--
	}
	return pos
}

// LineEnd returns the offset of the newline ending the line containing pos,
// or the document length for the last line.
func (d *Document) LineEnd(pos int) int {
	if pos < 0 {
		pos = 0
	}
	for pos < len(d.text) && d.text[pos] != '\n' {
		pos++
	}
	return pos
}

// LineCount returns the number of lines.
func (d *Document) LineCount() int {
	n := 1
	for _, r := range d.text {
		if r == '\n' {
			n++
		}
	}
	return n
}

// Position converts an offset to a zero-based line and column.
func (d *Document) Position(pos int) (line, col int) {
	if pos > len(d.text) {
		pos = len(d.text)
	}
	for i := 0; i < pos; i++ {
		if d.text[i] == '\n' {
			line++
			col = 0
		} else {
			col++
		}
	}
	return line, col
}

// Offset converts a zero-based line and column to an offset.
// Columns past the end of the line clamp to the line end.
func (d *Document) Offset(line, col int) int {
	pos := 0
	for l := 0; l < line; l++ {
		next := d.LineEnd(pos)
		if next >= len(d.text) {
			return len(d.text)
		}
		pos = next + 1
	}
	end := d.LineEnd(pos)
	if pos+col > end {
		return end
	}
	return pos + col
}
