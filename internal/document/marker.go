package document

// Marker is a document position that follows edits.
// Text inserted at the marker's position pushes it forward; text deleted
// around it collapses it to the start of the deletion.
type Marker struct {
	doc *Document
	pos int
}

// NewMarker creates a marker at pos, clamped to the document.
func (d *Document) NewMarker(pos int) *Marker {
	if pos < 0 {
		pos = 0
	}
	if pos > len(d.text) {
		pos = len(d.text)
	}
	m := &Marker{doc: d, pos: pos}
	d.markers[m] = struct{}{}
	return m
}

// Pos returns the marker's current offset.
func (m *Marker) Pos() int {
	return m.pos
}

// Release detaches the marker from its document.
// A released marker keeps its last position. Release is idempotent.
func (m *Marker) Release() {
	if m == nil || m.doc == nil {
		return
	}
	delete(m.doc.markers, m)
	m.doc = nil
}

func (m *Marker) adjust(start, delEnd, inserted int) {
	switch {
	case m.pos >= delEnd:
		m.pos += inserted - (delEnd - start)
	case m.pos > start:
		m.pos = start
	}
}
