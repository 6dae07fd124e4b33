package view

import (
	"fmt"

	"github.com/dshills/peekmark/internal/renderer/backend"
)

// MessageType indicates the type of status message.
type MessageType int

const (
	MessageNone MessageType = iota
	MessageInfo
	MessageError
)

// StatusLine renders the bottom status line.
type StatusLine struct {
	state    string // Tracker state (e.g., "IDLE", "TRACKING")
	filename string
	modified bool
	line     int // 1-indexed for display
	col      int // 1-indexed for display
	element  string

	message     string
	messageType MessageType
}

// NewStatusLine creates a status line.
func NewStatusLine() *StatusLine {
	return &StatusLine{state: "IDLE"}
}

// SetState updates the displayed tracker state.
func (s *StatusLine) SetState(state string) {
	s.state = state
}

// SetFilename updates the displayed filename.
func (s *StatusLine) SetFilename(filename string) {
	s.filename = filename
}

// SetModified updates the modified indicator.
func (s *StatusLine) SetModified(modified bool) {
	s.modified = modified
}

// SetPosition updates the cursor position (1-indexed).
func (s *StatusLine) SetPosition(line, col int) {
	s.line = line
	s.col = col
}

// SetElement updates the name of the revealed element kind.
func (s *StatusLine) SetElement(kind string) {
	s.element = kind
}

// SetMessage displays a status message until the next ClearMessage.
func (s *StatusLine) SetMessage(msg string, msgType MessageType) {
	s.message = msg
	s.messageType = msgType
}

// ClearMessage clears the status message.
func (s *StatusLine) ClearMessage() {
	s.message = ""
	s.messageType = MessageNone
}

// Message returns the current status message.
func (s *StatusLine) Message() string {
	return s.message
}

// Render draws the status line at the given row.
func (s *StatusLine) Render(b backend.Backend, row, width int) {
	bar := backend.Style{Attrs: backend.AttrReverse}
	for x := 0; x < width; x++ {
		b.SetContent(x, row, ' ', bar)
	}

	if s.message != "" {
		style := backend.Style{}
		if s.messageType == MessageError {
			style = style.With(backend.AttrBold)
		}
		for x := 0; x < width; x++ {
			b.SetContent(x, row, ' ', backend.Style{})
		}
		drawString(b, 0, row, width, s.message, style)
		return
	}

	col := drawString(b, 0, row, width, " "+s.state+" ", bar.With(backend.AttrBold))
	col++

	filename := s.filename
	if filename == "" {
		filename = "[No Name]"
	}
	if s.modified {
		filename += " [+]"
	}
	drawString(b, col, row, width, filename, bar)

	right := fmt.Sprintf("%d:%d ", s.line, s.col)
	if s.element != "" {
		right = s.element + "  " + right
	}
	start := width - len([]rune(right))
	if start > col+len([]rune(filename)) {
		drawString(b, start, row, width, right, bar)
	}
}

// drawString draws s from column x and returns the column after it.
func drawString(b backend.Backend, x, y, width int, s string, style backend.Style) int {
	for _, r := range s {
		if x >= width {
			break
		}
		b.SetContent(x, y, r, style)
		x++
	}
	return x
}
