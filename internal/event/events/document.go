package events

import "github.com/dshills/peekmark/internal/event/topic"

// Document event topics.
const (
	// TopicDocumentEdited is published after every user edit.
	TopicDocumentEdited topic.Topic = "document.edited"

	// TopicDocumentOpened is published when a document gets a reveal session.
	TopicDocumentOpened topic.Topic = "document.opened"

	// TopicDocumentClosed is published when a document's session is closed.
	TopicDocumentClosed topic.Topic = "document.closed"
)

// DocumentEdited is published after every user edit.
type DocumentEdited struct {
	// Document is the document name.
	Document string

	// Pos is the rune offset where the edit happened.
	Pos int

	// Deleted is the number of runes removed.
	Deleted int

	// Inserted is the number of runes inserted.
	Inserted int

	// Point is the cursor position after the edit.
	Point int
}

// DocumentOpened is published when a document gets a reveal session.
type DocumentOpened struct {
	Document  string
	SessionID string
}

// DocumentClosed is published when a document's session is closed.
type DocumentClosed struct {
	Document  string
	SessionID string
}
