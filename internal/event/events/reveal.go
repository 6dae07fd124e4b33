package events

import "github.com/dshills/peekmark/internal/event/topic"

// Reveal event topics.
const (
	// TopicRevealRevealed is published when an element's delimiters are shown.
	TopicRevealRevealed topic.Topic = "reveal.revealed"

	// TopicRevealConcealed is published when an element's delimiters are
	// hidden again.
	TopicRevealConcealed topic.Topic = "reveal.concealed"
)

// RevealToggled is the payload of reveal.revealed and reveal.concealed.
type RevealToggled struct {
	// Document is the document name.
	Document string

	// Kind is the element kind name (e.g., "bold", "link").
	Kind string

	// Start and End delimit the element span without trailing blanks.
	Start int
	End   int
}
