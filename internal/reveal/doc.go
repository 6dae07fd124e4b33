// Package reveal shows the markup delimiters of the element under the
// cursor and hides them again once the cursor leaves.
//
// The package is built from four parts:
//
//   - Calculator turns an element into a Descriptor: its outer span and,
//     for emphasis, script and link elements, the interior that stays
//     visible while the delimiters are hidden.
//   - Toggler applies a descriptor to a document. Every change goes through
//     document.Silent, so it never reaches the undo history and never
//     notifies edit listeners.
//   - Session is the cursor tracker of one document. It remembers the
//     element it revealed last and conceals it when the cursor moves to a
//     different element. Its per-command listener lives on the event bus and
//     is subscribed only while it is needed.
//   - Manager owns one Session per document.
//
// A session is Idle when nothing is revealed and Tracking while one element
// is revealed. Within a single event, the previous element is always
// concealed before the next one is revealed.
//
// Thread Safety:
//
// Sessions run on the host's UI loop and are not safe for concurrent use.
// Manager is safe for concurrent use.
package reveal
