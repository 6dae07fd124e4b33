// Package document provides the text model that peekmark toggles markup
// visibility on.
//
// A Document holds rune-addressed text together with per-rune visibility
// properties and glyph compositions. Two mutation channels exist:
//
//   - User edits (Insert, Delete, Replace, Undo, Redo) change the text, are
//     recorded in the undo history, move markers and notify edit listeners.
//   - Silent mutations (Silent) change only visibility state. They never
//     reach the history or the edit listeners, so toggling delimiters cannot
//     be undone by the user and cannot re-trigger cursor tracking.
//
// Basic usage:
//
//	doc := document.New("notes.md", "some *bold* text")
//	doc.Silent(func(m *document.Mutator) {
//	    m.SetProp(5, 6, document.Hidden)
//	})
//	doc.Insert(0, "> ") // recorded, listeners notified
//
// Thread Safety:
//
// A Document is owned by the host's UI loop and is not safe for concurrent
// use.
package document
