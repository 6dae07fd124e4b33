package document

import "errors"

// Sentinel errors for document operations.
var (
	// ErrOutOfRange is returned when an offset lies outside the document.
	ErrOutOfRange = errors.New("offset out of range")

	// ErrInvalidRange is returned when a range end precedes its start.
	ErrInvalidRange = errors.New("invalid range")

	// ErrSilentEdit is returned when a text edit is attempted during a
	// silent mutation.
	ErrSilentEdit = errors.New("text edit during silent mutation")

	// ErrNothingToUndo is returned when the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo is returned when the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")
)
