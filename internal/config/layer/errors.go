package layer

import "errors"

var (
	// ErrLayerNotFound is returned when a named layer does not exist.
	ErrLayerNotFound = errors.New("layer not found")

	// ErrReadOnly is returned when a read-only layer is modified.
	ErrReadOnly = errors.New("layer is read-only")
)
