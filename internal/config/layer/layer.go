// Package layer merges configuration from several sources by priority.
//
// Higher priority layers override values from lower priority layers. Maps
// are merged key by key; any other value is replaced whole.
package layer

import "time"

// Layer is a single configuration source.
type Layer struct {
	// Name identifies the layer (e.g., "defaults", "file").
	Name string

	// Priority determines merge order (higher overrides lower).
	Priority int

	Source Source

	// Path is the file the layer was read from, if any.
	Path string

	// Data holds the configuration values as a nested map.
	Data map[string]any

	ModTime time.Time

	// ReadOnly prevents Set and Delete on the layer.
	ReadOnly bool
}

// NewLayer creates an empty layer.
func NewLayer(name string, source Source, priority int) *Layer {
	return NewLayerWithData(name, source, priority, make(map[string]any))
}

// NewLayerWithData creates a layer holding data.
func NewLayerWithData(name string, source Source, priority int, data map[string]any) *Layer {
	return &Layer{
		Name:     name,
		Source:   source,
		Priority: priority,
		Data:     data,
		ModTime:  time.Now(),
	}
}

// Clone creates a deep copy of the layer.
func (l *Layer) Clone() *Layer {
	c := *l
	c.Data = cloneMap(l.Data)
	return &c
}

// Source indicates where a configuration layer came from.
type Source uint8

const (
	// SourceBuiltin is the compiled-in defaults.
	SourceBuiltin Source = iota
	// SourceFile is a TOML or YAML settings file.
	SourceFile
	// SourceEnv is PEEKMARK_ environment variables.
	SourceEnv
	// SourceRuntime is values set while running, from Lua or the view.
	SourceRuntime
)

// String returns a human-readable name for the source.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceFile:
		return "file"
	case SourceEnv:
		return "environment"
	case SourceRuntime:
		return "runtime"
	default:
		return "unknown"
	}
}

func cloneMap(src map[string]any) map[string]any {
	if src == nil {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, val := range src {
		dst[key] = cloneValue(val)
	}
	return dst
}

func cloneSlice(src []any) []any {
	if src == nil {
		return nil
	}
	dst := make([]any, len(src))
	for i, val := range src {
		dst[i] = cloneValue(val)
	}
	return dst
}
