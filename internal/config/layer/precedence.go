package layer

// Standard priority levels. Higher values override lower values.
const (
	PriorityBuiltin = 0
	PriorityFile    = 100
	PriorityEnv     = 500
	PriorityRuntime = 1000
)

// DefaultPriority returns the priority used for layers of source.
func DefaultPriority(source Source) int {
	switch source {
	case SourceFile:
		return PriorityFile
	case SourceEnv:
		return PriorityEnv
	case SourceRuntime:
		return PriorityRuntime
	default:
		return PriorityBuiltin
	}
}

// StandardLayerName returns the layer name used for source.
func StandardLayerName(source Source) string {
	switch source {
	case SourceBuiltin:
		return "defaults"
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

// NewStandardLayer creates an empty layer with the standard name and
// priority of source.
func NewStandardLayer(source Source) *Layer {
	return NewLayer(StandardLayerName(source), source, DefaultPriority(source))
}
