package events

import "github.com/dshills/peekmark/internal/event/topic"

// Command event topics.
const (
	// TopicCommandCompleted is published after every completed command,
	// including plain cursor motion.
	TopicCommandCompleted topic.Topic = "command.completed"
)

// CommandCompleted is published after every completed command.
type CommandCompleted struct {
	// Document is the document the command ran in.
	Document string

	// Command names the command (e.g., "cursor.right", "insert").
	Command string

	// Point is the cursor position after the command.
	Point int
}
