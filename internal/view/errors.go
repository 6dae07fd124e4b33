package view

import "errors"

var (
	// ErrQuit is returned by Run when the user asks to quit.
	ErrQuit = errors.New("quit")

	// ErrNoSaver is returned by the save command when no save function
	// was configured.
	ErrNoSaver = errors.New("no save target")

	// ErrNoSession is returned by reveal commands when the document has no
	// reveal session.
	ErrNoSession = errors.New("no reveal session")
)

// UnknownCommandError is returned by Execute for a name with no command.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return "unknown command: " + e.Name
}
