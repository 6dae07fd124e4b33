// Package app wires peekmark's components together and runs the viewer.
//
// Startup order:
//
//  1. logger
//  2. event bus
//  3. configuration (defaults, file, environment)
//  4. document, markdown source, presenter and render scheduler
//  5. reveal manager and the document's session
//  6. Lua state with the peek module, then the optional init script
//
// The terminal view is attached with SetBackend and driven by Run.
// Configuration changes, including those from the file watcher goroutine,
// are applied on the UI goroutine.
package app
