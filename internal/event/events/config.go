package events

import "github.com/dshills/peekmark/internal/event/topic"

// Config event topics.
const (
	// TopicConfigChanged is published when settings change.
	TopicConfigChanged topic.Topic = "config.changed"

	// TopicConfigReloadFailed is published when a watched config file
	// could not be reloaded.
	TopicConfigReloadFailed topic.Topic = "config.reload.failed"
)

// ConfigSource indicates where a configuration change came from.
type ConfigSource string

// Configuration sources in order of precedence.
const (
	ConfigSourceDefault ConfigSource = "default"
	ConfigSourceFile    ConfigSource = "file"
	ConfigSourceEnv     ConfigSource = "env"
	ConfigSourceRuntime ConfigSource = "runtime"
)

// ConfigChanged is published when settings change.
type ConfigChanged struct {
	// Paths lists the dot-notation keys that changed (e.g., "reveal.links").
	Paths []string

	// Source indicates where the change came from.
	Source ConfigSource
}

// ConfigReloadFailed is published when reloading the config file fails.
type ConfigReloadFailed struct {
	Path string
	Err  error
}
