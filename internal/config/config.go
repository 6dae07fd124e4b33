package config

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dshills/peekmark/internal/config/layer"
	"github.com/dshills/peekmark/internal/config/loader"
	"github.com/dshills/peekmark/internal/config/notify"
	"github.com/dshills/peekmark/internal/config/watcher"
	"github.com/dshills/peekmark/internal/eligibility"
)

// Change sources reported to observers.
const (
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceRuntime = "runtime"
)

// Config provides layered access to peekmark settings.
type Config struct {
	mu sync.Mutex

	layers   *layer.Manager
	notifier *notify.Notifier
	watcher  *watcher.Watcher

	fs        loader.FileSystem
	path      string
	envPrefix string
	environ   func() []string

	enableWatcher bool
	onReloadError func(error)
}

// Option configures a Config.
type Option func(*Config)

// WithFile sets the settings file. The format follows the extension.
func WithFile(path string) Option {
	return func(c *Config) {
		c.path = path
	}
}

// WithFS sets the file system the settings file is read from.
func WithFS(fs loader.FileSystem) Option {
	return func(c *Config) {
		c.fs = fs
	}
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.envPrefix = prefix
	}
}

// WithEnviron replaces the environment source.
func WithEnviron(fn func() []string) Option {
	return func(c *Config) {
		c.environ = fn
	}
}

// WithWatcher enables reloading the settings file when it changes.
func WithWatcher(enable bool) Option {
	return func(c *Config) {
		c.enableWatcher = enable
	}
}

// WithReloadErrorHandler sets the callback for failed live reloads.
func WithReloadErrorHandler(fn func(error)) Option {
	return func(c *Config) {
		c.onReloadError = fn
	}
}

// New creates a Config holding only the built-in defaults.
func New(opts ...Option) *Config {
	c := &Config{
		layers:    layer.NewManager(),
		notifier:  notify.New(),
		fs:        loader.DefaultFS(),
		envPrefix: loader.DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}

	defaults := layer.NewLayerWithData(layer.StandardLayerName(layer.SourceBuiltin),
		layer.SourceBuiltin, layer.PriorityBuiltin, defaultsMap())
	defaults.ReadOnly = true
	c.layers.AddLayer(defaults)
	c.layers.AddLayer(layer.NewStandardLayer(layer.SourceFile))
	c.layers.AddLayer(layer.NewStandardLayer(layer.SourceEnv))
	c.layers.AddLayer(layer.NewStandardLayer(layer.SourceRuntime))
	return c
}

// Load reads the settings file and the environment, validates the result
// and starts the file watcher if enabled.
func (c *Config) Load(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	fileData, err := c.readFile()
	if err != nil {
		return err
	}
	envLoader := loader.NewEnvLoader(c.envPrefix)
	if c.environ != nil {
		envLoader.WithEnviron(c.environ)
	}
	envData, err := envLoader.Load()
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	if fileData, err = normalizeLayer(fileData); err != nil {
		return fmt.Errorf("%s: %w", c.path, err)
	}
	if envData, err = normalizeLayer(envData); err != nil {
		return fmt.Errorf("environment: %w", err)
	}
	_ = c.layers.UpdateLayer(layer.StandardLayerName(layer.SourceFile), fileData)
	_ = c.layers.UpdateLayer(layer.StandardLayerName(layer.SourceEnv), envData)

	if c.enableWatcher && c.path != "" && c.watcher == nil {
		return c.startWatcher()
	}
	return nil
}

// Reload re-reads the settings file and notifies observers of the paths
// whose effective value changed. An invalid file leaves the previous values
// in place.
func (c *Config) Reload() error {
	c.mu.Lock()
	data, err := c.readFile()
	if err == nil {
		data, err = normalizeLayer(data)
	}
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("reload %s: %w", c.path, err)
	}

	before := c.layers.Merge()
	_ = c.layers.UpdateLayer(layer.StandardLayerName(layer.SourceFile), data)
	changed := layer.ChangedPaths(before, c.layers.Merge())
	c.mu.Unlock()

	if len(changed) > 0 {
		c.notifier.NotifyReload(changed, SourceFile)
	}
	return nil
}

func (c *Config) readFile() (map[string]any, error) {
	if c.path == "" {
		return nil, nil
	}
	l, err := loader.ForPath(c.fs, c.path)
	if err != nil {
		return nil, err
	}
	return l.Load()
}

func (c *Config) startWatcher() error {
	w, err := watcher.New(watcher.WithErrorHandler(c.reloadFailed))
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	w.OnChange(func(watcher.Event) {
		if err := c.Reload(); err != nil {
			c.reloadFailed(err)
		}
	})
	if err := w.Watch(c.path); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", c.path, err)
	}
	c.watcher = w
	return nil
}

func (c *Config) reloadFailed(err error) {
	if c.onReloadError != nil {
		c.onReloadError(err)
	}
}

// Path returns the settings file path, or "".
func (c *Config) Path() string {
	return c.path
}

// Get returns the effective value at path.
func (c *Config) Get(path string) (any, bool) {
	v, _, ok := c.layers.Get(path)
	return v, ok
}

// GetBool returns the boolean at path.
func (c *Config) GetBool(path string) (bool, error) {
	v, ok := c.Get(path)
	if !ok {
		return false, fmt.Errorf("%s: %w", path, ErrSettingNotFound)
	}
	b, ok := v.(bool)
	if !ok {
		return false, typeError(path, "bool", v)
	}
	return b, nil
}

// GetString returns the string at path.
func (c *Config) GetString(path string) (string, error) {
	v, ok := c.Get(path)
	if !ok {
		return "", fmt.Errorf("%s: %w", path, ErrSettingNotFound)
	}
	s, ok := v.(string)
	if !ok {
		return "", typeError(path, "string", v)
	}
	return s, nil
}

// GetStringSlice returns the string list at path.
func (c *Config) GetStringSlice(path string) ([]string, error) {
	v, ok := c.Get(path)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrSettingNotFound)
	}
	list, err := normalizeStrings(path, v)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(list.([]any)))
	for _, item := range list.([]any) {
		out = append(out, item.(string))
	}
	return out, nil
}

// WhichLayer returns the name of the layer providing path.
func (c *Config) WhichLayer(path string) string {
	return c.layers.WhichLayer(path)
}

// Set validates value and stores it in the runtime layer.
func (c *Config) Set(path string, value any) error {
	v, err := normalize(path, value)
	if err != nil {
		return err
	}

	c.mu.Lock()
	old, _ := c.Get(path)
	err = c.layers.Set(layer.StandardLayerName(layer.SourceRuntime), path, v)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.notifier.NotifySet(path, old, v, SourceRuntime)
	return nil
}

// Reset removes the runtime override of path.
func (c *Config) Reset(path string) error {
	c.mu.Lock()
	old, _ := c.Get(path)
	err := c.layers.Delete(layer.StandardLayerName(layer.SourceRuntime), path)
	c.mu.Unlock()
	if err != nil {
		return err
	}

	c.notifier.NotifyDelete(path, old, SourceRuntime)
	return nil
}

// Settings decodes the effective configuration.
func (c *Config) Settings() eligibility.Settings {
	return decodeSettings(c.layers.Merge())
}

// Subscribe registers an observer for every change.
func (c *Config) Subscribe(observer notify.Observer) *notify.Subscription {
	return c.notifier.Subscribe(observer)
}

// SubscribePath registers an observer for changes at or below path.
func (c *Config) SubscribePath(path string, observer notify.Observer) *notify.Subscription {
	return c.notifier.SubscribePath(path, observer)
}

// Close stops the watcher and the notifier.
func (c *Config) Close() error {
	c.mu.Lock()
	w := c.watcher
	c.watcher = nil
	c.mu.Unlock()

	c.notifier.Close()
	if w != nil {
		return w.Close()
	}
	return nil
}

// normalizeLayer checks every leaf of data against the known settings and
// returns a copy holding the normalized values.
func normalizeLayer(data map[string]any) (map[string]any, error) {
	flat := layer.FlattenMap(data)
	paths := make([]string, 0, len(flat))
	for p := range flat {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	out := make(map[string]any)
	var errs []error
	for _, p := range paths {
		v, err := normalize(p, flat[p])
		if err != nil {
			errs = append(errs, err)
			continue
		}
		layer.SetByPath(out, p, v)
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

func lookup(data map[string]any, path string) (any, bool) {
	return layer.GetByPath(data, path)
}
