package app

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dshills/peekmark/internal/config"
	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/event/events"
	"github.com/dshills/peekmark/internal/renderer/backend"
	"github.com/dshills/peekmark/internal/reveal"
)

func noEnv() []string { return nil }

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newApp(t *testing.T, opts Options) (*Application, *backend.NullBackend) {
	t.Helper()
	if opts.Environ == nil {
		opts.Environ = noEnv
	}
	app, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = app.Shutdown() })

	screen := backend.NewNullBackend(40, 5)
	if err := app.SetBackend(screen); err != nil {
		t.Fatalf("SetBackend() error = %v", err)
	}
	return app, screen
}

func key(k backend.Key) backend.Event {
	return backend.Event{Type: backend.EventKey, Key: k}
}

func moveRight(t *testing.T, app *Application, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := app.View().HandleEvent(key(backend.KeyRight)); err != nil {
			t.Fatal(err)
		}
	}
}

func TestNewOpensFile(t *testing.T) {
	path := writeTemp(t, "notes.md", "a **bold** word")
	app, screen := newApp(t, Options{File: path})

	if got := app.Document().Text(); got != "a **bold** word" {
		t.Errorf("Text() = %q", got)
	}
	if got := app.Document().Name(); got != "notes.md" {
		t.Errorf("Name() = %q", got)
	}
	if !app.Session().Enabled() {
		t.Error("session not enabled")
	}

	app.View().Refresh()
	if got := screen.Row(0); got != "a bold word" {
		t.Errorf("Row(0) = %q", got)
	}
	moveRight(t, app, 2)
	if got := screen.Row(0); got != "a **bold** word" {
		t.Errorf("Row(0) inside element = %q", got)
	}
	if app.Point() != 2 {
		t.Errorf("Point() = %d, want 2", app.Point())
	}
}

func TestNewMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.md")
	app, _ := newApp(t, Options{File: path})

	if app.Document().Len() != 0 {
		t.Errorf("Len() = %d, want 0", app.Document().Len())
	}
	if err := app.save("# title\n"); err != nil {
		t.Fatalf("save() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "# title\n" {
		t.Errorf("file = %q", data)
	}
}

func TestSaveScratch(t *testing.T) {
	app, _ := newApp(t, Options{})
	if err := app.save("x"); !errors.Is(err, ErrNoFilePath) {
		t.Errorf("save() error = %v, want ErrNoFilePath", err)
	}
}

func TestNewInvalidConfig(t *testing.T) {
	cfg := writeTemp(t, "peekmark.toml", "[reveal]\nemphasis = \"maybe\"\n")
	_, err := New(Options{ConfigPath: cfg, Environ: noEnv})

	var initErr *InitError
	if !errors.As(err, &initErr) || initErr.Component != "config" {
		t.Errorf("New() error = %v, want config InitError", err)
	}
}

func TestConfigFileDisablesKind(t *testing.T) {
	cfg := writeTemp(t, "peekmark.toml", "[reveal]\nemphasis = false\n")
	path := writeTemp(t, "notes.md", "a **bold** word")
	app, screen := newApp(t, Options{File: path, ConfigPath: cfg})

	if app.Config().Settings().AutoEmphasis {
		t.Fatal("AutoEmphasis = true, want false from file")
	}
	moveRight(t, app, 3)
	if got := screen.Row(0); got != "a bold word" {
		t.Errorf("Row(0) = %q, want markers still hidden", got)
	}
	if app.Session().State() != reveal.Idle {
		t.Errorf("State() = %v, want idle", app.Session().State())
	}
}

func TestRuntimeSettingChange(t *testing.T) {
	path := writeTemp(t, "notes.md", "a **bold** word")
	app, screen := newApp(t, Options{File: path})

	var changed []events.ConfigChanged
	_, _ = app.Bus().SubscribeFunc(events.TopicConfigChanged, func(_ context.Context, e any) error {
		if p, ok := event.PayloadOf[events.ConfigChanged](e); ok {
			changed = append(changed, p)
		}
		return nil
	})

	moveRight(t, app, 3)
	if app.Session().State() != reveal.Tracking {
		t.Fatalf("State() = %v, want tracking", app.Session().State())
	}

	if err := app.Config().Set(config.KeyRevealEmphasis, false); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if len(changed) != 1 || changed[0].Source != events.ConfigSourceRuntime || changed[0].Paths[0] != config.KeyRevealEmphasis {
		t.Fatalf("config.changed events = %+v", changed)
	}
	if app.Session().State() != reveal.Idle {
		t.Errorf("State() after change = %v, want idle", app.Session().State())
	}

	moveRight(t, app, 1)
	if got := screen.Row(0); got != "a bold word" {
		t.Errorf("Row(0) = %q, want markers hidden", got)
	}

	if err := app.Config().Set(config.KeyHideEmphasis, false); err != nil {
		t.Fatal(err)
	}
	app.View().Refresh()
	if got := screen.Row(0); got != "a **bold** word" {
		t.Errorf("Row(0) = %q, want markers shown by presentation", got)
	}
}

func TestInitScript(t *testing.T) {
	script := writeTemp(t, "init.lua", `
local peek = require("peek")
peek.set("reveal.links", false)
`)
	app, _ := newApp(t, Options{InitScript: script})

	if v, _ := app.Config().Get(config.KeyRevealLinks); v != false {
		t.Errorf("reveal.links = %v, want false", v)
	}
	if app.Config().WhichLayer(config.KeyRevealLinks) != "runtime" {
		t.Errorf("layer = %q, want runtime", app.Config().WhichLayer(config.KeyRevealLinks))
	}
}

func TestScriptOverlayBlocksMathReveal(t *testing.T) {
	path := writeTemp(t, "notes.md", "$x^2$ y")
	script := writeTemp(t, "init.lua", `
local peek = require("peek")
preview = peek.overlay(0, 5, "x²", "math-preview")
`)
	app, screen := newApp(t, Options{File: path, InitScript: script})

	revealed := 0
	_, err := app.Bus().SubscribeFunc(events.TopicRevealRevealed, func(context.Context, any) error {
		revealed++
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}

	if got := app.Overlays().Count(); got != 1 {
		t.Fatalf("overlays = %d, want 1", got)
	}
	moveRight(t, app, 1)

	if got := screen.Row(0); got != "x² y" {
		t.Errorf("Row(0) = %q, want the overlay text", got)
	}
	if revealed != 0 {
		t.Errorf("revealed events = %d under a math-preview overlay, want 0", revealed)
	}

	if err := app.Lua().DoString(`require("peek").remove_overlay(preview)`); err != nil {
		t.Fatalf("remove_overlay error = %v", err)
	}
	for _, name := range []string{"cursor.line-end", "cursor.line-start"} {
		if err := app.View().Execute(name, backend.Event{}); err != nil {
			t.Fatalf("Execute(%q) error = %v", name, err)
		}
	}
	if revealed != 1 {
		t.Errorf("revealed events = %d after removing the overlay, want 1", revealed)
	}
	if got := screen.Row(0); got != "$x^2$ y" {
		t.Errorf("Row(0) = %q, want the raw math", got)
	}
}

func TestInitScriptErrorIsLogged(t *testing.T) {
	script := writeTemp(t, "init.lua", `error("boom")`)
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf, Prefix: "peekmark"})

	newApp(t, Options{InitScript: script, Logger: logger})

	out := buf.String()
	if !strings.Contains(out, "boom") || !strings.Contains(out, "component=lua") {
		t.Errorf("log = %q, want the script error", out)
	}
}

func TestDisabledOption(t *testing.T) {
	app, _ := newApp(t, Options{Disabled: true})
	if app.Session().Enabled() {
		t.Error("session enabled with Disabled option")
	}
}

func TestRun(t *testing.T) {
	path := writeTemp(t, "notes.md", "text")
	app, screen := newApp(t, Options{File: path})

	screen.PostEvent(backend.Event{Type: backend.EventKey, Key: backend.KeyRune, Rune: '!'})
	screen.PostEvent(key(backend.KeyCtrlS))
	screen.PostEvent(key(backend.KeyCtrlQ))
	if err := app.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if app.IsRunning() {
		t.Error("IsRunning() = true after Run returned")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "!text" {
		t.Errorf("file = %q, want %q", data, "!text")
	}
}

func TestRunWithoutBackend(t *testing.T) {
	app, err := New(Options{Environ: noEnv})
	if err != nil {
		t.Fatal(err)
	}
	defer app.Shutdown()

	if err := app.Run(context.Background()); !errors.Is(err, ErrNoBackend) {
		t.Errorf("Run() error = %v, want ErrNoBackend", err)
	}
}

func TestShutdownIdempotent(t *testing.T) {
	app, _ := newApp(t, Options{})
	if err := app.Shutdown(); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if err := app.Shutdown(); err != nil {
		t.Errorf("second Shutdown() error = %v", err)
	}
	if !app.Lua().IsClosed() {
		t.Error("Lua state open after Shutdown")
	}
}

func TestWriteFileKeepsMode(t *testing.T) {
	path := writeTemp(t, "notes.md", "old")
	if err := os.Chmod(path, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := writeFile(path, []byte("new")); err != nil {
		t.Fatalf("writeFile() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("mode = %v, want 0600", info.Mode().Perm())
	}
	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}
