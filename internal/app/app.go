package app

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/dshills/peekmark/internal/config"
	"github.com/dshills/peekmark/internal/config/notify"
	"github.com/dshills/peekmark/internal/document"
	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/plugin/lua"
	"github.com/dshills/peekmark/internal/renderer"
	"github.com/dshills/peekmark/internal/renderer/backend"
	"github.com/dshills/peekmark/internal/renderer/overlay"
	"github.com/dshills/peekmark/internal/reveal"
	"github.com/dshills/peekmark/internal/source/markdown"
	"github.com/dshills/peekmark/internal/view"
)

// Options configures the application.
type Options struct {
	// File is the markdown file to open. A missing file starts empty and
	// is created on save. Empty opens an unnamed scratch document.
	File string

	// ConfigPath is the settings file (.toml, .yaml or .yml).
	ConfigPath string

	// WatchConfig reloads the settings file when it changes.
	WatchConfig bool

	// InitScript is a Lua file run after startup.
	InitScript string

	// Disabled opens the document with cursor tracking off.
	Disabled bool

	// Logger receives diagnostics. Nil disables logging.
	Logger *Logger

	// Environ replaces the process environment for configuration.
	Environ func() []string
}

// Application owns every component of one peekmark session.
type Application struct {
	opts   Options
	logger *Logger

	bus       event.Bus
	config    *config.Config
	doc       *document.Document
	source    *markdown.Source
	overlays  *overlay.Manager
	presenter *renderer.Presenter
	scheduler *renderer.Scheduler
	manager   *reveal.Manager
	session   *reveal.Session

	lua  *lua.State
	peek *lua.Module

	backend backend.Backend
	view    *view.View

	subs        []event.Subscription
	configSub   *notify.Subscription
	cancelEdits func()

	running      atomic.Bool
	shutdownOnce sync.Once
}

// New creates an application and starts every component except the view.
func New(opts Options) (*Application, error) {
	app := &Application{opts: opts, logger: opts.Logger}
	if app.logger == nil {
		app.logger = NullLogger
	}
	if err := app.bootstrap(); err != nil {
		app.Shutdown()
		return nil, err
	}
	return app, nil
}

// bootstrap initializes all components in dependency order.
func (app *Application) bootstrap() error {
	log := app.logger.WithComponent("app")

	// 1. Event bus
	app.bus = event.NewBus(event.WithErrorHandler(func(_ any, err error) {
		app.logger.WithComponent("bus").Warn("handler error: %v", err)
	}))

	// 2. Configuration
	configOpts := []config.Option{
		config.WithWatcher(app.opts.WatchConfig && app.opts.ConfigPath != ""),
		config.WithReloadErrorHandler(app.reloadFailed),
	}
	if app.opts.ConfigPath != "" {
		configOpts = append(configOpts, config.WithFile(app.opts.ConfigPath))
	}
	if app.opts.Environ != nil {
		configOpts = append(configOpts, config.WithEnviron(app.opts.Environ))
	}
	app.config = config.New(configOpts...)
	if err := app.config.Load(context.Background()); err != nil {
		return &InitError{Component: "config", Err: err}
	}
	settings := app.config.Settings()
	log.Debug("settings loaded, trigger %s", settings.Trigger)

	// 3. Document
	text, err := readDocument(app.opts.File)
	if err != nil {
		return err
	}
	name := "[scratch]"
	if app.opts.File != "" {
		name = filepath.Base(app.opts.File)
	}
	app.doc = document.New(name, text)
	app.overlays = overlay.NewManager()
	app.cancelEdits = app.doc.OnEdit(func(_ *document.Document, e document.Edit) {
		app.overlays.Adjust(e.Pos, e.Pos+e.DeletedLen(), e.InsertedLen())
	})

	// 4. Element source and presentation
	calc := reveal.NewCalculator(reveal.WithOverlays(app.overlays))
	app.source = markdown.NewSource(app.doc)
	app.presenter = renderer.NewPresenter(app.source, calc, settings)
	app.scheduler = renderer.NewScheduler(app.doc, app.presenter)

	// 5. Reveal session
	app.manager = reveal.NewManager(app.bus, settings)
	app.session, err = app.manager.Open(app.doc, app.source, app.scheduler,
		reveal.WithCalculator(calc), reveal.WithEnabled(!app.opts.Disabled))
	if err != nil {
		return &InitError{Component: "reveal", Err: err}
	}
	log.Info("opened %s (%d runes)", name, app.doc.Len())

	app.subscribe()

	// 6. Lua
	app.lua = lua.NewState()
	app.peek = lua.NewModule(app,
		lua.WithSettings(app.config),
		lua.WithBus(app.bus),
		lua.WithOverlays(app.overlays),
	)
	app.peek.Install(app.lua)
	if app.opts.InitScript != "" {
		if err := app.lua.DoFile(app.opts.InitScript); err != nil {
			// A broken init script should not keep the document from opening.
			app.logger.WithComponent("lua").Error("%s: %v", app.opts.InitScript, err)
		}
	}
	return nil
}

// readDocument returns the contents of path, or "" when path is empty or
// does not exist yet.
func readDocument(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", &FileError{Op: "open", Path: path, Err: err}
	}
	return string(data), nil
}

// Session returns the reveal session of the open document.
func (app *Application) Session() *reveal.Session {
	return app.session
}

// Point returns the cursor offset, or 0 before a view is attached.
func (app *Application) Point() int {
	if app.view == nil {
		return 0
	}
	return app.view.Point()
}

// Document returns the open document.
func (app *Application) Document() *document.Document {
	return app.doc
}

// Config returns the configuration.
func (app *Application) Config() *config.Config {
	return app.config
}

// Bus returns the event bus.
func (app *Application) Bus() event.Bus {
	return app.bus
}

// Lua returns the Lua state.
func (app *Application) Lua() *lua.State {
	return app.lua
}

// Overlays returns the overlay manager of the open document.
func (app *Application) Overlays() *overlay.Manager {
	return app.overlays
}

// View returns the attached view, or nil.
func (app *Application) View() *view.View {
	return app.view
}
