package app

import (
	"context"
	"os"
	"path/filepath"

	"github.com/dshills/peekmark/internal/renderer/backend"
	"github.com/dshills/peekmark/internal/view"
)

// SetBackend initializes b and attaches a view of the document to it.
func (app *Application) SetBackend(b backend.Backend) error {
	if app.running.Load() {
		return ErrAlreadyRunning
	}
	if err := b.Init(); err != nil {
		return &InitError{Component: "backend", Err: err}
	}
	if app.view != nil {
		app.view.Close()
	}
	if app.backend != nil {
		app.backend.Shutdown()
	}
	app.backend = b
	app.view = view.New(app.doc, b, app.scheduler,
		view.WithBus(app.bus),
		view.WithSession(app.session),
		view.WithSaver(app.save),
		view.WithOverlays(app.overlays),
	)
	return nil
}

// Run drives the view until the user quits or ctx is done.
func (app *Application) Run(ctx context.Context) error {
	if app.view == nil {
		return ErrNoBackend
	}
	if !app.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer app.running.Store(false)

	app.logger.WithComponent("app").Debug("running")
	return app.view.Run(ctx)
}

// IsRunning reports whether Run is active.
func (app *Application) IsRunning() bool {
	return app.running.Load()
}

// save writes text to the document's file.
func (app *Application) save(text string) error {
	path := app.opts.File
	if path == "" {
		return ErrNoFilePath
	}
	if err := writeFile(path, []byte(text)); err != nil {
		return &FileError{Op: "save", Path: path, Err: err}
	}
	app.logger.WithComponent("app").Info("saved %s", path)
	return nil
}

// writeFile replaces path through a temporary file in the same directory.
func writeFile(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// Shutdown releases every component. It is safe to call more than once.
func (app *Application) Shutdown() error {
	var errs ErrorList
	app.shutdownOnce.Do(func() {
		app.unsubscribe()
		if app.peek != nil {
			app.peek.Close()
		}
		if app.lua != nil {
			errs.Add(app.lua.Close())
		}
		if app.view != nil {
			app.view.Close()
		}
		if app.manager != nil {
			app.manager.CloseAll()
		}
		if app.scheduler != nil {
			app.scheduler.Close()
		}
		if app.cancelEdits != nil {
			app.cancelEdits()
		}
		if app.config != nil {
			errs.Add(app.config.Close())
		}
		if app.backend != nil {
			app.backend.Shutdown()
		}
		app.logger.WithComponent("app").Debug("shut down")
	})
	return errs.AsError()
}
