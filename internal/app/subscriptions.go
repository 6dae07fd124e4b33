package app

import (
	"context"

	"github.com/dshills/peekmark/internal/config"
	"github.com/dshills/peekmark/internal/config/notify"
	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/event/events"
	"github.com/dshills/peekmark/internal/view"
)

// subscribe connects configuration changes to the session and logs reveal
// activity at debug level.
func (app *Application) subscribe() {
	app.configSub = app.config.Subscribe(func(c notify.Change) {
		app.post(func() { app.applySettings(c) })
	})

	log := app.logger.WithComponent("reveal")
	if !log.Enabled(LogLevelDebug) {
		return
	}
	sub, err := app.bus.SubscribeFunc("reveal.*", func(_ context.Context, e any) error {
		tp, ok := e.(event.TopicProvider)
		if !ok {
			return nil
		}
		if p, ok := event.PayloadOf[events.RevealToggled](e); ok {
			log.Debug("%s %s [%d, %d)", tp.EventTopic(), p.Kind, p.Start, p.End)
		}
		return nil
	})
	if err != nil {
		log.Warn("subscribe: %v", err)
		return
	}
	app.subs = append(app.subs, sub)
}

func (app *Application) unsubscribe() {
	if app.configSub != nil {
		app.configSub.Unsubscribe()
		app.configSub = nil
	}
	for _, sub := range app.subs {
		_ = app.bus.Unsubscribe(sub)
	}
	app.subs = nil
}

// post runs fn on the UI goroutine once a view is running, or right away
// before that.
func (app *Application) post(fn func()) {
	if app.view != nil && app.running.Load() {
		app.view.Post(fn)
		return
	}
	fn()
}

// applySettings hands the current settings to the session and the
// presenter, then announces the change.
func (app *Application) applySettings(c notify.Change) {
	log := app.logger.WithComponent("config")
	settings := app.config.Settings()

	if err := app.manager.UpdateSettings(settings); err != nil {
		log.Error("update sessions: %v", err)
	}
	app.presenter.SetSettings(settings)
	app.scheduler.InvalidateAll()

	paths := c.Paths
	if c.Path != "" {
		paths = []string{c.Path}
	}
	log.Info("%s %v from %s", c.Type, paths, c.Source)

	_ = app.bus.Publish(context.Background(), event.NewEvent(events.TopicConfigChanged,
		events.ConfigChanged{Paths: paths, Source: configSource(c.Source)}, "app"))
}

func (app *Application) reloadFailed(err error) {
	app.logger.WithComponent("config").Warn("reload failed: %v", err)
	app.post(func() {
		_ = app.bus.Publish(context.Background(), event.NewEvent(events.TopicConfigReloadFailed,
			events.ConfigReloadFailed{Path: app.config.Path(), Err: err}, "app"))
		if app.view != nil {
			app.view.Status().SetMessage("config: "+err.Error(), view.MessageError)
		}
	})
}

func configSource(s string) events.ConfigSource {
	switch s {
	case config.SourceFile:
		return events.ConfigSourceFile
	case config.SourceEnv:
		return events.ConfigSourceEnv
	case config.SourceRuntime:
		return events.ConfigSourceRuntime
	default:
		return events.ConfigSourceDefault
	}
}
