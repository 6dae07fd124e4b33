// Package config provides the peekmark settings system.
//
// Settings are organized in layers, higher layers overriding lower:
//
//	┌─────────────────────────────┐
//	│  4. Runtime (Set, Lua)      │  ← Highest priority
//	├─────────────────────────────┤
//	│  3. Environment Variables   │  ← PEEKMARK_REVEAL_TRIGGER=manual
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← peekmark.toml or peekmark.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Sub-packages
//
//   - loader: TOML, YAML and environment loading
//   - layer: layer management and merging
//   - watcher: settings file watching for live reload
//   - notify: change notification
//
// # Basic Usage
//
//	cfg := config.New(config.WithFile("peekmark.toml"), config.WithWatcher(true))
//	if err := cfg.Load(ctx); err != nil {
//	    return err
//	}
//	defer cfg.Close()
//
//	settings := cfg.Settings()
//	cfg.SubscribePath("reveal", func(c notify.Change) {
//	    manager.UpdateSettings(cfg.Settings())
//	})
//
// # Settings
//
//	[markers]
//	hide_emphasis     = true
//	pretty_entities   = true
//	descriptive_links = true
//	hidden_keywords   = ["title", "author", "date", "email"]
//
//	[reveal]
//	emphasis   = true
//	submarkers = true
//	entities   = true
//	links      = true
//	keywords   = true
//	math       = true
//	trigger    = "always"   # always | on-change | manual
//
// # Thread Safety
//
// Config is safe for concurrent use. Observers registered with Subscribe run
// on the goroutine that made the change; live reloads run on the watcher's
// goroutine.
package config
