package lua

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/peekmark/internal/event"
	"github.com/dshills/peekmark/internal/event/events"
	"github.com/dshills/peekmark/internal/event/topic"
	"github.com/dshills/peekmark/internal/renderer/overlay"
	"github.com/dshills/peekmark/internal/reveal"
)

// ModuleName is the name scripts require.
const ModuleName = "peek"

// Editor is the host view scripts drive.
type Editor interface {
	// Session returns the reveal session of the active document, or nil.
	Session() *reveal.Session

	// Point returns the cursor offset in the active document.
	Point() int
}

// Settings is the configuration scripts read and change.
type Settings interface {
	Get(path string) (any, bool)
	Set(path string, value any) error
}

// Module implements the peek API.
type Module struct {
	editor   Editor
	settings Settings
	bus      event.Bus
	overlays *overlay.Manager

	mu     sync.Mutex
	hooks  map[string]event.Subscription
	nextID int
}

// ModuleOption configures a Module.
type ModuleOption func(*Module)

// WithSettings gives scripts access to configuration.
func WithSettings(s Settings) ModuleOption {
	return func(m *Module) {
		m.settings = s
	}
}

// WithBus lets scripts hook reveal and conceal events.
func WithBus(b event.Bus) ModuleOption {
	return func(m *Module) {
		m.bus = b
	}
}

// WithOverlays lets scripts place display overlays.
func WithOverlays(o *overlay.Manager) ModuleOption {
	return func(m *Module) {
		m.overlays = o
	}
}

// NewModule creates the peek module for editor.
func NewModule(editor Editor, opts ...ModuleOption) *Module {
	m := &Module{
		editor: editor,
		hooks:  make(map[string]event.Subscription),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Install preloads the module into s.
func (m *Module) Install(s *State) {
	s.Preload(ModuleName, m.load)
}

func (m *Module) load(L *lua.LState) int {
	mod := L.SetFuncs(L.NewTable(), map[string]lua.LGFunction{
		"reveal_at_point": m.revealAtPoint,
		"stop":            m.stop,
		"enable":          m.enable,
		"disable":         m.disable,
		"enabled":         m.enabled,
		"state":           m.state,
		"current":         m.current,
		"point":           m.point,
		"get":             m.get,
		"set":             m.set,
		"on":              m.on,
		"off":             m.off,
		"overlay":         m.overlay,
		"get_overlay":     m.getOverlay,
		"hide_overlay":    m.hideOverlay,
		"remove_overlay":  m.removeOverlay,
		"clear_overlays":  m.clearOverlays,
	})
	L.Push(mod)
	return 1
}

// Close removes every event hook registered by scripts.
func (m *Module) Close() {
	m.mu.Lock()
	hooks := m.hooks
	m.hooks = make(map[string]event.Subscription)
	m.mu.Unlock()

	for _, sub := range hooks {
		_ = m.bus.Unsubscribe(sub)
	}
}

// HookCount returns the number of registered event hooks.
func (m *Module) HookCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.hooks)
}

func (m *Module) session() *reveal.Session {
	if m.editor == nil {
		return nil
	}
	return m.editor.Session()
}

// reveal_at_point([pos]) -> bool
func (m *Module) revealAtPoint(L *lua.LState) int {
	s := m.session()
	if s == nil {
		L.Push(lua.LFalse)
		return 1
	}
	pos := L.OptInt(1, m.editor.Point())
	L.Push(lua.LBool(s.RevealAtPoint(pos)))
	return 1
}

// stop()
func (m *Module) stop(L *lua.LState) int {
	if s := m.session(); s != nil {
		s.Stop()
	}
	return 0
}

// enable()
func (m *Module) enable(L *lua.LState) int {
	s := m.session()
	if s == nil {
		L.RaiseError("peek.enable: no active document")
		return 0
	}
	if err := s.Enable(); err != nil {
		L.RaiseError("peek.enable: %v", err)
	}
	return 0
}

// disable()
func (m *Module) disable(L *lua.LState) int {
	if s := m.session(); s != nil {
		s.Disable()
	}
	return 0
}

// enabled() -> bool
func (m *Module) enabled(L *lua.LState) int {
	s := m.session()
	L.Push(lua.LBool(s != nil && s.Enabled()))
	return 1
}

// state() -> "idle" | "tracking"
func (m *Module) state(L *lua.LState) int {
	state := reveal.Idle
	if s := m.session(); s != nil {
		state = s.State()
	}
	L.Push(lua.LString(state.String()))
	return 1
}

// current() -> {kind, start, end} | nil
func (m *Module) current(L *lua.LState) int {
	s := m.session()
	if s == nil || s.Current() == nil {
		L.Push(lua.LNil)
		return 1
	}
	e := s.Current()
	t := L.NewTable()
	t.RawSetString("kind", lua.LString(e.Kind.String()))
	t.RawSetString("start", lua.LNumber(e.Begin))
	t.RawSetString("end", lua.LNumber(e.ContentEnd()))
	L.Push(t)
	return 1
}

// point() -> int
func (m *Module) point(L *lua.LState) int {
	if m.editor == nil {
		L.Push(lua.LNumber(0))
		return 1
	}
	L.Push(lua.LNumber(m.editor.Point()))
	return 1
}

// get(key) -> value | nil
func (m *Module) get(L *lua.LState) int {
	key := L.CheckString(1)
	if m.settings == nil {
		L.Push(lua.LNil)
		return 1
	}
	v, ok := m.settings.Get(key)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toLua(L, v))
	return 1
}

// set(key, value)
func (m *Module) set(L *lua.LState) int {
	key := L.CheckString(1)
	value := L.CheckAny(2)
	if m.settings == nil {
		L.RaiseError("peek.set: no configuration available")
		return 0
	}
	if err := m.settings.Set(key, toGo(value)); err != nil {
		L.RaiseError("peek.set: %v", err)
	}
	return 0
}

// on(name, fn) -> id
func (m *Module) on(L *lua.LState) int {
	name := L.CheckString(1)
	fn := L.CheckFunction(2)

	var t topic.Topic
	switch name {
	case "reveal":
		t = events.TopicRevealRevealed
	case "conceal":
		t = events.TopicRevealConcealed
	default:
		L.ArgError(1, "expected \"reveal\" or \"conceal\"")
		return 0
	}
	if m.bus == nil {
		L.RaiseError("peek.on: no event bus available")
		return 0
	}

	sub, err := m.bus.SubscribeFunc(t, func(_ context.Context, e any) error {
		p, ok := event.PayloadOf[events.RevealToggled](e)
		if !ok {
			return nil
		}
		arg := L.NewTable()
		arg.RawSetString("document", lua.LString(p.Document))
		arg.RawSetString("kind", lua.LString(p.Kind))
		arg.RawSetString("start", lua.LNumber(p.Start))
		arg.RawSetString("end", lua.LNumber(p.End))
		if err := L.CallByParam(lua.P{Fn: fn, NRet: 0, Protect: true}, arg); err != nil {
			return fmt.Errorf("peek %s hook: %w", name, err)
		}
		return nil
	})
	if err != nil {
		L.RaiseError("peek.on: %v", err)
		return 0
	}

	m.mu.Lock()
	m.nextID++
	id := fmt.Sprintf("%s_%d", name, m.nextID)
	m.hooks[id] = sub
	m.mu.Unlock()

	L.Push(lua.LString(id))
	return 1
}

// off(id) -> bool
func (m *Module) off(L *lua.LState) int {
	id := L.CheckString(1)

	m.mu.Lock()
	sub, ok := m.hooks[id]
	delete(m.hooks, id)
	m.mu.Unlock()

	if ok {
		_ = m.bus.Unsubscribe(sub)
	}
	L.Push(lua.LBool(ok))
	return 1
}

func (m *Module) checkOverlays(L *lua.LState, fn string) bool {
	if m.overlays == nil {
		L.RaiseError("peek.%s: no overlay manager available", fn)
		return false
	}
	return true
}

// overlay(start, end, text [, layer [, priority]]) -> id
func (m *Module) overlay(L *lua.LState) int {
	start := L.CheckInt(1)
	end := L.CheckInt(2)
	text := L.CheckString(3)
	layer := L.OptString(4, overlay.LayerScript)
	priority := L.OptInt(5, int(overlay.PriorityNormal))
	if start < 0 || end <= start {
		L.ArgError(2, "empty or negative range")
		return 0
	}
	if priority < 0 || priority > 255 {
		L.ArgError(5, "priority out of range 0-255")
		return 0
	}
	if !m.checkOverlays(L, "overlay") {
		return 0
	}
	L.Push(lua.LString(m.overlays.Add(layer, start, end, text, overlay.Priority(priority))))
	return 1
}

// get_overlay(id) -> {layer, start, end, text, hidden} | nil
func (m *Module) getOverlay(L *lua.LState) int {
	id := L.CheckString(1)
	if !m.checkOverlays(L, "get_overlay") {
		return 0
	}
	o, ok := m.overlays.Get(id)
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	t := L.NewTable()
	t.RawSetString("layer", lua.LString(o.Layer))
	t.RawSetString("start", lua.LNumber(o.Start))
	t.RawSetString("end", lua.LNumber(o.End))
	t.RawSetString("text", lua.LString(o.Text))
	t.RawSetString("hidden", lua.LBool(o.Hidden))
	L.Push(t)
	return 1
}

// hide_overlay(id [, hidden]) -> bool
func (m *Module) hideOverlay(L *lua.LState) int {
	id := L.CheckString(1)
	hidden := L.OptBool(2, true)
	if !m.checkOverlays(L, "hide_overlay") {
		return 0
	}
	L.Push(lua.LBool(m.overlays.SetHidden(id, hidden)))
	return 1
}

// remove_overlay(id) -> bool
func (m *Module) removeOverlay(L *lua.LState) int {
	id := L.CheckString(1)
	if !m.checkOverlays(L, "remove_overlay") {
		return 0
	}
	L.Push(lua.LBool(m.overlays.Remove(id)))
	return 1
}

// clear_overlays([layer]) -> count
func (m *Module) clearOverlays(L *lua.LState) int {
	if !m.checkOverlays(L, "clear_overlays") {
		return 0
	}
	if L.GetTop() >= 1 {
		L.Push(lua.LNumber(m.overlays.ClearLayer(L.CheckString(1))))
		return 1
	}
	n := m.overlays.Count()
	m.overlays.Clear()
	L.Push(lua.LNumber(n))
	return 1
}
