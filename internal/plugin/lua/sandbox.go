package lua

import (
	lua "github.com/yuin/gopher-lua"
)

// sandbox removes file loading from a state and limits require to the
// built-in libraries and preloaded modules.
type sandbox struct {
	L       *lua.LState
	modules map[string]bool
}

func newSandbox(L *lua.LState) *sandbox {
	return &sandbox{
		L: L,
		modules: map[string]bool{
			"string":    true,
			"table":     true,
			"math":      true,
			"coroutine": true,
		},
	}
}

func (s *sandbox) allow(name string) {
	s.modules[name] = true
}

func (s *sandbox) install() {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		s.L.SetGlobal(name, lua.LNil)
	}

	if pkg, ok := s.L.GetGlobal("package").(*lua.LTable); ok {
		s.L.SetField(pkg, "path", lua.LString(""))
		s.L.SetField(pkg, "cpath", lua.LString(""))
	}

	original := s.L.GetGlobal("require")
	s.L.SetGlobal("require", s.L.NewFunction(func(L *lua.LState) int {
		name := L.CheckString(1)
		if !s.modules[name] {
			L.RaiseError("module %q is not available", name)
			return 0
		}
		L.Push(original)
		L.Push(lua.LString(name))
		L.Call(1, 1)
		return 1
	}))
}
