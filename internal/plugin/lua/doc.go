// Package lua runs user scripts against the reveal session of the active
// document.
//
// A State is a gopher-lua interpreter with io, os, debug and file loading
// removed. The peek module is preloaded into it:
//
//	local peek = require("peek")
//
//	peek.on("reveal", function(e)
//	    print(e.kind, e.start, e["end"])
//	end)
//
//	if not peek.reveal_at_point() then
//	    peek.set("reveal.trigger", "always")
//	end
//
// Module functions:
//
//	peek.reveal_at_point([pos]) -> bool     reveal the element at pos or the cursor
//	peek.stop()                             conceal and return to idle
//	peek.enable() / peek.disable()          start or stop tracking
//	peek.enabled() -> bool
//	peek.state() -> "idle" | "tracking"
//	peek.current() -> table | nil           {kind, start, end}
//	peek.point() -> int                     cursor offset
//	peek.get(key) -> value | nil            read a setting
//	peek.set(key, value)                    change a setting at runtime
//	peek.on(name, fn) -> id                 name is "reveal" or "conceal"
//	peek.off(id) -> bool
//	peek.overlay(start, end, text [, layer [, priority]]) -> id
//	peek.get_overlay(id) -> table | nil     {layer, start, end, text, hidden}
//	peek.hide_overlay(id [, hidden]) -> bool
//	peek.remove_overlay(id) -> bool
//	peek.clear_overlays([layer]) -> count
//
// Overlays draw text in place of a document range. Math elements under an
// overlay of a layer other than "peekmark", such as "math-preview", are not
// revealed.
//
// Thread Safety:
//
// gopher-lua states are not goroutine-safe. A State and its module must be
// used from the UI loop that owns the documents; event callbacks run
// synchronously on the publishing goroutine.
package lua
