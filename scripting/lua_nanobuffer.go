package scripting

import (
	"strings"

	"github.com/yuin/gopher-lua"
)

// ModuleName is the name scripts require and the global they define their
// hooks on.
const ModuleName = "nanobuffer"

func NewModuleLoader(exports map[string]lua.LGFunction) func(*lua.LState) int {
	return func(l *lua.LState) int {
		// register functions to the module's exported lua table
		// local nanobuffer = require("nanobuffer")
		mod := l.SetFuncs(l.NewTable(), exports)
		l.Push(mod)
		return 1
	}
}

// trim(s) returns s without surrounding whitespace.
func luaTrim(l *lua.LState) int {
	l.Push(lua.LString(strings.TrimSpace(l.CheckString(1))))
	return 1
}
