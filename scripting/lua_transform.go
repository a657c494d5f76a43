package scripting

import (
	"errors"

	"github.com/yuin/gluamapper"
	"github.com/yuin/gopher-lua"
)

// LRecord is a line on its way into the ring.
type LRecord struct {
	Line string
	// Skip drops the line entirely.
	Skip bool
	// Remove pushes an absent slot in place of the line.
	Remove bool
}

// NewTransformer returns a function that calls the nanobuffer.transform
// function and maps the table it returns onto the record. A nil return
// leaves the record unchanged.
func NewTransformer(luaPool *lStatePool) func(*LRecord, uint64) error {
	return func(rec *LRecord, seq uint64) error {
		l, err := luaPool.Get()
		if err != nil {
			return err
		}
		defer luaPool.Put(l)

		fn := l.GetField(l.GetGlobal(ModuleName), "transform")
		if fn.Type() != lua.LTFunction {
			return errors.New("script does not define nanobuffer.transform")
		}
		if err := l.CallByParam(lua.P{
			Fn:      fn,
			NRet:    1,
			Protect: true,
		}, lua.LString(rec.Line), lua.LNumber(float64(seq))); err != nil {
			return err
		}
		defer l.Pop(1)

		switch ret := l.Get(-1).(type) {
		case *lua.LNilType:
			return nil
		case *lua.LTable:
			return gluamapper.Map(ret, rec)
		}
		return errors.New("Unable to get return value from lua stack")
	}
}
