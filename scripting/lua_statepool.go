package scripting

import (
	"fmt"
	"sync"

	gopherJson "github.com/layeh/gopher-json"
	"github.com/yuin/gopher-lua"
)

var DefaultModuleLoaders = map[string]func(*lua.LState) int{
	ModuleName: NewModuleLoader(map[string]lua.LGFunction{
		"trim": luaTrim,
	}),
	"gopherJson": gopherJson.Loader,
}

// A very slightly modified version of the lStatePool from the gopher-lua readme
// https://github.com/yuin/gopher-lua#the-lstate-pool-pattern
type lStatePool struct {
	m             sync.Mutex
	saved         []*lua.LState
	script        string
	moduleLoaders map[string]func(*lua.LState) int
}

// NewLStatePool loads script once to check it compiles and runs, then
// returns a pool of interpreters running it.
func NewLStatePool(script string, capacity int, moduleLoaders map[string]func(*lua.LState) int) (*lStatePool, error) {
	pl := &lStatePool{
		saved:         make([]*lua.LState, 0, capacity),
		script:        script,
		moduleLoaders: moduleLoaders,
	}
	l, err := pl.New()
	if err != nil {
		return nil, err
	}
	pl.Put(l)
	return pl, nil
}

func (pl *lStatePool) Get() (*lua.LState, error) {
	pl.m.Lock()
	n := len(pl.saved)
	if n == 0 {
		pl.m.Unlock()
		return pl.New()
	}
	x := pl.saved[n-1]
	pl.saved = pl.saved[0 : n-1]
	pl.m.Unlock()
	return x, nil
}

func (pl *lStatePool) New() (*lua.LState, error) {
	l := lua.NewState()
	for modName, loader := range pl.moduleLoaders {
		l.PreloadModule(modName, loader)
	}
	if err := l.DoFile(pl.script); err != nil {
		l.Close()
		return nil, fmt.Errorf("loading %s: %w", pl.script, err)
	}
	return l, nil
}

func (pl *lStatePool) Put(l *lua.LState) {
	pl.m.Lock()
	defer pl.m.Unlock()
	pl.saved = append(pl.saved, l)
}

func (pl *lStatePool) Shutdown() {
	pl.m.Lock()
	defer pl.m.Unlock()
	for _, l := range pl.saved {
		l.Close()
	}
	pl.saved = nil
}
