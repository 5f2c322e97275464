// Package script declares panel settings from Lua.
//
// A script runs in a restricted state with only the base, table, string
// and math libraries. It talks to its panel through the global settings
// table:
//
//	settings.add{kind = "toggle", name = "Fullscreen", path = "video.fullscreen", default = false}
//	settings.update("Fullscreen", {tooltip = "Use the whole screen"})
//	settings.remove("Fullscreen")
//	settings.get("video.fullscreen")
//	settings.set("video.fullscreen", true)
//	settings.reset()
//
// Lua callbacks (get, set, on_change, on_activate) run on the goroutine
// that drives the panel. The Runtime is not safe for concurrent use.
package script

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/settingskit/internal/logging"
	"github.com/dshills/settingskit/internal/panel"
	"github.com/dshills/settingskit/internal/setting"
)

// DefaultTimeout bounds one script run or callback.
const DefaultTimeout = 5 * time.Second

// ErrClosed is returned after Close.
var ErrClosed = errors.New("script runtime closed")

// Host is the panel a script declares settings on. *panel.Panel
// implements it.
type Host interface {
	Name() string
	Store() map[string]any
	AddSetting(def *setting.Definition) (*panel.Handle, error)
	AddSettingAfter(def *setting.Definition, after string) (*panel.Handle, error)
	RemoveSetting(ref setting.Ref) bool
	UpdateSetting(ref setting.Ref, changes ...setting.Change) (bool, error)
	GetSetting(name string) *setting.Definition
	SetValue(path string, v any) error
	RefreshAll() int
	ResetToDefaults() error
}

// Runtime is a Lua state bound to one panel.
type Runtime struct {
	L       *lua.LState
	host    Host
	log     *log.Logger
	timeout time.Duration
	depth   int
	closed  bool
}

// Option configures a Runtime.
type Option func(*Runtime)

// WithLogger sets the logger. Script print output goes to it.
func WithLogger(l *log.Logger) Option {
	return func(r *Runtime) { r.log = l }
}

// WithTimeout bounds each run and callback. Zero disables the bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Runtime) { r.timeout = d }
}

// New creates a runtime for host.
func New(host Host, opts ...Option) *Runtime {
	r := &Runtime{host: host, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logging.Component(r.log, "script").With("panel", host.Name())

	r.L = lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(r.L)
	r.installPrint()
	r.register()
	return r
}

func openSafeLibraries(L *lua.LState) {
	for _, lib := range []struct {
		name string
		fn   lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		L.Push(L.NewFunction(lib.fn))
		L.Push(lua.LString(lib.name))
		L.Call(1, 0)
	}
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring", "require", "module"} {
		L.SetGlobal(name, lua.LNil)
	}
}

func (r *Runtime) installPrint() {
	r.L.SetGlobal("print", r.L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		r.log.Info(strings.Join(parts, " "))
		return 0
	}))
}

// DoString runs code.
func (r *Runtime) DoString(code string) error {
	if r.closed {
		return ErrClosed
	}
	return r.guard(func() error { return r.L.DoString(code) })
}

// DoFile runs the script at path.
func (r *Runtime) DoFile(path string) error {
	if r.closed {
		return ErrClosed
	}
	return r.guard(func() error { return r.L.DoFile(path) })
}

// Close releases the Lua state. Callbacks registered by the script become
// no-ops.
func (r *Runtime) Close() {
	if r.closed {
		return
	}
	r.closed = true
	r.L.Close()
}

// guard runs fn with the timeout set on the outermost call and turns
// panics into errors.
func (r *Runtime) guard(fn func() error) (err error) {
	if r.depth == 0 && r.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		r.L.SetContext(ctx)
		defer func() {
			r.L.RemoveContext()
			cancel()
		}()
	}
	r.depth++
	defer func() {
		r.depth--
		if p := recover(); p != nil {
			err = fmt.Errorf("lua panic: %v", p)
		}
	}()
	return fn()
}

// call runs a Lua callback and returns its first result. Errors are
// logged; the callback's caller cannot handle them.
func (r *Runtime) call(what string, fn *lua.LFunction, nret int, args ...lua.LValue) lua.LValue {
	if r.closed {
		return lua.LNil
	}
	ret := lua.LValue(lua.LNil)
	err := r.guard(func() error {
		if err := r.L.CallByParam(lua.P{Fn: fn, NRet: nret, Protect: true}, args...); err != nil {
			return err
		}
		if nret > 0 {
			ret = r.L.Get(-1)
			r.L.Pop(nret)
		}
		return nil
	})
	if err != nil {
		r.log.Warn("lua callback failed", "callback", what, "err", err)
		return lua.LNil
	}
	return ret
}
