package script

import (
	"fmt"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/dshills/settingskit/internal/panel"
	"github.com/dshills/settingskit/internal/pathstore"
	"github.com/dshills/settingskit/internal/setting"
)

// field turns one entry of a declaration table into a change.
type field func(r *Runtime, v lua.LValue) (setting.Change, error)

// fieldOrder fixes the order changes are applied in.
var fieldOrder = []string{
	"kind", "name", "tooltip", "path", "default",
	"min", "max", "step", "choices", "images", "max_length",
	"get", "set", "on_change", "on_activate",
}

var fields = map[string]field{
	"kind": func(_ *Runtime, v lua.LValue) (setting.Change, error) {
		s, err := asString("kind", v)
		if err != nil {
			return nil, err
		}
		k, err := setting.ParseKind(s)
		if err != nil {
			return nil, err
		}
		return func(d *setting.Definition) { d.Kind = k }, nil
	},
	"name":    stringField("name", setting.WithName),
	"tooltip": stringField("tooltip", setting.WithTooltip),
	"path":    stringField("path", setting.WithPath),
	"default": func(_ *Runtime, v lua.LValue) (setting.Change, error) {
		return setting.WithDefault(toGo(v)), nil
	},
	"min":  numberField("min", func(d *setting.Definition, f float64) { d.Min = f }),
	"max":  numberField("max", func(d *setting.Definition, f float64) { d.Max = f }),
	"step": numberField("step", func(d *setting.Definition, f float64) { d.Step = f }),
	"choices": func(_ *Runtime, v lua.LValue) (setting.Change, error) {
		if _, ok := v.(*lua.LTable); !ok {
			return nil, fmt.Errorf("choices: want a list, got %s", v.Type())
		}
		return setting.WithChoices(stringList(v)...), nil
	},
	"images": func(_ *Runtime, v lua.LValue) (setting.Change, error) {
		if _, ok := v.(*lua.LTable); !ok {
			return nil, fmt.Errorf("images: want a list, got %s", v.Type())
		}
		return setting.WithImages(stringList(v)...), nil
	},
	"max_length": numberField("max_length", func(d *setting.Definition, f float64) { d.MaxLength = int(f) }),
	"get": funcField("get", func(r *Runtime, fn *lua.LFunction) setting.Change {
		return func(d *setting.Definition) {
			d.Getter = func() any { return toGo(r.call("get", fn, 1)) }
		}
	}),
	"set": funcField("set", func(r *Runtime, fn *lua.LFunction) setting.Change {
		return func(d *setting.Definition) {
			d.Setter = func(v any) { r.call("set", fn, 0, toLua(r.L, v)) }
		}
	}),
	"on_change": funcField("on_change", func(r *Runtime, fn *lua.LFunction) setting.Change {
		return setting.WithOnChange(func(v any) { r.call("on_change", fn, 0, toLua(r.L, v)) })
	}),
	"on_activate": funcField("on_activate", func(r *Runtime, fn *lua.LFunction) setting.Change {
		return setting.WithOnActivate(func() { r.call("on_activate", fn, 0) })
	}),
}

func asString(key string, v lua.LValue) (string, error) {
	s, ok := v.(lua.LString)
	if !ok {
		return "", fmt.Errorf("%s: want a string, got %s", key, v.Type())
	}
	return string(s), nil
}

func stringField(key string, change func(string) setting.Change) field {
	return func(_ *Runtime, v lua.LValue) (setting.Change, error) {
		s, err := asString(key, v)
		if err != nil {
			return nil, err
		}
		return change(s), nil
	}
}

func numberField(key string, set func(*setting.Definition, float64)) field {
	return func(_ *Runtime, v lua.LValue) (setting.Change, error) {
		n, ok := v.(lua.LNumber)
		if !ok {
			return nil, fmt.Errorf("%s: want a number, got %s", key, v.Type())
		}
		return func(d *setting.Definition) { set(d, float64(n)) }, nil
	}
}

func funcField(key string, change func(*Runtime, *lua.LFunction) setting.Change) field {
	return func(r *Runtime, v lua.LValue) (setting.Change, error) {
		fn, ok := v.(*lua.LFunction)
		if !ok {
			return nil, fmt.Errorf("%s: want a function, got %s", key, v.Type())
		}
		return change(r, fn), nil
	}
}

// changes reads a declaration table. Unknown keys are errors. skip names
// keys handled by the caller.
func (r *Runtime) changes(t *lua.LTable, skip ...string) ([]setting.Change, error) {
	var unknown []string
	t.ForEach(func(k, _ lua.LValue) {
		key := k.String()
		if _, ok := fields[key]; ok {
			return
		}
		for _, s := range skip {
			if key == s {
				return
			}
		}
		unknown = append(unknown, key)
	})
	if len(unknown) > 0 {
		return nil, fmt.Errorf("unknown field %s", strings.Join(unknown, ", "))
	}

	var out []setting.Change
	for _, key := range fieldOrder {
		v := t.RawGetString(key)
		if v == lua.LNil {
			continue
		}
		c, err := fields[key](r, v)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *Runtime) register() {
	mod := r.L.NewTable()
	r.L.SetFuncs(mod, map[string]lua.LGFunction{
		"add":     r.add,
		"remove":  r.remove,
		"update":  r.update,
		"get":     r.get,
		"set":     r.set,
		"reset":   r.reset,
		"refresh": r.refresh,
	})
	r.L.SetField(mod, "panel", lua.LString(r.host.Name()))
	r.L.SetGlobal("settings", mod)
}

// add{kind=..., name=..., after=...} -> id
func (r *Runtime) add(L *lua.LState) int {
	t := L.CheckTable(1)
	changes, err := r.changes(t, "after")
	if err != nil {
		L.ArgError(1, err.Error())
		return 0
	}
	def := &setting.Definition{}
	def.Apply(changes...)

	var h *panel.Handle
	if after, ok := t.RawGetString("after").(lua.LString); ok {
		h, err = r.host.AddSettingAfter(def, string(after))
	} else {
		h, err = r.host.AddSetting(def)
	}
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LString(h.ID().String()))
	return 1
}

// remove(name) -> bool
func (r *Runtime) remove(L *lua.LState) int {
	name := L.CheckString(1)
	L.Push(lua.LBool(r.host.RemoveSetting(setting.ByName(name))))
	return 1
}

// update(name, {fields}) -> bool
func (r *Runtime) update(L *lua.LState) int {
	name := L.CheckString(1)
	t := L.CheckTable(2)
	changes, err := r.changes(t)
	if err != nil {
		L.ArgError(2, err.Error())
		return 0
	}
	ok, err := r.host.UpdateSetting(setting.ByName(name), changes...)
	if err != nil {
		L.RaiseError("%v", err)
		return 0
	}
	L.Push(lua.LBool(ok))
	return 1
}

// get(path) -> value or nil
func (r *Runtime) get(L *lua.LState) int {
	v, ok := pathstore.Get(r.host.Store(), L.CheckString(1))
	if !ok {
		L.Push(lua.LNil)
		return 1
	}
	L.Push(toLua(L, v))
	return 1
}

// set(path, value) writes through the panel, which publishes the write
// and refreshes.
func (r *Runtime) set(L *lua.LState) int {
	path := L.CheckString(1)
	if err := r.host.SetValue(path, toGo(L.CheckAny(2))); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// reset() restores every default.
func (r *Runtime) reset(L *lua.LState) int {
	if err := r.host.ResetToDefaults(); err != nil {
		L.RaiseError("%v", err)
	}
	return 0
}

// refresh() -> number of rows repainted
func (r *Runtime) refresh(L *lua.LState) int {
	L.Push(lua.LNumber(r.host.RefreshAll()))
	return 1
}
