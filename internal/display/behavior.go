package display

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/dshills/settingskit/internal/capture"
	"github.com/dshills/settingskit/internal/setting"
)

// behavior is what a kind does when its row is activated or stepped.
// A nil step means the kind has no directional input.
type behavior struct {
	activate func(e *Engine, def *setting.Definition, row *Row)
	step     func(e *Engine, def *setting.Definition, row *Row, delta int)
}

var behaviors = map[setting.Kind]behavior{
	setting.KindToggle: {
		activate: flipToggle,
		step:     func(e *Engine, def *setting.Definition, row *Row, _ int) { flipToggle(e, def, row) },
	},
	setting.KindNumber: {
		activate: func(e *Engine, def *setting.Definition, row *Row) { stepNumber(e, def, row, 1) },
		step:     stepNumber,
	},
	setting.KindChoice: {
		activate: func(e *Engine, def *setting.Definition, row *Row) { cycle(e, def, row, def.Choices, 1) },
		step: func(e *Engine, def *setting.Definition, row *Row, delta int) {
			cycle(e, def, row, def.Choices, delta)
		},
	},
	setting.KindImageChoice: {
		activate: func(e *Engine, def *setting.Definition, row *Row) { cycle(e, def, row, def.Images, 1) },
		step: func(e *Engine, def *setting.Definition, row *Row, delta int) {
			cycle(e, def, row, def.Images, delta)
		},
	},
	setting.KindColor:     {activate: captureColor},
	setting.KindText:      {activate: captureText},
	setting.KindAction:    {activate: runAction},
	setting.KindLabel:     {},
	setting.KindSeparator: {},
}

// Activate runs the default interaction of row's definition. Reports
// whether the row's kind reacts to activation.
func (e *Engine) Activate(row *Row) bool {
	def := e.definition(row)
	if def == nil {
		e.log.Warn("activate: row has no setting", "setting", rowID(row))
		return false
	}
	b := behaviors[def.Kind]
	if b.activate == nil {
		return false
	}
	b.activate(e, def, row)
	return true
}

// Step moves row's value by delta (usually -1 or +1). Reports whether the
// kind supports directional input.
func (e *Engine) Step(row *Row, delta int) bool {
	def := e.definition(row)
	if def == nil {
		e.log.Warn("step: row has no setting", "setting", rowID(row))
		return false
	}
	b := behaviors[def.Kind]
	if b.step == nil || delta == 0 {
		return false
	}
	b.step(e, def, row, delta)
	return true
}

func rowID(row *Row) string {
	if row == nil {
		return "<nil>"
	}
	return row.Setting.String()
}

func flipToggle(e *Engine, def *setting.Definition, row *Row) {
	_ = e.commit(def, row, !setting.ToBool(e.resolver.Read(def)))
}

func stepNumber(e *Engine, def *setting.Definition, row *Row, delta int) {
	v, ok := setting.ToFloat(e.resolver.Read(def))
	if !ok {
		v = def.Min
	}
	next := setting.Snap(v+float64(delta)*def.Step, def.Min, def.Max, def.Step)
	_ = e.commit(def, row, next)
}

func cycle(e *Engine, def *setting.Definition, row *Row, values []string, delta int) {
	next, ok := setting.CycleChoice(values, e.resolver.Read(def), delta)
	if !ok {
		return
	}
	_ = e.commit(def, row, next)
}

func captureColor(e *Engine, def *setting.Definition, row *Row) {
	if e.requester == nil {
		e.log.Warn("no input collaborator for color setting", "setting", def.Name)
		return
	}
	current, ok := setting.ColorFromValue(e.resolver.Read(def))
	if !ok {
		current = setting.Opaque(0, 0, 0)
	}
	id := def.ID
	capture.RequestColor(e.requester, def.Name, current, func(c setting.Color) {
		e.accepted(id, row, c)
	})
}

func captureText(e *Engine, def *setting.Definition, row *Row) {
	if e.requester == nil {
		e.log.Warn("no input collaborator for text setting", "setting", def.Name)
		return
	}
	current := ""
	if v := e.resolver.Read(def); v != nil {
		current = fmt.Sprint(v)
	}
	id, limit := def.ID, def.MaxLength
	e.requester.RequestText(capture.TextRequest{
		Title:     def.Name,
		Current:   current,
		MaxLength: def.MaxLength,
		OnAccept: capture.Once(func(text string) {
			e.accepted(id, row, capture.Truncate(text, limit))
		}),
	})
}

// accepted commits a capture answer. The definition is looked up again
// because it may have been updated or removed while the flow was pending.
func (e *Engine) accepted(id uuid.UUID, row *Row, v any) {
	_, def := e.reg.Find(setting.ByID(id))
	if def == nil {
		e.log.Warn("input accepted for removed setting", "setting", id)
		return
	}
	_ = e.commit(def, row, v)
}

func runAction(_ *Engine, def *setting.Definition, _ *Row) {
	if def.OnActivate != nil {
		def.OnActivate()
	}
}
