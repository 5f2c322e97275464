package display

import (
	"errors"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/settingskit/internal/capture"
	"github.com/dshills/settingskit/internal/logging"
	"github.com/dshills/settingskit/internal/registry"
	"github.com/dshills/settingskit/internal/setting"
)

// Engine maps definitions to their rows and keeps the rows current.
type Engine struct {
	reg       *registry.Registry
	resolver  *setting.Resolver
	renderer  Renderer
	requester capture.Requester
	log       *log.Logger

	rows     map[uuid.UUID][]*Row
	autoSync bool
	stale    bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// WithAutoSync sets whether user writes only repaint (true) or trigger a
// full rebuild (false). Default true.
func WithAutoSync(on bool) Option {
	return func(e *Engine) { e.autoSync = on }
}

// WithRenderer attaches a renderer at construction.
func WithRenderer(r Renderer) Option {
	return func(e *Engine) { e.renderer = r }
}

// WithRequester sets the collaborator used by text and color rows.
func WithRequester(r capture.Requester) Option {
	return func(e *Engine) { e.requester = r }
}

// NewEngine creates an engine over reg. Without a renderer it stays stale
// and every refresh is a no-op.
func NewEngine(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:      reg,
		resolver: reg.Resolver(),
		autoSync: true,
		stale:    true,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.log = logging.Component(e.log, "display")
	return e
}

// Attach sets the renderer. The engine is stale until the next Rebuild.
func (e *Engine) Attach(r Renderer) {
	e.renderer = r
	e.rows = nil
	e.stale = true
}

// Renderer returns the attached renderer, or nil.
func (e *Engine) Renderer() Renderer {
	return e.renderer
}

// SetRequester sets the capture collaborator.
func (e *Engine) SetRequester(r capture.Requester) {
	e.requester = r
}

// AutoSync reports the write mode.
func (e *Engine) AutoSync() bool {
	return e.autoSync
}

// SetAutoSync changes the write mode.
func (e *Engine) SetAutoSync(on bool) {
	e.autoSync = on
}

// Stale reports whether the rows are missing or out of date because a
// rebuild was requested while the surface was absent or hidden.
func (e *Engine) Stale() bool {
	return e.stale
}

// Rows returns the rows mapped to id.
func (e *Engine) Rows(id uuid.UUID) []*Row {
	return e.rows[id]
}

// Mapped returns the number of definitions with rows.
func (e *Engine) Mapped() int {
	return len(e.rows)
}

func (e *Engine) visible() bool {
	return e.renderer != nil && e.renderer.SurfaceVisible()
}

// Rebuild regenerates every row from the registry and hands them to the
// renderer. Definitions whose kind the renderer cannot build are skipped.
// When the surface is absent or hidden the rows are dropped and the engine
// is marked stale instead.
func (e *Engine) Rebuild() {
	if !e.visible() {
		e.rows = nil
		e.stale = true
		return
	}

	defs := e.reg.All()
	rows := make(map[uuid.UUID][]*Row, len(defs))
	var flat []*Row
	for _, def := range defs {
		built, err := e.renderer.Build(def)
		if err != nil {
			if errors.Is(err, ErrUnknownKind) {
				e.log.Warn("skipping setting of unknown kind", "setting", def.Name, "kind", def.Kind)
			} else {
				e.log.Warn("building rows failed", "setting", def.Name, "err", err)
			}
			continue
		}
		if len(built) == 0 {
			continue
		}
		for _, row := range built {
			e.prime(def, row)
		}
		rows[def.ID] = built
		flat = append(flat, built...)
	}

	e.rows = rows
	e.stale = false
	e.renderer.Rebuild(defs, flat)
}

func (e *Engine) prime(def *setting.Definition, row *Row) {
	row.Setting = def.ID
	row.Kind = def.Kind
	if row.Label == "" {
		row.Label = def.Name
	}
	if row.IsValue() {
		row.show(def, e.resolver.Read(def))
	}
}

// SyncOne re-reads def and updates its value rows whose cached value
// differs. Reports whether any row changed. Rows without a value never
// change.
func (e *Engine) SyncOne(def *setting.Definition) bool {
	if def == nil || !def.Kind.HasValue() {
		return false
	}
	rows := e.rows[def.ID]
	if len(rows) == 0 {
		return false
	}

	v := e.resolver.Read(def)
	changed := false
	for _, row := range rows {
		if !row.IsValue() || setting.SameValue(def.Kind, row.Value, v) {
			continue
		}
		row.show(def, v)
		changed = true
	}
	return changed
}

// RefreshOne syncs the referenced definition and repaints if its rows
// changed. It never rebuilds. A hidden or absent surface makes it a silent
// no-op; an unknown reference is logged.
func (e *Engine) RefreshOne(ref setting.Ref) bool {
	if !e.visible() || e.stale {
		return false
	}
	_, def := e.reg.Find(ref)
	if def == nil {
		e.log.Warn("refresh: unknown setting", "ref", ref)
		return false
	}
	if !e.SyncOne(def) {
		return false
	}
	e.renderer.CommitVisible()
	return true
}

// RefreshAll syncs every mapped definition and repaints at most once.
// Returns the number of definitions whose rows changed.
func (e *Engine) RefreshAll() int {
	if !e.visible() || e.stale {
		return 0
	}
	changed := 0
	for _, def := range e.reg.All() {
		if e.SyncOne(def) {
			changed++
		}
	}
	if changed > 0 {
		e.renderer.CommitVisible()
	}
	return changed
}

// WrittenByUser is called after a write path updated row locally. With
// auto sync the visible rows are repainted; otherwise the list is rebuilt.
func (e *Engine) WrittenByUser(row *Row) {
	if !e.autoSync {
		e.Rebuild()
		return
	}
	if e.visible() {
		e.renderer.CommitVisible()
	}
}

// commit writes v through def, updates row and reports the write.
func (e *Engine) commit(def *setting.Definition, row *Row, v any) error {
	old := e.resolver.Read(def)
	if err := e.resolver.Write(def, v); err != nil {
		e.log.Warn("write failed", "setting", def.Name, "err", err)
		return err
	}
	e.reg.NotifyWrite(def, old, v)

	if e.owns(def.ID, row) {
		row.show(def, v)
	} else {
		// The rows were rebuilt while a capture flow was pending.
		e.SyncOne(def)
	}
	e.WrittenByUser(row)
	return nil
}

func (e *Engine) owns(id uuid.UUID, row *Row) bool {
	for _, r := range e.rows[id] {
		if r == row {
			return true
		}
	}
	return false
}

// definition returns the current definition behind row.
func (e *Engine) definition(row *Row) *setting.Definition {
	if row == nil {
		return nil
	}
	_, def := e.reg.Find(setting.ByID(row.Setting))
	return def
}
