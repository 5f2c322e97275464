// Package panel is the host-facing surface of settingskit: a named list of
// settings over one store, shown through a lazily created surface.
package panel

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/dshills/settingskit/internal/capture"
	"github.com/dshills/settingskit/internal/display"
	"github.com/dshills/settingskit/internal/logging"
	"github.com/dshills/settingskit/internal/notify"
	"github.com/dshills/settingskit/internal/pathstore"
	"github.com/dshills/settingskit/internal/registry"
	"github.com/dshills/settingskit/internal/setting"
)

// ErrNilStore indicates a panel created without a store.
var ErrNilStore = errors.New("panel store is nil")

// ErrNoSurface indicates Show was called on a panel without a surface
// factory.
var ErrNoSurface = errors.New("panel has no surface factory")

// DefaultResetLabel is the name of the auto-appended reset action.
const DefaultResetLabel = "Reset to defaults"

// Surface is the visual collaborator of a panel.
type Surface interface {
	display.Renderer
	Show()
	Hide()
}

// SurfaceFactory creates the surface the first time a panel is shown.
type SurfaceFactory func(p *Panel) (Surface, error)

// Panel is a named, ordered list of settings over one store.
type Panel struct {
	name    string
	store   map[string]any
	reg     *registry.Registry
	engine  *display.Engine
	surface Surface
	factory SurfaceFactory
	log     *log.Logger
	hub     *Hub
	sub     *notify.Subscription

	autoDefaults bool
	autoSync     bool
	resetLabel   string
	notifier     *notify.Notifier
}

// Option configures a Panel.
type Option func(*Panel)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(p *Panel) { p.log = l }
}

// WithSurfaceFactory sets how the surface is created on first Show.
func WithSurfaceFactory(f SurfaceFactory) Option {
	return func(p *Panel) { p.factory = f }
}

// WithAutoDefaultsAction controls whether a "reset to defaults" action is
// appended. Default true.
func WithAutoDefaultsAction(on bool) Option {
	return func(p *Panel) { p.autoDefaults = on }
}

// WithResetLabel renames the reset action.
func WithResetLabel(label string) Option {
	return func(p *Panel) { p.resetLabel = label }
}

// WithAutoSyncOnWrite controls whether user writes repaint in place (true)
// or rebuild the surface (false). Default true.
func WithAutoSyncOnWrite(on bool) Option {
	return func(p *Panel) { p.autoSync = on }
}

// WithNotifier publishes the panel's events on n instead of a private
// notifier.
func WithNotifier(n *notify.Notifier) Option {
	return func(p *Panel) { p.notifier = n }
}

// New creates a panel over store.
func New(name string, store map[string]any, opts ...Option) (*Panel, error) {
	if store == nil {
		return nil, fmt.Errorf("panel %q: %w", name, ErrNilStore)
	}
	p := &Panel{
		name:         name,
		store:        store,
		autoDefaults: true,
		autoSync:     true,
		resetLabel:   DefaultResetLabel,
	}
	for _, opt := range opts {
		opt(p)
	}
	base := logging.OrDiscard(p.log).With("panel", name)
	p.log = logging.Component(base, "panel")
	if p.notifier == nil {
		p.notifier = notify.New()
	}

	p.reg = registry.New(setting.NewResolver(store),
		registry.WithLogger(base),
		registry.WithNotifier(p.notifier),
		registry.WithPanelName(name),
	)
	p.engine = display.NewEngine(p.reg,
		display.WithLogger(base),
		display.WithAutoSync(p.autoSync),
	)
	p.sub = p.notifier.Subscribe(p.onEvent)

	if p.autoDefaults {
		reset := setting.NewResetAction(p.resetLabel, func() {
			if err := p.ResetToDefaults(); err != nil {
				p.log.Error("reset to defaults", "err", err)
			}
		})
		if err := p.reg.AddResetAction(reset); err != nil {
			return nil, err
		}
	}
	return p, nil
}

func (p *Panel) onEvent(ev notify.Event) {
	if ev.Panel != p.name {
		return
	}
	if ev.Type.Structural() || ev.Type == notify.Reset {
		p.engine.Rebuild()
	}
}

// Name returns the panel name.
func (p *Panel) Name() string {
	return p.name
}

// Store returns the backing store.
func (p *Panel) Store() map[string]any {
	return p.store
}

// Registry returns the panel's definitions.
func (p *Panel) Registry() *registry.Registry {
	return p.reg
}

// Engine returns the display engine.
func (p *Panel) Engine() *display.Engine {
	return p.engine
}

// Notifier returns the notifier the panel publishes on.
func (p *Panel) Notifier() *notify.Notifier {
	return p.notifier
}

// Surface returns the surface, or nil if the panel was never shown.
func (p *Panel) Surface() Surface {
	return p.surface
}

// AddSetting appends def, before the reset action if there is one.
func (p *Panel) AddSetting(def *setting.Definition) (*Handle, error) {
	return p.AddSettingAfter(def, "")
}

// AddSettingAfter inserts def right after the first setting named after.
func (p *Panel) AddSettingAfter(def *setting.Definition, after string) (*Handle, error) {
	if err := p.reg.Add(def, after); err != nil {
		return nil, fmt.Errorf("panel %q: %w", p.name, err)
	}
	return &Handle{panel: p, id: def.ID}, nil
}

// RemoveSetting removes the referenced setting.
func (p *Panel) RemoveSetting(ref setting.Ref) bool {
	return p.reg.Remove(ref)
}

// UpdateSetting applies changes to the referenced setting.
func (p *Panel) UpdateSetting(ref setting.Ref, changes ...setting.Change) (bool, error) {
	return p.reg.Update(ref, changes...)
}

// GetSetting returns the first setting named name, or nil.
func (p *Panel) GetSetting(name string) *setting.Definition {
	return p.reg.Get(name)
}

// RefreshSetting re-reads one setting and repaints it if it changed.
func (p *Panel) RefreshSetting(ref setting.Ref) bool {
	return p.engine.RefreshOne(ref)
}

// RefreshAll re-reads every setting and repaints once.
func (p *Panel) RefreshAll() int {
	return p.engine.RefreshAll()
}

// SetValue writes v at path in the store, publishes a Written event and
// repaints changed rows. A path-mode setting bound to path is written
// through the resolver, so its OnChange runs and the event names it.
func (p *Panel) SetValue(path string, v any) error {
	old, _ := pathstore.Get(p.store, path)
	if def := p.boundTo(path); def != nil {
		if err := p.reg.Resolver().Write(def, v); err != nil {
			return err
		}
		p.reg.NotifyWrite(def, old, v)
	} else {
		if err := pathstore.Set(p.store, path, v); err != nil {
			return err
		}
		p.notifier.Notify(notify.Event{Type: notify.Written, Panel: p.name, Path: path, Old: old, New: v})
	}
	p.engine.RefreshAll()
	return nil
}

func (p *Panel) boundTo(path string) *setting.Definition {
	for _, d := range p.reg.All() {
		if d.Mode() == setting.ModePath && d.Path == path {
			return d
		}
	}
	return nil
}

// ResetToDefaults writes every default back and rebuilds the surface.
func (p *Panel) ResetToDefaults() error {
	return p.reg.ResetToDefaults()
}

// Show makes the surface visible, creating it on first use.
func (p *Panel) Show() error {
	if p.surface == nil {
		if err := p.createSurface(); err != nil {
			return err
		}
	}
	p.surface.Show()
	if p.engine.Stale() {
		p.engine.Rebuild()
	} else {
		p.engine.RefreshAll()
	}
	return nil
}

func (p *Panel) createSurface() error {
	if p.factory == nil {
		return fmt.Errorf("panel %q: %w", p.name, ErrNoSurface)
	}
	s, err := p.factory(p)
	if err != nil {
		return fmt.Errorf("panel %q: create surface: %w", p.name, err)
	}
	p.surface = s
	p.engine.Attach(s)
	if r, ok := s.(capture.Requester); ok {
		p.engine.SetRequester(r)
	}
	p.log.Debug("surface created")
	return nil
}

// Hide hides the surface. No-op if it does not exist.
func (p *Panel) Hide() {
	if p.surface != nil {
		p.surface.Hide()
	}
}

// Visible reports whether the surface exists and is on screen.
func (p *Panel) Visible() bool {
	return p.surface != nil && p.surface.SurfaceVisible()
}

// Toggle shows a hidden panel and hides a visible one. A panel that was
// never shown is shown.
func (p *Panel) Toggle() error {
	if p.Visible() {
		p.Hide()
		return nil
	}
	return p.Show()
}

// Close stops event handling and removes the panel from its hub.
func (p *Panel) Close() {
	p.Hide()
	p.sub.Unsubscribe()
	if p.hub != nil {
		p.hub.forget(p)
	}
}
