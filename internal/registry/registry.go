// Package registry keeps the ordered list of setting definitions of one
// panel and applies structural changes to it.
//
// Every structural change (add, remove, update) and every reset is
// published on the registry's notifier; the panel turns those events into
// a full rebuild of its surface.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/dshills/settingskit/internal/logging"
	"github.com/dshills/settingskit/internal/notify"
	"github.com/dshills/settingskit/internal/setting"
)

// ErrDuplicateID indicates a definition whose ID is already registered.
var ErrDuplicateID = errors.New("setting already registered")

// Registry is an ordered collection of definitions.
type Registry struct {
	defs     []*setting.Definition
	resolver *setting.Resolver
	notifier *notify.Notifier
	log      *log.Logger
	panel    string
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for diagnostics.
func WithLogger(l *log.Logger) Option {
	return func(r *Registry) { r.log = l }
}

// WithNotifier sets the notifier that receives change events.
func WithNotifier(n *notify.Notifier) Option {
	return func(r *Registry) { r.notifier = n }
}

// WithPanelName tags emitted events with the owning panel's name.
func WithPanelName(name string) Option {
	return func(r *Registry) { r.panel = name }
}

// New creates an empty registry over resolver.
func New(resolver *setting.Resolver, opts ...Option) *Registry {
	r := &Registry{resolver: resolver}
	for _, opt := range opts {
		opt(r)
	}
	r.log = logging.Component(r.log, "registry")
	if r.notifier == nil {
		r.notifier = notify.New()
	}
	return r
}

// Resolver returns the resolver definitions are read and written through.
func (r *Registry) Resolver() *setting.Resolver {
	return r.resolver
}

// Notifier returns the notifier change events are published on.
func (r *Registry) Notifier() *notify.Notifier {
	return r.notifier
}

// Len returns the number of definitions.
func (r *Registry) Len() int {
	return len(r.defs)
}

// All returns the definitions in order. The slice is a copy.
func (r *Registry) All() []*setting.Definition {
	return slices.Clone(r.defs)
}

// Add validates def, seeds its default and inserts it. The position is
// right after the first definition named after, else right before the
// reset action, else at the end. An ID is assigned if def has none.
func (r *Registry) Add(def *setting.Definition, after string) error {
	if def == nil {
		return &setting.ConfigError{Err: setting.ErrMissingKind}
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	} else if i, _ := r.findID(def.ID); i >= 0 {
		return fmt.Errorf("%w: %s", ErrDuplicateID, def.ID)
	}

	if _, err := r.resolver.Seed(def); err != nil {
		return &setting.ConfigError{Name: def.Name, Err: err}
	}

	r.defs = slices.Insert(r.defs, r.insertIndex(after), def)
	r.emit(notify.Added, def)
	return nil
}

func (r *Registry) insertIndex(after string) int {
	if after != "" {
		if i, _ := r.findName(after); i >= 0 {
			return i + 1
		}
		r.log.Warn("insert anchor not found", "after", after)
	}
	if i := r.resetIndex(); i >= 0 {
		return i
	}
	return len(r.defs)
}

// AddResetAction appends the panel's reset action. It always stays last
// because Add inserts before it.
func (r *Registry) AddResetAction(def *setting.Definition) error {
	if !def.IsResetAction() {
		return fmt.Errorf("definition %q is not a reset action", def.Name)
	}
	if r.resetIndex() >= 0 {
		return nil
	}
	if err := def.Validate(); err != nil {
		return err
	}
	if def.ID == uuid.Nil {
		def.ID = uuid.New()
	}
	r.defs = append(r.defs, def)
	r.emit(notify.Added, def)
	return nil
}

// ResetAction returns the reset action, or nil.
func (r *Registry) ResetAction() *setting.Definition {
	if i := r.resetIndex(); i >= 0 {
		return r.defs[i]
	}
	return nil
}

// Remove deletes the referenced definition. An unknown reference is logged
// and reported as false.
func (r *Registry) Remove(ref setting.Ref) bool {
	i, def := r.Find(ref)
	if def == nil {
		r.log.Warn("remove: unknown setting", "ref", ref)
		return false
	}
	r.defs = slices.Delete(r.defs, i, i+1)
	r.emit(notify.Removed, def)
	return true
}

// Update applies changes to a copy of the referenced definition, validates
// it and swaps it in at the same position with the same ID. The default is
// seeded again when storage fields changed. An unknown reference is logged
// and reported as false.
func (r *Registry) Update(ref setting.Ref, changes ...setting.Change) (bool, error) {
	i, current := r.Find(ref)
	if current == nil {
		r.log.Warn("update: unknown setting", "ref", ref)
		return false, nil
	}

	next := current.Clone()
	next.Apply(changes...)
	next.ID = current.ID
	if err := next.Validate(); err != nil {
		return true, err
	}

	if setting.StorageChanged(current, next) {
		if _, err := r.resolver.Seed(next); err != nil {
			return true, &setting.ConfigError{Name: next.Name, Err: err}
		}
	}

	r.defs[i] = next
	r.emit(notify.Updated, next)
	return true, nil
}

// Find resolves ref. A ref carrying an ID matches by identity only; a
// name ref returns the first definition in order. Returns -1, nil when
// absent.
func (r *Registry) Find(ref setting.Ref) (int, *setting.Definition) {
	if ref.ID != uuid.Nil {
		return r.findID(ref.ID)
	}
	if ref.Name != "" {
		return r.findName(ref.Name)
	}
	return -1, nil
}

// Get returns the first definition named name, or nil.
func (r *Registry) Get(name string) *setting.Definition {
	_, d := r.findName(name)
	return d
}

// ResetToDefaults writes every definition's default back through the
// resolver, so accessor-mode definitions see the write. Definitions
// without a default and the reset action itself are skipped.
func (r *Registry) ResetToDefaults() error {
	var errs []error
	for _, d := range r.defs {
		if d.IsResetAction() || !d.HasDefault() {
			continue
		}
		if err := r.resolver.Write(d, d.Default); err != nil {
			errs = append(errs, fmt.Errorf("reset %q: %w", d.Name, err))
		}
	}
	r.notifier.Notify(notify.Event{Type: notify.Reset, Panel: r.panel})
	return errors.Join(errs...)
}

// PanelName returns the name events are tagged with.
func (r *Registry) PanelName() string {
	return r.panel
}

// NotifyWrite publishes a committed value write through def.
func (r *Registry) NotifyWrite(def *setting.Definition, old, value any) {
	r.notifier.Notify(notify.Event{
		Type:    notify.Written,
		Panel:   r.panel,
		Setting: def.ID,
		Name:    def.Name,
		Path:    def.Path,
		Old:     old,
		New:     value,
	})
}

func (r *Registry) findID(id uuid.UUID) (int, *setting.Definition) {
	for i, d := range r.defs {
		if d.ID == id {
			return i, d
		}
	}
	return -1, nil
}

func (r *Registry) findName(name string) (int, *setting.Definition) {
	for i, d := range r.defs {
		if d.Name == name {
			return i, d
		}
	}
	return -1, nil
}

func (r *Registry) resetIndex() int {
	for i, d := range r.defs {
		if d.IsResetAction() {
			return i
		}
	}
	return -1
}

func (r *Registry) emit(t notify.EventType, d *setting.Definition) {
	r.notifier.Notify(notify.Event{
		Type:    t,
		Panel:   r.panel,
		Setting: d.ID,
		Name:    d.Name,
		Path:    d.Path,
	})
}
