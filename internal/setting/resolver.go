package setting

import (
	"github.com/dshills/settingskit/internal/pathstore"
)

// Resolver reads and writes definition values, choosing between the path
// store and the definition's accessor pair.
type Resolver struct {
	store map[string]any
}

// NewResolver returns a resolver over store.
func NewResolver(store map[string]any) *Resolver {
	return &Resolver{store: store}
}

// Store returns the backing tree.
func (r *Resolver) Store() map[string]any {
	return r.store
}

// Read returns the authoritative value of d.
func (r *Resolver) Read(d *Definition) any {
	switch d.Mode() {
	case ModeAccessor:
		return d.Getter()
	case ModePath:
		if v, ok := pathstore.Get(r.store, d.Path); ok {
			return v
		}
		return d.Default
	default:
		return d.Default
	}
}

// Write commits v for d and then calls d.OnChange.
// Definitions without storage ignore the write.
func (r *Resolver) Write(d *Definition, v any) error {
	switch d.Mode() {
	case ModeAccessor:
		d.Setter(v)
	case ModePath:
		if err := pathstore.Set(r.store, d.Path, v); err != nil {
			return err
		}
	default:
		return nil
	}
	if d.OnChange != nil {
		d.OnChange(v)
	}
	return nil
}

// Seed writes d.Default into the store when d is in path mode, has a
// default, and the path is currently absent. Reports whether it wrote.
func (r *Resolver) Seed(d *Definition) (bool, error) {
	if d.Mode() != ModePath || !d.HasDefault() {
		return false, nil
	}
	if _, ok := pathstore.Get(r.store, d.Path); ok {
		return false, nil
	}
	if err := pathstore.Set(r.store, d.Path, d.Default); err != nil {
		return false, err
	}
	return true, nil
}
