package setting

import (
	"reflect"
	"slices"

	"github.com/google/uuid"
)

// StorageMode says where a definition's value lives.
type StorageMode uint8

const (
	// ModeNone means the definition holds no value (labels, actions) or
	// has neither a path nor accessors; reads return Default.
	ModeNone StorageMode = iota
	// ModePath stores the value in the panel store at Path.
	ModePath
	// ModeAccessor delegates to the Getter/Setter pair.
	ModeAccessor
)

// String returns the mode name.
func (m StorageMode) String() string {
	switch m {
	case ModePath:
		return "path"
	case ModeAccessor:
		return "accessor"
	default:
		return "none"
	}
}

// Definition describes one setting.
type Definition struct {
	// ID is the identity assigned by the registry. Rows and handles refer
	// to a definition only through its ID.
	ID uuid.UUID

	// Kind is the control kind. Required.
	Kind Kind

	// Name is the display identity. Lookups by name return the first match.
	Name string

	// Tooltip is optional help text.
	Tooltip string

	// OnChange is called with the new value after every committed write.
	OnChange func(value any)

	// Path is the dot-separated key in the store (path mode).
	Path string

	// Default is seeded into the store when Path is absent and is the
	// target of a reset. Nil means the definition has no default.
	Default any

	// Getter and Setter select accessor mode. Both or neither.
	Getter func() any
	Setter func(value any)

	// Min, Max and Step bound KindNumber values.
	Min, Max, Step float64

	// Choices is the ordered value list for KindChoice.
	Choices []string

	// Images is the ordered image identifier list for KindImageChoice.
	Images []string

	// MaxLength bounds KindText input in user-perceived characters.
	// Zero means unbounded.
	MaxLength int

	// OnActivate runs when a KindAction is activated.
	OnActivate func()

	resetAction bool
}

// Mode returns the storage mode of the definition.
func (d *Definition) Mode() StorageMode {
	switch {
	case d.Getter != nil && d.Setter != nil:
		return ModeAccessor
	case d.Path != "":
		return ModePath
	default:
		return ModeNone
	}
}

// HasDefault reports whether the definition carries a default value.
func (d *Definition) HasDefault() bool {
	return d.Default != nil
}

// IsResetAction reports whether this is the panel's auto-appended
// "reset to defaults" action.
func (d *Definition) IsResetAction() bool {
	return d.resetAction
}

// Ref returns an identity reference to the definition.
func (d *Definition) Ref() Ref {
	return ByID(d.ID)
}

// Validate checks the invariants a definition must hold to be registered.
func (d *Definition) Validate() error {
	if d.Kind == KindInvalid {
		return &ConfigError{Name: d.Name, Err: ErrMissingKind}
	}
	if (d.Getter == nil) != (d.Setter == nil) {
		return &ConfigError{Name: d.Name, Err: ErrPartialAccessor}
	}
	return nil
}

// Clone returns a shallow copy with its own slices.
func (d *Definition) Clone() *Definition {
	c := *d
	c.Choices = slices.Clone(d.Choices)
	c.Images = slices.Clone(d.Images)
	return &c
}

// StorageChanged reports whether the storage fields differ between a and b,
// which means b's default has to be seeded again.
func StorageChanged(a, b *Definition) bool {
	if a.Path != b.Path {
		return true
	}
	if a.Mode() != b.Mode() {
		return true
	}
	return !reflect.DeepEqual(a.Default, b.Default)
}

// NewResetAction returns the action a panel appends to restore defaults.
func NewResetAction(name string, onActivate func()) *Definition {
	return &Definition{
		Kind:        KindAction,
		Name:        name,
		OnActivate:  onActivate,
		resetAction: true,
	}
}
