// Package display keeps rendered setting rows in sync with their values.
//
// The Engine decides between a full rebuild, which regenerates every row
// through the Renderer, and a targeted refresh, which re-reads values,
// updates the affected rows in place and asks for a repaint of what is on
// screen. Rows refer to definitions only by ID.
package display

import (
	"github.com/google/uuid"

	"github.com/dshills/settingskit/internal/setting"
)

// ErrUnknownKind is returned by Renderer.Build for kinds it cannot draw.
var ErrUnknownKind = setting.ErrUnknownKind

// Role says what a row shows for its definition.
type Role uint8

const (
	// RoleValue rows show the definition's value and take input.
	RoleValue Role = iota
	// RoleCaption rows show a caption or tooltip next to a value row.
	RoleCaption
)

// Row is a renderer-owned line of the settings surface.
type Row struct {
	// Setting is the ID of the definition the row belongs to.
	Setting uuid.UUID
	Kind    setting.Kind
	Role    Role

	// Label is the text left of the value field.
	Label string
	// Text is the formatted value.
	Text string
	// Swatch is the color shown by color rows.
	Swatch setting.Color

	// Value is the last displayed value, used only for change detection.
	Value any
}

// IsValue reports whether the row shows a value that can change.
func (r *Row) IsValue() bool {
	return r.Role == RoleValue && r.Kind.HasValue()
}

// show updates the visual fields and the cache from v.
func (r *Row) show(def *setting.Definition, v any) {
	r.Value = v
	r.Text = setting.Format(def, v)
	if def.Kind == setting.KindColor {
		if c, ok := setting.ColorFromValue(v); ok {
			r.Swatch = c
		}
	}
}

// Renderer draws rows. Implementations own the rows they build.
type Renderer interface {
	// Build returns the rows for def, or ErrUnknownKind.
	Build(def *setting.Definition) ([]*Row, error)
	// Rebuild replaces every row with rows, in order. defs is the ordered
	// definition list the rows were built from. May reset scroll.
	Rebuild(defs []*setting.Definition, rows []*Row)
	// CommitVisible repaints visible rows without moving scroll or focus.
	CommitVisible()
	// SurfaceVisible reports whether the surface is on screen.
	SurfaceVisible() bool
}
