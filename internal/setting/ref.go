package setting

import (
	"fmt"

	"github.com/google/uuid"
)

// Ref identifies a definition by ID or by name. A ref with an ID resolves
// by identity only; otherwise the first name match wins.
type Ref struct {
	ID   uuid.UUID
	Name string
}

// ByID returns a reference that matches one definition identity.
func ByID(id uuid.UUID) Ref {
	return Ref{ID: id}
}

// ByName returns a reference that matches the first definition with name.
func ByName(name string) Ref {
	return Ref{Name: name}
}

// IsZero reports whether the reference matches nothing.
func (r Ref) IsZero() bool {
	return r.ID == uuid.Nil && r.Name == ""
}

// String returns a form suitable for log fields.
func (r Ref) String() string {
	switch {
	case r.ID != uuid.Nil && r.Name != "":
		return fmt.Sprintf("%s(%s)", r.Name, r.ID)
	case r.ID != uuid.Nil:
		return r.ID.String()
	default:
		return r.Name
	}
}
