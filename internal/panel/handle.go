package panel

import (
	"github.com/google/uuid"

	"github.com/dshills/settingskit/internal/setting"
)

// Handle is returned by AddSetting. It refers to its setting by ID and
// stays safe to use after the setting is updated or removed.
type Handle struct {
	panel *Panel
	id    uuid.UUID
}

// ID returns the setting ID.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Ref returns an identity reference. It never matches another setting,
// even one with the same name.
func (h *Handle) Ref() setting.Ref {
	return setting.ByID(h.id)
}

// Definition returns the current definition, or nil after removal.
func (h *Handle) Definition() *setting.Definition {
	_, def := h.panel.reg.Find(setting.ByID(h.id))
	return def
}

// Refresh re-reads the setting and repaints its row if the value changed.
// Silent when the panel has no visible surface.
func (h *Handle) Refresh() bool {
	return h.panel.engine.RefreshOne(setting.ByID(h.id))
}
