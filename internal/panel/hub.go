package panel

import (
	"errors"
	"fmt"
	"slices"
	"sync"
)

// ErrPanelExists indicates a second panel opened under a taken name.
var ErrPanelExists = errors.New("panel already open")

// Hub tracks the open panels of a host, in opening order.
// It is safe for concurrent use; the panels themselves are not.
type Hub struct {
	mu     sync.RWMutex
	panels []*Panel
	opts   []Option
}

// NewHub creates a hub. opts are applied to every panel it opens, before
// the options passed to Open.
func NewHub(opts ...Option) *Hub {
	return &Hub{opts: opts}
}

// Open creates a panel and registers it under name.
func (h *Hub) Open(name string, store map[string]any, opts ...Option) (*Panel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.indexLocked(name) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrPanelExists, name)
	}
	p, err := New(name, store, append(slices.Clone(h.opts), opts...)...)
	if err != nil {
		return nil, err
	}
	p.hub = h
	h.panels = append(h.panels, p)
	return p, nil
}

// Get returns the panel named name, or nil.
func (h *Hub) Get(name string) *Panel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if i := h.indexLocked(name); i >= 0 {
		return h.panels[i]
	}
	return nil
}

// Panels returns the open panels in opening order.
func (h *Hub) Panels() []*Panel {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return slices.Clone(h.panels)
}

// Len returns the number of open panels.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.panels)
}

// Close closes the panel named name. Reports whether it was open.
func (h *Hub) Close(name string) bool {
	p := h.Get(name)
	if p == nil {
		return false
	}
	p.Close()
	return true
}

// CloseAll closes every panel.
func (h *Hub) CloseAll() {
	for _, p := range h.Panels() {
		p.Close()
	}
}

func (h *Hub) forget(p *Panel) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.panels = slices.DeleteFunc(h.panels, func(q *Panel) bool { return q == p })
}

func (h *Hub) indexLocked(name string) int {
	return slices.IndexFunc(h.panels, func(p *Panel) bool { return p.name == name })
}
