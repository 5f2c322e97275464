// Package notify delivers settings change events to observers.
//
// Delivery is synchronous and happens on the caller's goroutine, which in
// settingskit is always the host's event loop. Observers must not block.
package notify

import (
	"github.com/google/uuid"
)

// EventType is the kind of change.
type EventType int

const (
	// Added means a definition was inserted.
	Added EventType = iota
	// Removed means a definition was removed.
	Removed
	// Updated means a definition's fields were changed.
	Updated
	// Written means a value was committed through a definition.
	Written
	// Reset means every default was written back.
	Reset
	// Reloaded means the store was changed in bulk from outside.
	Reloaded
)

// String returns the event type name.
func (t EventType) String() string {
	switch t {
	case Added:
		return "added"
	case Removed:
		return "removed"
	case Updated:
		return "updated"
	case Written:
		return "written"
	case Reset:
		return "reset"
	case Reloaded:
		return "reloaded"
	default:
		return "unknown"
	}
}

// Structural reports whether the event changes the definition list.
func (t EventType) Structural() bool {
	return t == Added || t == Removed || t == Updated
}

// Event describes one change.
type Event struct {
	Type EventType
	// Panel is the name of the panel that emitted the event.
	Panel string
	// Setting is the definition ID; uuid.Nil for panel-wide events.
	Setting uuid.UUID
	// Name is the definition name.
	Name string
	// Path is the store path, empty for accessor-mode definitions.
	Path string
	// Old and New are the values around a write.
	Old, New any
}

// Observer receives events.
type Observer func(Event)

// Subscription is an active observer registration.
type Subscription struct {
	id       uint64
	notifier *Notifier
}

// Unsubscribe stops delivery to the observer. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil || s.notifier == nil {
		return
	}
	s.notifier.unsubscribe(s.id)
	s.notifier = nil
}

type entry struct {
	id       uint64
	path     string
	observer Observer
}

// Notifier fans events out to observers in subscription order.
type Notifier struct {
	entries []entry
	nextID  uint64
}

// New creates a notifier.
func New() *Notifier {
	return &Notifier{}
}

// Subscribe registers an observer for every event.
func (n *Notifier) Subscribe(o Observer) *Subscription {
	return n.add("", o)
}

// SubscribePath registers an observer for events on path and below it.
// "audio" receives "audio.volume". Panel-wide events (reset, reload) are
// delivered to path observers too.
func (n *Notifier) SubscribePath(path string, o Observer) *Subscription {
	return n.add(path, o)
}

func (n *Notifier) add(path string, o Observer) *Subscription {
	n.nextID++
	n.entries = append(n.entries, entry{id: n.nextID, path: path, observer: o})
	return &Subscription{id: n.nextID, notifier: n}
}

// Len returns the number of active subscriptions.
func (n *Notifier) Len() int {
	return len(n.entries)
}

// Notify delivers ev to every matching observer.
func (n *Notifier) Notify(ev Event) {
	// Copy so observers may subscribe or unsubscribe while being notified.
	entries := append([]entry(nil), n.entries...)
	for _, e := range entries {
		if matches(e.path, ev) {
			e.observer(ev)
		}
	}
}

func (n *Notifier) unsubscribe(id uint64) {
	for i, e := range n.entries {
		if e.id == id {
			n.entries = append(n.entries[:i], n.entries[i+1:]...)
			return
		}
	}
}

func matches(path string, ev Event) bool {
	if path == "" {
		return true
	}
	if ev.Type == Reset || ev.Type == Reloaded {
		return true
	}
	return ev.Path == path || isParentPath(path, ev.Path)
}

// isParentPath reports whether parent is a strict ancestor of child.
func isParentPath(parent, child string) bool {
	return len(child) > len(parent) && child[:len(parent)] == parent && child[len(parent)] == '.'
}
