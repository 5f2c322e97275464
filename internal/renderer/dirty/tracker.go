// Package dirty tracks which screen lines of the settings list need to be
// redrawn.
package dirty

import (
	"slices"
)

// Tracker collects dirty line numbers and coalesces them into a full
// redraw once too much of the screen is dirty.
type Tracker struct {
	// lines is the set of dirty lines.
	lines map[int]struct{}

	// fullRedraw means every line needs redrawing.
	fullRedraw bool

	// height is the number of screen lines.
	height int

	// coalesceThreshold is the dirty share of the screen that turns into
	// a full redraw.
	coalesceThreshold float64
}

// NewTracker creates a tracker for a screen of height lines. A new tracker
// starts with a full redraw pending. Negative heights are treated as zero.
func NewTracker(height int) *Tracker {
	return &Tracker{
		lines:             make(map[int]struct{}),
		fullRedraw:        true,
		height:            max(height, 0),
		coalesceThreshold: 0.5,
	}
}

// SetHeight updates the screen height and marks a full redraw.
func (t *Tracker) SetHeight(height int) {
	t.height = max(height, 0)
	t.MarkFullRedraw()
}

// Height returns the screen height.
func (t *Tracker) Height() int {
	return t.height
}

// MarkFullRedraw marks every line dirty.
func (t *Tracker) MarkFullRedraw() {
	t.fullRedraw = true
	clear(t.lines)
}

// MarkLine marks one line dirty. Lines outside the screen are ignored.
func (t *Tracker) MarkLine(line int) {
	if t.fullRedraw || line < 0 || line >= t.height {
		return
	}
	t.lines[line] = struct{}{}
	if float64(len(t.lines)) > t.coalesceThreshold*float64(t.height) {
		t.MarkFullRedraw()
	}
}

// MarkLines marks lines start through end dirty.
func (t *Tracker) MarkLines(start, end int) {
	for line := start; line <= end && !t.fullRedraw; line++ {
		t.MarkLine(line)
	}
}

// IsDirty reports whether anything needs redrawing.
func (t *Tracker) IsDirty() bool {
	return t.fullRedraw || len(t.lines) > 0
}

// NeedsFullRedraw reports whether every line needs redrawing.
func (t *Tracker) NeedsFullRedraw() bool {
	return t.fullRedraw
}

// IsLineDirty reports whether line needs redrawing.
func (t *Tracker) IsLineDirty(line int) bool {
	if t.fullRedraw {
		return line >= 0 && line < t.height
	}
	_, ok := t.lines[line]
	return ok
}

// DirtyLines returns the dirty lines in ascending order.
func (t *Tracker) DirtyLines() []int {
	if t.fullRedraw {
		lines := make([]int, t.height)
		for i := range lines {
			lines[i] = i
		}
		return lines
	}
	lines := make([]int, 0, len(t.lines))
	for line := range t.lines {
		lines = append(lines, line)
	}
	slices.Sort(lines)
	return lines
}

// Clear forgets every dirty line.
func (t *Tracker) Clear() {
	t.fullRedraw = false
	clear(t.lines)
}

// SetCoalesceThreshold sets the dirty share that triggers a full redraw,
// clamped into [0, 1].
func (t *Tracker) SetCoalesceThreshold(threshold float64) {
	t.coalesceThreshold = min(max(threshold, 0), 1)
}
