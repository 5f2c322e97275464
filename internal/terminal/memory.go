package terminal

import (
	"strings"
)

// Memory is an in-memory Screen for tests. Only PostEvent is safe for
// concurrent use.
type Memory struct {
	width, height int
	cells         [][]Cell
	shows         int
	setCalls      int
	events        chan Event
}

// NewMemory creates a memory screen of the given size.
func NewMemory(width, height int) *Memory {
	m := &Memory{events: make(chan Event, 64)}
	m.resize(width, height)
	return m
}

func (m *Memory) resize(width, height int) {
	m.width, m.height = width, height
	m.cells = make([][]Cell, height)
	for y := range m.cells {
		m.cells[y] = make([]Cell, width)
		for x := range m.cells[y] {
			m.cells[y][x] = EmptyCell()
		}
	}
}

func (m *Memory) Init() error { return nil }
func (m *Memory) Fini()       {}

func (m *Memory) Size() (int, int) {
	return m.width, m.height
}

func (m *Memory) SetCell(x, y int, c Cell) {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return
	}
	m.setCalls++
	m.cells[y][x] = c
}

func (m *Memory) Clear() {
	for y := range m.cells {
		for x := range m.cells[y] {
			m.cells[y][x] = EmptyCell()
		}
	}
}

func (m *Memory) Show() {
	m.shows++
}

func (m *Memory) PollEvent() Event {
	return <-m.events
}

func (m *Memory) PostEvent(ev Event) {
	select {
	case m.events <- ev:
	default:
	}
}

// Resize changes the size, blanks the screen and queues a resize event.
func (m *Memory) Resize(width, height int) {
	m.resize(width, height)
	m.PostEvent(Event{Type: EventResize, Width: width, Height: height})
}

// Cell returns the cell at (x, y).
func (m *Memory) Cell(x, y int) Cell {
	if x < 0 || y < 0 || x >= m.width || y >= m.height {
		return EmptyCell()
	}
	return m.cells[y][x]
}

// Line returns row y as text with trailing blanks trimmed.
func (m *Memory) Line(y int) string {
	if y < 0 || y >= m.height {
		return ""
	}
	var b strings.Builder
	for _, c := range m.cells[y] {
		if c.IsContinuation() {
			continue
		}
		b.WriteString(c.Text)
	}
	return strings.TrimRight(b.String(), " ")
}

// Lines returns every row as text.
func (m *Memory) Lines() []string {
	out := make([]string, m.height)
	for y := range out {
		out[y] = m.Line(y)
	}
	return out
}

// Shows returns how many times Show was called.
func (m *Memory) Shows() int {
	return m.shows
}

// SetCalls returns how many in-bounds SetCell calls were made.
func (m *Memory) SetCalls() int {
	return m.setCalls
}

// ResetCounters zeroes Shows and SetCalls.
func (m *Memory) ResetCounters() {
	m.setCalls = 0
	m.shows = 0
}
