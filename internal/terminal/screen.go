package terminal

// EventType identifies a terminal event.
type EventType int

const (
	EventNone EventType = iota
	EventKey
	EventResize
	// EventInterrupt carries a value posted with Screen.PostEvent.
	EventInterrupt
)

// Key is a keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyRune     // use Event.Rune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyDelete
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
)

// Event is a terminal event.
type Event struct {
	Type EventType

	Key  Key
	Rune rune

	Width, Height int

	// Payload is the value of an EventInterrupt.
	Payload any
}

// KeyEvent returns a key event.
func KeyEvent(k Key) Event {
	return Event{Type: EventKey, Key: k}
}

// RuneEvent returns a key event for a printable rune.
func RuneEvent(r rune) Event {
	return Event{Type: EventKey, Key: KeyRune, Rune: r}
}

// Interrupt returns an event that wakes PollEvent with payload.
func Interrupt(payload any) Event {
	return Event{Type: EventInterrupt, Payload: payload}
}

// Screen is a drawable terminal.
type Screen interface {
	// Init prepares the screen. Must be called first.
	Init() error
	// Fini restores the terminal.
	Fini()
	// Size returns the dimensions in cells.
	Size() (width, height int)
	// SetCell sets one cell. Positions outside the screen are ignored.
	SetCell(x, y int, c Cell)
	// Clear blanks the screen.
	Clear()
	// Show flushes pending changes to the display.
	Show()
	// PollEvent blocks until the next event.
	PollEvent() Event
	// PostEvent queues ev for PollEvent. Safe from any goroutine.
	PostEvent(ev Event)
}
