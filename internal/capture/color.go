package capture

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/settingskit/internal/setting"
)

// ColorState is a step of the channel-by-channel color flow.
type ColorState int

const (
	// AskRed waits for the red channel.
	AskRed ColorState = iota
	// AskGreen waits for the green channel.
	AskGreen
	// AskBlue waits for the blue channel.
	AskBlue
	// Done means the color was accepted.
	Done
)

// String returns the channel name asked for in the state.
func (s ColorState) String() string {
	switch s {
	case AskRed:
		return "red"
	case AskGreen:
		return "green"
	case AskBlue:
		return "blue"
	default:
		return "done"
	}
}

// RequestColor asks r for a color. When r implements ColorRequester the
// request is delegated; otherwise the red, green and blue channels are
// asked for one after another as 0-255 text prompts. Alpha is kept from
// current. onAccept runs at most once, and never if any prompt is
// cancelled.
func RequestColor(r Requester, title string, current setting.Color, onAccept func(setting.Color)) {
	if cr, ok := r.(ColorRequester); ok {
		cr.RequestColor(title, current, Once(onAccept))
		return
	}
	NewColorFlow(r, title, current, onAccept).Start()
}

// ColorFlow is the fallback color state machine. Each transition carries
// the partially built color.
type ColorFlow struct {
	requester Requester
	title     string
	color     setting.Color
	state     ColorState
	onAccept  func(setting.Color)
	cancelled bool
}

// NewColorFlow creates a flow positioned at AskRed.
func NewColorFlow(r Requester, title string, current setting.Color, onAccept func(setting.Color)) *ColorFlow {
	return &ColorFlow{
		requester: r,
		title:     title,
		color:     current,
		onAccept:  Once(onAccept),
	}
}

// State returns the current step.
func (f *ColorFlow) State() ColorState {
	return f.state
}

// Color returns the color built so far.
func (f *ColorFlow) Color() setting.Color {
	return f.color
}

// Cancelled reports whether the user aborted the flow.
func (f *ColorFlow) Cancelled() bool {
	return f.cancelled
}

// Start issues the prompt for the current state.
func (f *ColorFlow) Start() {
	if f.state == Done || f.cancelled {
		return
	}
	r, g, b := f.color.RGB255()
	channel := [...]uint8{r, g, b}[f.state]
	// No MaxLength: ParseChannel bounds the answer after trimming.
	f.requester.RequestText(TextRequest{
		Title:    fmt.Sprintf("%s (%s 0-255)", f.title, f.state),
		Current:  strconv.Itoa(int(channel)),
		OnAccept: f.accept,
		OnCancel: f.cancel,
	})
}

func (f *ColorFlow) accept(text string) {
	if f.state == Done || f.cancelled {
		return
	}
	v, err := ParseChannel(text)
	if err != nil {
		// Same channel again.
		f.Start()
		return
	}
	f.color = f.color.WithChannel(int(f.state), v)
	f.state++
	if f.state == Done {
		f.onAccept(f.color)
		return
	}
	f.Start()
}

func (f *ColorFlow) cancel() {
	f.cancelled = true
}

// ParseChannel reads an 8-bit channel value.
func ParseChannel(text string) (uint8, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return 0, fmt.Errorf("channel %q: %w", text, err)
	}
	if n < 0 || n > 255 {
		return 0, fmt.Errorf("channel %d out of range 0-255", n)
	}
	return uint8(n), nil
}
