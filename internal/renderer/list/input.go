package list

import (
	"strings"

	"github.com/dshills/settingskit/internal/capture"
	"github.com/dshills/settingskit/internal/terminal"
)

// Result says what the host loop should do after an event.
type Result int

const (
	// Continue keeps the loop running.
	Continue Result = iota
	// Quit ends the loop.
	Quit
)

// HandleEvent applies one terminal event.
func (v *View) HandleEvent(ev terminal.Event) Result {
	switch ev.Type {
	case terminal.EventResize:
		v.ensureVisible()
		v.tracker.MarkFullRedraw()
		v.draw()
		return Continue
	case terminal.EventKey:
	default:
		return Continue
	}

	if ev.Key == terminal.KeyCtrlC {
		return Quit
	}
	if v.prompt != nil {
		v.promptKey(ev)
		return Continue
	}

	switch {
	case ev.Key == terminal.KeyTab:
		if v.onToggle != nil {
			v.onToggle()
		}
		return Continue
	case ev.Key == terminal.KeyRune && ev.Rune == 'q':
		return Quit
	}
	if !v.visible {
		return Continue
	}

	switch {
	case ev.Key == terminal.KeyUp:
		v.move(-1)
	case ev.Key == terminal.KeyDown:
		v.move(1)
	case ev.Key == terminal.KeyPageUp:
		v.move(-v.listHeight())
	case ev.Key == terminal.KeyPageDown:
		v.move(v.listHeight())
	case ev.Key == terminal.KeyEnter, ev.Key == terminal.KeyRune && ev.Rune == ' ':
		v.activate()
	case ev.Key == terminal.KeyLeft:
		v.step(-1)
	case ev.Key == terminal.KeyRight:
		v.step(1)
	}
	return Continue
}

func (v *View) activate() {
	r := v.Selected()
	if r == nil || v.controller == nil {
		return
	}
	v.controller.Activate(r)
}

func (v *View) step(delta int) {
	r := v.Selected()
	if r == nil || v.controller == nil {
		return
	}
	v.controller.Step(r, delta)
}

func (v *View) promptKey(ev terminal.Event) {
	p := v.prompt
	switch ev.Key {
	case terminal.KeyEnter:
		v.prompt = nil
		v.draw()
		p.req.Accept(strings.Join(p.text, ""))
		return
	case terminal.KeyEscape:
		v.prompt = nil
		v.draw()
		p.req.Cancel()
		return
	case terminal.KeyBackspace:
		if len(p.text) > 0 {
			p.text = p.text[:len(p.text)-1]
		}
	case terminal.KeyRune:
		joined := strings.Join(p.text, "") + string(ev.Rune)
		if p.req.MaxLength > 0 && capture.Length(joined) > p.req.MaxLength {
			return
		}
		// A combining rune merges into the previous cluster.
		p.text = graphemes(joined)
	default:
		return
	}
	v.draw()
}
