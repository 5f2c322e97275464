// Package capture defines the request/continuation contracts used to ask
// the user for free text and colors.
//
// A request is handed to a collaborator and returns immediately. The
// collaborator later calls OnAccept once, or OnCancel, from the host loop.
// Nothing is mutated on cancel and there is no timeout.
package capture

import (
	"github.com/rivo/uniseg"

	"github.com/dshills/settingskit/internal/setting"
)

// TextRequest asks for a line of text.
type TextRequest struct {
	// Title is shown as the prompt.
	Title string
	// Current is the initial text.
	Current string
	// MaxLength bounds the answer in user-perceived characters.
	// Zero means unbounded.
	MaxLength int
	// OnAccept receives the answer.
	OnAccept func(text string)
	// OnCancel is called when the prompt is dismissed. May be nil.
	OnCancel func()
}

// Requester collects text from the user.
type Requester interface {
	RequestText(req TextRequest)
}

// ColorRequester is implemented by collaborators with a native color
// picker. RequestColor falls back to three channel prompts otherwise.
type ColorRequester interface {
	RequestColor(title string, current setting.Color, onAccept func(setting.Color))
}

// Accept delivers text to OnAccept, cut to MaxLength.
func (r TextRequest) Accept(text string) {
	if r.OnAccept != nil {
		r.OnAccept(Truncate(text, r.MaxLength))
	}
}

// Cancel calls OnCancel if set.
func (r TextRequest) Cancel() {
	if r.OnCancel != nil {
		r.OnCancel()
	}
}

// Length returns the number of grapheme clusters in s.
func Length(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// Truncate cuts s to at most n grapheme clusters. n <= 0 returns s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	g := uniseg.NewGraphemes(s)
	count, end := 0, 0
	for g.Next() {
		if count == n {
			return s[:end]
		}
		_, end = g.Positions()
		count++
	}
	return s
}

// Once returns a callback that forwards only its first call.
func Once[T any](fn func(T)) func(T) {
	fired := false
	return func(v T) {
		if fired || fn == nil {
			return
		}
		fired = true
		fn(v)
	}
}
