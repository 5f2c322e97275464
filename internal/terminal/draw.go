package terminal

import (
	"strings"

	"github.com/rivo/uniseg"
)

// DrawText draws text at (x, y) grapheme by grapheme, clipped to width
// cells. Returns the number of cells used.
func DrawText(s Screen, x, y, width int, text string, style Style) int {
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		cluster := g.Str()
		w := g.Width()
		if w == 0 {
			continue
		}
		if used+w > width {
			break
		}
		s.SetCell(x+used, y, Cell{Text: cluster, Width: w, Style: style})
		for i := 1; i < w; i++ {
			s.SetCell(x+used+i, y, Cell{Style: style})
		}
		used += w
	}
	return used
}

// FillLine draws text and pads the rest of the width with blanks.
func FillLine(s Screen, x, y, width int, text string, style Style) {
	used := DrawText(s, x, y, width, text, style)
	for i := used; i < width; i++ {
		s.SetCell(x+i, y, Cell{Text: " ", Width: 1, Style: style})
	}
}

// Pad right-pads text with spaces to width cells, clipping if longer.
func Pad(text string, width int) string {
	text = clip(text, width)
	if w := StringWidth(text); w < width {
		text += strings.Repeat(" ", width-w)
	}
	return text
}

func clip(text string, width int) string {
	var b strings.Builder
	used := 0
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		if used+g.Width() > width {
			break
		}
		used += g.Width()
		b.WriteString(g.Str())
	}
	return b.String()
}
