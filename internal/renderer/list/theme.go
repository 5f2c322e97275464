package list

import (
	"github.com/dshills/settingskit/internal/terminal"
)

// Theme holds the styles of the list view.
type Theme struct {
	Header    terminal.Style
	Caption   terminal.Style
	Separator terminal.Style
	Value     terminal.Style
	Selected  terminal.Style
	Footer    terminal.Style
	Prompt    terminal.Style
}

// DefaultTheme returns the default styles.
func DefaultTheme() Theme {
	base := terminal.DefaultStyle()
	return Theme{
		Header:    base.Bold(),
		Caption:   base.Dim(),
		Separator: base.Dim(),
		Value:     base,
		Selected:  base.Reverse(),
		Footer:    base.Dim(),
		Prompt:    base.Bold(),
	}
}
