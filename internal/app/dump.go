package app

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dshills/settingskit/internal/setting"
)

// Dump writes one line per valued setting: name, kind and the value as
// the panel would show it.
func (a *Application) Dump(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	resolver := a.panel.Registry().Resolver()
	for _, def := range a.panel.Registry().All() {
		if !def.Kind.HasValue() {
			continue
		}
		v := resolver.Read(def)
		if _, err := fmt.Fprintf(tw, "%s\t%s\t%s\n", def.Name, def.Kind, setting.Format(def, v)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
