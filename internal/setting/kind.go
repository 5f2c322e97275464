// Package setting defines the declarative description of one setting, the
// resolver that reads and writes its value, and the value arithmetic shared
// by every renderer: numeric snapping, choice cycling and color identity.
package setting

import (
	"fmt"
	"strings"
)

// Kind is the control kind of a setting.
type Kind uint8

const (
	// KindInvalid is the zero value; a definition without a kind is rejected.
	KindInvalid Kind = iota
	// KindToggle is a boolean on/off switch.
	KindToggle
	// KindNumber is a bounded numeric value moved in steps.
	KindNumber
	// KindChoice selects one entry of an ordered list of choices.
	KindChoice
	// KindColor is an RGBA color.
	KindColor
	// KindText is free text bounded by MaxLength.
	KindText
	// KindImageChoice selects one entry of an ordered list of image identifiers.
	KindImageChoice
	// KindAction triggers OnActivate and holds no value.
	KindAction
	// KindLabel is non-interactive text.
	KindLabel
	// KindSeparator is a non-interactive divider.
	KindSeparator
)

var kindNames = map[Kind]string{
	KindToggle:      "toggle",
	KindNumber:      "number",
	KindChoice:      "choice",
	KindColor:       "color",
	KindText:        "text",
	KindImageChoice: "image",
	KindAction:      "action",
	KindLabel:       "label",
	KindSeparator:   "separator",
}

// kindAliases lets declarations use the names hosts commonly reach for.
var kindAliases = map[string]Kind{
	"bool":     KindToggle,
	"boolean":  KindToggle,
	"checkbox": KindToggle,
	"slider":   KindNumber,
	"range":    KindNumber,
	"dropdown": KindChoice,
	"select":   KindChoice,
	"colour":   KindColor,
	"input":    KindText,
	"button":   KindAction,
	"header":   KindLabel,
	"divider":  KindSeparator,
}

// String returns the canonical name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	if k == KindInvalid {
		return "invalid"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Known reports whether k is one of the defined kinds.
func (k Kind) Known() bool {
	_, ok := kindNames[k]
	return ok
}

// Interactive reports whether the kind accepts user input.
func (k Kind) Interactive() bool {
	return k.Known() && k != KindLabel && k != KindSeparator
}

// HasValue reports whether the kind reads and writes a value.
func (k Kind) HasValue() bool {
	return k.Interactive() && k != KindAction
}

// ParseKind parses a kind name or alias, case-insensitively.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	if k, ok := kindAliases[name]; ok {
		return k, nil
	}
	return KindInvalid, fmt.Errorf("%w: %q", ErrUnknownKind, s)
}
