package setting

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Format renders v the way value rows show it for d's kind.
func Format(d *Definition, v any) string {
	switch d.Kind {
	case KindToggle:
		if ToBool(v) {
			return "on"
		}
		return "off"
	case KindNumber:
		f, ok := ToFloat(v)
		if !ok {
			return ""
		}
		return strconv.FormatFloat(f, 'f', decimals(d.Step), 64)
	case KindColor:
		c, ok := ColorFromValue(v)
		if !ok {
			return ""
		}
		return c.Hex()
	case KindChoice, KindImageChoice, KindText:
		if v == nil {
			return ""
		}
		return fmt.Sprint(v)
	default:
		return ""
	}
}

// decimals returns how many fractional digits step carries.
func decimals(step float64) int {
	if step <= 0 {
		return -1
	}
	s := strconv.FormatFloat(step, 'f', -1, 64)
	if i := strings.IndexByte(s, '.'); i >= 0 {
		return len(s) - i - 1
	}
	return 0
}

// SameValue reports whether two values of kind k display identically.
// Numbers compare after float normalization, colors at ColorPrecision,
// everything else by exact equality.
func SameValue(k Kind, a, b any) bool {
	switch k {
	case KindNumber:
		fa, okA := ToFloat(a)
		fb, okB := ToFloat(b)
		if okA && okB {
			return fa == fb
		}
	case KindColor:
		ca, okA := ColorFromValue(a)
		cb, okB := ColorFromValue(b)
		if okA && okB {
			return ca.Equal(cb)
		}
		if okA != okB {
			return false
		}
	case KindToggle:
		return ToBool(a) == ToBool(b)
	}

	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}
