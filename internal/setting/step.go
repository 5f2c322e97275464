package setting

import (
	"fmt"
	"math"
)

// Snap moves v onto the step grid anchored at minimum and clamps it into
// [minimum, maximum]. The upper clamp lands on the highest grid value that
// does not exceed maximum, so the result is always minimum + k*step.
// A non-positive step only clamps.
func Snap(v, minimum, maximum, step float64) float64 {
	if maximum < minimum {
		return minimum
	}
	if math.IsNaN(v) {
		return minimum
	}
	if step <= 0 {
		return math.Min(math.Max(v, minimum), maximum)
	}

	top := math.Floor((maximum-minimum)/step + 1e-9)
	k := math.Round((v - minimum) / step)
	if k < 0 {
		k = 0
	}
	if k > top {
		k = top
	}
	return math.Min(math.Max(k*step+minimum, minimum), maximum)
}

// CycleChoice returns the entry delta positions away from current,
// wrapping in both directions. A current value not in choices counts as
// index 0. ok is false when choices is empty.
func CycleChoice(choices []string, current any, delta int) (next string, ok bool) {
	n := len(choices)
	if n == 0 {
		return "", false
	}
	idx := IndexOf(choices, current)
	if idx < 0 {
		idx = 0
	}
	idx = ((idx+delta)%n + n) % n
	return choices[idx], true
}

// IndexOf returns the position of v in choices, or -1.
// Non-string values match by their printed form so numbers loaded from a
// profile still find "1", "2", ... entries.
func IndexOf(choices []string, v any) int {
	if v == nil {
		return -1
	}
	s, isString := v.(string)
	if !isString {
		s = fmt.Sprint(v)
	}
	for i, c := range choices {
		if c == s {
			return i
		}
	}
	return -1
}

// ToFloat converts any numeric value to float64.
func ToFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	default:
		return 0, false
	}
}

// ToBool converts a stored value to a toggle state. Missing or non-boolean
// values read as false.
func ToBool(v any) bool {
	b, _ := v.(bool)
	return b
}
