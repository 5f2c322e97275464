package setting

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// ColorPrecision is the number of decimals color components are compared at.
const ColorPrecision = 3

// ErrInvalidColor indicates a value that cannot be read as a color.
var ErrInvalidColor = errors.New("invalid color")

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// Opaque returns a fully opaque color.
func Opaque(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1}
}

// Equal compares components at ColorPrecision decimals, so channels that
// were quantized independently still compare equal.
func (c Color) Equal(o Color) bool {
	return quantize(c.R) == quantize(o.R) &&
		quantize(c.G) == quantize(o.G) &&
		quantize(c.B) == quantize(o.B) &&
		quantize(c.A) == quantize(o.A)
}

func quantize(v float64) int64 {
	scale := math.Pow10(ColorPrecision)
	return int64(math.Round(v * scale))
}

// Clamped returns c with every component clamped into [0, 1].
func (c Color) Clamped() Color {
	clamp := func(v float64) float64 { return math.Min(math.Max(v, 0), 1) }
	return Color{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}

// RGB255 returns the 8-bit color channels.
func (c Color) RGB255() (r, g, b uint8) {
	return c.colorful().RGB255()
}

// Alpha255 returns the 8-bit alpha channel.
func (c Color) Alpha255() uint8 {
	return uint8(math.Round(c.Clamped().A * 255))
}

// Hex formats the color as #rrggbb, or #rrggbbaa when not opaque.
func (c Color) Hex() string {
	hex := c.colorful().Hex()
	if a := c.Alpha255(); a != 255 {
		hex += fmt.Sprintf("%02x", a)
	}
	return hex
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return c.Hex()
}

// WithChannel returns c with channel i (0=R, 1=G, 2=B, 3=A) set from an
// 8-bit value.
func (c Color) WithChannel(i int, v uint8) Color {
	f := float64(v) / 255
	switch i {
	case 0:
		c.R = f
	case 1:
		c.G = f
	case 2:
		c.B = f
	case 3:
		c.A = f
	}
	return c
}

// MarshalText stores colors as hex strings in profile files.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText parses a hex string.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseColor(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Color) colorful() colorful.Color {
	cl := c.Clamped()
	return colorful.Color{R: cl.R, G: cl.G, B: cl.B}
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "#") {
		s = "#" + s
	}

	alpha := 1.0
	if len(s) == 9 {
		a, err := strconv.ParseUint(s[7:], 16, 8)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
		}
		alpha = float64(a) / 255
		s = s[:7]
	}

	cf, err := colorful.Hex(s)
	if err != nil {
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, s)
	}
	return Color{R: cf.R, G: cf.G, B: cf.B, A: alpha}, nil
}

// ColorFromValue reads a stored value as a color. Accepted forms are
// Color, hex strings, [r, g, b(, a)] lists and {r, g, b(, a)} maps with
// components in [0, 1].
func ColorFromValue(v any) (Color, bool) {
	switch c := v.(type) {
	case Color:
		return c, true
	case *Color:
		if c == nil {
			return Color{}, false
		}
		return *c, true
	case string:
		parsed, err := ParseColor(c)
		return parsed, err == nil
	case []float64:
		return colorFromComponents(len(c), func(i int) (float64, bool) { return c[i], true })
	case []any:
		return colorFromComponents(len(c), func(i int) (float64, bool) { return ToFloat(c[i]) })
	case map[string]any:
		out := Color{A: 1}
		for key, dst := range map[string]*float64{"r": &out.R, "g": &out.G, "b": &out.B, "a": &out.A} {
			raw, ok := c[key]
			if !ok {
				if key == "a" {
					continue
				}
				return Color{}, false
			}
			f, ok := ToFloat(raw)
			if !ok {
				return Color{}, false
			}
			*dst = f
		}
		return out, true
	default:
		return Color{}, false
	}
}

func colorFromComponents(n int, at func(int) (float64, bool)) (Color, bool) {
	if n != 3 && n != 4 {
		return Color{}, false
	}
	comp := [4]float64{0, 0, 0, 1}
	for i := 0; i < n; i++ {
		f, ok := at(i)
		if !ok {
			return Color{}, false
		}
		comp[i] = f
	}
	return Color{R: comp[0], G: comp[1], B: comp[2], A: comp[3]}, true
}
