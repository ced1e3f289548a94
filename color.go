package fractatoe

import (
	"image/color"
	"strconv"
	"strings"
)

// ParseColor parses a hex colour.
// Supports formats: "RGB", "RGBA", "RRGGBB", "RRGGBBAA", each with an optional
// leading '#'. Colours without an alpha component are opaque.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")

	var digits []string
	switch len(hex) {
	case 3, 4: // RGB, RGBA
		for _, ch := range hex {
			digits = append(digits, string(ch)+string(ch))
		}
	case 6, 8: // RRGGBB, RRGGBBAA
		for i := 0; i < len(hex); i += 2 {
			digits = append(digits, hex[i:i+2])
		}
	default:
		return color.NRGBA{}, Errorf(ErrConfig, "colour %q: want #rgb, #rgba, #rrggbb or #rrggbbaa", s)
	}

	c := [4]uint8{3: 0xff}
	for i, d := range digits {
		v, err := strconv.ParseUint(d, 16, 8)
		if err != nil {
			return color.NRGBA{}, Errorf(ErrConfig, "colour %q: %v", s, err)
		}
		c[i] = uint8(v)
	}
	return color.NRGBA{R: c[0], G: c[1], B: c[2], A: c[3]}, nil
}

// FormatColor is the inverse of ParseColor, always producing "#rrggbbaa".
func FormatColor(c color.NRGBA) string {
	const digits = "0123456789abcdef"
	b := []byte{'#'}
	for _, v := range []uint8{c.R, c.G, c.B, c.A} {
		b = append(b, digits[v>>4], digits[v&0x0f])
	}
	return string(b)
}
