package render

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/marben/fractatoe"
)

// stop is a parsed colour stop.
type stop struct {
	offset float64
	color  color.NRGBA
}

// band is a parsed gaussian colour band; weight folds in the normalization.
type band struct {
	color        color.NRGBA
	mean, stddev float64
	weight       float64
}

// Palette maps a value in [0, 1] to a colour.
type Palette struct {
	stops  []stop
	bands  []band
	mode   fractatoe.Mode
	blend  fractatoe.Blend
	cycles int
}

// presets are the built-in palettes selectable by name.
var presets = map[string][]fractatoe.ColorStop{
	"grayscale": {
		{Offset: 0, Color: "#000000"},
		{Offset: 1, Color: "#ffffff"},
	},
	"fire": {
		{Offset: 0, Color: "#000000"},
		{Offset: 0.3, Color: "#7f0000"},
		{Offset: 0.6, Color: "#ff4000"},
		{Offset: 0.85, Color: "#ffd000"},
		{Offset: 1, Color: "#ffffff"},
	},
	"ocean": {
		{Offset: 0, Color: "#000428"},
		{Offset: 0.5, Color: "#004e92"},
		{Offset: 0.8, Color: "#00c6ff"},
		{Offset: 1, Color: "#e0ffff"},
	},
	"rainbow": hueWheel(12),
}

// PresetNames lists the built-in palettes in alphabetical order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// hueWheel samples a full turn of the HSV hue circle at n+1 evenly spaced
// stops; the first and last stop are both red.
func hueWheel(n int) []fractatoe.ColorStop {
	stops := make([]fractatoe.ColorStop, 0, n+1)
	for i := 0; i <= n; i++ {
		h := float64(i) / float64(n)
		stops = append(stops, fractatoe.ColorStop{Offset: h, Color: fractatoe.FormatColor(hsv(h, 1, 1))})
	}
	return stops
}

// Simple HSV → RGB
func hsv(h, s, v float64) color.NRGBA {
	h = math.Mod(h, 1)
	i := int(h * 6)
	f := h*6 - float64(i)
	p := v * (1 - s)
	q := v * (1 - f*s)
	t := v * (1 - (1-f)*s)

	var r, g, b float64
	switch i % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	case 5:
		r, g, b = v, p, q
	}
	return color.NRGBA{uint8(r * 255), uint8(g * 255), uint8(b * 255), 255}
}

// NewPalette builds the palette described by cfg: its explicit stops, or the
// named preset when it has none.
func NewPalette(cfg fractatoe.RenderingConfig) (*Palette, error) {
	n := cfg.Normalize()
	if n.Mode == fractatoe.ModeGaussian {
		return newGaussianPalette(n)
	}
	src := n.Palette
	if len(src) == 0 && n.PalettePreset != "" {
		p, ok := presets[strings.ToLower(n.PalettePreset)]
		if !ok {
			return nil, fractatoe.Errorf(fractatoe.ErrConfig, "unknown palette preset %q (known: %s)",
				n.PalettePreset, strings.Join(PresetNames(), ", "))
		}
		src = p
	}

	switch n.Mode {
	case fractatoe.ModeGradient:
		if len(src) < 2 {
			return nil, fractatoe.Errorf(fractatoe.ErrConfig, "gradient palette needs at least 2 stops, got %d", len(src))
		}
	case fractatoe.ModeStepped:
		if len(src) < 1 {
			return nil, fractatoe.Errorf(fractatoe.ErrConfig, "palette has no colour stops")
		}
	default:
		return nil, fractatoe.Errorf(fractatoe.ErrConfig, "unknown palette mode %q", cfg.Mode)
	}
	if n.Blend != fractatoe.BlendSRGB && n.Blend != fractatoe.BlendLinear {
		return nil, fractatoe.Errorf(fractatoe.ErrConfig, "unknown blend %q", cfg.Blend)
	}
	if n.Cycles < 1 {
		return nil, fractatoe.Errorf(fractatoe.ErrConfig, "cycles must be at least 1, got %d", n.Cycles)
	}

	stops := make([]stop, len(src))
	for i, s := range src {
		if !(s.Offset >= 0 && s.Offset <= 1) {
			return nil, fractatoe.Errorf(fractatoe.ErrConfig, "palette stop %d: offset %g outside [0, 1]", i, s.Offset)
		}
		c, err := fractatoe.ParseColor(s.Color)
		if err != nil {
			return nil, fmt.Errorf("palette stop %d: %w", i, err)
		}
		stops[i] = stop{offset: s.Offset, color: c}
	}
	slices.SortStableFunc(stops, func(a, b stop) int {
		switch {
		case a.offset < b.offset:
			return -1
		case a.offset > b.offset:
			return 1
		}
		return 0
	})

	return &Palette{stops: stops, mode: n.Mode, blend: n.Blend, cycles: n.Cycles}, nil
}

func newGaussianPalette(n fractatoe.RenderingConfig) (*Palette, error) {
	if len(n.Bands) == 0 {
		return nil, fractatoe.Errorf(fractatoe.ErrConfig, "gaussian mode needs at least one band")
	}
	if n.Cycles < 1 {
		return nil, fractatoe.Errorf(fractatoe.ErrConfig, "cycles must be at least 1, got %d", n.Cycles)
	}
	bands := make([]band, len(n.Bands))
	for i, b := range n.Bands {
		if !(b.StdDeviation > 0) || math.IsInf(b.StdDeviation, 0) {
			return nil, fractatoe.Errorf(fractatoe.ErrConfig, "band %d: std_deviation must be a positive real, got %g", i, b.StdDeviation)
		}
		c, err := fractatoe.ParseColor(b.Color)
		if err != nil {
			return nil, fmt.Errorf("band %d: %w", i, err)
		}
		bands[i] = band{
			color:  c,
			mean:   b.Mean,
			stddev: b.StdDeviation,
			weight: b.Scale / (math.SqrtPi * b.StdDeviation / 2),
		}
	}
	return &Palette{bands: bands, mode: n.Mode, cycles: n.Cycles}, nil
}

// At returns the colour at t. Values outside [0, 1] are clamped. With more
// than one cycle the palette repeats, and t == 1 still maps to its last stop.
func (p *Palette) At(t float64) color.NRGBA {
	t = p.wrap(clamp01(t))

	switch p.mode {
	case fractatoe.ModeGaussian:
		return p.gaussian(t)
	case fractatoe.ModeStepped:
		idx := sort.Search(len(p.stops), func(i int) bool {
			return p.stops[i].offset > t
		})
		if idx == 0 {
			return p.stops[0].color
		}
		return p.stops[idx-1].color
	}

	idx := sort.Search(len(p.stops), func(i int) bool {
		return p.stops[i].offset >= t
	})
	if idx == 0 {
		return p.stops[0].color
	}
	if idx >= len(p.stops) {
		return p.stops[len(p.stops)-1].color
	}
	s1, s2 := p.stops[idx-1], p.stops[idx]
	if s2.offset == s1.offset {
		return s1.color
	}
	local := (t - s1.offset) / (s2.offset - s1.offset)
	if p.blend == fractatoe.BlendLinear {
		return interpolateLinear(s1.color, s2.color, local)
	}
	return interpolateSRGB(s1.color, s2.color, local)
}

func (p *Palette) wrap(t float64) float64 {
	if p.cycles <= 1 || t == 0 {
		return t
	}
	t *= float64(p.cycles)
	return t - (math.Ceil(t) - 1)
}

// gaussian sums the bands' contributions at t, each channel saturating at
// 255. The result is opaque.
func (p *Palette) gaussian(t float64) color.NRGBA {
	var r, g, b float64
	for _, bd := range p.bands {
		y := (t - bd.mean) / bd.stddev
		f := math.Exp(-y*y) * bd.weight
		r += f * float64(bd.color.R)
		g += f * float64(bd.color.G)
		b += f * float64(bd.color.B)
	}
	ch := func(v float64) uint8 {
		return uint8(math.Round(min(max(v, 0), 255)))
	}
	return color.NRGBA{ch(r), ch(g), ch(b), 255}
}

// clamp01 clamps a value to [0, 1] range.
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a) + (float64(b)-float64(a))*t))
}

func interpolateSRGB(c1, c2 color.NRGBA, t float64) color.NRGBA {
	return color.NRGBA{
		R: lerp8(c1.R, c2.R, t),
		G: lerp8(c1.G, c2.G, t),
		B: lerp8(c1.B, c2.B, t),
		A: lerp8(c1.A, c2.A, t),
	}
}

// interpolateLinear blends in linear-light RGB. Alpha is always linear.
func interpolateLinear(c1, c2 color.NRGBA, t float64) color.NRGBA {
	ch := func(a, b uint8) uint8 {
		la, lb := srgbToLinear(float64(a)/255), srgbToLinear(float64(b)/255)
		return uint8(math.Round(linearToSRGB(la+(lb-la)*t) * 255))
	}
	return color.NRGBA{
		R: ch(c1.R, c2.R),
		G: ch(c1.G, c2.G),
		B: ch(c1.B, c2.B),
		A: lerp8(c1.A, c2.A, t),
	}
}

func srgbToLinear(s float64) float64 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math.Pow((s+0.055)/1.055, 2.4)
}

func linearToSRGB(l float64) float64 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math.Pow(l, 1.0/2.4) - 0.055
}
