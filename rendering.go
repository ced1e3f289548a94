package fractatoe

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
)

// Mode selects how palette stops are turned into colours.
type Mode string

const (
	ModeGradient Mode = "gradient" // interpolate between the two nearest stops
	ModeStepped  Mode = "stepped"  // use the nearest stop at or below t
	ModeGaussian Mode = "gaussian" // sum of gaussian colour bands at t
)

// ValueScale reshapes the equalized value before gamma is applied.
type ValueScale string

const (
	ScaleLinear      ValueScale = "linear"
	ScaleLogarithmic ValueScale = "logarithmic"
)

// Blend selects the colour space of gradient interpolation.
type Blend string

const (
	BlendSRGB   Blend = "srgb"   // component-wise on the encoded values
	BlendLinear Blend = "linear" // in linear-light RGB
)

// Format is an output image encoding.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatTIFF Format = "tiff"
	FormatBMP  Format = "bmp"
)

const DefaultJPEGQuality = 90

// ColorStop places a colour at an offset in [0, 1] of the palette.
type ColorStop struct {
	Offset float64 `json:"offset"`
	Color  string  `json:"color"`
}

// GaussianBand contributes Color weighted by a gaussian bell centred on Mean.
// At t the weight is Scale·exp(-((t-Mean)/StdDeviation)²) / (√π·StdDeviation/2).
type GaussianBand struct {
	Color        string  `json:"color"`
	Mean         float64 `json:"mean"`
	StdDeviation float64 `json:"std_deviation"`
	Scale        float64 `json:"scale"`
}

// RenderingConfig describes how a histogram becomes an image.
type RenderingConfig struct {
	// Palette holds explicit stops; PalettePreset names a built-in palette
	// and is used when Palette is empty.
	Palette       []ColorStop `json:"palette,omitempty"`
	PalettePreset string      `json:"palette_preset,omitempty"`
	Mode          Mode        `json:"mode,omitempty"`
	Blend         Blend       `json:"blend,omitempty"`

	// Bands are the colour bands of the gaussian mode.
	Bands []GaussianBand `json:"bands,omitempty"`

	// Scale is applied to the equalized value ahead of Gamma.
	Scale ValueScale `json:"scale,omitempty"`

	// Width and Height of the output image; 0 keeps the histogram's size on
	// that axis.
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`

	// Background colours samples that never escaped.
	Background string `json:"background,omitempty"`

	// Gamma is applied to the equalized value before the palette lookup.
	Gamma float64 `json:"gamma,omitempty"`

	// Cycles repeats the palette across the equalized range.
	Cycles int `json:"cycles,omitempty"`

	Format      Format `json:"format,omitempty"`
	JPEGQuality int    `json:"jpeg_quality,omitempty"`
	Output      string `json:"output,omitempty"`
}

// FormatFromPath infers the image format from the file extension.
func FormatFromPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, true
	case ".jpg", ".jpeg":
		return FormatJPEG, true
	case ".tif", ".tiff":
		return FormatTIFF, true
	case ".bmp":
		return FormatBMP, true
	}
	return "", false
}

// Normalize returns a copy of c with defaults applied.
func (c RenderingConfig) Normalize() RenderingConfig {
	c.Mode = Mode(strings.ToLower(string(c.Mode)))
	if c.Mode == "" {
		c.Mode = ModeGradient
	}
	c.Blend = Blend(strings.ToLower(string(c.Blend)))
	if c.Blend == "" {
		c.Blend = BlendSRGB
	}
	c.Scale = ValueScale(strings.ToLower(string(c.Scale)))
	if c.Scale == "" {
		c.Scale = ScaleLinear
	}
	if c.Background == "" {
		c.Background = "#000000"
	}
	if c.Gamma == 0 {
		c.Gamma = 1
	}
	if c.Cycles == 0 {
		c.Cycles = 1
	}
	c.Format = Format(strings.ToLower(string(c.Format)))
	if c.Format == "jpg" {
		c.Format = FormatJPEG
	}
	if c.Format == "tif" {
		c.Format = FormatTIFF
	}
	if c.Format == "" {
		c.Format = FormatPNG
		if f, ok := FormatFromPath(c.Output); ok {
			c.Format = f
		}
	}
	if c.JPEGQuality == 0 {
		c.JPEGQuality = DefaultJPEGQuality
	}
	return c
}

// Validate reports the first structural problem of c as an ErrConfig error.
// Preset names are resolved by the renderer, which owns the built-in palettes.
func (c RenderingConfig) Validate() error {
	n := c.Normalize()
	switch n.Mode {
	case ModeGradient, ModeStepped, ModeGaussian:
	default:
		return Errorf(ErrConfig, "unknown palette mode %q", c.Mode)
	}
	switch n.Blend {
	case BlendSRGB, BlendLinear:
	default:
		return Errorf(ErrConfig, "unknown blend %q", c.Blend)
	}
	switch n.Scale {
	case ScaleLinear, ScaleLogarithmic:
	default:
		return Errorf(ErrConfig, "unknown value scale %q", c.Scale)
	}
	if n.Mode == ModeGaussian {
		if len(n.Bands) == 0 {
			return Errorf(ErrConfig, "gaussian mode needs at least one band")
		}
		for i, b := range n.Bands {
			if err := b.validate(); err != nil {
				return fmt.Errorf("band %d: %w", i, err)
			}
		}
	} else if n.PalettePreset == "" {
		switch {
		case len(n.Palette) == 0:
			return Errorf(ErrConfig, "palette has no colour stops")
		case len(n.Palette) == 1 && n.Mode == ModeGradient:
			return Errorf(ErrConfig, "gradient palette needs at least 2 stops, got 1")
		}
	}
	for i, s := range n.Palette {
		if !(s.Offset >= 0 && s.Offset <= 1) {
			return Errorf(ErrConfig, "palette stop %d: offset %g outside [0, 1]", i, s.Offset)
		}
		if _, err := ParseColor(s.Color); err != nil {
			return fmt.Errorf("palette stop %d: %w", i, err)
		}
	}
	if _, err := ParseColor(n.Background); err != nil {
		return fmt.Errorf("background: %w", err)
	}
	if n.Width < 0 || n.Height < 0 {
		return Errorf(ErrConfig, "output dimensions must not be negative, got %dx%d", n.Width, n.Height)
	}
	if n.Width > MaxDimension || n.Height > MaxDimension {
		return Errorf(ErrConfig, "output %dx%d exceeds %d on a side", n.Width, n.Height, MaxDimension)
	}
	if !(n.Gamma > 0) || math.IsInf(n.Gamma, 0) {
		return Errorf(ErrConfig, "gamma must be a positive real, got %g", n.Gamma)
	}
	if n.Cycles < 1 {
		return Errorf(ErrConfig, "cycles must be at least 1, got %d", n.Cycles)
	}
	switch n.Format {
	case FormatPNG, FormatJPEG, FormatTIFF, FormatBMP:
	default:
		return Errorf(ErrConfig, "unknown output format %q", c.Format)
	}
	if n.JPEGQuality < 1 || n.JPEGQuality > 100 {
		return Errorf(ErrConfig, "jpeg_quality must be within 1..100, got %d", n.JPEGQuality)
	}
	return nil
}

func (b GaussianBand) validate() error {
	if _, err := ParseColor(b.Color); err != nil {
		return err
	}
	if !(b.StdDeviation > 0) || math.IsInf(b.StdDeviation, 0) {
		return Errorf(ErrConfig, "std_deviation must be a positive real, got %g", b.StdDeviation)
	}
	if math.IsNaN(b.Mean) || math.IsInf(b.Mean, 0) || math.IsNaN(b.Scale) || math.IsInf(b.Scale, 0) {
		return Errorf(ErrConfig, "mean and scale must be finite, got %g and %g", b.Mean, b.Scale)
	}
	return nil
}

// DecodeRenderingConfig reads a JSON rendering configuration.
func DecodeRenderingConfig(r io.Reader) (RenderingConfig, error) {
	var c RenderingConfig
	if err := decodeStrict(r, &c); err != nil {
		return RenderingConfig{}, Errorf(ErrConfig, "decode rendering config: %v", err)
	}
	return c, nil
}

// LoadRenderingConfig reads the rendering configuration at path. It is not
// validated yet: the caller may still override Output or Format.
func LoadRenderingConfig(path string) (RenderingConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return RenderingConfig{}, WrapIO("read rendering config", err)
	}
	c, err := DecodeRenderingConfig(bytes.NewReader(b))
	if err != nil {
		return RenderingConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
