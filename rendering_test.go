package fractatoe

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func twoStops() []ColorStop {
	return []ColorStop{{Offset: 0, Color: "#000"}, {Offset: 1, Color: "#fff"}}
}

func TestRenderingConfigNormalize(t *testing.T) {
	tests := []struct {
		name   string
		in     RenderingConfig
		format Format
	}{
		{"default png", RenderingConfig{}, FormatPNG},
		{"from output", RenderingConfig{Output: "out/picture.JPG"}, FormatJPEG},
		{"tif alias", RenderingConfig{Format: "TIF"}, FormatTIFF},
		{"jpg alias", RenderingConfig{Format: "jpg", Output: "x.bmp"}, FormatJPEG},
		{"unknown extension", RenderingConfig{Output: "x.webp"}, FormatPNG},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := tt.in.Normalize()
			if n.Format != tt.format {
				t.Errorf("Format = %q, want %q", n.Format, tt.format)
			}
			if n.Mode != ModeGradient || n.Blend != BlendSRGB || n.Scale != ScaleLinear || n.Gamma != 1 || n.Cycles != 1 ||
				n.Background != "#000000" || n.JPEGQuality != DefaultJPEGQuality {
				t.Errorf("defaults not applied: %+v", n)
			}
		})
	}
}

func TestRenderingConfigValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  RenderingConfig
	}{
		{"no stops", RenderingConfig{}},
		{"one gradient stop", RenderingConfig{Palette: twoStops()[:1]}},
		{"offset below zero", RenderingConfig{Palette: []ColorStop{{Offset: -0.1, Color: "#000"}, {Offset: 1, Color: "#fff"}}}},
		{"unparsable colour", RenderingConfig{Palette: []ColorStop{{Offset: 0, Color: "black"}, {Offset: 1, Color: "#fff"}}}},
		{"unknown mode", RenderingConfig{Palette: twoStops(), Mode: "dither"}},
		{"unknown blend", RenderingConfig{Palette: twoStops(), Blend: "oklab"}},
		{"bad background", RenderingConfig{Palette: twoStops(), Background: "#12"}},
		{"negative width", RenderingConfig{Palette: twoStops(), Width: -1}},
		{"negative gamma", RenderingConfig{Palette: twoStops(), Gamma: -0.5}},
		{"zero cycles after negative", RenderingConfig{Palette: twoStops(), Cycles: -2}},
		{"unknown format", RenderingConfig{Palette: twoStops(), Format: "gif"}},
		{"quality too high", RenderingConfig{Palette: twoStops(), JPEGQuality: 101}},
		{"oversized output", RenderingConfig{Palette: twoStops(), Width: MaxDimension + 1}},
		{"unknown scale", RenderingConfig{Palette: twoStops(), Scale: "sqrt"}},
		{"gaussian without bands", RenderingConfig{Mode: ModeGaussian}},
		{"gaussian flat band", RenderingConfig{Mode: ModeGaussian, Bands: []GaussianBand{{Color: "#f00", Mean: 0.5, Scale: 1}}}},
		{"gaussian nan mean", RenderingConfig{Mode: ModeGaussian, Bands: []GaussianBand{{Color: "#f00", Mean: math.NaN(), StdDeviation: 1, Scale: 1}}}},
		{"gaussian bad colour", RenderingConfig{Mode: ModeGaussian, Bands: []GaussianBand{{Color: "red", StdDeviation: 1, Scale: 1}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); !errors.Is(err, ErrConfig) {
				t.Errorf("Validate() = %v, want ErrConfig", err)
			}
		})
	}

	for _, ok := range []RenderingConfig{
		{Palette: twoStops()},
		{Palette: twoStops()[:1], Mode: ModeStepped},
		{PalettePreset: "fire"},
		{PalettePreset: "fire", Scale: "Logarithmic"},
		{Mode: ModeGaussian, Bands: []GaussianBand{{Color: "#f00", Mean: 0.5, StdDeviation: 0.2, Scale: 1}}},
	} {
		if err := ok.Validate(); err != nil {
			t.Errorf("Validate(%+v) = %v", ok, err)
		}
	}
}

func TestLoadRenderingConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "render.json")
	doc := `{"palette": [{"offset": 0, "color": "#000"}, {"offset": 1, "color": "#ffcc00"}], "gamma": 0.8, "output": "out.tiff"}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := LoadRenderingConfig(path)
	if err != nil {
		t.Fatalf("LoadRenderingConfig() = %v", err)
	}
	if len(c.Palette) != 2 || c.Gamma != 0.8 || c.Normalize().Format != FormatTIFF {
		t.Errorf("LoadRenderingConfig() = %+v", c)
	}

	if _, err := LoadRenderingConfig(filepath.Join(dir, "absent.json")); !errors.Is(err, ErrIO) {
		t.Errorf("LoadRenderingConfig(absent) = %v, want ErrIO", err)
	}
	if _, err := DecodeRenderingConfig(strings.NewReader(`{"pallete": []}`)); !errors.Is(err, ErrConfig) {
		t.Errorf("DecodeRenderingConfig(typo) = %v, want ErrConfig", err)
	}
}
