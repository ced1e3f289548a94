package render

import (
	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/histogram"
)

// RenderFile loads the histogram at histPath, renders it and writes the image
// to outPath. outPath overrides cfg.Output; when cfg.Format is empty the
// format follows outPath's extension.
func RenderFile(histPath string, cfg fractatoe.RenderingConfig, outPath string) error {
	cfg.Output = outPath
	if err := cfg.Validate(); err != nil {
		return err
	}
	if _, err := NewPalette(cfg); err != nil {
		return err
	}
	h, err := histogram.ReadFile(histPath)
	if err != nil {
		return err
	}
	img, err := Render(h, cfg)
	if err != nil {
		return err
	}
	return WriteFile(outPath, img, cfg)
}

// FileRenderer adapts RenderFile to fractatoe.Renderer.
type FileRenderer struct{}

// RenderFile implements fractatoe.Renderer.
func (FileRenderer) RenderFile(histPath string, cfg fractatoe.RenderingConfig, outPath string) error {
	return RenderFile(histPath, cfg, outPath)
}

var _ fractatoe.Renderer = FileRenderer{}
