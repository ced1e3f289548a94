// Package render turns a histogram artifact into a colour image by histogram
// equalization: every escape count is mapped to its cumulative share of all
// escaped samples, so the palette is spread evenly over the image.
package render

import (
	"image"
	"math"
	"time"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/histogram"
)

// Render maps h to an image as cfg describes. It has no side effects; use
// Encode or WriteFile to persist the result.
func Render(h *histogram.Histogram, cfg fractatoe.RenderingConfig) (*image.NRGBA, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := h.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Normalize()
	pal, err := NewPalette(n)
	if err != nil {
		return nil, err
	}
	bg, err := fractatoe.ParseColor(n.Background)
	if err != nil {
		return nil, err
	}

	w, ht := h.Width, h.Height
	if n.Width > 0 {
		w = n.Width
	}
	if n.Height > 0 {
		ht = n.Height
	}

	start := time.Now()
	values := resample(Normalized(h, Equalize(h)), h.Width, h.Height, w, ht)

	img := image.NewNRGBA(image.Rect(0, 0, w, ht))
	for y := range ht {
		for x := range w {
			v := values[y*w+x]
			if math.IsNaN(v) {
				img.SetNRGBA(x, y, bg)
				continue
			}
			v = Scale(v, n.Scale)
			if n.Gamma != 1 {
				v = math.Pow(v, n.Gamma)
			}
			img.SetNRGBA(x, y, pal.At(v))
		}
	}

	fractatoe.Logger().Debug("histogram rendered",
		"width", w, "height", ht, "escaped", h.Escaped(), "bounded", h.Bounded,
		"elapsed", time.Since(start))
	return img, nil
}
