// Package grid maps pixel positions of the sampling grid to coordinates of the
// complex plane and partitions the grid into work units.
package grid

import (
	"image"
	"iter"

	"github.com/marben/fractatoe"
)

// Grid is a Width×Height pixel raster laid over Region. Pixel (0, 0) maps
// exactly to the (Xmin, Ymin) corner; x grows towards Xmax and y towards Ymax.
// Each pixel covers a Supersampling×Supersampling block of sub-samples.
type Grid struct {
	Region        fractatoe.Region
	Width, Height int
	Supersampling int
}

// New returns the grid described by cfg.
func New(cfg fractatoe.FractalConfig) Grid {
	n := cfg.Normalize()
	return Grid{
		Region:        n.Region,
		Width:         n.Width,
		Height:        n.Height,
		Supersampling: n.Supersampling,
	}
}

// Bounds returns the pixel rectangle of g.
func (g Grid) Bounds() image.Rectangle {
	return image.Rect(0, 0, g.Width, g.Height)
}

// Pixels returns Width×Height.
func (g Grid) Pixels() int {
	return g.Width * g.Height
}

func (g Grid) factor() int {
	if g.Supersampling < 1 {
		return 1
	}
	return g.Supersampling
}

// Coordinate maps pixel (x, y) to the plane.
func (g Grid) Coordinate(x, y int) complex128 {
	return g.at(float64(x), float64(y))
}

// SubCoordinate maps sub-sample (sx, sy) of pixel (x, y) to the plane. Sub-sample
// (0, 0) coincides with Coordinate(x, y).
func (g Grid) SubCoordinate(x, y, sx, sy int) complex128 {
	s := float64(g.factor())
	return g.at(float64(x)+float64(sx)/s, float64(y)+float64(sy)/s)
}

func (g Grid) at(px, py float64) complex128 {
	r := g.Region
	xf := r.Xmin + (px/float64(g.Width))*r.Dx()
	yf := r.Ymin + (py/float64(g.Height))*r.Dy()
	return complex(xf, yf)
}

// All enumerates every pixel in row-major order with its coordinate. The
// sequence is finite and can be ranged over any number of times.
func (g Grid) All() iter.Seq2[image.Point, complex128] {
	return g.Rect(g.Bounds())
}

// Rect enumerates the pixels of r ∩ Bounds() in row-major order.
func (g Grid) Rect(r image.Rectangle) iter.Seq2[image.Point, complex128] {
	r = r.Intersect(g.Bounds())
	return func(yield func(image.Point, complex128) bool) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if !yield(image.Pt(x, y), g.Coordinate(x, y)) {
					return
				}
			}
		}
	}
}

// SubSamples enumerates the sub-sample coordinates of pixel p in raster order.
func (g Grid) SubSamples(p image.Point) iter.Seq[complex128] {
	s := g.factor()
	return func(yield func(complex128) bool) {
		for sy := range s {
			for sx := range s {
				if !yield(g.SubCoordinate(p.X, p.Y, sx, sy)) {
					return
				}
			}
		}
	}
}

// Bands partitions the grid into at most n horizontal bands of contiguous
// rows, ordered top to bottom.
func (g Grid) Bands(n int) []image.Rectangle {
	if g.Width <= 0 || g.Height <= 0 {
		return nil
	}
	if n < 1 {
		n = 1
	}
	if n > g.Height {
		n = g.Height
	}
	h := (g.Height + n - 1) / n
	return SplitRect(g.Bounds(), g.Width, h)
}

// SplitRect splits r into tiles of size tileW × tileH.
// Tiles at the right and bottom edges are smaller if r is not divisible.
func SplitRect(r image.Rectangle, tileW, tileH int) []image.Rectangle {
	if tileW <= 0 || tileH <= 0 {
		panic("grid: tile dimensions must be positive")
	}

	w := r.Dx()
	h := r.Dy()

	var tiles []image.Rectangle

	for oy := 0; oy < h; oy += tileH {
		th := min(tileH, h-oy)

		for ox := 0; ox < w; ox += tileW {
			tw := min(tileW, w-ox)

			tiles = append(tiles, image.Rect(
				r.Min.X+ox,
				r.Min.Y+oy,
				r.Min.X+ox+tw,
				r.Min.Y+oy+th,
			))
		}
	}

	return tiles
}
