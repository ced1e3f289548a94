// Package histogram builds, validates and persists the intermediate artifact
// handed from the generation phase to the rendering phase.
package histogram

import (
	"math"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/fractal"
)

// Histogram holds the escape result of every pixel and the frequency of each
// escape iteration count.
//
// A Histogram is owned by its producer until it is written; once persisted
// or returned it is treated as immutable.
type Histogram struct {
	Width, Height int
	MaxIterations int
	Smooth        bool

	// Fingerprint is the FractalConfig fingerprint the histogram was
	// generated from. Empty for histograms assembled by hand.
	Fingerprint string

	// Counts is the row-major escape count of each pixel; 0 marks a pixel
	// that never escaped.
	Counts []int32

	// Values holds the continuous escape value of each pixel when Smooth is
	// set, and is nil otherwise.
	Values []float64

	// Frequencies[n] is the number of pixels that escaped at exactly n
	// iterations. len(Frequencies) == MaxIterations+1 and Frequencies[0] == 0.
	Frequencies []uint64

	// Bounded is the number of pixels that never escaped.
	Bounded uint64
}

// New allocates an empty histogram in which every pixel is bounded.
func New(width, height, maxIterations int, smooth bool) *Histogram {
	h := &Histogram{
		Width:         width,
		Height:        height,
		MaxIterations: maxIterations,
		Smooth:        smooth,
		Counts:        make([]int32, width*height),
		Frequencies:   make([]uint64, maxIterations+1),
		Bounded:       uint64(width * height),
	}
	if smooth {
		h.Values = make([]float64, width*height)
	}
	return h
}

// Pixels returns Width×Height.
func (h *Histogram) Pixels() int {
	return h.Width * h.Height
}

// Escaped returns the number of pixels that escaped.
func (h *Histogram) Escaped() uint64 {
	var n uint64
	for _, f := range h.Frequencies {
		n += f
	}
	return n
}

// At returns the recorded result of pixel (x, y).
func (h *Histogram) At(x, y int) fractal.Sample {
	i := y*h.Width + x
	n := int(h.Counts[i])
	if n == 0 {
		return fractal.Sample{}
	}
	s := fractal.Sample{Escaped: true, Iterations: n, Smooth: float64(n)}
	if h.Smooth {
		s.Smooth = h.Values[i]
	}
	return s
}

// Set records the result of pixel (x, y) and keeps the frequency table in
// step. It is not safe for concurrent use; the generator writes through
// per-worker tables instead.
func (h *Histogram) Set(x, y int, s fractal.Sample) {
	i := y*h.Width + x
	if old := h.Counts[i]; old == 0 {
		h.Bounded--
	} else {
		h.Frequencies[old]--
	}
	h.store(i, s)
	if s.Escaped {
		h.Frequencies[s.Iterations]++
	} else {
		h.Bounded++
	}
}

// store writes the per-pixel arrays only.
func (h *Histogram) store(i int, s fractal.Sample) {
	if !s.Escaped {
		h.Counts[i] = 0
		if h.Smooth {
			h.Values[i] = 0
		}
		return
	}
	h.Counts[i] = int32(s.Iterations)
	if h.Smooth {
		h.Values[i] = s.Smooth
	}
}

// Validate checks that the histogram is internally consistent: the
// resolution is within MaxDimension on both sides, the arrays match it, every count is within [0, MaxIterations],
// and the frequency table equals a recount of the per-pixel array. Problems
// are reported as ErrFormat errors.
func (h *Histogram) Validate() error {
	if h.Width <= 0 || h.Height <= 0 {
		return fractatoe.Errorf(fractatoe.ErrFormat, "resolution must be positive, got %dx%d", h.Width, h.Height)
	}
	if h.Width > fractatoe.MaxDimension || h.Height > fractatoe.MaxDimension {
		return fractatoe.Errorf(fractatoe.ErrFormat, "resolution %dx%d exceeds %d on a side", h.Width, h.Height, fractatoe.MaxDimension)
	}
	if h.MaxIterations <= 0 {
		return fractatoe.Errorf(fractatoe.ErrFormat, "max_iterations must be positive, got %d", h.MaxIterations)
	}
	if h.MaxIterations > fractatoe.MaxIterations {
		return fractatoe.Errorf(fractatoe.ErrFormat, "max_iterations %d exceeds %d", h.MaxIterations, fractatoe.MaxIterations)
	}
	if len(h.Counts) != h.Pixels() {
		return fractatoe.Errorf(fractatoe.ErrFormat, "counts hold %d samples, resolution %dx%d needs %d", len(h.Counts), h.Width, h.Height, h.Pixels())
	}
	if h.Smooth && len(h.Values) != h.Pixels() {
		return fractatoe.Errorf(fractatoe.ErrFormat, "values hold %d samples, resolution %dx%d needs %d", len(h.Values), h.Width, h.Height, h.Pixels())
	}
	for i, v := range h.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fractatoe.Errorf(fractatoe.ErrFormat, "sample %d has smooth value %g", i, v)
		}
	}
	if !h.Smooth && len(h.Values) != 0 {
		return fractatoe.Errorf(fractatoe.ErrFormat, "values present in a histogram without smoothing")
	}
	if len(h.Frequencies) != h.MaxIterations+1 {
		return fractatoe.Errorf(fractatoe.ErrFormat, "frequency table has %d entries, want %d", len(h.Frequencies), h.MaxIterations+1)
	}
	if h.Frequencies[0] != 0 {
		return fractatoe.Errorf(fractatoe.ErrFormat, "frequency table records %d escapes at iteration 0", h.Frequencies[0])
	}

	recount := make([]uint64, h.MaxIterations+1)
	var bounded uint64
	for i, c := range h.Counts {
		switch {
		case c == 0:
			bounded++
		case c < 0 || int(c) > h.MaxIterations:
			return fractatoe.Errorf(fractatoe.ErrFormat, "sample %d has count %d outside [0, %d]", i, c, h.MaxIterations)
		default:
			recount[c]++
		}
	}
	if total := h.Escaped() + h.Bounded; total != uint64(h.Pixels()) {
		return fractatoe.Errorf(fractatoe.ErrFormat, "frequency total %d + bounded %d != %d samples", h.Escaped(), h.Bounded, h.Pixels())
	}
	if bounded != h.Bounded {
		return fractatoe.Errorf(fractatoe.ErrFormat, "bounded count %d does not match %d bounded samples", h.Bounded, bounded)
	}
	for n := range recount {
		if recount[n] != h.Frequencies[n] {
			return fractatoe.Errorf(fractatoe.ErrFormat, "frequency of %d iterations is %d, samples say %d", n, h.Frequencies[n], recount[n])
		}
	}
	return nil
}
