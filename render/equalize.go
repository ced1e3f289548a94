package render

import (
	"math"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/histogram"
)

// logOctaves is the dynamic range, in powers of two, that the logarithmic
// scale spreads over [0, 1].
const logOctaves = 10

// Equalize returns the cumulative distribution of h's escape counts:
// cdf[n] is the share of escaped samples that escaped within n iterations.
// It is non-decreasing, cdf[0] is 0, and cdf[MaxIterations] is 1 whenever
// anything escaped. A histogram without escapes yields all zeros.
func Equalize(h *histogram.Histogram) []float64 {
	cdf := make([]float64, len(h.Frequencies))
	total := h.Escaped()
	if total == 0 {
		return cdf
	}
	var run uint64
	for n, f := range h.Frequencies {
		run += f
		cdf[n] = float64(run) / float64(total)
	}
	return cdf
}

// Normalized maps every pixel of h through cdf into [0, 1]. Bounded pixels
// are NaN. Smooth values fall between two table entries and are
// interpolated linearly by their fractional part.
func Normalized(h *histogram.Histogram, cdf []float64) []float64 {
	out := make([]float64, len(h.Counts))
	for i, c := range h.Counts {
		switch {
		case c == 0:
			out[i] = math.NaN()
		case h.Smooth:
			out[i] = cdfAt(cdf, h.Values[i])
		default:
			out[i] = cdf[c]
		}
	}
	return out
}

func cdfAt(cdf []float64, v float64) float64 {
	last := len(cdf) - 1
	if v <= 0 {
		return cdf[0]
	}
	if v >= float64(last) {
		return cdf[last]
	}
	n := int(v)
	f := v - float64(n)
	return cdf[n] + (cdf[n+1]-cdf[n])*f
}

// Scale reshapes an equalized value in [0, 1]. The logarithmic scale maps v
// to log2(1 + (2^10-1)·v)/10, which keeps both ends fixed and lifts the low
// range.
func Scale(v float64, s fractatoe.ValueScale) float64 {
	if s != fractatoe.ScaleLogarithmic {
		return v
	}
	return math.Log2(1+(math.Exp2(logOctaves)-1)*v) / logOctaves
}
