package grid

import "github.com/marben/fractatoe/fractal"

// Combine merges the sub-samples of one pixel, given in sub-sample raster
// order, into the pixel's result:
//
//   - the pixel is bounded when more than half of the sub-samples are bounded;
//     on an exact tie the first sub-sample decides;
//   - the iteration count is the most frequent count among escaped
//     sub-samples, ties going to the count seen first;
//   - with smooth set, Smooth is the mean of the escaped sub-samples' smooth
//     values, otherwise it mirrors the chosen count.
func Combine(samples []fractal.Sample, smooth bool) fractal.Sample {
	switch len(samples) {
	case 0:
		return fractal.Sample{}
	case 1:
		return samples[0]
	}

	bounded := 0
	for _, s := range samples {
		if !s.Escaped {
			bounded++
		}
	}
	if 2*bounded > len(samples) || (2*bounded == len(samples) && !samples[0].Escaped) {
		return fractal.Sample{}
	}

	freq := make(map[int]int, len(samples))
	var sum float64
	for _, s := range samples {
		if s.Escaped {
			freq[s.Iterations]++
			sum += s.Smooth
		}
	}
	mode, best := 0, 0
	for _, s := range samples {
		if s.Escaped && freq[s.Iterations] > best {
			mode, best = s.Iterations, freq[s.Iterations]
		}
	}

	out := fractal.Sample{Escaped: true, Iterations: mode, Smooth: float64(mode)}
	if smooth {
		out.Smooth = sum / float64(len(samples)-bounded)
	}
	return out
}
