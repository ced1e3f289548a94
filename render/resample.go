package render

import "math"

// resample maps a w×h field of normalized values onto ow×oh by bilinear
// interpolation of pixel centres. NaN marks background on both sides: NaN
// neighbours are left out and the remaining weights renormalized, unless
// they carry more than half of the total weight, in which case the output is
// background too.
func resample(src []float64, w, h, ow, oh int) []float64 {
	if w == ow && h == oh {
		return src
	}
	dst := make([]float64, ow*oh)
	sx := float64(w) / float64(ow)
	sy := float64(h) / float64(oh)

	for y := range oh {
		fy := (float64(y)+0.5)*sy - 0.5
		y0, y1, ty := span(fy, h)
		for x := range ow {
			fx := (float64(x)+0.5)*sx - 0.5
			x0, x1, tx := span(fx, w)

			var sum, weight, bounded float64
			for _, n := range [4]struct {
				v, w float64
			}{
				{src[y0*w+x0], (1 - tx) * (1 - ty)},
				{src[y0*w+x1], tx * (1 - ty)},
				{src[y1*w+x0], (1 - tx) * ty},
				{src[y1*w+x1], tx * ty},
			} {
				if math.IsNaN(n.v) {
					bounded += n.w
					continue
				}
				sum += n.v * n.w
				weight += n.w
			}

			if bounded > 0.5 || weight == 0 {
				dst[y*ow+x] = math.NaN()
				continue
			}
			dst[y*ow+x] = sum / weight
		}
	}
	return dst
}

// span returns the two source indices around f, clamped to [0, n-1], and the
// weight of the second.
func span(f float64, n int) (int, int, float64) {
	if f <= 0 {
		return 0, 0, 0
	}
	if f >= float64(n-1) {
		return n - 1, n - 1, 0
	}
	i := int(f)
	return i, i + 1, f - float64(i)
}
