package render

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/fractal"
	"github.com/marben/fractatoe/histogram"
)

func escapedAt(n int, smooth float64) fractal.Sample {
	return fractal.Sample{Escaped: true, Iterations: n, Smooth: smooth}
}

func TestEqualize(t *testing.T) {
	h := histogram.New(4, 2, 3, false)
	for x := range 4 {
		h.Set(x, 0, escapedAt(3, 3))
	}
	h.Set(0, 1, escapedAt(1, 1))
	h.Set(1, 1, escapedAt(1, 1))
	h.Set(2, 1, escapedAt(3, 3))
	h.Set(3, 1, escapedAt(3, 3))

	want := []float64{0, 0.25, 0.25, 1}
	if diff := cmp.Diff(want, Equalize(h)); diff != "" {
		t.Errorf("Equalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestEqualizeMonotonic(t *testing.T) {
	h := histogram.New(7, 3, 9, false)
	for i := range h.Pixels() {
		if i%4 == 0 {
			continue
		}
		h.Set(i%7, i/7, escapedAt(1+(i*5)%9, 0))
	}
	cdf := Equalize(h)
	for n := 1; n < len(cdf); n++ {
		if cdf[n] < cdf[n-1] {
			t.Fatalf("cdf decreases at %d: %v", n, cdf)
		}
	}
	if cdf[0] != 0 || cdf[len(cdf)-1] != 1 {
		t.Errorf("cdf bounds = %g..%g, want 0..1", cdf[0], cdf[len(cdf)-1])
	}
}

func TestEqualizeNothingEscaped(t *testing.T) {
	h := histogram.New(2, 2, 5, false)
	for n, v := range Equalize(h) {
		if v != 0 {
			t.Errorf("cdf[%d] = %g, want 0", n, v)
		}
	}
}

func TestNormalized(t *testing.T) {
	h := histogram.New(3, 1, 2, false)
	h.Set(0, 0, escapedAt(1, 1))
	h.Set(1, 0, escapedAt(2, 2))

	got := Normalized(h, Equalize(h))
	if got[0] != 0.5 || got[1] != 1 || !math.IsNaN(got[2]) {
		t.Errorf("Normalized() = %v, want [0.5 1 NaN]", got)
	}
}

func TestNormalizedSmooth(t *testing.T) {
	h := histogram.New(4, 1, 2, true)
	h.Set(0, 0, escapedAt(1, 1))
	h.Set(1, 0, escapedAt(2, 1.5))
	h.Set(2, 0, escapedAt(2, 2))
	h.Set(3, 0, escapedAt(1, 0.5))

	const eps = 1e-12
	got := Normalized(h, Equalize(h))
	want := []float64{0.5, 0.75, 1, 0.25}
	for i := range want {
		if math.Abs(got[i]-want[i]) > eps {
			t.Errorf("Normalized()[%d] = %g, want %g", i, got[i], want[i])
		}
	}
}

func TestScale(t *testing.T) {
	tests := []struct {
		v     float64
		scale fractatoe.ValueScale
		want  float64
	}{
		{0, fractatoe.ScaleLinear, 0},
		{0.3, fractatoe.ScaleLinear, 0.3},
		{1, fractatoe.ScaleLinear, 1},
		{0, fractatoe.ScaleLogarithmic, 0},
		{1, fractatoe.ScaleLogarithmic, 1},
		{0.5, fractatoe.ScaleLogarithmic, math.Log2(512.5) / 10},
	}
	for _, tt := range tests {
		if got := Scale(tt.v, tt.scale); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Scale(%g, %s) = %g, want %g", tt.v, tt.scale, got, tt.want)
		}
	}

	prev := -1.0
	for i := range 101 {
		v := Scale(float64(i)/100, fractatoe.ScaleLogarithmic)
		if v <= prev {
			t.Fatalf("logarithmic scale not increasing at %d: %g <= %g", i, v, prev)
		}
		if v < float64(i)/100 {
			t.Errorf("logarithmic scale lowered %g to %g", float64(i)/100, v)
		}
		prev = v
	}
}
