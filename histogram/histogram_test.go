package histogram

import (
	"errors"
	"testing"

	"github.com/marben/fractatoe"
	"github.com/marben/fractatoe/fractal"
)

func TestNewStartsBounded(t *testing.T) {
	h := New(3, 2, 5, true)
	if h.Bounded != 6 || h.Escaped() != 0 {
		t.Errorf("New: bounded=%d escaped=%d, want 6 and 0", h.Bounded, h.Escaped())
	}
	if len(h.Frequencies) != 6 || len(h.Values) != 6 {
		t.Errorf("New: len(Frequencies)=%d len(Values)=%d, want 6 and 6", len(h.Frequencies), len(h.Values))
	}
	if err := h.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSetKeepsTableInStep(t *testing.T) {
	h := New(2, 2, 4, false)
	h.Set(0, 0, fractal.Sample{Escaped: true, Iterations: 3, Smooth: 3})
	h.Set(1, 1, fractal.Sample{Escaped: true, Iterations: 1, Smooth: 1})
	h.Set(0, 0, fractal.Sample{Escaped: true, Iterations: 4, Smooth: 4})
	h.Set(1, 1, fractal.Sample{})

	if err := h.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if h.Frequencies[4] != 1 || h.Frequencies[3] != 0 || h.Frequencies[1] != 0 || h.Bounded != 3 {
		t.Errorf("table = %v bounded=%d, want one escape at 4 and 3 bounded", h.Frequencies, h.Bounded)
	}
	if got := h.At(0, 0); got != (fractal.Sample{Escaped: true, Iterations: 4, Smooth: 4}) {
		t.Errorf("At(0, 0) = %+v", got)
	}
	if got := h.At(1, 1); got.Escaped {
		t.Errorf("At(1, 1) = %+v, want bounded", got)
	}
}

func TestAtSmooth(t *testing.T) {
	h := New(1, 1, 8, true)
	h.Set(0, 0, fractal.Sample{Escaped: true, Iterations: 5, Smooth: 4.25})
	if got := h.At(0, 0).Smooth; got != 4.25 {
		t.Errorf("At(0, 0).Smooth = %g, want 4.25", got)
	}
}

func validHistogram() *Histogram {
	h := New(2, 2, 3, true)
	h.Set(0, 0, fractal.Sample{Escaped: true, Iterations: 1, Smooth: 1.5})
	h.Set(1, 0, fractal.Sample{Escaped: true, Iterations: 3, Smooth: 2.75})
	return h
}

func TestValidateRejectsInconsistency(t *testing.T) {
	tests := []struct {
		name    string
		corrupt func(h *Histogram)
	}{
		{"zero width", func(h *Histogram) { h.Width = 0 }},
		{"zero max iterations", func(h *Histogram) { h.MaxIterations = 0 }},
		{"oversized side", func(h *Histogram) { h.Width = fractatoe.MaxDimension + 1 }},
		{"wrapping resolution", func(h *Histogram) { h.Width, h.Height = 1<<32, 1<<32 }},
		{"max iterations beyond int32", func(h *Histogram) { h.MaxIterations = fractatoe.MaxIterations + 1 }},
		{"short counts", func(h *Histogram) { h.Counts = h.Counts[:3] }},
		{"short values", func(h *Histogram) { h.Values = h.Values[:1] }},
		{"values without smoothing", func(h *Histogram) { h.Smooth = false }},
		{"negative value", func(h *Histogram) { h.Values[0] = -1 }},
		{"table length", func(h *Histogram) { h.Frequencies = append(h.Frequencies, 0) }},
		{"escape at zero", func(h *Histogram) { h.Frequencies[0] = 1; h.Bounded-- }},
		{"count above max", func(h *Histogram) { h.Counts[1] = 4 }},
		{"negative count", func(h *Histogram) { h.Counts[1] = -2 }},
		{"sum invariant", func(h *Histogram) { h.Bounded++ }},
		{"frequency recount", func(h *Histogram) { h.Frequencies[1]--; h.Frequencies[2]++ }},
		{"bounded recount", func(h *Histogram) { h.Counts[3] = 2; h.Frequencies[2]++; h.Frequencies[1]-- }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := validHistogram()
			tt.corrupt(h)
			if err := h.Validate(); !errors.Is(err, fractatoe.ErrFormat) {
				t.Errorf("Validate() = %v, want ErrFormat", err)
			}
		})
	}
	if err := validHistogram().Validate(); err != nil {
		t.Errorf("Validate() on intact histogram = %v", err)
	}
}
