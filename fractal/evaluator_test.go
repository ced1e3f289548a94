package fractal

import (
	"errors"
	"math"
	"testing"

	"github.com/marben/fractatoe"
)

func TestEvaluateKnownPoints(t *testing.T) {
	tests := []struct {
		name   string
		family Family
		norm   Norm
		max    int
		c      complex128
		want   Sample
	}{
		{"mandelbrot origin stays bounded", Mandelbrot{}, Euclidean, 50, 0, Sample{}},
		{"mandelbrot -2 sits on the radius", Mandelbrot{}, Euclidean, 50, -2, Sample{}},
		{"mandelbrot 3 escapes at once", Mandelbrot{}, Euclidean, 50, 3, Sample{Escaped: true, Iterations: 1, Smooth: 1}},
		{"mandelbrot 1 escapes at 3", Mandelbrot{}, Euclidean, 50, 1, Sample{Escaped: true, Iterations: 3, Smooth: 3}},
		{"mandelbrot 1 with max 2 is bounded", Mandelbrot{}, Euclidean, 2, 1, Sample{}},
		{"multibrot cube 1 escapes at 3", Multibrot{Power: 3}, Euclidean, 50, 1, Sample{Escaped: true, Iterations: 3, Smooth: 3}},
		{"multibrot square matches mandelbrot", Multibrot{Power: 2}, Euclidean, 50, 1, Sample{Escaped: true, Iterations: 3, Smooth: 3}},
		{"julia 0 squares the start", Julia{C: 0}, Euclidean, 50, 1.5, Sample{Escaped: true, Iterations: 1, Smooth: 1}},
		{"julia 0 inside unit disc", Julia{C: 0}, Euclidean, 50, 0.5, Sample{}},
		{"burning ship origin", BurningShip{}, Euclidean, 50, 0, Sample{}},
		{"burning ship far point", BurningShip{}, Euclidean, 50, complex(0, 3), Sample{Escaped: true, Iterations: 1, Smooth: 1}},
		{"tricorn origin", Tricorn{}, Euclidean, 50, 0, Sample{}},
		{"euclidean diagonal", Mandelbrot{}, Euclidean, 50, complex(1.5, 1.5), Sample{Escaped: true, Iterations: 1, Smooth: 1}},
		{"manhattan diagonal", Mandelbrot{}, Manhattan, 50, complex(1.5, 1.5), Sample{Escaped: true, Iterations: 1, Smooth: 1}},
		{"chebyshev diagonal needs a second step", Mandelbrot{}, Chebyshev, 50, complex(1.5, 1.5), Sample{Escaped: true, Iterations: 2, Smooth: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEvaluator(tt.family, tt.norm, tt.max, 2, false)
			if got := e.Evaluate(tt.c); got != tt.want {
				t.Errorf("Evaluate(%v) = %+v, want %+v", tt.c, got, tt.want)
			}
		})
	}
}

func TestEvaluateMaxIterationsOne(t *testing.T) {
	e := NewEvaluator(Mandelbrot{}, Euclidean, 1, 2, false)
	if got := e.Evaluate(3); !got.Escaped || got.Iterations != 1 {
		t.Errorf("Evaluate(3) = %+v, want escape at 1", got)
	}
	if got := e.Evaluate(1); got.Escaped || got.Iterations != 0 {
		t.Errorf("Evaluate(1) = %+v, want bounded", got)
	}
}

func TestBoundedIsNotEscapeAtMax(t *testing.T) {
	// c = 1 escapes exactly at step 3; with a bound of 3 it must be reported
	// as an escape, with a bound of 2 as bounded.
	at3 := NewEvaluator(Mandelbrot{}, Euclidean, 3, 2, false).Evaluate(1)
	if !at3.Escaped || at3.Iterations != 3 {
		t.Errorf("max=3: got %+v, want escape at 3", at3)
	}
	at2 := NewEvaluator(Mandelbrot{}, Euclidean, 2, 2, false).Evaluate(1)
	if at2.Escaped || at2.Iterations != 0 {
		t.Errorf("max=2: got %+v, want bounded", at2)
	}
}

func TestSmoothValue(t *testing.T) {
	e := NewEvaluator(Mandelbrot{}, Euclidean, 100, 2, true)
	got := e.Evaluate(3)
	want := 2 - math.Log(math.Log(3))/math.Log(2)
	if !got.Escaped || got.Iterations != 1 {
		t.Fatalf("Evaluate(3) = %+v, want escape at 1", got)
	}
	if math.Abs(got.Smooth-want) > 1e-12 {
		t.Errorf("Smooth = %v, want %v", got.Smooth, want)
	}

	// A radius below one has no double logarithm; the integer count is kept.
	small := NewEvaluator(Mandelbrot{}, Euclidean, 100, 0.5, true).Evaluate(0.6)
	if small.Smooth != 1 {
		t.Errorf("Smooth with radius 0.5 = %v, want 1", small.Smooth)
	}
}

func TestEvaluateDeterministic(t *testing.T) {
	families := map[string]Family{
		"mandelbrot":   Mandelbrot{},
		"multibrot":    Multibrot{Power: 4},
		"julia":        Julia{C: complex(-0.8, 0.156)},
		"burning-ship": BurningShip{},
		"tricorn":      Tricorn{},
	}
	r := fractatoe.SeahorseValley
	corners := []complex128{
		complex(r.Xmin, r.Ymin),
		complex(r.Xmax, r.Ymin),
		complex(r.Xmin, r.Ymax),
		complex(r.Xmax, r.Ymax),
		complex((r.Xmin+r.Xmax)/2, (r.Ymin+r.Ymax)/2),
	}
	for name, f := range families {
		for _, norm := range []Norm{Euclidean, Manhattan, Chebyshev} {
			e := NewEvaluator(f, norm, 500, 2, true)
			for _, c := range corners {
				first := e.Evaluate(c)
				for range 3 {
					if got := e.Evaluate(c); got != first {
						t.Errorf("%s/%s: Evaluate(%v) = %+v, then %+v", name, norm, c, first, got)
					}
				}
			}
		}
	}
}

func TestNew(t *testing.T) {
	cfg := fractatoe.FractalConfig{
		Kind:          fractatoe.KindJulia,
		Width:         8,
		Height:        8,
		MaxIterations: 10,
		JuliaC:        &[2]float64{0, 0},
		Norm:          fractatoe.NormManhattan,
	}
	e, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := e.family.(Julia); !ok {
		t.Errorf("family = %T, want Julia", e.family)
	}
	if e.norm != Manhattan {
		t.Errorf("norm = %v, want manhattan", e.norm)
	}
	if e.radius != fractatoe.DefaultEscapeRadius {
		t.Errorf("radius = %v, want default %v", e.radius, fractatoe.DefaultEscapeRadius)
	}

	cfg.JuliaC = nil
	if _, err := New(cfg); !errors.Is(err, fractatoe.ErrConfig) {
		t.Errorf("New() without julia_c error = %v, want ErrConfig", err)
	}
}

func TestNewFamilyMultibrotDefaultPower(t *testing.T) {
	f, err := NewFamily(fractatoe.FractalConfig{Kind: fractatoe.KindMultibrot})
	if err != nil {
		t.Fatalf("NewFamily() error = %v", err)
	}
	if m, ok := f.(Multibrot); !ok || m.Power != fractatoe.DefaultMultibrotPower {
		t.Errorf("NewFamily() = %#v, want Multibrot{Power: %d}", f, fractatoe.DefaultMultibrotPower)
	}
}
