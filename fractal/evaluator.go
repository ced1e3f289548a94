// Package fractal evaluates escape-time iterations at single points of the
// complex plane.
//
// Every evaluation is a pure function of the coordinate and the Evaluator's
// immutable settings, so one Evaluator may be shared by any number of
// goroutines.
package fractal

import (
	"math"
	"math/cmplx"

	"github.com/marben/fractatoe"
)

// Sample is the escape result of one coordinate.
//
// An escaped sample has Iterations in [1, MaxIterations]: the first step after
// which the orbit left the escape radius. A sample that stayed bounded for
// MaxIterations steps has Escaped == false and Iterations == 0.
type Sample struct {
	Escaped    bool
	Iterations int

	// Smooth is the continuous escape value when smoothing is enabled and
	// float64(Iterations) otherwise. It is 0 for bounded samples.
	Smooth float64
}

// Evaluator runs one family with fixed iteration settings.
type Evaluator struct {
	family   Family
	norm     Norm
	maxIter  int
	radius   float64
	radiusSq float64
	smooth   bool
}

// NewFamily returns the iteration family selected by cfg.Kind.
func NewFamily(cfg fractatoe.FractalConfig) (Family, error) {
	n := cfg.Normalize()
	switch n.Kind {
	case fractatoe.KindMandelbrot:
		return Mandelbrot{}, nil
	case fractatoe.KindMultibrot:
		if n.Power < 2 {
			return nil, fractatoe.Errorf(fractatoe.ErrConfig, "multibrot power must be at least 2, got %d", n.Power)
		}
		return Multibrot{Power: n.Power}, nil
	case fractatoe.KindJulia:
		if n.JuliaC == nil {
			return nil, fractatoe.Errorf(fractatoe.ErrConfig, "julia requires julia_c")
		}
		return Julia{C: complex(n.JuliaC[0], n.JuliaC[1])}, nil
	case fractatoe.KindBurningShip:
		return BurningShip{}, nil
	case fractatoe.KindTricorn:
		return Tricorn{}, nil
	}
	return nil, fractatoe.Errorf(fractatoe.ErrConfig, "unknown fractal kind %q", cfg.Kind)
}

// New validates cfg and builds the Evaluator it describes.
func New(cfg fractatoe.FractalConfig) (*Evaluator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	n := cfg.Normalize()
	family, err := NewFamily(n)
	if err != nil {
		return nil, err
	}
	norm, err := ParseNorm(n.Norm)
	if err != nil {
		return nil, err
	}
	return NewEvaluator(family, norm, n.MaxIterations, n.EscapeRadius, n.Smooth), nil
}

// NewEvaluator builds an Evaluator from explicit parts. maxIter and radius must
// be positive.
func NewEvaluator(family Family, norm Norm, maxIter int, radius float64, smooth bool) *Evaluator {
	return &Evaluator{
		family:   family,
		norm:     norm,
		maxIter:  maxIter,
		radius:   radius,
		radiusSq: radius * radius,
		smooth:   smooth,
	}
}

// MaxIterations returns the iteration bound.
func (e *Evaluator) MaxIterations() int { return e.maxIter }

// Evaluate iterates the family from c until the orbit escapes or the
// iteration bound is reached.
func (e *Evaluator) Evaluate(c complex128) Sample {
	z, k := e.family.Start(c)
	for n := 1; n <= e.maxIter; n++ {
		z = e.family.Step(z, k)
		if e.norm.escaped(z, e.radius, e.radiusSq) {
			s := Sample{Escaped: true, Iterations: n, Smooth: float64(n)}
			if e.smooth {
				s.Smooth = e.smoothValue(n, z)
			}
			return s
		}
	}
	return Sample{}
}

// smoothValue is the renormalized iteration count n + 1 − log(log|z|)/log d,
// clamped to [0, maxIter]. Orbits that escaped a radius ≤ 1 have no defined
// double logarithm and keep their integer count.
func (e *Evaluator) smoothValue(n int, z complex128) float64 {
	abs := cmplx.Abs(z)
	if !(abs > 1) || math.IsInf(abs, 0) {
		return float64(n)
	}
	mu := float64(n) + 1 - math.Log(math.Log(abs))/math.Log(e.family.Degree())
	if math.IsNaN(mu) {
		return float64(n)
	}
	return math.Min(math.Max(mu, 0), float64(e.maxIter))
}
