package fractal

import "math"

// Family is one escape-time iteration. Implementations are stateless values:
// Start derives the initial orbit point z and the per-orbit constant k from
// the sampled coordinate, and Step advances z by one iteration.
type Family interface {
	Start(c complex128) (z, k complex128)
	Step(z, k complex128) complex128

	// Degree is the polynomial degree of Step, used by the smooth escape
	// value.
	Degree() float64
}

// Mandelbrot iterates z ← z² + c from z₀ = 0.
type Mandelbrot struct{}

func (Mandelbrot) Start(c complex128) (complex128, complex128) { return 0, c }
func (Mandelbrot) Step(z, k complex128) complex128             { return z*z + k }
func (Mandelbrot) Degree() float64                             { return 2 }

// Multibrot iterates z ← zᵈ + c from z₀ = 0 for an integer power d ≥ 2.
type Multibrot struct {
	Power int
}

func (Multibrot) Start(c complex128) (complex128, complex128) { return 0, c }

func (m Multibrot) Step(z, k complex128) complex128 {
	p := z
	for i := 1; i < m.Power; i++ {
		p *= z
	}
	return p + k
}

func (m Multibrot) Degree() float64 { return float64(m.Power) }

// Julia iterates z ← z² + C starting from the sampled coordinate.
type Julia struct {
	C complex128
}

func (j Julia) Start(c complex128) (complex128, complex128) { return c, j.C }
func (Julia) Step(z, k complex128) complex128               { return z*z + k }
func (Julia) Degree() float64                               { return 2 }

// BurningShip folds z into the first quadrant before squaring.
type BurningShip struct{}

func (BurningShip) Start(c complex128) (complex128, complex128) { return 0, c }

func (BurningShip) Step(z, k complex128) complex128 {
	a := complex(math.Abs(real(z)), math.Abs(imag(z)))
	return a*a + k
}

func (BurningShip) Degree() float64 { return 2 }

// Tricorn (the Mandelbar) squares the conjugate of z.
type Tricorn struct{}

func (Tricorn) Start(c complex128) (complex128, complex128) { return 0, c }

func (Tricorn) Step(z, k complex128) complex128 {
	a := complex(real(z), -imag(z))
	return a*a + k
}

func (Tricorn) Degree() float64 { return 2 }

var (
	_ Family = Mandelbrot{}
	_ Family = Multibrot{}
	_ Family = Julia{}
	_ Family = BurningShip{}
	_ Family = Tricorn{}
)
