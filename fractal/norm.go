package fractal

import (
	"math"

	"github.com/marben/fractatoe"
)

// Norm measures the magnitude of an orbit point for the escape test.
type Norm int

const (
	Euclidean Norm = iota
	Manhattan
	Chebyshev
)

// ParseNorm maps a configuration name to a Norm.
func ParseNorm(n fractatoe.Norm) (Norm, error) {
	switch n {
	case fractatoe.NormEuclidean, "":
		return Euclidean, nil
	case fractatoe.NormManhattan:
		return Manhattan, nil
	case fractatoe.NormChebyshev:
		return Chebyshev, nil
	}
	return 0, fractatoe.Errorf(fractatoe.ErrConfig, "unknown escape norm %q", n)
}

func (n Norm) String() string {
	switch n {
	case Manhattan:
		return string(fractatoe.NormManhattan)
	case Chebyshev:
		return string(fractatoe.NormChebyshev)
	default:
		return string(fractatoe.NormEuclidean)
	}
}

// escaped reports whether z lies outside the radius. For the euclidean norm
// the comparison is done on squares; r2 is radius². An orbit that overflowed
// to NaN counts as escaped.
func (n Norm) escaped(z complex128, radius, r2 float64) bool {
	re, im := real(z), imag(z)
	switch n {
	case Manhattan:
		return !(math.Abs(re)+math.Abs(im) <= radius)
	case Chebyshev:
		return !(math.Max(math.Abs(re), math.Abs(im)) <= radius)
	default:
		return !(re*re+im*im <= r2)
	}
}
