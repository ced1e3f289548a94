package fractatoe

import (
	"math"
	"slices"
	"strings"
)

// Region is a rectangle of the complex plane.
type Region struct {
	Xmin float64 `json:"x_min"`
	Xmax float64 `json:"x_max"`
	Ymin float64 `json:"y_min"`
	Ymax float64 `json:"y_max"`
}

// Classic regions / landmarks in the Mandelbrot set
var (
	// FullSet frames the whole Mandelbrot set.
	FullSet = Region{
		Xmin: -2.5,
		Xmax: 1.0,
		Ymin: -1.25,
		Ymax: 1.25,
	}

	// Seahorse Valley – dense filaments and repeating “seahorse” curls
	SeahorseValley = Region{
		Xmin: -0.8,
		Xmax: -0.7,
		Ymin: 0.05,
		Ymax: 0.15,
	}

	// Elephant Valley – large bulb with trunk-like tendrils
	ElephantValley = Region{
		Xmin: -1.85,
		Xmax: -1.75,
		Ymin: -0.10,
		Ymax: -0.02,
	}

	// Spiral Minibrot – small Mandelbrot copy with tight spiral arms
	SpiralMinibrot = Region{
		Xmin: -0.7435,
		Xmax: -0.7420,
		Ymin: 0.1310,
		Ymax: 0.1325,
	}

	// Triple Spiral – threefold symmetric spiral structure
	TripleSpiral = Region{
		Xmin: -0.7480,
		Xmax: -0.7450,
		Ymin: 0.0950,
		Ymax: 0.0980,
	}

	// Valley of the Dragon – deep, highly detailed spiral filaments
	ValleyOfTheDragon = Region{
		Xmin: -0.7400,
		Xmax: -0.7350,
		Ymin: 0.1800,
		Ymax: 0.1850,
	}

	// Minibrot in a Mini-Spiral – self-similar Mandelbrot copy inside a spiral arm
	MinibrotInMiniSpiral = Region{
		Xmin: -1.7390,
		Xmax: -1.7375,
		Ymin: -0.0235,
		Ymax: -0.0220,
	}
)

// presets maps the names accepted by FractalConfig.Preset to landmarks.
var presets = map[string]Region{
	"full-set":                FullSet,
	"seahorse-valley":         SeahorseValley,
	"elephant-valley":         ElephantValley,
	"spiral-minibrot":         SpiralMinibrot,
	"triple-spiral":           TripleSpiral,
	"valley-of-the-dragon":    ValleyOfTheDragon,
	"minibrot-in-mini-spiral": MinibrotInMiniSpiral,
}

// Preset returns the named landmark region.
func Preset(name string) (Region, bool) {
	r, ok := presets[strings.ToLower(name)]
	return r, ok
}

// PresetNames lists the accepted preset names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}

// IsZero reports whether r has not been set.
func (r Region) IsZero() bool {
	return r == Region{}
}

// Dx returns the width of r.
func (r Region) Dx() float64 { return r.Xmax - r.Xmin }

// Dy returns the height of r.
func (r Region) Dy() float64 { return r.Ymax - r.Ymin }

// Validate checks that both axes are finite and strictly increasing.
func (r Region) Validate() error {
	for _, v := range []float64{r.Xmin, r.Xmax, r.Ymin, r.Ymax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return Errorf(ErrConfig, "region bounds must be finite, got %+v", r)
		}
	}
	if !(r.Xmin < r.Xmax) {
		return Errorf(ErrConfig, "region x_min %g must be less than x_max %g", r.Xmin, r.Xmax)
	}
	if !(r.Ymin < r.Ymax) {
		return Errorf(ErrConfig, "region y_min %g must be less than y_max %g", r.Ymin, r.Ymax)
	}
	return nil
}
