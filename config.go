package fractatoe

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
)

// Kind identifies an escape-time iteration family.
type Kind string

const (
	KindMandelbrot  Kind = "mandelbrot"   // z ← z² + c, z₀ = 0
	KindMultibrot   Kind = "multibrot"    // z ← zᵈ + c, z₀ = 0
	KindJulia       Kind = "julia"        // z ← z² + k, z₀ = c
	KindBurningShip Kind = "burning-ship" // z ← (|Re z| + i|Im z|)² + c
	KindTricorn     Kind = "tricorn"      // z ← conj(z)² + c
)

// Kinds lists every supported family.
var Kinds = []Kind{KindMandelbrot, KindMultibrot, KindJulia, KindBurningShip, KindTricorn}

// Norm names the magnitude measure used by the escape test.
type Norm string

const (
	NormEuclidean Norm = "euclidean" // √(re² + im²)
	NormManhattan Norm = "manhattan" // |re| + |im|
	NormChebyshev Norm = "chebyshev" // max(|re|, |im|)
)

const (
	DefaultEscapeRadius   = 2.0
	DefaultMultibrotPower = 3
)

const (
	// MaxDimension bounds every image and histogram side so that a raster of
	// MaxDimension² pixels can always be allocated.
	MaxDimension = 1 << 15

	// MaxIterations bounds max_iterations: escape counts are stored as int32.
	MaxIterations = math.MaxInt32
)

// FractalConfig describes what the generation phase samples.
type FractalConfig struct {
	Kind Kind `json:"kind"`

	// Region is the sampled viewport. When zero, Preset names a landmark
	// instead; when both are empty the whole Mandelbrot set is framed.
	Region Region `json:"region,omitzero"`
	Preset string `json:"preset,omitempty"`

	Width         int     `json:"width"`
	Height        int     `json:"height"`
	MaxIterations int     `json:"max_iterations"`
	EscapeRadius  float64 `json:"escape_radius,omitempty"`

	// Supersampling samples every pixel on an s×s sub-grid.
	Supersampling int  `json:"supersampling,omitempty"`
	Smooth        bool `json:"smooth,omitempty"`
	Norm          Norm `json:"norm,omitempty"`

	// Power is the exponent of the multibrot family.
	Power int `json:"power,omitempty"`

	// JuliaC is the constant added by the julia family.
	JuliaC *[2]float64 `json:"julia_c,omitempty"`

	// Workers bounds the generator's worker pool; 0 means GOMAXPROCS.
	Workers int `json:"workers,omitempty"`
}

// Normalize returns a copy of c with defaults applied and the preset resolved.
// It never fails; Validate reports what cannot be normalized.
func (c FractalConfig) Normalize() FractalConfig {
	c.Kind = Kind(strings.ToLower(string(c.Kind)))
	if c.Kind == "" {
		c.Kind = KindMandelbrot
	}
	if c.Region.IsZero() {
		switch {
		case c.Preset == "":
			c.Region = FullSet
		default:
			if r, ok := Preset(c.Preset); ok {
				c.Region = r
				c.Preset = ""
			}
		}
	} else {
		c.Preset = ""
	}
	if c.EscapeRadius == 0 {
		c.EscapeRadius = DefaultEscapeRadius
	}
	if c.Supersampling == 0 {
		c.Supersampling = 1
	}
	c.Norm = Norm(strings.ToLower(string(c.Norm)))
	if c.Norm == "" {
		c.Norm = NormEuclidean
	}
	switch c.Kind {
	case KindMultibrot:
		if c.Power == 0 {
			c.Power = DefaultMultibrotPower
		}
	default:
		c.Power = 2
	}
	if c.Kind != KindJulia {
		c.JuliaC = nil
	}
	return c
}

// Validate reports the first structural problem of c as an ErrConfig error.
func (c FractalConfig) Validate() error {
	n := c.Normalize()
	if !isKnownKind(n.Kind) {
		return Errorf(ErrConfig, "unknown fractal kind %q", c.Kind)
	}
	if n.Preset != "" {
		return Errorf(ErrConfig, "unknown region preset %q (known: %s)", n.Preset, strings.Join(PresetNames(), ", "))
	}
	if err := n.Region.Validate(); err != nil {
		return err
	}
	if n.Width <= 0 || n.Height <= 0 {
		return Errorf(ErrConfig, "resolution must be positive, got %dx%d", n.Width, n.Height)
	}
	if n.Width > MaxDimension || n.Height > MaxDimension {
		return Errorf(ErrConfig, "resolution %dx%d exceeds %d on a side", n.Width, n.Height, MaxDimension)
	}
	if n.MaxIterations <= 0 {
		return Errorf(ErrConfig, "max_iterations must be positive, got %d", n.MaxIterations)
	}
	if n.MaxIterations > MaxIterations {
		return Errorf(ErrConfig, "max_iterations %d exceeds %d", n.MaxIterations, MaxIterations)
	}
	if !(n.EscapeRadius > 0) || math.IsInf(n.EscapeRadius, 0) {
		return Errorf(ErrConfig, "escape_radius must be a positive real, got %g", n.EscapeRadius)
	}
	if n.Supersampling < 1 {
		return Errorf(ErrConfig, "supersampling must be at least 1, got %d", n.Supersampling)
	}
	switch n.Norm {
	case NormEuclidean, NormManhattan, NormChebyshev:
	default:
		return Errorf(ErrConfig, "unknown escape norm %q", c.Norm)
	}
	if n.Kind == KindMultibrot && n.Power < 2 {
		return Errorf(ErrConfig, "multibrot power must be at least 2, got %d", n.Power)
	}
	if n.Kind == KindJulia {
		if n.JuliaC == nil {
			return Errorf(ErrConfig, "julia requires julia_c")
		}
		for _, v := range n.JuliaC {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return Errorf(ErrConfig, "julia_c must be finite, got %v", *n.JuliaC)
			}
		}
	}
	if n.Workers < 0 {
		return Errorf(ErrConfig, "workers must not be negative, got %d", n.Workers)
	}
	return nil
}

// Fingerprint identifies the histogram c produces: two configs with the same
// fingerprint generate identical artifacts. Settings that do not influence the
// output (the worker count, a preset name versus its region) are ignored.
func (c FractalConfig) Fingerprint() string {
	n := c.Normalize()
	n.Workers = 0
	b, err := json.Marshal(n)
	if err != nil {
		// FractalConfig holds only plain values.
		panic(fmt.Sprintf("fractatoe: marshal config: %v", err))
	}
	sum := sha256.Sum256(append([]byte("fractatoe/histogram/v1\n"), b...))
	return hex.EncodeToString(sum[:])
}

func isKnownKind(k Kind) bool {
	for _, known := range Kinds {
		if k == known {
			return true
		}
	}
	return false
}

// DecodeFractalConfig reads a JSON fractal configuration. Unknown fields are
// rejected so that typos do not silently fall back to defaults.
func DecodeFractalConfig(r io.Reader) (FractalConfig, error) {
	var c FractalConfig
	if err := decodeStrict(r, &c); err != nil {
		return FractalConfig{}, Errorf(ErrConfig, "decode fractal config: %v", err)
	}
	return c, nil
}

// LoadFractalConfig reads and validates the fractal configuration at path.
func LoadFractalConfig(path string) (FractalConfig, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return FractalConfig{}, WrapIO("read fractal config", err)
	}
	c, err := DecodeFractalConfig(bytes.NewReader(b))
	if err != nil {
		return FractalConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.Validate(); err != nil {
		return FractalConfig{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

func decodeStrict(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return fmt.Errorf("trailing data after JSON document")
	}
	return nil
}
