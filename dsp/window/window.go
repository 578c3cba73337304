package window

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeBlackman
)

// String returns the window name.
func (t Type) String() string {
	switch t {
	case TypeRectangular:
		return "Rectangular"
	case TypeHann:
		return "Hann"
	case TypeBlackman:
		return "Blackman"
	default:
		return "Unknown"
	}
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic   bool
	unitEnergy bool
}

func defaultConfig() config {
	return config{}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// WithUnitEnergy scales the coefficients so that their squared sum is 1.
// Spectral envelopes estimated through such a window are independent of
// its length.
func WithUnitEnergy() Option {
	return func(c *config) {
		c.unitEnergy = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	for i := range out {
		out[i] = eval(t, samplePosition(i, length, cfg.periodic))
	}

	if cfg.unitEnergy {
		normalizeEnergy(out)
	}

	return out
}

// Apply multiplies buf in-place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	vecmath.MulBlockInPlace(buf, Generate(t, len(buf), opts...))
}

// Hann returns Hann window coefficients.
func Hann(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeHann, size, opts...), validateLength(size)
}

// Blackman returns Blackman window coefficients.
func Blackman(size int, opts ...Option) ([]float64, error) {
	return Generate(TypeBlackman, size, opts...), validateLength(size)
}

// Energy returns the squared sum of the coefficients.
func Energy(coeffs []float64) float64 {
	return vecmath.DotProduct(coeffs, coeffs)
}

func normalizeEnergy(w []float64) {
	e := Energy(w)
	if e <= 0 {
		return
	}

	vecmath.ScaleBlockInPlace(w, 1/math.Sqrt(e))
}

// samplePosition maps index i to [0,1]. A length-1 window is centred.
func samplePosition(i, length int, periodic bool) float64 {
	if length == 1 {
		return 0.5
	}

	den := float64(length - 1)
	if periodic {
		den = float64(length)
	}

	return float64(i) / den
}

func eval(t Type, x float64) float64 {
	switch t {
	case TypeHann:
		return 0.5 - 0.5*math.Cos(2*math.Pi*x)
	case TypeBlackman:
		return 0.42 - 0.5*math.Cos(2*math.Pi*x) + 0.08*math.Cos(4*math.Pi*x)
	default:
		return 1
	}
}
