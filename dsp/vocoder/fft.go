package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// plans caches FFT plans by size. Not safe for concurrent use; every worker
// owns one.
type plans map[int]*algofft.Plan[complex128]

func (p plans) get(n int) (*algofft.Plan[complex128], error) {
	if plan, ok := p[n]; ok {
		return plan, nil
	}

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("vocoder: create FFT plan of size %d: %w", n, err)
	}

	p[n] = plan
	return plan, nil
}

// mirror fills the upper half of a full-length spectrum buffer from the
// one-sided lower half so that its inverse transform is real.
func mirror(buf []complex128) {
	n := len(buf)
	for k := 1; k < n/2; k++ {
		buf[n-k] = cmplx.Conj(buf[k])
	}
}

// minPhase turns a one-sided magnitude spectrum into the complex spectrum of
// the minimum-phase filter with that magnitude, using cepstral folding.
type minPhase struct {
	n    int
	plan *algofft.Plan[complex128]
	buf  []complex128
}

func newMinPhase(p plans, n int) (*minPhase, error) {
	plan, err := p.get(n)
	if err != nil {
		return nil, err
	}
	return &minPhase{n: n, plan: plan, buf: make([]complex128, n)}, nil
}

const logFloor = 1e-12

// spectrum writes the n-point minimum-phase spectrum for mag (n/2+1 bins)
// into dst.
func (m *minPhase) spectrum(mag []float64, dst []complex128) error {
	n := m.n
	half := n / 2

	for k := 0; k <= half; k++ {
		m.buf[k] = complex(math.Log(math.Max(mag[k], logFloor)), 0)
	}
	mirror(m.buf)

	if err := m.plan.Inverse(m.buf, m.buf); err != nil {
		return fmt.Errorf("vocoder: inverse FFT: %w", err)
	}

	// Fold the real cepstrum onto positive quefrencies.
	m.buf[0] = complex(real(m.buf[0]), 0)
	for q := 1; q < half; q++ {
		m.buf[q] = complex(2*real(m.buf[q]), 0)
	}
	m.buf[half] = complex(real(m.buf[half]), 0)
	for q := half + 1; q < n; q++ {
		m.buf[q] = 0
	}

	if err := m.plan.Forward(dst, m.buf); err != nil {
		return fmt.Errorf("vocoder: forward FFT: %w", err)
	}

	for k := range dst {
		dst[k] = cmplx.Exp(dst[k])
	}

	return nil
}
