package spectrum

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/window"
)

// ErrEmptyInput is returned when a peak search gets no samples.
var ErrEmptyInput = errors.New("spectrum: empty input")

// PeakFrequency returns the frequency in Hz of the strongest spectral peak
// of x, refined by parabolic interpolation over log magnitudes. Bins below
// minHz are ignored. The signal is Hann-windowed and zero-padded to the
// next power of two.
func PeakFrequency(x []float64, sampleRate, minHz float64) (float64, error) {
	if len(x) == 0 {
		return 0, ErrEmptyInput
	}

	if sampleRate <= 0 {
		return 0, fmt.Errorf("spectrum: sample rate must be > 0: %f", sampleRate)
	}

	n := core.NextPowerOfTwo(len(x))

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return 0, fmt.Errorf("spectrum: create FFT plan: %w", err)
	}

	w := window.Generate(window.TypeHann, len(x))
	buf := make([]complex128, n)
	for i, v := range x {
		buf[i] = complex(v*w[i], 0)
	}

	if err := plan.Forward(buf, buf); err != nil {
		return 0, fmt.Errorf("spectrum: forward FFT: %w", err)
	}

	mag := Magnitude(buf[:n/2+1])

	lo := int(minHz * float64(n) / sampleRate)
	lo = max(lo, 1)

	best := -1
	for k := lo; k < len(mag)-1; k++ {
		if best < 0 || mag[k] > mag[best] {
			best = k
		}
	}

	if best < 0 {
		return 0, nil
	}

	a := core.LinearToDB(mag[best-1] + 1e-300)
	b := core.LinearToDB(mag[best] + 1e-300)
	c := core.LinearToDB(mag[best+1] + 1e-300)

	offset := 0.0
	if den := a - 2*b + c; den != 0 {
		offset = 0.5 * (a - c) / den
	}

	return (float64(best) + offset) * sampleRate / float64(n), nil
}
