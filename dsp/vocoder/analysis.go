package vocoder

import (
	"fmt"
	"math"
)

// Analysis is the frame-wise decomposition of a signal.
//
// F0, Envelope, Aperiodicity and TimeAxis all have Frames() entries.
// Envelope and Aperiodicity rows have FFTSize/2+1 bins spanning DC to
// Nyquist. Envelope holds magnitudes, Aperiodicity amplitude ratios.
type Analysis struct {
	F0           []float64
	Envelope     [][]float64
	Aperiodicity [][]float64
	TimeAxis     []float64

	SampleRate  int
	FFTSize     int
	FramePeriod float64 // seconds

	// RMS of the analysed signal. Synthesis matches its output level to it.
	RMS float64
}

// Frames returns the number of analysis frames.
func (a *Analysis) Frames() int {
	if a == nil {
		return 0
	}
	return len(a.F0)
}

// Bins returns the number of frequency bins per frame.
func (a *Analysis) Bins() int {
	if a == nil {
		return 0
	}
	return a.FFTSize/2 + 1
}

// Duration returns the time of the last frame in seconds.
func (a *Analysis) Duration() float64 {
	if a.Frames() == 0 {
		return 0
	}
	return float64(a.Frames()-1) * a.FramePeriod
}

// OutputLength returns the number of samples Synthesize produces.
func (a *Analysis) OutputLength() int {
	if a.Frames() == 0 || a.SampleRate <= 0 {
		return 0
	}
	// The epsilon keeps exact frame multiples from rounding down.
	return int(a.Duration()*float64(a.SampleRate)+1e-9) + 1
}

// VoicedRatio returns the fraction of frames with a non-zero F0.
func (a *Analysis) VoicedRatio() float64 {
	n := a.Frames()
	if n == 0 {
		return 0
	}
	voiced := 0
	for _, f := range a.F0 {
		if f > 0 {
			voiced++
		}
	}
	return float64(voiced) / float64(n)
}

// Validate checks the shape invariants.
func (a *Analysis) Validate() error {
	if a == nil {
		return fmt.Errorf("%w: nil analysis", ErrShapeMismatch)
	}

	if a.SampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, a.SampleRate)
	}

	if a.FramePeriod <= 0 || math.IsNaN(a.FramePeriod) {
		return fmt.Errorf("%w: frame period %v", ErrShapeMismatch, a.FramePeriod)
	}

	n := len(a.F0)
	if n == 0 {
		return ErrEmptySignal
	}

	if len(a.Envelope) != n || len(a.Aperiodicity) != n || len(a.TimeAxis) != n {
		return fmt.Errorf("%w: f0=%d envelope=%d aperiodicity=%d time=%d",
			ErrShapeMismatch, n, len(a.Envelope), len(a.Aperiodicity), len(a.TimeAxis))
	}

	bins := a.Bins()
	for i := 0; i < n; i++ {
		if len(a.Envelope[i]) != bins || len(a.Aperiodicity[i]) != bins {
			return fmt.Errorf("%w: frame %d has %d/%d bins, want %d",
				ErrShapeMismatch, i, len(a.Envelope[i]), len(a.Aperiodicity[i]), bins)
		}
	}

	return nil
}

// Clone returns a deep copy.
func (a *Analysis) Clone() *Analysis {
	if a == nil {
		return nil
	}

	out := *a
	out.F0 = append([]float64(nil), a.F0...)
	out.TimeAxis = append([]float64(nil), a.TimeAxis...)
	out.Envelope = cloneGrid(a.Envelope)
	out.Aperiodicity = cloneGrid(a.Aperiodicity)

	return &out
}

// WithF0 returns a shallow copy sharing the envelope and aperiodicity grids
// but carrying its own F0 track.
func (a *Analysis) WithF0(f0 []float64) *Analysis {
	out := *a
	out.F0 = f0
	return &out
}

// WithEnvelope returns a shallow copy carrying its own envelope grid.
func (a *Analysis) WithEnvelope(env [][]float64) *Analysis {
	out := *a
	out.Envelope = env
	return &out
}

func cloneGrid(g [][]float64) [][]float64 {
	out := make([][]float64, len(g))
	for i, row := range g {
		out[i] = append([]float64(nil), row...)
	}
	return out
}

// frameCount returns the number of frames covering n samples.
func frameCount(n int, sampleRate, framePeriod float64) int {
	return int(float64(n)/sampleRate/framePeriod+1e-9) + 1
}
