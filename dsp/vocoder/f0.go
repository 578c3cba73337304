package vocoder

import (
	"fmt"
	"math"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	// Cumulative-mean-normalized difference below which the first dip is
	// accepted as the period.
	yinThreshold = 0.15
	// Frames whose best dip stays above this are unvoiced.
	voicingThreshold = 0.35
	// Frames quieter than this RMS are unvoiced.
	silenceRMS = 1e-4

	refineHarmonics = 6
	// Refined estimates further than this fraction from the coarse one
	// are discarded.
	refineTolerance = 0.1
)

// f0Estimator finds the period of one frame from the cumulative mean
// normalized difference function, computed through FFT cross-correlation.
type f0Estimator struct {
	fs             float64
	floor, ceil    float64
	minLag, maxLag int
	win            int

	plan   *algofft.Plan[complex128]
	a, b   []complex128
	seg    []float64
	energy []float64
	cmnd   []float64
}

func newF0Estimator(p plans, fs, floor, ceil float64) (*f0Estimator, error) {
	maxLag := int(math.Ceil(fs / floor))
	minLag := max(int(math.Floor(fs/ceil)), 2)
	win := maxLag
	total := win + maxLag

	n := core.NextPowerOfTwo(total)

	plan, err := p.get(n)
	if err != nil {
		return nil, err
	}

	return &f0Estimator{
		fs:     fs,
		floor:  floor,
		ceil:   ceil,
		minLag: minLag,
		maxLag: maxLag,
		win:    win,
		plan:   plan,
		a:      make([]complex128, n),
		b:      make([]complex128, n),
		seg:    make([]float64, total),
		energy: make([]float64, total+1),
		cmnd:   make([]float64, maxLag+1),
	}, nil
}

// estimate returns the F0 in Hz of the frame centred on sample center, or 0
// when the frame is silent or aperiodic.
func (e *f0Estimator) estimate(x []float64, center int) (float64, error) {
	total := len(e.seg)
	start := center - total/2
	for j := range e.seg {
		e.seg[j] = sampleAt(x, start+j)
	}

	e.energy[0] = 0
	for j, v := range e.seg {
		e.energy[j+1] = e.energy[j] + v*v
	}

	if math.Sqrt(e.energy[total]/float64(total)) < silenceRMS {
		return 0, nil
	}

	for j := range e.a {
		e.a[j], e.b[j] = 0, 0
		if j < e.win {
			e.a[j] = complex(e.seg[j], 0)
		}
		if j < total {
			e.b[j] = complex(e.seg[j], 0)
		}
	}

	if err := e.plan.Forward(e.a, e.a); err != nil {
		return 0, fmt.Errorf("vocoder: f0 forward FFT: %w", err)
	}
	if err := e.plan.Forward(e.b, e.b); err != nil {
		return 0, fmt.Errorf("vocoder: f0 forward FFT: %w", err)
	}
	for k := range e.a {
		e.a[k] = cmplx.Conj(e.a[k]) * e.b[k]
	}
	if err := e.plan.Inverse(e.a, e.a); err != nil {
		return 0, fmt.Errorf("vocoder: f0 inverse FFT: %w", err)
	}

	e0 := e.energy[e.win]
	e.cmnd[0] = 1
	running := 0.0
	for tau := 1; tau <= e.maxLag; tau++ {
		et := e.energy[tau+e.win] - e.energy[tau]
		d := math.Max(e0+et-2*real(e.a[tau]), 0)
		running += d
		if running > 0 {
			e.cmnd[tau] = d * float64(tau) / running
		} else {
			e.cmnd[tau] = 1
		}
	}

	tau := -1
	for t := e.minLag; t < e.maxLag; t++ {
		if e.cmnd[t] < yinThreshold {
			for t+1 <= e.maxLag && e.cmnd[t+1] < e.cmnd[t] {
				t++
			}
			tau = t
			break
		}
	}

	if tau < 0 {
		tau = e.minLag
		for t := e.minLag; t <= e.maxLag; t++ {
			if e.cmnd[t] < e.cmnd[tau] {
				tau = t
			}
		}
		if e.cmnd[tau] >= voicingThreshold {
			return 0, nil
		}
	}

	period := float64(tau)
	if tau > 1 && tau < e.maxLag {
		y0, y1, y2 := e.cmnd[tau-1], e.cmnd[tau], e.cmnd[tau+1]
		if den := y0 - 2*y1 + y2; den > 0 {
			if shift := 0.5 * (y0 - y2) / den; math.Abs(shift) < 1 {
				period += shift
			}
		}
	}

	f0 := e.fs / period
	if f0 < e.floor || f0 > e.ceil {
		return 0, nil
	}

	return f0, nil
}

// refineF0 re-estimates f0 from the phase advance over one sample of the
// first harmonics under a 3-period Blackman window, weighting each harmonic
// by its magnitude.
func refineF0(x []float64, center int, f0, fs float64) float64 {
	if f0 <= 0 {
		return 0
	}

	half := int(1.5 * fs / f0)
	w := window.Generate(window.TypeBlackman, 2*half+1)
	start := center - half

	var num, den float64
	for h := 1; h <= refineHarmonics; h++ {
		fh := float64(h) * f0
		if fh > 0.45*fs {
			break
		}

		rot := cmplx.Exp(complex(0, -2*math.Pi*fh/fs))
		z := complex(1, 0)

		var x0, x1 complex128
		for j, wj := range w {
			x0 += complex(wj*sampleAt(x, start+j), 0) * z
			x1 += complex(wj*sampleAt(x, start+j+1), 0) * z
			z *= rot
		}

		amp := cmplx.Abs(x0)
		if amp == 0 {
			continue
		}

		inst := cmplx.Phase(x1*cmplx.Conj(x0)) * fs / (2 * math.Pi)
		num += amp * inst
		den += amp * float64(h)
	}

	if den == 0 {
		return f0
	}

	refined := num / den
	if math.IsNaN(refined) || math.Abs(refined-f0) > refineTolerance*f0 {
		return f0
	}

	return refined
}

func sampleAt(x []float64, i int) float64 {
	if i < 0 || i >= len(x) {
		return 0
	}
	return x[i]
}
