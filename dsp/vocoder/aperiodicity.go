package vocoder

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-voice/dsp/buffer"
	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/interp"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	apFloor = 0.001
	// Bands weaker than this fraction of the strongest band carry no usable
	// periodicity evidence and inherit the strongest band's value.
	apEnergyGate = 1e-4
	// Fraction of band energy that falls outside the harmonic lobe for
	// white noise; the residual is normalised by it.
	apNoiseResidual = 1.0 / 3
)

// aperiodicityEstimator measures, per harmonic band, how much energy lies
// outside the harmonic peak under a 6-period Hann window, and interpolates
// the band values onto the envelope bin grid.
type aperiodicityEstimator struct {
	fs      float64
	n       int
	envBins int
	envFFT  int

	plan  *algofft.Plan[complex128]
	frame *buffer.Frame

	seg     []float64
	power   []float64
	centers []float64
	values  []float64
	energy  []float64
}

func newAperiodicityEstimator(p plans, pool *buffer.Pool, fs, f0Floor float64, envFFT int) (*aperiodicityEstimator, error) {
	n := core.NextPowerOfTwo(int(6*fs/f0Floor) + 1)

	plan, err := p.get(n)
	if err != nil {
		return nil, err
	}

	return &aperiodicityEstimator{
		fs:      fs,
		n:       n,
		envBins: envFFT/2 + 1,
		envFFT:  envFFT,
		plan:    plan,
		frame:   pool.Get(n),
		seg:     make([]float64, n),
		power:   make([]float64, n/2+1),
	}, nil
}

func (e *aperiodicityEstimator) release(pool *buffer.Pool) {
	pool.Put(e.frame)
	e.frame = nil
}

// estimate writes the aperiodicity of the frame centred on center into out
// (envBins entries). Unvoiced frames are fully aperiodic.
func (e *aperiodicityEstimator) estimate(x []float64, center int, f0 float64, out []float64) error {
	if f0 <= 0 {
		for k := range out {
			out[k] = 1
		}
		return nil
	}

	half := int(math.Round(3 * e.fs / f0))
	length := min(2*half+1, e.n)
	half = length / 2

	w := window.Generate(window.TypeHann, length)
	seg := e.seg[:length]
	for j := range seg {
		seg[j] = sampleAt(x, center-half+j) * w[j]
	}

	e.frame.Load(seg)
	spec := e.frame.Time()
	if err := e.plan.Forward(spec, spec); err != nil {
		return fmt.Errorf("vocoder: aperiodicity forward FFT: %w", err)
	}
	spectrum.PowerInto(e.power, spec)

	e.bands(f0)

	if len(e.centers) == 0 {
		for k := range out {
			out[k] = 1
		}
		return nil
	}

	for k := range out {
		f := spectrum.BinFrequency(k, e.envFFT, e.fs)
		out[k] = interp.Linear(f, e.centers, e.values)
	}

	return nil
}

// bands fills centers and values with one aperiodicity value per harmonic.
func (e *aperiodicityEstimator) bands(f0 float64) {
	df := e.fs / float64(e.n)
	last := len(e.power) - 1

	e.centers = e.centers[:0]
	e.values = e.values[:0]
	e.energy = e.energy[:0]

	strongest := -1
	for h := 1; (float64(h)+0.5)*f0 <= e.fs/2; h++ {
		fc := float64(h) * f0
		kLo := max(int(math.Ceil((fc-f0/2)/df)), 0)
		kHi := min(int(math.Floor((fc+f0/2)/df)), last)
		if kHi <= kLo {
			continue
		}

		total := 0.0
		for k := kLo; k <= kHi; k++ {
			total += e.power[k]
		}

		peak := min(max(int(math.Round(fc/df)), kLo), kHi)
		pLo := max(int(math.Round((fc-f0/6)/df)), kLo)
		pHi := min(int(math.Round((fc+f0/6)/df)), kHi)
		for k := pLo; k <= pHi; k++ {
			if e.power[k] > e.power[peak] {
				peak = k
			}
		}

		lobe := 0.0
		lobeBins := int(math.Round(f0 / 3 / df))
		for k := max(peak-lobeBins, kLo); k <= min(peak+lobeBins, kHi); k++ {
			lobe += e.power[k]
		}

		value := 1.0
		if total > 0 {
			residual := math.Max(total-lobe, 0) / total
			value = math.Sqrt(core.Clamp(residual/apNoiseResidual, 0, 1))
		}

		e.centers = append(e.centers, fc)
		e.values = append(e.values, math.Max(value, apFloor))
		e.energy = append(e.energy, total)

		if strongest < 0 || total > e.energy[strongest] {
			strongest = len(e.energy) - 1
		}
	}

	if strongest < 0 {
		return
	}

	gate := apEnergyGate * e.energy[strongest]
	for i, en := range e.energy {
		if en < gate {
			e.values[i] = e.values[strongest]
		}
	}
}
