package vocoder

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-voice/dsp/buffer"
	"github.com/cwbudde/algo-voice/dsp/interp"
	"github.com/cwbudde/algo-voice/dsp/spectrum"
	"github.com/cwbudde/algo-voice/dsp/window"
)

const (
	// F0 assumed for unvoiced frames by the envelope and by synthesis.
	defaultUnvoicedF0 = 500.0
	// Compensation lifter coefficient.
	lifterQ1 = -0.15
	// Added to the power spectrum before taking logs.
	powerFloor = 1e-16
)

// envelopeFFTSize returns the FFT size that fits a 3-period window at
// the lowest F0.
func envelopeFFTSize(fs, f0Floor float64) int {
	return 1 << (1 + int(math.Log2(3*fs/f0Floor+1)))
}

// envelopeEstimator computes the pitch-adaptive spectral envelope of one
// frame: power spectrum under a 3-period Hann window, linear smoothing over
// 2/3 of F0, then cepstral liftering.
type envelopeEstimator struct {
	fs      float64
	f0Floor float64
	n       int

	plan  *algofft.Plan[complex128]
	frame *buffer.Frame

	seg      []float64
	power    []float64
	extended []float64
	cum      []float64
}

func newEnvelopeEstimator(p plans, pool *buffer.Pool, fs, f0Floor float64) (*envelopeEstimator, error) {
	n := envelopeFFTSize(fs, f0Floor)

	plan, err := p.get(n)
	if err != nil {
		return nil, err
	}

	return &envelopeEstimator{
		fs:      fs,
		f0Floor: f0Floor,
		n:       n,
		plan:    plan,
		frame:   pool.Get(n),
		seg:     make([]float64, 0, n),
		power:   make([]float64, n/2+1),
	}, nil
}

func (e *envelopeEstimator) release(pool *buffer.Pool) {
	pool.Put(e.frame)
	e.frame = nil
}

// estimate writes the envelope magnitude of the frame centred on center
// into out, which must have n/2+1 bins.
func (e *envelopeEstimator) estimate(x []float64, center int, f0 float64, out []float64) error {
	if f0 <= 0 {
		f0 = defaultUnvoicedF0
	}
	f0 = math.Max(f0, e.f0Floor)

	half := int(math.Round(1.5 * e.fs / f0))
	length := min(2*half+1, e.n)
	half = length / 2

	w := window.Generate(window.TypeHann, length, window.WithUnitEnergy())

	// Remove the weighted mean so that DC does not leak into low bins.
	e.seg = e.seg[:length]
	var sxw, sw float64
	for j := range e.seg {
		e.seg[j] = sampleAt(x, center-half+j)
		sxw += e.seg[j] * w[j]
		sw += w[j]
	}
	mean := 0.0
	if sw > 0 {
		mean = sxw / sw
	}
	for j := range e.seg {
		e.seg[j] = (e.seg[j] - mean) * w[j]
	}

	e.frame.Load(e.seg)
	spec := e.frame.Time()

	if err := e.plan.Forward(spec, spec); err != nil {
		return fmt.Errorf("vocoder: envelope forward FFT: %w", err)
	}

	spectrum.PowerInto(e.power, spec)
	e.smooth(f0)

	return e.lifter(f0, out)
}

// smooth replaces power with its moving average over a 2*f0/3 wide
// rectangular window, mirroring at DC and Nyquist.
func (e *envelopeEstimator) smooth(f0 float64) {
	bins := len(e.power)
	width := (2 * f0 / 3) * float64(e.n) / e.fs
	if width <= 0 {
		return
	}

	pad := int(width) + 2
	size := bins + 2*pad

	if cap(e.extended) < size {
		e.extended = make([]float64, size)
		e.cum = make([]float64, size+1)
	}
	e.extended = e.extended[:size]
	e.cum = e.cum[:size+1]

	for j := range e.extended {
		e.extended[j] = e.power[mirrorIndex(j-pad, bins)]
	}

	e.cum[0] = 0
	for j, v := range e.extended {
		e.cum[j+1] = e.cum[j] + v
	}

	// cum[j] integrates the extended spectrum up to the left edge of bin j,
	// i.e. to position j-0.5.
	for k := 0; k < bins; k++ {
		c := float64(k+pad) + 0.5
		hi := interp.At(e.cum, c+width/2)
		lo := interp.At(e.cum, c-width/2)
		e.power[k] = math.Max((hi-lo)/width, 0) + powerFloor
	}
}

// lifter smooths the log power spectrum in the quefrency domain with a sinc
// lifter, sharpens it with a cosine compensation lifter and writes the
// resulting magnitude to out.
func (e *envelopeEstimator) lifter(f0 float64, out []float64) error {
	buf := e.frame.Freq()
	half := e.n / 2

	for k := 0; k <= half; k++ {
		buf[k] = complex(math.Log(e.power[k]), 0)
	}
	mirror(buf)

	if err := e.plan.Inverse(buf, buf); err != nil {
		return fmt.Errorf("vocoder: envelope inverse FFT: %w", err)
	}

	for q := 0; q < e.n; q++ {
		quef := float64(min(q, e.n-q)) / e.fs
		buf[q] = complex(real(buf[q])*lifterWeight(quef, f0), 0)
	}

	if err := e.plan.Forward(buf, buf); err != nil {
		return fmt.Errorf("vocoder: envelope forward FFT: %w", err)
	}

	for k := 0; k <= half; k++ {
		// exp(logPower/2) is the magnitude.
		out[k] = math.Exp(real(buf[k]) / 2)
	}

	return nil
}

func lifterWeight(quef, f0 float64) float64 {
	if quef == 0 {
		return 1
	}
	arg := math.Pi * f0 * quef
	smoothing := math.Sin(arg) / arg
	recovery := (1 - 2*lifterQ1) + 2*lifterQ1*math.Cos(2*arg)
	return smoothing * recovery
}

// mirrorIndex reflects i into [0, n) around the first and last bin.
func mirrorIndex(i, n int) int {
	if n == 1 {
		return 0
	}
	period := 2 * (n - 1)
	i %= period
	if i < 0 {
		i += period
	}
	if i >= n {
		i = period - i
	}
	return i
}
