package signal

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/interp"
)

const (
	testAmplitude = 0.3
	fadeSeconds   = 0.1
)

// Generator creates deterministic test signals from a shared configuration.
type Generator struct {
	cfg  core.ProcessorConfig
	seed int64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Samples converts a duration in seconds to a sample count at the generator rate.
func (g *Generator) Samples(seconds float64) int {
	return int(g.cfg.SampleRate * seconds)
}

// Sine generates a sine wave.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude].
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	out := make([]float64, samples)
	rng := rand.New(rand.NewSource(g.seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out, nil
}

// Sweep generates a linear chirp from startHz to endHz with 100 ms fades at
// both ends.
func (g *Generator) Sweep(startHz, endHz float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sweep samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	phase := 0.0
	for i := range out {
		f := startHz
		if samples > 1 {
			f = interp.Linear2(float64(i)/float64(samples-1), startHz, endHz)
		}
		phase += 2 * math.Pi * f / g.cfg.SampleRate
		out[i] = testAmplitude * math.Sin(phase)
	}

	Fade(out, g.Samples(fadeSeconds))
	return out, nil
}

// Voice generates a vowel-like test tone: nine harmonics of a 200 Hz
// fundamental with 3 Hz vibrato, shaped by resonances at 700, 1200 and
// 2500 Hz.
func (g *Generator) Voice(samples int) ([]float64, error) {
	return g.VoiceWith(200, []float64{700, 1200, 2500}, samples)
}

// VoiceWith generates a harmonic source at f0Hz shaped by resonators at the
// given formant frequencies and normalized to a 0.3 peak.
func (g *Generator) VoiceWith(f0Hz float64, formants []float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("voice samples must be > 0: %d", samples)
	}
	if f0Hz <= 0 {
		return nil, fmt.Errorf("voice f0 must be > 0: %f", f0Hz)
	}

	const (
		harmonics   = 9
		vibratoHz   = 3.0
		vibratoHzPk = 10.0
		formantQ    = 5.0
		dryMix      = 0.2
	)

	fs := g.cfg.SampleRate
	src := make([]float64, samples)
	phase := 0.0
	for i := range src {
		t := float64(i) / fs
		f0 := f0Hz + vibratoHzPk*math.Sin(2*math.Pi*vibratoHz*t)
		phase += 2 * math.Pi * f0 / fs
		for h := 1; h <= harmonics; h++ {
			src[i] += math.Sin(float64(h)*phase) / float64(h)
		}
	}

	out := make([]float64, samples)
	for i, v := range src {
		out[i] = dryMix * v
	}

	for _, f := range formants {
		r := newResonator(f, formantQ, fs)
		for i, v := range src {
			out[i] += r.process(v)
		}
	}

	return Normalize(out, testAmplitude)
}

// Fade applies linear fade-in and fade-out ramps of n samples in place.
func Fade(data []float64, n int) {
	n = min(n, len(data)/2)
	if n <= 1 {
		return
	}
	for i := 0; i < n; i++ {
		gain := float64(i) / float64(n-1)
		data[i] *= gain
		data[len(data)-1-i] *= gain
	}
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = math.Max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
