//nolint:funcorder
package vocoder

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"github.com/cwbudde/algo-voice/dsp/buffer"
	timestats "github.com/cwbudde/algo-voice/stats/time"
)

const (
	defaultFramePeriod = 0.005
	defaultF0Floor     = 71.0
	defaultF0Ceil      = 800.0
	defaultSeed        = 1
	// Upper bound for the output level compensation gain.
	maxOutputGain = 100.0
)

// Option configures a Vocoder.
type Option func(*config) error

type config struct {
	framePeriod float64
	f0Floor     float64
	f0Ceil      float64
	workers     int
	seed        int64
}

func defaultConfig() config {
	return config{
		framePeriod: defaultFramePeriod,
		f0Floor:     defaultF0Floor,
		f0Ceil:      defaultF0Ceil,
		workers:     runtime.GOMAXPROCS(0),
		seed:        defaultSeed,
	}
}

// WithFramePeriod sets the analysis hop in milliseconds.
func WithFramePeriod(ms float64) Option {
	return func(c *config) error {
		if !(ms > 0) || math.IsInf(ms, 0) {
			return fmt.Errorf("vocoder: frame period must be > 0: %f", ms)
		}
		c.framePeriod = ms / 1000
		return nil
	}
}

// WithF0Range sets the F0 search range in Hz.
func WithF0Range(floor, ceil float64) Option {
	return func(c *config) error {
		if !(floor > 0) || !(ceil > floor) {
			return fmt.Errorf("vocoder: invalid f0 range [%f, %f]", floor, ceil)
		}
		c.f0Floor, c.f0Ceil = floor, ceil
		return nil
	}
}

// WithWorkers sets the number of goroutines that analyse frames.
func WithWorkers(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return fmt.Errorf("vocoder: workers must be >= 1: %d", n)
		}
		c.workers = n
		return nil
	}
}

// WithSeed sets the seed of the synthesis noise source.
func WithSeed(seed int64) Option {
	return func(c *config) error {
		c.seed = seed
		return nil
	}
}

// Vocoder analyses and resynthesises mono signals.
type Vocoder struct {
	cfg  config
	pool *buffer.Pool
}

// New creates a Vocoder with the given options.
func New(opts ...Option) (*Vocoder, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	return &Vocoder{cfg: cfg, pool: buffer.NewPool()}, nil
}

// FramePeriod returns the analysis hop in seconds.
func (v *Vocoder) FramePeriod() float64 {
	return v.cfg.framePeriod
}

// Analyze decomposes x, sampled at sampleRate, into F0, envelope and
// aperiodicity tracks.
func (v *Vocoder) Analyze(x []float64, sampleRate int) (*Analysis, error) {
	if len(x) == 0 {
		return nil, ErrEmptySignal
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	fs := float64(sampleRate)
	if v.cfg.f0Ceil >= fs/2 {
		return nil, fmt.Errorf("%w: %d Hz is too low for an f0 ceiling of %.0f Hz",
			ErrInvalidSampleRate, sampleRate, v.cfg.f0Ceil)
	}

	frames := frameCount(len(x), fs, v.cfg.framePeriod)
	fftSize := envelopeFFTSize(fs, v.cfg.f0Floor)
	bins := fftSize/2 + 1

	a := &Analysis{
		F0:           make([]float64, frames),
		Envelope:     make([][]float64, frames),
		Aperiodicity: make([][]float64, frames),
		TimeAxis:     make([]float64, frames),
		SampleRate:   sampleRate,
		FFTSize:      fftSize,
		FramePeriod:  v.cfg.framePeriod,
		RMS:          timestats.RMS(x),
	}

	for i := range a.TimeAxis {
		a.TimeAxis[i] = float64(i) * v.cfg.framePeriod
		a.Envelope[i] = make([]float64, bins)
		a.Aperiodicity[i] = make([]float64, bins)
	}

	workers := min(v.cfg.workers, frames)
	errs := make([]error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			errs[w] = v.analyzeFrames(x, a, w, workers)
		}(w)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return a, nil
}

// analyzeFrames processes frames first, first+stride, ... with its own plans
// and scratch.
func (v *Vocoder) analyzeFrames(x []float64, a *Analysis, first, stride int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("vocoder: analysis panic: %v", r)
		}
	}()

	fs := float64(a.SampleRate)
	p := plans{}

	f0e, err := newF0Estimator(p, fs, v.cfg.f0Floor, v.cfg.f0Ceil)
	if err != nil {
		return err
	}

	enve, err := newEnvelopeEstimator(p, v.pool, fs, v.cfg.f0Floor)
	if err != nil {
		return err
	}
	defer enve.release(v.pool)

	ape, err := newAperiodicityEstimator(p, v.pool, fs, v.cfg.f0Floor, a.FFTSize)
	if err != nil {
		return err
	}
	defer ape.release(v.pool)

	for i := first; i < a.Frames(); i += stride {
		center := int(math.Round(a.TimeAxis[i] * fs))

		f0, err := f0e.estimate(x, center)
		if err != nil {
			return err
		}

		if f0 > 0 {
			f0 = refineF0(x, center, f0, fs)
			if f0 < v.cfg.f0Floor || f0 > v.cfg.f0Ceil {
				f0 = 0
			}
		}
		a.F0[i] = f0

		if err := enve.estimate(x, center, f0, a.Envelope[i]); err != nil {
			return err
		}

		if err := ape.estimate(x, center, f0, a.Aperiodicity[i]); err != nil {
			return err
		}
	}

	return nil
}
