package voice

import (
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/cwbudde/algo-voice/dsp/core"
	"github.com/cwbudde/algo-voice/dsp/vocoder"
)

// Vocoder analyses and resynthesises mono signals.
type Vocoder interface {
	Analyze(x []float64, sampleRate int) (*vocoder.Analysis, error)
	Synthesize(a *vocoder.Analysis) ([]float64, error)
}

// Option configures an Engine.
type Option func(*config)

type config struct {
	sampleRate int
	vocoder    Vocoder
	logger     *log.Logger
}

func defaultConfig() config {
	return config{sampleRate: core.DefaultSampleRate}
}

// WithSampleRate sets the working sample rate. Loaded audio is resampled to
// it. Non-positive values are ignored.
func WithSampleRate(sampleRate int) Option {
	return func(c *config) {
		if sampleRate > 0 {
			c.sampleRate = sampleRate
		}
	}
}

// WithVocoder replaces the default vocoder.
func WithVocoder(v Vocoder) Option {
	return func(c *config) {
		if v != nil {
			c.vocoder = v
		}
	}
}

// WithLogger sets the logger. The default is log.Default().
func WithLogger(l *log.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Engine owns a loaded clip, its analysis, the transform parameters and the
// processed-audio cache. All methods are safe for concurrent use.
//
// Lock order is paramMu before cache.mu. renderMu serialises renders and is
// never taken while holding either of them.
type Engine struct {
	log        *log.Logger
	vocoder    Vocoder
	sampleRate int

	paramMu  sync.RWMutex
	params   Parameters
	bypass   bool
	original []float64
	analysis *vocoder.Analysis

	cache    processedCache
	renderMu sync.Mutex
	renders  atomic.Int64
}

// New returns an Engine with default parameters and no audio.
func New(opts ...Option) *Engine {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.logger == nil {
		cfg.logger = log.Default()
	}

	if cfg.vocoder == nil {
		v, err := vocoder.New()
		if err != nil {
			panic(err)
		}
		cfg.vocoder = v
	}

	return &Engine{
		log:        cfg.logger,
		vocoder:    cfg.vocoder,
		sampleRate: cfg.sampleRate,
		params:     DefaultParameters(),
	}
}

// SampleRate returns the working sample rate.
func (e *Engine) SampleRate() int {
	return e.sampleRate
}

// HasAudio reports whether a clip is loaded.
func (e *Engine) HasAudio() bool {
	e.paramMu.RLock()
	defer e.paramMu.RUnlock()

	return len(e.original) > 0
}

// Duration returns the length of the loaded clip in seconds, or 0.
func (e *Engine) Duration() float64 {
	e.paramMu.RLock()
	defer e.paramMu.RUnlock()

	return float64(len(e.original)) / float64(e.sampleRate)
}

// Original returns the loaded mono clip at the working rate. The slice is
// shared and must not be modified.
func (e *Engine) Original() []float64 {
	e.paramMu.RLock()
	defer e.paramMu.RUnlock()

	return e.original
}

// Analysis returns the analysis of the loaded clip, or nil. It is shared and
// must not be modified.
func (e *Engine) Analysis() *vocoder.Analysis {
	e.paramMu.RLock()
	defer e.paramMu.RUnlock()

	return e.analysis
}

// Parameters returns the current transform parameters.
func (e *Engine) Parameters() Parameters {
	e.paramMu.RLock()
	defer e.paramMu.RUnlock()

	return e.params
}

// Bypass reports whether bypass is on.
func (e *Engine) Bypass() bool {
	e.paramMu.RLock()
	defer e.paramMu.RUnlock()

	return e.bypass
}

// SetF0Ratio sets the F0 ratio, clamped to [MinRatio, MaxRatio].
func (e *Engine) SetF0Ratio(r float64) {
	r = ClampRatio(r)

	e.paramMu.Lock()
	defer e.paramMu.Unlock()

	if e.params.F0Ratio == r {
		return
	}

	e.params.F0Ratio = r
	e.invalidateLocked()
}

// SetFormantRatio sets the ratio of f, clamped to [MinRatio, MaxRatio].
// With link on all three ratios take the value. Unknown formants are
// ignored.
func (e *Engine) SetFormantRatio(f Formant, r float64) {
	if f < F1 || f > F3 {
		return
	}
	r = ClampRatio(r)

	e.paramMu.Lock()
	defer e.paramMu.Unlock()

	if e.params.Formants.Get(f) == r {
		return
	}

	if e.params.FormantLink {
		e.params.Formants = FormantRatios{F1: r, F2: r, F3: r}
	} else {
		e.params.Formants.set(f, r)
	}
	e.invalidateLocked()
}

// SetFormantLink turns link mode on or off. Turning it on copies F1 to F2
// and F3; turning it off keeps the current ratios.
func (e *Engine) SetFormantLink(enabled bool) {
	e.paramMu.Lock()
	defer e.paramMu.Unlock()

	if e.params.FormantLink == enabled {
		return
	}

	e.params.FormantLink = enabled
	if enabled {
		f1 := e.params.Formants.F1
		e.params.Formants.F2, e.params.Formants.F3 = f1, f1
	}
	e.invalidateLocked()
}

// SetBypass turns bypass on or off. In bypass ProcessedAudio returns the
// original clip.
func (e *Engine) SetBypass(enabled bool) {
	e.paramMu.Lock()
	defer e.paramMu.Unlock()

	if e.bypass == enabled {
		return
	}

	e.bypass = enabled
	e.invalidateLocked()
}

// SetParameters applies the fields present in u with the same clamp and
// link rules as the single setters. The cache is invalidated only when a
// stored value changes.
func (e *Engine) SetParameters(u ParameterUpdate) {
	e.paramMu.Lock()
	defer e.paramMu.Unlock()

	next := e.params.apply(u)
	bypass := e.bypass
	if u.Bypass != nil {
		bypass = *u.Bypass
	}

	if next == e.params && bypass == e.bypass {
		return
	}

	e.params, e.bypass = next, bypass
	e.invalidateLocked()
}

// invalidateLocked drops the cached render. Callers hold paramMu for writing.
func (e *Engine) invalidateLocked() {
	e.cache.invalidate()
}
